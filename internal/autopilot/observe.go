// Package autopilot plays Echo Chamber against a running server. It
// observes the session via the API, picks a curation move with a
// rule-based strategy, and acts via the curation endpoints.
package autopilot

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/talgya/echo-chamber/internal/engine"
)

// Snapshot holds all data collected during an observation cycle.
type Snapshot struct {
	Status Status            `json:"status"`
	Posts  []engine.PostView `json:"posts"`
}

// Status mirrors GET /api/v1/status.
type Status struct {
	SessionID      string               `json:"session_id"`
	Day            int                  `json:"day"`
	MaxDays        int                  `json:"max_days"`
	Engagement     float64              `json:"engagement"`
	Mood           float64              `json:"mood"`
	Bias           engine.PoliticalBias `json:"political_bias"`
	Pending        bool                 `json:"pending"`
	Ended          bool                 `json:"ended"`
	ActiveProtests int                  `json:"active_protests"`
	Ending         *engine.Ending       `json:"ending,omitempty"`
	FinalDays      int                  `json:"final_days,omitempty"`
}

// Observer fetches session state from the API.
type Observer struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewObserver creates an Observer targeting the given API base URL.
func NewObserver(baseURL string) *Observer {
	return &Observer{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Observe fetches status and, while the session is live, today's posts.
func (o *Observer) Observe() (*Snapshot, error) {
	snap := &Snapshot{}

	if err := o.fetchJSON("/api/v1/status", &snap.Status); err != nil {
		return nil, fmt.Errorf("fetch status: %w", err)
	}
	if snap.Status.Ended {
		return snap, nil
	}
	if err := o.fetchJSON("/api/v1/posts", &snap.Posts); err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}

	return snap, nil
}

// fetchJSON GETs a path and decodes the JSON response into target.
func (o *Observer) fetchJSON(path string, target any) error {
	resp, err := o.HTTPClient.Get(o.BaseURL + path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s returned %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
