package autopilot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/talgya/echo-chamber/internal/engine"
	"github.com/talgya/echo-chamber/internal/feed"
)

// MoveResult is the response from a curation POST.
type MoveResult struct {
	Decision   engine.Decision `json:"decision"`
	Engagement float64         `json:"engagement"`
	Mood       float64         `json:"mood"`
}

// Actor executes moves via the curation API.
type Actor struct {
	BaseURL    string
	AdminKey   string
	HTTPClient *http.Client
}

// NewActor creates an Actor targeting the given API base URL. The admin
// key is only sent on restart.
func NewActor(baseURL, adminKey string) *Actor {
	return &Actor{
		BaseURL:  baseURL,
		AdminKey: adminKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Act sends a move to POST /api/v1/{action}.
func (a *Actor) Act(m *Move) (*MoveResult, error) {
	body, err := json.Marshal(map[string]string{"post_id": m.PostID})
	if err != nil {
		return nil, fmt.Errorf("marshal move: %w", err)
	}

	respBody, err := a.post("/api/v1/"+string(m.Action), body, false)
	if err != nil {
		return nil, err
	}

	var result MoveResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

// Restart starts a fresh session.
func (a *Actor) Restart() error {
	_, err := a.post("/api/v1/restart", nil, true)
	return err
}

func (a *Actor) post(path string, body []byte, admin bool) ([]byte, error) {
	req, err := http.NewRequest(http.MethodPost, a.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if admin && a.AdminKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.AdminKey)
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("POST %s failed (%d): %s", path, resp.StatusCode, bytes.TrimSpace(respBody))
	}
	return respBody, nil
}

// actions the server accepts, for guardrails.
var actions = map[feed.Action]bool{
	feed.ActionBoost:  true,
	feed.ActionHide:   true,
	feed.ActionIgnore: true,
}
