package autopilot

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/talgya/echo-chamber/internal/engine"
	"github.com/talgya/echo-chamber/internal/feed"
)

// Move is one curation decision the autopilot wants to make.
type Move struct {
	Action    feed.Action `json:"action"`
	PostID    string      `json:"post_id"`
	Rationale string      `json:"rationale"`
}

// ErrNoMove means there is nothing to do this cycle.
var ErrNoMove = errors.New("no move available")

// ParseGoal maps a goal name to the ending the autopilot steers toward.
func ParseGoal(s string) (engine.EndingKind, error) {
	switch g := engine.EndingKind(strings.ToLower(strings.TrimSpace(s))); g {
	case engine.EndingHarmony, engine.EndingChaos, engine.EndingSurveillance,
		engine.EndingGhostTown, engine.EndingMediocre:
		return g, nil
	}
	return "", fmt.Errorf("unknown goal %q (use: harmony, chaos, surveillance, ghost_town, mediocre)", s)
}

// Decide picks a move that pushes the session toward goal. It returns
// ErrNoMove while a decision is pending or after the session has ended.
func Decide(goal engine.EndingKind, snap *Snapshot) (*Move, error) {
	if snap.Status.Ended || snap.Status.Pending || len(snap.Posts) == 0 {
		return nil, ErrNoMove
	}

	var m *Move
	if !tonesVisible(snap.Posts) {
		// Without tone labels every post looks alike; ignoring is the
		// cheapest move for every goal but ghost town.
		m = &Move{Action: feed.ActionIgnore, PostID: snap.Posts[0].ID, Rationale: "tone hidden"}
		if goal == engine.EndingGhostTown {
			m.Action = feed.ActionHide
		}
	} else {
		m = decideFor(goal, snap)
	}

	if err := enforceGuardrails(m, snap); err != nil {
		return nil, fmt.Errorf("guardrail violation: %w", err)
	}
	return m, nil
}

func decideFor(goal engine.EndingKind, snap *Snapshot) *Move {
	posts := snap.Posts
	switch goal {
	case engine.EndingHarmony:
		if p, ok := strongest(posts, byTone(feed.TonePositive)); ok {
			return &Move{feed.ActionBoost, p.ID, "boost good news"}
		}
		if p, ok := strongest(posts, byTone(feed.ToneNeutral)); ok {
			return &Move{feed.ActionBoost, p.ID, "boost filler to keep engagement up"}
		}
		return &Move{feed.ActionIgnore, posts[0].ID, "nothing worth amplifying"}

	case engine.EndingChaos:
		if p, ok := strongest(posts, byTone(feed.ToneNegative)); ok {
			return &Move{feed.ActionBoost, p.ID, "boost outrage"}
		}
		if snap.Status.Engagement < 55 {
			if p, ok := strongest(posts, byTone(feed.ToneNeutral)); ok {
				return &Move{feed.ActionBoost, p.ID, "hold engagement for the collapse"}
			}
		}
		return &Move{feed.ActionHide, posts[0].ID, "suppress and sour the mood"}

	case engine.EndingSurveillance:
		if p, ok := strongest(posts, func(p engine.PostView) bool {
			return p.Topic == feed.TopicPolitics && p.Tone == feed.TonePositive
		}); ok {
			return &Move{feed.ActionBoost, p.ID, "tilt the political feed"}
		}
		return &Move{feed.ActionIgnore, posts[0].ID, "wait for politics"}

	case engine.EndingGhostTown:
		return &Move{feed.ActionHide, posts[0].ID, "drive users away"}

	default:
		return &Move{feed.ActionIgnore, posts[0].ID, "stay in the middle"}
	}
}

func byTone(t feed.Tone) func(engine.PostView) bool {
	return func(p engine.PostView) bool { return p.Tone == t }
}

// strongest returns the highest-intensity post matching keep.
func strongest(posts []engine.PostView, keep func(engine.PostView) bool) (engine.PostView, bool) {
	var best engine.PostView
	found := false
	for _, p := range posts {
		if !keep(p) {
			continue
		}
		if !found || p.IntensityLevel > best.IntensityLevel {
			best, found = p, true
		}
	}
	return best, found
}

func tonesVisible(posts []engine.PostView) bool {
	for _, p := range posts {
		if p.Tone == "" {
			return false
		}
	}
	return true
}

// enforceGuardrails validates the move against today's posts.
func enforceGuardrails(m *Move, snap *Snapshot) error {
	if !actions[m.Action] {
		return fmt.Errorf("unknown action %q", m.Action)
	}
	for _, p := range snap.Posts {
		if p.ID == m.PostID {
			return nil
		}
	}
	slog.Warn("autopilot picked a post that is not on today's feed", "post", m.PostID)
	return fmt.Errorf("post %q not in today's feed", m.PostID)
}
