// Citizen memory: what a citizen has seen and how it felt about it.
package citizens

import "github.com/talgya/echo-chamber/internal/feed"

// MaxRecentPosts bounds the recent-posts ring.
const MaxRecentPosts = 5

// InitialTrust is a fresh citizen's trust in the platform.
const InitialTrust = 0.5

// SeenPost records a post a citizen reacted to.
type SeenPost struct {
	Post     feed.Post   `json:"post"`
	Action   feed.Action `json:"action"`
	Reaction float64     `json:"reaction"`
}

// EmotionalRecord is one entry in a citizen's long-term emotional history.
type EmotionalRecord struct {
	Day      int         `json:"day"`
	Action   feed.Action `json:"action"`
	Tone     feed.Tone   `json:"tone"`
	Reaction float64     `json:"reaction"`
	Mood     float64     `json:"mood"`
}

// Memory is a citizen's mutable recollection.
type Memory struct {
	RecentPosts        []SeenPost        `json:"recent_posts"`
	TrustInPlatform    float64           `json:"trust_in_platform"` // 0.0–1.0
	EmotionalMomentum  float64           `json:"emotional_momentum"`
	DecisionsWitnessed int               `json:"decisions_witnessed"`
	EmotionalHistory   []EmotionalRecord `json:"emotional_history"`
}

// NewMemory returns an empty memory with default trust.
func NewMemory() Memory {
	return Memory{
		RecentPosts:     make([]SeenPost, 0, MaxRecentPosts),
		TrustInPlatform: InitialTrust,
	}
}

// Remember appends a seen post, evicting the oldest beyond capacity.
func (m *Memory) Remember(s SeenPost) {
	if len(m.RecentPosts) >= MaxRecentPosts {
		copy(m.RecentPosts, m.RecentPosts[1:])
		m.RecentPosts = m.RecentPosts[:MaxRecentPosts-1]
	}
	m.RecentPosts = append(m.RecentPosts, s)
}

// AdjustTrust adds delta to trust and clamps to [0,1].
func (m *Memory) AdjustTrust(delta float64) {
	m.TrustInPlatform = clamp(m.TrustInPlatform+delta, 0, 1)
}

// Persisted is the slice of memory that survives across sessions.
type Persisted struct {
	DecisionsWitnessed int               `json:"decisions_witnessed"`
	TrustInPlatform    float64           `json:"trust_in_platform"`
	EmotionalHistory   []EmotionalRecord `json:"emotional_history"`
}

// Persist extracts the cross-session part of a citizen's memory.
func (c *Citizen) Persist() Persisted {
	history := make([]EmotionalRecord, len(c.Memory.EmotionalHistory))
	copy(history, c.Memory.EmotionalHistory)
	return Persisted{
		DecisionsWitnessed: c.Memory.DecisionsWitnessed,
		TrustInPlatform:    c.Memory.TrustInPlatform,
		EmotionalHistory:   history,
	}
}

// Merge folds persisted memory into a freshly spawned citizen. Traits and
// mood are left as drawn; only witnessed count, trust and history carry over.
func (c *Citizen) Merge(p Persisted) {
	if c == nil {
		return
	}
	c.Memory.DecisionsWitnessed = p.DecisionsWitnessed
	c.Memory.TrustInPlatform = clamp(p.TrustInPlatform, 0, 1)
	c.Memory.EmotionalHistory = append([]EmotionalRecord(nil), p.EmotionalHistory...)
}
