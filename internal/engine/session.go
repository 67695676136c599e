// Session ties the feed, the citizens and the global scalars together and
// runs the daily decision cycle.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/echo-chamber/internal/citizens"
	"github.com/talgya/echo-chamber/internal/config"
	"github.com/talgya/echo-chamber/internal/entropy"
	"github.com/talgya/echo-chamber/internal/feed"
)

// chaosMoodBelow is the global mood under which a decision also sounds the
// chaos cue.
const chaosMoodBelow = -30

// Options configure a session. Zero seed, day and crowd values fall back to
// defaults; nil collaborators are skipped.
type Options struct {
	Seed      int64
	MaxDays   int
	CrowdSize int
	Settings  config.Settings

	Store    Store
	Renderer Renderer
	Cues     CuePlayer

	// Now stamps decision records. Defaults to time.Now.
	Now func() time.Time
}

// Session is the explicit context for one curation run. It is not safe for
// concurrent use; hosts serialise calls.
type Session struct {
	ID        string
	Seed      int64
	MaxDays   int
	CrowdSize int

	State    GlobalState
	Citizens []*citizens.Citizen
	Crowd    *citizens.Crowd
	Posts    [feed.PostsPerDay]feed.Post
	Log      []Decision
	Settings config.Settings

	// Pending is set between a decision and the next AdvanceDay; further
	// decisions are refused while it holds.
	Pending   bool
	Ended     bool
	Ending    *Ending
	LastCrowd citizens.TickReport

	generator *feed.Generator
	spawner   *citizens.Spawner
	store     Store
	renderer  Renderer
	cues      CuePlayer
	now       func() time.Time
}

// NewSession creates a session and starts day 1. Saved settings, if any,
// are merged over opts.Settings once here.
func NewSession(opts Options) *Session {
	seed := entropy.Resolve(opts.Seed)
	if opts.MaxDays <= 0 {
		opts.MaxDays = DefaultMaxDays
	}
	if opts.CrowdSize <= 0 {
		opts.CrowdSize = citizens.DefaultCrowdSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	rng := rand.New(rand.NewSource(seed))
	s := &Session{
		Seed:      seed,
		MaxDays:   opts.MaxDays,
		CrowdSize: opts.CrowdSize,
		Crowd:     citizens.NewCrowd(rng),
		Settings:  opts.Settings,
		generator: feed.NewGenerator(rng),
		spawner:   citizens.NewSpawner(seed),
		store:     opts.Store,
		renderer:  opts.Renderer,
		cues:      opts.Cues,
		now:       opts.Now,
	}

	if s.store != nil {
		saved, err := s.store.LoadSettings()
		if err != nil {
			slog.Warn("settings unavailable, using defaults", "error", err)
		} else {
			s.Settings = s.Settings.Merge(saved)
		}
	}

	s.start()
	return s
}

// start resets global state and respawns the crowd, merging any persisted
// memory into each slot.
func (s *Session) start() {
	s.ID = uuid.NewString()
	s.State = NewGlobalState()
	s.Log = nil
	s.Pending = false
	s.Ended = false
	s.Ending = nil
	s.LastCrowd = citizens.TickReport{}
	s.Crowd.Reset()

	if s.store != nil {
		if err := s.store.ClearDecisions(); err != nil {
			slog.Warn("could not clear decision log", "error", err)
		}
	}

	s.Citizens = s.spawner.SpawnCrowd(s.CrowdSize)
	merged := 0
	if s.store != nil {
		memories, err := s.store.LoadMemories()
		if err != nil {
			slog.Warn("citizen memory unavailable, starting fresh", "error", err)
		}
		for _, c := range s.Citizens {
			if m, ok := memories[c.ID]; ok {
				c.Merge(m)
				merged++
			}
		}
	}

	s.Posts = s.generator.DailyPosts(s.State.Day, s.State.Mood)

	slog.Info("session started",
		"session", s.ID,
		"seed", s.Seed,
		"citizens", len(s.Citizens),
		"remembered", merged,
		"max_days", s.MaxDays,
	)
	s.render()
}

// Restart ends the current session (persisting citizen memory) and starts
// a fresh one.
func (s *Session) Restart() {
	if !s.Ended {
		s.persistMemories()
	}
	slog.Info("session restarted", "previous", s.ID, "day", s.State.Day)
	s.start()
}

// Post returns today's post with the given ID.
func (s *Session) Post(id string) (feed.Post, bool) {
	for _, p := range s.Posts {
		if p.ID == id {
			return p, true
		}
	}
	return feed.Post{}, false
}

// Decide applies the player's action to one of today's posts. It reports
// false and changes nothing when the session has ended, a decision is
// already pending, the action is not a curation verb, or the post does
// not exist.
func (s *Session) Decide(action feed.Action, postID string) (Decision, bool) {
	if s.Ended || s.Pending {
		return Decision{}, false
	}
	if !action.Valid() {
		slog.Debug("unknown action ignored", "action", action)
		return Decision{}, false
	}
	p, ok := s.Post(postID)
	if !ok {
		slog.Debug("decision on unknown post ignored", "post", postID)
		return Decision{}, false
	}

	d := Decision{
		SessionID:        s.ID,
		Day:              s.State.Day,
		Action:           action,
		Tone:             p.Tone,
		Topic:            p.Topic,
		Description:      fmt.Sprintf("%s %s", p.Emoji, p.Title),
		Timestamp:        s.now(),
		MoodBefore:       s.State.Mood,
		EngagementBefore: s.State.Engagement,
	}

	ApplyEffect(&s.State, p, action)
	citizens.ReactAll(s.Citizens, p, action, s.State.Day)
	s.LastCrowd = s.Crowd.Tick(s.Citizens)

	s.Log = append(s.Log, d)
	if s.store != nil {
		if err := s.store.AppendDecision(d); err != nil {
			slog.Warn("decision not persisted", "day", d.Day, "error", err)
		}
	}

	if cue, ok := cueFor(action, p.Tone); ok {
		s.play(cue)
	}
	if s.State.Mood < chaosMoodBelow {
		s.play(CueChaos)
	}

	s.Pending = true
	slog.Debug("decision applied",
		"day", d.Day,
		"action", action,
		"tone", p.Tone,
		"engagement", s.State.Engagement,
		"mood", s.State.Mood,
		"protests", s.Crowd.ActiveProtests,
	)
	s.render()
	return d, true
}

// AdvanceDay moves past a pending decision: the day counter increments and
// either new posts are drawn or, past the last day, the session ends.
// It reports false when nothing was pending.
func (s *Session) AdvanceDay() bool {
	if !s.Pending || s.Ended {
		return false
	}
	s.Pending = false
	s.State.Day++

	if s.State.Day > s.MaxDays {
		s.end()
	} else {
		s.Posts = s.generator.DailyPosts(s.State.Day, s.State.Mood)
	}
	s.render()
	return true
}

func (s *Session) end() {
	ending := DetermineEnding(s.State)
	s.Ending = &ending
	s.Ended = true
	s.persistMemories()

	slog.Info("session ended",
		"session", s.ID,
		"ending", ending.Title,
		"engagement", s.State.Engagement,
		"mood", s.State.Mood,
		"bias_left", s.State.Bias.Left,
		"bias_right", s.State.Bias.Right,
	)
}

// FinalDays is the number of days played.
func (s *Session) FinalDays() int {
	return s.State.Day - 1
}

// SetSettings replaces the toggles and persists them.
func (s *Session) SetSettings(set config.Settings) error {
	s.Settings = set
	if s.store != nil {
		if err := s.store.SaveSettings(set.Map()); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
	}
	s.render()
	return nil
}

// Citizen returns the citizen in a slot.
func (s *Session) Citizen(id citizens.CitizenID) (*citizens.Citizen, bool) {
	for _, c := range s.Citizens {
		if c != nil && c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// View projects the session for renderers.
func (s *Session) View() View {
	v := View{
		SessionID:      s.ID,
		Day:            s.State.Day,
		MaxDays:        s.MaxDays,
		Engagement:     s.State.Engagement,
		Mood:           s.State.Mood,
		Bias:           s.State.Bias,
		Pending:        s.Pending,
		Ended:          s.Ended,
		Ending:         s.Ending,
		ActiveProtests: s.Crowd.ActiveProtests,
		Scene:          SceneFor(s.State.Mood),
		Posts:          make([]PostView, 0, len(s.Posts)),
		Citizens:       make([]CitizenView, 0, len(s.Citizens)),
	}
	if s.Ended {
		v.FinalDays = s.FinalDays()
	} else {
		for _, p := range s.Posts {
			v.Posts = append(v.Posts, ProjectPost(p, s.Settings))
		}
	}
	for _, c := range s.Citizens {
		if c != nil {
			v.Citizens = append(v.Citizens, ProjectCitizen(c, s.Settings))
		}
	}
	return v
}

// Render pushes the current view to the renderer, if any.
func (s *Session) Render() {
	s.render()
}

func (s *Session) render() {
	if s.renderer != nil {
		s.renderer.Render(s.View())
	}
}

func (s *Session) play(cue Cue) {
	if s.cues == nil || !s.Settings.SoundEnabled {
		return
	}
	s.cues.Play(cue)
}

func (s *Session) persistMemories() {
	if s.store == nil {
		return
	}
	memories := make(map[citizens.CitizenID]citizens.Persisted, len(s.Citizens))
	for _, c := range s.Citizens {
		if c != nil {
			memories[c.ID] = c.Persist()
		}
	}
	if err := s.store.SaveMemories(memories); err != nil {
		slog.Warn("citizen memory not persisted", "error", err)
	}
}
