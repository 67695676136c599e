package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/echo-chamber/internal/config"
	"github.com/talgya/echo-chamber/internal/engine"
	"github.com/talgya/echo-chamber/internal/feed"
)

// player is the terminal front end: it reads commands, drives the session,
// and doubles as the session's cue player.
type player struct {
	out     io.Writer
	session *engine.Session
}

func newPlayer(out io.Writer) *player {
	return &player{out: out}
}

// Play prints an audio cue as a short note.
func (p *player) Play(cue engine.Cue) {
	fmt.Fprintf(p.out, "  ♪ %s\n", cue)
}

// handle runs one command line. It reports false when the player quits.
func (p *player) handle(line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return true
	}

	switch cmd := fields[0]; cmd {
	case "quit", "exit", "q":
		fmt.Fprintln(p.out, "Bye.")
		return false
	case "help", "?":
		fmt.Fprintln(p.out, `boost|hide|ignore <1-3>  curate one of today's posts`)
		fmt.Fprintln(p.out, `status                   city scalars`)
		fmt.Fprintln(p.out, `citizens                 the crowd`)
		fmt.Fprintln(p.out, `toggle <tone|intensity|tooltips|signs|sound>`)
		fmt.Fprintln(p.out, `restart                  start over; citizens remember`)
	case "status":
		p.showStatus()
	case "citizens", "crowd":
		p.showCitizens()
	case "toggle":
		if len(fields) < 2 {
			fmt.Fprintln(p.out, "toggle what?")
			return true
		}
		p.toggle(fields[1])
	case "restart":
		p.session.Restart()
		fmt.Fprintln(p.out, "A new feed begins. The citizens remember you.")
		p.showDay()
	default:
		action, ok := parseVerb(cmd)
		if !ok {
			fmt.Fprintf(p.out, "unknown command %q (try help)\n", cmd)
			return true
		}
		if len(fields) < 2 {
			fmt.Fprintf(p.out, "%s which post? (1-%d)\n", action, feed.PostsPerDay)
			return true
		}
		postID, err := postIDFor(fields[1])
		if err != nil {
			fmt.Fprintln(p.out, err)
			return true
		}
		p.decide(action, postID)
	}
	return true
}

// parseVerb accepts full verbs and their first letter.
func parseVerb(s string) (feed.Action, bool) {
	switch s {
	case "b":
		return feed.ActionBoost, true
	case "h":
		return feed.ActionHide, true
	case "i":
		return feed.ActionIgnore, true
	}
	return feed.ParseAction(s)
}

// postIDFor maps a 1-based slot number to a post ID.
func postIDFor(s string) (string, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > feed.PostsPerDay {
		return "", fmt.Errorf("pick a post between 1 and %d", feed.PostsPerDay)
	}
	return fmt.Sprintf("post-%d", n-1), nil
}

func (p *player) decide(action feed.Action, postID string) {
	s := p.session
	if s.Ended {
		fmt.Fprintln(p.out, "The session is over. Type restart to play again.")
		return
	}
	d, ok := s.Decide(action, postID)
	if !ok {
		fmt.Fprintln(p.out, "That decision was not accepted.")
		return
	}

	fmt.Fprintf(p.out, "You chose to %s %s.\n", action, d.Description)
	fmt.Fprintf(p.out, "  engagement %s → %s, mood %s → %s\n",
		num(d.EngagementBefore), num(s.State.Engagement),
		signed(d.MoodBefore), signed(s.State.Mood))
	if r := s.LastCrowd; r.Influenced > 0 || r.NewProtests > 0 {
		fmt.Fprintf(p.out, "  %s swayed by neighbours", plural(r.Influenced, "citizen"))
		if r.NewProtests > 0 {
			fmt.Fprintf(p.out, ", %s took to the streets", plural(r.NewProtests, "protester"))
		}
		fmt.Fprintln(p.out)
	}

	s.AdvanceDay()
	if s.Ended {
		p.showEnding()
		return
	}
	p.showDay()
}

func (p *player) showDay() {
	v := p.session.View()
	fmt.Fprintf(p.out, "\n── %s day of %d ── engagement %s · mood %s · %s city\n",
		humanize.Ordinal(v.Day), v.MaxDays, num(v.Engagement), signed(v.Mood), v.Scene.Appearance)
	for i, post := range v.Posts {
		label := ""
		if post.Tone != "" {
			label += " [" + string(post.Tone) + "]"
		}
		if post.IntensityLevel > 0 {
			label += " " + strings.Repeat("!", post.IntensityLevel)
		}
		fmt.Fprintf(p.out, "  %d. %s %s%s\n     %s\n", i+1, post.Emoji, post.Title, label, post.Content)
	}
}

func (p *player) showStatus() {
	v := p.session.View()
	fmt.Fprintf(p.out, "Day %d/%d  engagement %s  mood %s  bias L%d/R%d  protests %d\n",
		v.Day, v.MaxDays, num(v.Engagement), signed(v.Mood), v.Bias.Left, v.Bias.Right, v.ActiveProtests)
	if v.Scene.Graffiti {
		fmt.Fprintln(p.out, "Graffiti covers the walls.")
	}
}

func (p *player) showCitizens() {
	v := p.session.View()
	for _, c := range v.Citizens {
		line := fmt.Sprintf("  %s %-8s %-10s mood %s", c.Emoji, c.Name, c.State, signed(c.Mood))
		if c.ProtestSign {
			line += "  🪧"
		}
		if c.Personality != nil {
			line += fmt.Sprintf("  %s, trust %s, has seen %s",
				c.Personality.Label, num(c.Personality.Trust),
				plural(c.Personality.DecisionsWitnessed, "decision"))
		}
		fmt.Fprintln(p.out, line)
	}
}

func (p *player) showEnding() {
	v := p.session.View()
	e := v.Ending
	fmt.Fprintf(p.out, "\n%s %s\n%s\n", e.Emoji, e.Title, e.Description)
	fmt.Fprintf(p.out, "After %s: engagement %s, mood %s.\n",
		plural(v.FinalDays, "day"), num(v.Engagement), signed(v.Mood))
	fmt.Fprintln(p.out, "Type restart to play again, or quit.")
}

func (p *player) toggle(name string) {
	set := p.session.Settings
	switch name {
	case "tone":
		set.ShowTone = !set.ShowTone
	case "intensity":
		set.ShowIntensity = !set.ShowIntensity
	case "tooltips":
		set.ShowNPCTooltips = !set.ShowNPCTooltips
	case "signs":
		set.ShowProtestSigns = !set.ShowProtestSigns
	case "sound":
		set.SoundEnabled = !set.SoundEnabled
	default:
		fmt.Fprintf(p.out, "unknown setting %q\n", name)
		return
	}
	if err := p.session.SetSettings(set); err != nil {
		fmt.Fprintf(p.out, "setting changed but not saved: %v\n", err)
	}
	p.showSettings(set)
}

func (p *player) showSettings(set config.Settings) {
	for _, key := range []string{
		config.KeyShowTone, config.KeyShowIntensity, config.KeyShowNPCTooltips,
		config.KeyShowProtestSigns, config.KeySoundEnabled,
	} {
		state := "off"
		if set.Map()[key] {
			state = "on"
		}
		fmt.Fprintf(p.out, "  %-17s %s\n", key, state)
	}
}

func num(v float64) string {
	return humanize.Ftoa(math.Round(v*10) / 10)
}

func signed(v float64) string {
	if v > 0 {
		return "+" + num(v)
	}
	return num(v)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}
