// Command autopilot plays Echo Chamber sessions against a running server.
// It observes the session via the API, picks a move with a rule-based
// strategy, and acts via the curation endpoints.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/echo-chamber/internal/autopilot"
	"github.com/talgya/echo-chamber/internal/engine"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment.
	apiURL := envOrDefault("ECHO_API_URL", "http://localhost:8080")
	adminKey := os.Getenv("ECHO_ADMIN_KEY")
	intervalMs := envIntOrDefault("AUTOPILOT_INTERVAL_MS", 2000)
	games := envIntOrDefault("AUTOPILOT_GAMES", 1)

	goal, err := autopilot.ParseGoal(envOrDefault("AUTOPILOT_GOAL", "harmony"))
	if err != nil {
		slog.Error("bad AUTOPILOT_GOAL", "error", err)
		os.Exit(1)
	}

	interval := time.Duration(intervalMs) * time.Millisecond

	slog.Info("Echo Chamber autopilot starting",
		"api_url", apiURL,
		"goal", goal,
		"games", games,
		"interval", interval,
	)

	observer := autopilot.NewObserver(apiURL)
	actor := autopilot.NewActor(apiURL, adminKey)

	slog.Info("waiting for echochamber API...")
	waitForAPI(apiURL)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	played := 0
	for {
		if done := runCycle(observer, actor, goal, &played, games); done {
			fmt.Printf("Autopilot finished %s.\n", plural(played, "game"))
			return
		}
		select {
		case <-ticker.C:
		case sig := <-sigCh:
			slog.Info("received signal, shutting down", "signal", sig)
			fmt.Println("Autopilot stopped.")
			return
		}
	}
}

// runCycle executes one observe → decide → act cycle. It reports true once
// the requested number of games has been played.
func runCycle(observer *autopilot.Observer, actor *autopilot.Actor, goal engine.EndingKind, played *int, games int) bool {
	snap, err := observer.Observe()
	if err != nil {
		slog.Error("observation failed", "error", err)
		return false
	}

	if snap.Status.Ended {
		*played++
		ending := snap.Status.Ending
		slog.Info("game over",
			"game", humanize.Ordinal(*played),
			"goal", goal,
			"ending", ending.Title,
			"reached_goal", ending.Kind == goal,
			"days", snap.Status.FinalDays,
		)
		if *played >= games {
			return true
		}
		if err := actor.Restart(); err != nil {
			slog.Error("restart failed", "error", err)
			return true
		}
		return false
	}

	move, err := autopilot.Decide(goal, snap)
	if errors.Is(err, autopilot.ErrNoMove) {
		slog.Debug("waiting for the day to advance", "day", snap.Status.Day)
		return false
	}
	if err != nil {
		slog.Error("decision failed", "error", err)
		return false
	}

	result, err := actor.Act(move)
	if err != nil {
		slog.Error("move failed", "error", err)
		return false
	}

	slog.Info("move made",
		"day", snap.Status.Day,
		"action", move.Action,
		"post", move.PostID,
		"rationale", move.Rationale,
		"engagement", result.Engagement,
		"mood", result.Mood,
	)
	return false
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}

// waitForAPI polls the status endpoint with exponential backoff until it
// responds. Exits after 2 minutes if the API never becomes ready.
func waitForAPI(apiURL string) {
	backoff := time.Second
	maxBackoff := 15 * time.Second
	deadline := time.Now().Add(2 * time.Minute)

	for {
		resp, err := http.Get(apiURL + "/api/v1/status")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				slog.Info("echochamber API is ready")
				return
			}
		}
		if time.Now().After(deadline) {
			slog.Error("echochamber API did not become ready within 2 minutes")
			os.Exit(1)
		}
		slog.Info("echochamber not ready, retrying...", "backoff", backoff)
		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
