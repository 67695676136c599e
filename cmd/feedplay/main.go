// Command feedplay plays an Echo Chamber session in the terminal.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/talgya/echo-chamber/internal/config"
	"github.com/talgya/echo-chamber/internal/engine"
	"github.com/talgya/echo-chamber/internal/entropy"
	"github.com/talgya/echo-chamber/internal/persistence"
)

func main() {
	cfg, err := config.Load(envOrDefault("ECHO_CONFIG", "configs/echochamber.yaml"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg.Seed = entropy.Resolve(cfg.Seed)

	// Logs go to stderr at warn so they do not interleave with the game.
	level := cfg.SlogLevel()
	if level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var store engine.Store
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Warn("playing without persistence", "path", cfg.DBPath, "error", err)
	} else {
		defer db.Close()
		if cfg.ArchiveDir != "" {
			db.SetArchiver(persistence.NewArchiver(cfg.ArchiveDir))
		}
		store = db
	}

	p := newPlayer(os.Stdout)
	session := engine.NewSession(engine.Options{
		Seed:      cfg.Seed,
		MaxDays:   cfg.MaxDays,
		CrowdSize: cfg.Citizens,
		Settings:  cfg.Settings,
		Store:     store,
		Cues:      p,
	})
	p.session = session

	fmt.Fprintln(os.Stdout, "Welcome to Echo Chamber. You decide what the city reads.")
	fmt.Fprintln(os.Stdout, `Commands: boost|hide|ignore <1-3>, status, citizens, toggle <setting>, restart, help, quit`)
	p.showDay()

	if err := p.run(os.Stdin); err != nil && err != io.EOF {
		slog.Error("input error", "error", err)
		os.Exit(1)
	}
}

func (p *player) run(in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(p.out, "> ")
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return err
			}
			return io.EOF
		}
		if !p.handle(sc.Text()) {
			return nil
		}
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
