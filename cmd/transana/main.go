package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/UtahDave/Transana/internal/app"
	"github.com/UtahDave/Transana/internal/config"
	"github.com/UtahDave/Transana/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to the config file")
		dbPath     = flag.String("db", "", "path to the database (overrides config)")
		series     = flag.String("series", "", "series to load")
		episode    = flag.String("episode", "", "episode to load")
		transcr    = flag.String("transcript", "", "transcript to load")
		clipNum    = flag.Int64("clip", 0, "clip record number to load")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = config.DefaultDatabasePath()
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DatabasePath, cfg.Username)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	// In multi-user mode the connection must stay warm so record locks
	// held by this user are not reaped.
	if !cfg.SingleUser {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		st.StartKeepAlive(ctx, cfg.KeepAliveInterval())
	}

	target := app.LoadTarget{
		Series:     *series,
		Episode:    *episode,
		Transcript: *transcr,
		ClipNum:    *clipNum,
	}

	p := tea.NewProgram(app.New(cfg, st, target), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "transana: %v\n", err)
		os.Exit(1)
	}
}
