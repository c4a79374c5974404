package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/carbon-blueprint/internal/analysis"
	"github.com/treykane/carbon-blueprint/internal/app"
	"github.com/treykane/carbon-blueprint/internal/config"
	"github.com/treykane/carbon-blueprint/internal/logging"
)

var log = logging.New("main")

func main() {
	m, err := initialModel(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error("program exited", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// initialModel loads configuration and builds the UI. An optional first
// argument preselects a blueprint.
func initialModel(args []string) (*app.Model, error) {
	if _, err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if errors.Is(err, config.ErrNotConfigured) {
		cfg = config.Default()
		if err := config.Save(cfg); err != nil {
			log.Warn("write default config", "error", err)
		}
	} else if err != nil {
		return nil, err
	}

	cfg, err = config.ApplyEnv(cfg, os.LookupEnv)
	if err != nil {
		return nil, err
	}

	endpoint, err := cfg.AnalyzeURL()
	if err != nil {
		return nil, fmt.Errorf("analysis endpoint: %w", err)
	}
	client := analysis.NewClient(endpoint, cfg.RequestTimeout())
	log.Info("starting", "endpoint", client.Endpoint(), "policy", cfg.InFlightPolicy)

	m, err := app.New(cfg, client)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 && args[0] != "" {
		m.Preselect(args[0])
	}
	return m, nil
}
