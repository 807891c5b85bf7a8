// Copyright (c) 2025 Atium Research
// SPDX-License-Identifier: AGPL-3.0-or-later

// atui is the terminal client for the Atium research backend: a projects
// dashboard backed by the chat directory, plus live agent sessions over
// WebSocket.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atiumresearch/atui/internal/config"
	"github.com/atiumresearch/atui/internal/ui"
)

const version = "0.1.0"

func main() {
	backend := flag.String("backend", "", "backend URL (overrides config and ATUI_BACKEND_URL)")
	configPath := flag.String("config", "", "path to config file (default ~/.atui/config.toml)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("atui %s\n", version)
		return
	}

	cfg, err := loadConfig(*configPath, *backend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Debug logging goes to a file; stdout belongs to the TUI.
	if os.Getenv("ATUI_DEBUG") != "" {
		f, err := tea.LogToFile("atui-debug.log", "debug")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	p := tea.NewProgram(
		ui.NewApp(cfg),
		tea.WithAltScreen(),
	)

	// Reload configuration edits while the program runs. The watcher is best
	// effort: a watch failure never takes the UI down.
	watchPath := *configPath
	if watchPath == "" {
		if defaultPath, err := config.Path(); err == nil {
			watchPath = defaultPath
		}
	}
	if watchPath != "" {
		watcher, err := config.NewWatcher(watchPath, func(reloaded *config.Config) {
			applyOverrides(reloaded, *backend)
			p.Send(ui.ConfigReloadedMsg{Config: reloaded})
		}, nil)
		if err == nil {
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running atui: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path, backend string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFromPath(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg, backend)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides applies command-line overrides on top of file and
// environment settings.
func applyOverrides(cfg *config.Config, backend string) {
	if backend != "" {
		cfg.Backend.URL = backend
	}
}
