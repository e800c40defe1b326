// certiprofile TUI - a terminal client for the certification advisor.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jeranaias/certiprofile-tui/internal/advisor"
	"github.com/jeranaias/certiprofile-tui/internal/config"
	"github.com/jeranaias/certiprofile-tui/internal/controller"
	"github.com/jeranaias/certiprofile-tui/internal/intelligence"
	"github.com/jeranaias/certiprofile-tui/internal/logging"
	"github.com/jeranaias/certiprofile-tui/internal/model"
	"github.com/jeranaias/certiprofile-tui/internal/store"
	"github.com/jeranaias/certiprofile-tui/internal/ui/chat"
	"github.com/jeranaias/certiprofile-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	// .env is optional; real environment wins either way.
	_ = godotenv.Load()

	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("certiprofile %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return
	}

	identity := model.Identity{
		Email:  os.Getenv("CERTIPROFILE_EMAIL"),
		UserID: os.Getenv("CERTIPROFILE_USER_ID"),
	}
	if !identity.Valid() {
		fmt.Fprintln(os.Stderr, "CERTIPROFILE_EMAIL and CERTIPROFILE_USER_ID must be set")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logPath, err := cfg.LogFilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve log path: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Logging, logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	storage, err := openStorage(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open session storage: %v\n", err)
		os.Exit(1)
	}
	defer storage.Close()

	sessions := store.NewSessionStore(storage, identity, log)
	if err := sessions.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load sessions: %v\n", err)
		os.Exit(1)
	}

	bridge := intelligence.NewBridge()
	sessions.SetIntelligenceSink(bridge)
	bridge.ApplySession(sessions.Active())

	client := advisor.NewClientWithConfig(&advisor.ClientConfig{
		BaseURL:       cfg.Backend.BaseURL,
		Timeout:       time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
		UploadTimeout: time.Duration(cfg.Backend.UploadTimeoutSecs) * time.Second,
	})
	ctrl := controller.New(sessions, bridge, client, identity, log)

	theme := styles.NewTheme(cfg.UI.Theme)
	program := tea.NewProgram(
		chat.New(ctrl, sessions, bridge, theme, log),
		tea.WithAltScreen(),
	)

	log.Info("starting",
		zap.String("version", Version),
		zap.String("backend", cfg.Backend.BaseURL),
		zap.String("storage", cfg.Storage.Backend))

	if _, err := program.Run(); err != nil {
		log.Error("program exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openStorage builds the configured persistence driver.
func openStorage(cfg *config.Config) (store.Storage, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		path, err := cfg.SQLitePath()
		if err != nil {
			return nil, err
		}
		return store.NewSQLiteStorage(path)
	default:
		if cfg.Storage.Dir != "" {
			return store.NewFileStorageWithDir(cfg.Storage.Dir)
		}
		return store.NewFileStorage()
	}
}
