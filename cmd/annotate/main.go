package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/annotate/internal/actions"
	"github.com/jask/annotate/internal/config"
	"github.com/jask/annotate/internal/database"
	"github.com/jask/annotate/internal/logging"
	"github.com/jask/annotate/internal/reducers"
	"github.com/jask/annotate/internal/service"
	"github.com/jask/annotate/internal/store"
	"github.com/jask/annotate/internal/testdata"
	"github.com/jask/annotate/internal/tui"
)

func main() {
	reset := flag.Bool("reset", false, "delete every annotation and its history, then exit")
	seed := flag.Int("seed", 0, "create this many sample annotations in the configured index before starting")
	initConfig := flag.Bool("init-config", false, "write the effective configuration to the config file, then exit")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *initConfig {
		if err := config.Save(cfg); err != nil {
			log.Fatalf("save config: %v", err)
		}
		return
	}

	logger, closer, err := logging.OpenFile(cfg.Log.File, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer closer.Close()

	db, err := openDB(cfg.Database.Path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	if *reset {
		if err := (&service.MaintenanceService{DB: db}).Reset(ctx); err != nil {
			log.Fatalf("reset: %v", err)
		}
		logger.Info("database reset", slog.String("path", cfg.Database.Path))
		return
	}

	svc := &service.AnnotationService{DB: db, UpdatedBy: cfg.UI.User, Logger: logger}
	if *seed > 0 {
		seeded, err := testdata.Seed(ctx, svc, cfg.UI.Index, *seed, nil)
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		logger.Info("seeded annotations", slog.String("index", cfg.UI.Index), slog.Int("count", len(seeded)))
	}
	st := store.New(reducers.Reduce, reducers.Initial(cfg.UI.Index),
		store.Logger[reducers.State](logger),
		actions.Effects[reducers.State](ctx, svc, actions.Async),
	)

	app := tui.New(st, cfg)
	defer app.Close()
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(path); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}
