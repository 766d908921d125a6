package main

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mvillar/lazylist-cli/internal/config"
	"github.com/mvillar/lazylist-cli/internal/list"
	"github.com/mvillar/lazylist-cli/internal/logging"
	"github.com/mvillar/lazylist-cli/internal/store"
	"github.com/mvillar/lazylist-cli/internal/tui"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.Setup(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	repo, err := store.NewRepository(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("storage init failed")
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := repo.Init(ctx); err != nil {
		logger.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("storage schema failed")
	}

	exec, err := store.NewSlowExecutor(repo, cfg.FetchDelayMin, cfg.FetchDelayMax)
	if err != nil {
		logger.Fatal().Err(err).Msg("executor init failed")
	}

	provider, err := list.New[store.Record](
		list.Config{BatchSize: cfg.BatchSize, PrefetchMargin: cfg.PrefetchMargin},
		exec,
		list.WithLogger[store.Record](logging.NewLogger("provider")),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("provider init failed")
	}

	program := tea.NewProgram(tui.NewModel(provider), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Fatal().Err(err).Msg("tui failed")
	}
}
