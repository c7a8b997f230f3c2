package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-blocks/internal/config"
	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks"
	"github.com/vovakirdan/tui-blocks/internal/platform/tui"
	"github.com/vovakirdan/tui-blocks/internal/storage"
)

// loadConfig reads blocks.yaml, applies --difficulty and makes the result
// the config new games are built from.
func loadConfig() (config.BlocksConfig, error) {
	cfg, err := config.LoadBlocks(flagConfig)
	if err != nil {
		return config.BlocksConfig{}, err
	}
	if flagDifficulty != "" {
		preset, err := config.ParseDifficulty(flagDifficulty)
		if err != nil {
			return config.BlocksConfig{}, err
		}
		config.ApplyBlocksPreset(&cfg, preset)
	}
	if err := cfg.Validate(); err != nil {
		return config.BlocksConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	blocks.Configure(cfg)
	return cfg, nil
}

// newLogger builds the logger for interactive commands. The terminal belongs
// to the UI, so logs go to --log or nowhere.
func newLogger() (*log.Logger, func(), error) {
	if flagLogPath == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }, nil
}

// newServerLogger builds the logger for long-running servers, on stderr
// unless --log is set.
func newServerLogger() (*log.Logger, func(), error) {
	if flagLogPath != "" {
		return newLogger()
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	return logger, func() {}, nil
}

func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

func runtimeConfig() core.RuntimeConfig {
	width, height := terminalSize()
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStoreOrWarn opens the scores database. Games still run without it.
func openStoreOrWarn(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("scores database unavailable", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// gameOptions collects what every local game model needs.
func gameOptions(cfg config.BlocksConfig, store *storage.Store, logger *log.Logger) tui.GameOptions {
	return tui.GameOptions{
		Store:  store,
		Logger: logger,
		Touch:  blocks.TouchConfig(cfg.Touch),
	}
}
