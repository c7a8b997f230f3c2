package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blocks/internal/platform/tui"
	"github.com/vovakirdan/tui-blocks/internal/registry"
)

var flagResume bool

var playCmd = &cobra.Command{
	Use:   "play <mode>",
	Short: "Play a mode",
	Long: `Start playing the specified mode.

Controls (solo):
  Left/Right or A/D  - Move
  Up/W/X             - Rotate clockwise
  Z                  - Rotate counter-clockwise
  Down/S             - Soft drop
  Space              - Hard drop
  C/Shift            - Hold
  P/Esc              - Pause
  R                  - Restart (after game over)
  Q/Ctrl+C           - Quit

Controls (duo):
  Player 1  A/D move, W/Q rotate, S soft drop, E hold, Tab hard drop
  Player 2  arrows, comma rotate back, period hold, 0 hard drop
  P pauses both, R rematch, Ctrl+C quits

Difficulty options:
  easy   - Ghost and hold on, long lock delay, no speed-up
  normal - Config values as written
  hard   - No ghost, no hold, short lock delay
  fixed  - No speed-up with level

Examples:
  blocks play blocks
  blocks play cascade --difficulty hard
  blocks play duo
  blocks play blocks --resume`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagResume, "resume", false, "Continue the saved game for this mode")
}

func runPlay(cmd *cobra.Command, args []string) error {
	gameID := args[0]
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown mode %q, run 'blocks list' to see available modes", gameID)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	store := openStoreOrWarn(logger)
	if store != nil {
		defer store.Close()
	}

	opts := gameOptions(cfg, store, logger)
	opts.Resume = flagResume
	logger.Info("starting game", "mode", gameID, "resume", flagResume)
	if err := tui.Run(game, runtimeConfig(), opts); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// runMenu is the root command: the interactive menu with the scoreboard.
func runMenu(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	store := openStoreOrWarn(logger)
	if store != nil {
		defer store.Close()
	}

	return tui.RunSession(runtimeConfig(), gameOptions(cfg, store, logger))
}
