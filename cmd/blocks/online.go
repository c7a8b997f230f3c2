package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blocks/internal/config"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"
	"github.com/vovakirdan/tui-blocks/internal/online"
	"github.com/vovakirdan/tui-blocks/internal/platform/tui"
)

const dialTimeout = 10 * time.Second

var (
	flagServerURL  string
	flagPlayerName string
	flagAttackMode string
	flagCascade    bool
)

var onlineCmd = &cobra.Command{
	Use:   "online",
	Short: "Join an online match",
	Long: `Connect to a relay and play against the next player who joins.

The first player to connect hosts the match and decides its settings
(attack mode, cascade, ghost). Cleared lines send garbage or plain line
attacks to the opponent. When both sides top out the higher score wins.

Examples:
  blocks online
  blocks online --server ws://example.com:8080/ws --name ada
  blocks online --attack lines --cascade`,
	RunE: runOnline,
}

func init() {
	onlineCmd.Flags().StringVar(&flagServerURL, "server", "", "Relay websocket URL (default from config)")
	onlineCmd.Flags().StringVar(&flagPlayerName, "name", "", "Name shown to the opponent (default $USER)")
	onlineCmd.Flags().StringVar(&flagAttackMode, "attack", "", "Attack mode when hosting: lines or garbage")
	onlineCmd.Flags().BoolVar(&flagCascade, "cascade", false, "Host a cascade match")
}

func runOnline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	server := cfg.Online.ServerURL
	if flagServerURL != "" {
		server = flagServerURL
	}
	attack := cfg.Online.AttackMode
	if flagAttackMode != "" {
		attack = flagAttackMode
	}
	if attack != config.AttackLines && attack != config.AttackGarbage {
		return fmt.Errorf("unknown attack mode %q (want lines or garbage)", attack)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), dialTimeout)
	defer cancel()
	client, err := online.Dial(ctx, server, logger.WithPrefix("client"))
	if err != nil {
		return err
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	width, height := terminalSize()
	opts := tui.OnlineOptions{
		Game: online.Options{
			Engine:        blocks.EngineOptions(cfg.Rules, seed),
			Cascade:       flagCascade,
			CascadeStepMs: float64(cfg.Rules.CascadeStepMs),
			ShowGhost:     cfg.Rules.ShowGhost,
			AttackMode:    attack,
			GarbageTable:  blocks.GarbageTable(cfg.Duo),
			Countdown:     cfg.Online.CountdownSecs,
			PlayerName:    playerName(cfg.Online),
		},
		Server:   server,
		Logger:   logger,
		Touch:    blocks.TouchConfig(cfg.Touch),
		Effects:  engine.ParseEffectType(cfg.Effects.Type),
		TickRate: flagFPS,
	}
	logger.Info("joining online match", "server", server, "name", opts.Game.PlayerName)
	if err := tui.RunOnline(client, width, height, opts); err != nil {
		return fmt.Errorf("running online game: %w", err)
	}
	return nil
}

func playerName(cfg config.OnlineConfig) string {
	switch {
	case flagPlayerName != "":
		return flagPlayerName
	case cfg.PlayerName != "":
		return cfg.PlayerName
	case os.Getenv("USER") != "":
		return os.Getenv("USER")
	default:
		return "player"
	}
}
