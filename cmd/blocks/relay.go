package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blocks/internal/multiplayer"
	"github.com/vovakirdan/tui-blocks/internal/relay"
	"github.com/vovakirdan/tui-blocks/internal/storage"
)

var (
	flagRelayAddr    string
	flagRelayOrigins []string
	flagLobbyTimeout time.Duration
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the online match relay",
	Long: `Start the websocket relay that pairs online players.

Players connect to /ws. The first one waiting hosts, the next one joins.
Finished matches are saved to the scores database and listed at /matches.

Examples:
  blocks relay
  blocks relay --addr :9000
  blocks relay --origin example.com --lobby-timeout 2m`,
	RunE: runRelay,
}

func init() {
	relayCmd.Flags().StringVar(&flagRelayAddr, "addr", "", "Listen address (default from config)")
	relayCmd.Flags().StringSliceVar(&flagRelayOrigins, "origin", nil, "Allowed websocket origin patterns (default any)")
	relayCmd.Flags().DurationVar(&flagLobbyTimeout, "lobby-timeout", multiplayer.DefaultCoordinatorConfig().LobbyTimeout, "How long a host waits for an opponent")
}

func runRelay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newServerLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	addr := cfg.Online.ListenAddr
	if flagRelayAddr != "" {
		addr = flagRelayAddr
	}

	coord := multiplayer.DefaultCoordinatorConfig()
	coord.LobbyTimeout = flagLobbyTimeout

	var saver multiplayer.MatchResultSaver
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("match results will not be saved", "err", err)
	} else {
		defer store.Close()
		saver = store
	}

	server := relay.New(relay.Config{
		Addr:           addr,
		OriginPatterns: flagRelayOrigins,
		Coordinator:    coord,
	}, saver, logger.WithPrefix("relay"))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting blocks relay on %s\n", addr)
	fmt.Println("Press Ctrl+C to stop")
	return server.ListenAndServe(ctx)
}
