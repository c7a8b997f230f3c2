// blocks is a falling-blocks puzzle game for the terminal: solo, cascade,
// local two-player and online versus over a websocket relay.
//
// Usage:
//
//	blocks                   - Start the menu
//	blocks list              - List available modes
//	blocks play <mode>       - Play a mode directly
//	blocks online            - Join an online match through a relay
//	blocks relay             - Run the online match relay
//	blocks serve             - Start SSH server for remote play
//	blocks scores <mode>     - Show high scores for a mode
//	blocks stats             - Browse all records
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 60)
//	--seed <value>     - Set RNG seed for reproducible gameplay
//	--db <path>        - Set database path (default: ~/.blocks/scores.db)
//	--config <path>    - Load a custom blocks.yaml
//	--difficulty <p>   - Apply a difficulty preset
//	--log <path>       - Write debug logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register the game modes
	_ "github.com/vovakirdan/tui-blocks/internal/games/blocks"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogPath    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Blocks - a falling-blocks puzzle game for your terminal",
	Long: `Blocks is a terminal falling-blocks game with a classic mode, a
cascade mode where loose cells keep falling, a local two-player mode and
online versus play.

Available commands:
  list     - Show all available modes
  play     - Play a specific mode directly
  online   - Join an online match
  relay    - Run the online match relay
  serve    - Start SSH server for remote play
  scores   - View high scores
  stats    - Browse every record in a scoreboard

Examples:
  blocks
  blocks play cascade --difficulty hard
  blocks online --server ws://localhost:8080/ws --name ada
  blocks relay --addr :8080
  blocks serve --ssh :2222`,
	RunE: runMenu,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blocks/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom blocks.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write debug logs to this file")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(onlineCmd)
	rootCmd.AddCommand(relayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(statsCmd)
}
