package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blocks/internal/platform/tui"
	"github.com/vovakirdan/tui-blocks/internal/storage"
)

var (
	flagStatsPlain   bool
	flagStatsMatches int
	flagStatsPlayer  string
	flagStatsMatch   string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Browse all records",
	Long: `Open the scoreboard: solo high scores per mode, the local duo tally
and recent online matches.

With --plain the same records are printed instead.

Examples:
  blocks stats
  blocks stats --plain
  blocks stats --plain --player ada
  blocks stats --match 2f6c1e9a-...`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagStatsPlain, "plain", false, "Print records instead of opening the scoreboard")
	statsCmd.Flags().IntVar(&flagStatsMatches, "matches", 10, "Number of online matches to print")
	statsCmd.Flags().StringVar(&flagStatsPlayer, "player", "", "Only print online matches of this player")
	statsCmd.Flags().StringVar(&flagStatsMatch, "match", "", "Print one online match by its id")
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagStatsMatch != "" {
		m, err := store.OnlineMatchByID(flagStatsMatch)
		if err != nil {
			return fmt.Errorf("reading match: %w", err)
		}
		if m == nil {
			return fmt.Errorf("no match with id %q", flagStatsMatch)
		}
		printMatch(*m)
		return nil
	}
	if !flagStatsPlain {
		width, height := terminalSize()
		return tui.RunScoreboard(store, width, height)
	}
	return printStats(store)
}

func printStats(store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	fmt.Println("Solo")
	if len(all) == 0 {
		fmt.Println("  Nothing recorded yet.")
	} else {
		ids := make([]string, 0, len(all))
		for id := range all {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Printf("  %-10s  %-6s  %-10s  %-8s  %-6s  %s\n", "Mode", "Games", "Best", "Average", "Lines", "Last played")
		for _, id := range ids {
			s := all[id]
			fmt.Printf("  %-10s  %-6d  %-10d  %-8.0f  %-6d  %s\n",
				id, s.GamesCount, s.HighScore, s.AvgScore, s.TotalLines, s.LastPlayed.Format("2006-01-02 15:04"))
		}
	}
	fmt.Println()

	duo, err := store.DuoStats()
	if err != nil {
		return fmt.Errorf("reading duo tally: %w", err)
	}
	fmt.Println("Duo")
	fmt.Printf("  Player 1 %d : %d Player 2\n", duo.P1Wins, duo.P2Wins)
	fmt.Println()

	var matches []storage.OnlineMatchResult
	if flagStatsPlayer != "" {
		matches, err = store.PlayerMatchHistory(flagStatsPlayer, flagStatsMatches)
	} else {
		matches, err = store.RecentOnlineMatches(flagStatsMatches)
	}
	if err != nil {
		return fmt.Errorf("reading online matches: %w", err)
	}
	fmt.Println("Online")
	if len(matches) == 0 {
		fmt.Println("  Nothing recorded yet.")
		return nil
	}
	for _, m := range matches {
		printMatch(m)
	}
	return nil
}

func printMatch(m storage.OnlineMatchResult) {
	winner := m.Winner
	if winner == "" {
		winner = "-"
	}
	fmt.Printf("  %s  %s %d vs %s %d  winner %s  (%s, %s, %ds)  %s\n",
		m.CreatedAt.Format("2006-01-02 15:04"),
		m.HostName, m.HostScore, m.GuestName, m.GuestScore,
		winner, m.EndReason, m.AttackMode, m.Duration, m.MatchID)
}
