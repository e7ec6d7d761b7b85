package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/pixelgift/internal/progress"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent game wins",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		records, err := e.st.CompletionRepo().Recent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No games won yet.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-20s  %6s  %5s  %s\n", "Seq", "Time", "Game", "Score", "Play", "Saved")
		fmt.Println(strings.Repeat("─", 72))
		for _, r := range records {
			name := r.Game
			if id, err := progress.ParseGameID(r.Game); err == nil {
				name = id.DisplayName()
			}
			saved := "✓"
			if !r.Saved {
				saved = "✗"
			}
			fmt.Printf("%-5d  %-19s  %-20s  %6d  %5d  %s\n",
				r.Sequence,
				r.At.Local().Format("2006-01-02 15:04:05"),
				truncate(name, 20),
				r.Score,
				r.PlayThrough,
				saved,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of wins to show")
}
