package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	hubsync "github.com/abhisek/pixelgift/internal/hub"
	"github.com/abhisek/pixelgift/internal/llm"
	"github.com/abhisek/pixelgift/internal/progress"
	"github.com/abhisek/pixelgift/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show game progress, wins and LLM usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if watch {
			return watchProgress(cmd.Context(), e)
		}

		ctx := cmd.Context()
		printProgress(progress.Rewards(e.progress.Get()))

		counts, err := e.st.CompletionRepo().CountByGame(ctx)
		if err != nil {
			return fmt.Errorf("count wins: %w", err)
		}
		fmt.Println()
		fmt.Println("Wins")
		fmt.Println(strings.Repeat("─", 40))
		for _, id := range progress.AllGames {
			fmt.Printf("%-24s  %6d\n", id.DisplayName(), counts[string(id)])
		}

		return printLLMUsage(ctx, e.st.EventRepo())
	},
}

func printProgress(r progress.RewardState) {
	fmt.Printf("Progress  %d/%d games\n", r.Completed, r.Total)
	fmt.Println(strings.Repeat("─", 40))
	for _, id := range progress.AllGames {
		mark := "·"
		if r.Unlocked[id] {
			mark = "✓"
		}
		fmt.Printf("  %s %s\n", mark, id.DisplayName())
	}
	if r.AllCompleted {
		fmt.Println("  ♥ special reward unlocked")
	}
}

// watchProgress prints a line every time the stored progress changes, the
// way the hub would see it, until interrupted.
func watchProgress(ctx context.Context, e *env) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	s := hubsync.New(e.progress,
		hubsync.WithLogger(e.log),
		hubsync.WithPollInterval(e.cfg.PollInterval),
		hubsync.WithTokenWatchInterval(e.cfg.TokenWatchInterval),
	)
	fmt.Println("Watching progress. Ctrl+C to stop.")
	err := s.Run(ctx, func(r progress.RewardState, sig hubsync.Signal) {
		var done []string
		for _, id := range progress.AllGames {
			if r.Unlocked[id] {
				done = append(done, string(id))
			}
		}
		fmt.Printf("%s  %-10s  %d/%d  %s\n",
			time.Now().Format("15:04:05"), sig, r.Completed, r.Total, strings.Join(done, ", "))
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printLLMUsage(ctx context.Context, events store.EventRepo) error {
	usage, err := events.LLMUsage(ctx)
	if err != nil {
		return fmt.Errorf("query LLM usage: %w", err)
	}
	if len(usage) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println("Letter writing (LLM)")
	fmt.Println(strings.Repeat("─", 80))
	fmt.Printf("%-32s  %6s  %6s  %10s  %10s  %8s\n",
		"Model", "Calls", "Failed", "Input", "Output", "Cost")
	fmt.Println(strings.Repeat("─", 80))

	var totalCost float64
	var unknownModels []string
	for _, u := range usage {
		cost := "?"
		if c := llm.LookupCost(u.Model); c != nil {
			usd := c.Cost(u.InputTokens, u.OutputTokens)
			totalCost += usd
			cost = formatCost(usd)
		} else {
			unknownModels = append(unknownModels, u.Model)
		}
		fmt.Printf("%-32s  %6d  %6d  %10d  %10d  %8s\n",
			truncate(u.Model, 32), u.Calls, u.Failures, u.InputTokens, u.OutputTokens, cost)
	}

	fmt.Println(strings.Repeat("─", 80))
	label := "TOTAL"
	if len(unknownModels) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Printf("%-32s  %6s  %6s  %10s  %10s  %8s\n", label, "", "", "", "", formatCost(totalCost))
	if len(unknownModels) > 0 {
		fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	statsCmd.Flags().BoolP("watch", "w", false, "Keep running and print every progress change")
}
