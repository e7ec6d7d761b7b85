package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/abhisek/pixelgift/internal/app"
	"github.com/abhisek/pixelgift/internal/completion"
	"github.com/abhisek/pixelgift/internal/llm"
	"github.com/abhisek/pixelgift/internal/progress"
	"github.com/abhisek/pixelgift/internal/rewards"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	state := e.progress.Initialize()
	e.log.Info("progress loaded", "completed", progress.Rewards(state).Completed)

	reporter := completion.NewReporter(e.cfg.ReporterURL, &http.Client{Timeout: 10 * time.Second}, e.log)
	if reporter != nil {
		defer reporter.Wait()
	}

	letters, err := letterWriter(cmd, e)
	if err != nil {
		return err
	}

	skip, _ := cmd.Flags().GetBool("skip-intro")
	seed, _ := cmd.Flags().GetUint64("seed")
	return app.Run(app.Options{
		Config:    e.cfg,
		Progress:  e.progress,
		Gate:      e.gate,
		History:   e.st.CompletionRepo(),
		Reporter:  reporter,
		Letters:   letters,
		Logger:    e.log,
		Seed:      seed,
		SkipIntro: skip,
	})
}

// letterWriter builds the special reward writer. The LLM is only wired in
// when the letter asks to be personalized and a provider is configured.
func letterWriter(cmd *cobra.Command, e *env) (*rewards.LetterWriter, error) {
	if !e.cfg.Letter.Personalize {
		return rewards.NewLetterWriter(nil, e.cfg.Letter, e.log), nil
	}
	llmCfg := llm.ConfigFromEnv()
	if !llmCfg.Enabled() {
		fmt.Fprintln(os.Stderr, "Letter personalization is on but no LLM provider is configured.")
		fmt.Fprintln(os.Stderr, "The written letter will be shown instead.")
		return rewards.NewLetterWriter(nil, e.cfg.Letter, e.log), nil
	}
	provider, err := llm.NewProvider(cmd.Context(), llmCfg, e.st.EventRepo(), e.log)
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	return rewards.NewLetterWriter(provider, e.cfg.Letter, e.log), nil
}
