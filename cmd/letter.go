package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/pixelgift/internal/rewards"
	"github.com/spf13/cobra"
)

var letterCmd = &cobra.Command{
	Use:   "letter",
	Short: "Preview the special reward letter",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		w, err := letterWriter(cmd, e)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 45*time.Second)
		defer cancel()
		letter := w.Write(ctx, rewards.LetterInput{
			Recipient: e.cfg.Recipient,
			Presents:  rewards.NewCatalogue(e.cfg.Presents).Presents(),
		})

		fmt.Println(letter.Title)
		fmt.Println()
		fmt.Println(letter.Body)
		if w.Personalizes() && !letter.Personalized {
			fmt.Println("\n(model unavailable, showing the written letter)")
		}
		return nil
	},
}
