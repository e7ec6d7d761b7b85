package cmd

import (
	"errors"
	"fmt"

	"github.com/abhisek/pixelgift/internal/progress"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear game progress",
	Long: "Clear the completion of every game, or of one game with --game.\n" +
		"A running hub picks the change up on its next storage check.",
	RunE: func(cmd *cobra.Command, args []string) error {
		game, _ := cmd.Flags().GetString("game")
		logout, _ := cmd.Flags().GetBool("logout")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if game != "" {
			id, err := progress.ParseGameID(game)
			if err != nil {
				return err
			}
			if !e.progress.Reset(id) {
				return errors.New("progress could not be saved")
			}
			fmt.Printf("Reset %s.\n", id.DisplayName())
		} else {
			if !e.progress.ResetAll() {
				return errors.New("progress could not be saved")
			}
			fmt.Println("Reset all games.")
		}

		if logout {
			if err := e.gate.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().StringP("game", "g", "", "Reset a single game (flowerMatch, cupcakeCatch, heartJump)")
	resetCmd.Flags().Bool("logout", false, "Also clear the saved login")
}
