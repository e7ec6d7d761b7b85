package cmd

import (
	"github.com/abhisek/pixelgift/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pixelgift",
	Short: "A retro gift you unwrap by playing",
	Long:  "PixelGift: log in, win three mini-games and unlock a present for each one.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PIXELGIFT_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides PIXELGIFT_CONFIG env var)")
	rootCmd.Flags().Bool("skip-intro", false, "Start at the login screen")
	rootCmd.Flags().Uint64("seed", 0, "Fix the game boards (0 deals randomly)")

	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(passwdCmd)
	rootCmd.AddCommand(letterCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PIXELGIFT_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
