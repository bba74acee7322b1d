package cmd

import (
	"fmt"
	"log"
	"os"

	"spoty/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "spoty",
	Short: "Spoty is a music cataloging and playback service.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting Spoty server...")
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
