package cmd

import (
	"fmt"
	"log"

	"spoty/config"
	"spoty/db"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Redis connectivity check",
	Long:  `Verify the Redis connection with a basic set/get/del round trip.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Checking Redis connection...")

		cfg := config.Load()
		if err := db.ConnectRedis(cfg); err != nil {
			log.Fatalf("Redis connection failed: %v", err)
		}
		defer db.CloseRedis()

		if err := db.TestRedis(); err != nil {
			log.Fatalf("Redis round trip failed: %v", err)
		}

		fmt.Println("Redis connection OK")
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
