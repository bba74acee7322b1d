package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"spoty/config"
	"spoty/storage"

	"github.com/spf13/cobra"
)

// storageCmd uploads a small probe file through the configured asset backend,
// which exercises the same path the admin upload endpoint uses.
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Asset backend connectivity check",
	Long:  `Upload a small probe file through the configured asset backend and print its public address.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		var uploader storage.Uploader
		if cfg.AssetBackend == "minio" {
			store, err := storage.NewMinioStore(cfg)
			if err != nil {
				log.Fatalf("Failed to initialize MinIO backend: %v", err)
			}
			uploader = store
			fmt.Println("Checking MinIO asset backend...")
		} else {
			uploader = storage.NewCloudinaryClient(cfg)
			fmt.Println("Checking Cloudinary asset backend...")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		probe := strings.NewReader("spoty asset backend probe " + time.Now().Format(time.RFC3339))
		result, err := uploader.Upload(ctx, probe, "probe.txt", storage.KindImage, "diagnostics")
		if err != nil {
			log.Fatalf("Probe upload failed: %v", err)
		}

		fmt.Printf("Probe uploaded: %s\n", result.SecureURL)
		fmt.Printf("Public ID: %s\n", result.PublicID)
	},
}

func init() {
	rootCmd.AddCommand(storageCmd)
}
