package cmd

import (
	"context"
	"fmt"
	"log"

	"spoty/config"
	"spoty/db"
	"spoty/model"
	"spoty/repository"

	"github.com/spf13/cobra"
)

var (
	adminEmail string
	adminRole  string
)

// Role changes are deliberately out-of-band: there is no API endpoint that can
// alter a user's role, not even for admins.
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Change a user's role",
	Long:  `Promote or demote a user by email. This is the only way a role ever changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		if adminEmail == "" {
			log.Fatal("--email is required")
		}
		role := model.Role(adminRole)
		if role != model.RoleAdmin && role != model.RoleUser {
			log.Fatalf("invalid role %q: must be admin or user", adminRole)
		}

		cfg := config.Load()
		if err := db.ConnectDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.DB.Close()

		ctx := context.Background()
		userRepo := repository.NewMySQLUserRepository(db.DB)

		user, err := userRepo.GetByEmail(ctx, adminEmail)
		if err != nil {
			log.Fatalf("Failed to look up user: %v", err)
		}
		if user == nil {
			log.Fatalf("No user record exists for %s", adminEmail)
		}

		if user.Role == role {
			fmt.Printf("User %s already has role %s\n", adminEmail, role)
			return
		}

		if err := userRepo.UpdateRole(ctx, user.ID, role); err != nil {
			log.Fatalf("Failed to update role: %v", err)
		}
		fmt.Printf("User %s role changed: %s -> %s\n", adminEmail, user.Role, role)
	},
}

func init() {
	adminCmd.Flags().StringVar(&adminEmail, "email", "", "email of the user to change")
	adminCmd.Flags().StringVar(&adminRole, "role", "admin", "role to assign (admin or user)")
	rootCmd.AddCommand(adminCmd)
}
