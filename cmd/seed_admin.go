package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/outreachhq/outreach/internal/config"
	"github.com/outreachhq/outreach/internal/services"
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the platform admin from ADMIN_EMAIL and ADMIN_PASSWORD",
	Run: func(cmd *cobra.Command, args []string) {
		conf := config.ReadConfig()

		if conf.ADMIN_EMAIL == "" || conf.ADMIN_PASSWORD == "" {
			fmt.Println("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
			os.Exit(1)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(conf.ADMIN_PASSWORD), bcrypt.DefaultCost)
		if err != nil {
			fmt.Println("Unable to hash admin password", err)
			os.Exit(1)
		}

		svc := services.NewServices(conf)

		created, err := svc.Admins.Ensure(context.Background(), conf.ADMIN_EMAIL, string(hash))
		if err != nil {
			fmt.Println("Unable to seed admin", err)
			os.Exit(1)
		}

		if created {
			fmt.Printf("Admin %s created\n", conf.ADMIN_EMAIL)
		} else {
			fmt.Printf("Admin %s already exists, skipping\n", conf.ADMIN_EMAIL)
		}

		os.Exit(0)
	},
}

// Register the "seed-admin" command
func init() {
	rootCmd.AddCommand(seedAdminCmd)
}
