package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"EventRegistration/internal/log"
	"EventRegistration/internal/services"
	"EventRegistration/internal/store"
)

var (
	seedUsername string
	seedPassword string
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Store a bcrypt admin credential for ADMIN_AUTH_SOURCE=database",
	Long: `Hashes the given password with bcrypt and upserts it into the admins table.
Defaults to ADMIN_USERNAME and ADMIN_PASSWORD when the flags are omitted.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		username := strings.TrimSpace(seedUsername)
		if username == "" {
			username = cfg.AdminUsername
		}
		password := seedPassword
		if password == "" {
			password = cfg.AdminPassword
		}
		if username == "" || password == "" {
			return errors.New("seed-admin: username and password are required")
		}

		hash, err := services.HashPassword(password)
		if err != nil {
			return err
		}

		d, err := openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := store.NewAdmins(d).Upsert(cmd.Context(), username, hash); err != nil {
			return err
		}
		log.Info(log.CatAuth, "admin credential stored", "username", username)
		return nil
	},
}

func init() {
	seedAdminCmd.Flags().StringVarP(&seedUsername, "username", "u", "", "admin username (default ADMIN_USERNAME)")
	seedAdminCmd.Flags().StringVarP(&seedPassword, "password", "p", "", "admin password (default ADMIN_PASSWORD)")
}
