package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"EventRegistration/internal/config"
	"EventRegistration/internal/db"
	"EventRegistration/internal/log"
)

var (
	version = "dev"
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:           "eventreg",
	Short:         "Event registration API",
	Long:          `Collects public event registrations and serves the admin dashboard API.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"optional YAML config file; environment variables override it")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedAdminCmd)
}

// loadConfig reads settings and applies the log level.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log.SetMinLevel(log.ParseLevel(cfg.LogLevel))
	log.Debug(log.CatConfig, "config loaded", "env", cfg.Env, "addr", cfg.Addr())
	return cfg, nil
}

// openDB connects and brings the schema up to date.
func openDB(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	d, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := d.Migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}
