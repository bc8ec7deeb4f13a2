package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"EventRegistration/internal/db"
	"EventRegistration/internal/store"
)

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		seedUsername, seedPassword = "", ""
	})
	return rootCmd.ExecuteContext(context.Background())
}

func TestMigrateAndSeedAdmin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.db")
	t.Setenv("DATABASE_URL", "sqlite:///"+path)
	t.Setenv("LOG_LEVEL", "ERROR")

	require.NoError(t, runCLI(t, "migrate"))
	require.NoError(t, runCLI(t, "seed-admin", "--username", "root", "--password", "pw-123"))

	d, err := db.Connect(context.Background(), "sqlite:///"+path)
	require.NoError(t, err)
	defer d.Close()

	a, err := store.NewAdmins(d).FindByUsername(context.Background(), "root")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("pw-123")))
}

func TestSeedAdminNeedsCredentials(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite:///"+filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("LOG_LEVEL", "ERROR")

	require.Error(t, runCLI(t, "seed-admin"))
}

func TestBadConfigFails(t *testing.T) {
	t.Setenv("DUPLICATE_PAYMENT_POLICY", "sometimes")
	require.Error(t, runCLI(t, "migrate"))
}
