// Package testutil provides test utilities for database setup.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"EventRegistration/internal/db"
	"EventRegistration/internal/models"
)

// NewDB opens a migrated SQLite database in a temp dir, closed when the test ends.
func NewDB(t testing.TB) *db.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Connect(context.Background(), "sqlite:///"+path)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = d.Close() })
	require.NoError(t, d.Migrate(), "failed to migrate test database")
	return d
}

// CountRows returns the number of rows in the registrations table.
func CountRows(t testing.TB, d *db.DB) int {
	t.Helper()
	var n int
	require.NoError(t, d.SQL.QueryRow(`SELECT COUNT(*) FROM registrations`).Scan(&n))
	return n
}

// Registration returns a fully populated registration submitted at `at`.
func Registration(name, circle string, at time.Time) models.Registration {
	return models.Registration{
		Name:        name,
		Phone:       "98470" + name,
		Job:         "Teacher",
		JobLocation: "Kochi",
		Address:     "12 Market Road",
		Circle:      circle,
		PaymentID:   "PAY-" + name,
		SubmittedAt: at.Truncate(time.Millisecond),
	}
}
