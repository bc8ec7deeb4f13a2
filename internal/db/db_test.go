package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDSN(t *testing.T) {
	tests := []struct {
		in     string
		driver Driver
		dsn    string
	}{
		{"", DriverSQLite, sqliteDSN("eventreg.db")},
		{"sqlite:///data/reg.db", DriverSQLite, sqliteDSN("data/reg.db")},
		{"postgres://u:p@localhost:5432/events", DriverPostgres, "postgres://u:p@localhost:5432/events"},
		{"postgresql://localhost/events", DriverPostgres, "postgresql://localhost/events"},
		{"pgx://u:p@localhost/events", DriverPgx, "postgres://u:p@localhost/events"},
		{"host=127.0.0.1 dbname=events sslmode=disable", DriverPostgres, "host=127.0.0.1 dbname=events sslmode=disable"},
		{"local.db", DriverSQLite, sqliteDSN("local.db")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			driver, dsn := ParseDSN(tt.in)
			require.Equal(t, tt.driver, driver)
			require.Equal(t, tt.dsn, dsn)
		})
	}
}

func TestRebind(t *testing.T) {
	q := "SELECT id FROM registrations WHERE name LIKE ? AND circle = ? LIMIT ?"
	require.Equal(t, q, DriverSQLite.Rebind(q))
	require.Equal(t,
		"SELECT id FROM registrations WHERE name LIKE $1 AND circle = $2 LIMIT $3",
		DriverPostgres.Rebind(q))
	require.Equal(t, DriverPostgres.Rebind(q), DriverPgx.Rebind(q))
}

func TestDialectHelpers(t *testing.T) {
	require.Equal(t, `name ILIKE ? ESCAPE '\'`, DriverPostgres.ContainsCond("name"))
	require.Equal(t, `unicode_lower(name) LIKE unicode_lower(?) ESCAPE '\'`, DriverSQLite.ContainsCond("name"))

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.Equal(t, now, DriverPostgres.TimeArg(now))
	require.Equal(t, now.UnixMilli(), DriverSQLite.TimeArg(now))
}

func TestTimestampScan(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, int(123*time.Millisecond), time.UTC)

	var ts Timestamp
	require.NoError(t, ts.Scan(now.UnixMilli()))
	require.True(t, now.Equal(ts.Time))

	require.NoError(t, ts.Scan(now))
	require.True(t, now.Equal(ts.Time))

	require.NoError(t, ts.Scan(nil))
	require.True(t, ts.IsZero())

	require.Error(t, ts.Scan("yesterday"))
}

func TestConnectAndMigrate_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := Connect(context.Background(), "sqlite:///"+path)
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Migrate())
	require.NoError(t, d.Migrate(), "second run should be a no-op")

	for _, table := range []string{"registrations", "admins"} {
		var name string
		err := d.SQL.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "%s table should exist", table)
	}
	require.NoError(t, d.Ping(context.Background()))
}
