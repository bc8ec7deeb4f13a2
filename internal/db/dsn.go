package db

import (
	"fmt"
	"net/url"
	"strings"
)

// Driver is a database/sql driver name this service knows how to talk to.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"   // modernc.org/sqlite
	DriverPostgres Driver = "postgres" // github.com/lib/pq
	DriverPgx      Driver = "pgx"      // pgxpool behind github.com/jackc/pgx/v5/stdlib
)

// IsPostgres reports whether the driver speaks the Postgres dialect.
func (d Driver) IsPostgres() bool { return d == DriverPostgres || d == DriverPgx }

const defaultSQLiteFile = "eventreg.db"

func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
}

// ParseDSN maps DATABASE_URL onto a driver and a DSN that driver accepts.
//
//	""                      -> sqlite, ./eventreg.db
//	sqlite:///path/file.db  -> sqlite
//	postgres://..., postgresql://..., "host=... dbname=..." -> lib/pq
//	pgx://...               -> pgx (rewritten to postgres://...)
//	anything else           -> sqlite file path
func ParseDSN(databaseURL string) (Driver, string) {
	databaseURL = strings.TrimSpace(databaseURL)
	if databaseURL == "" {
		return DriverSQLite, sqliteDSN(defaultSQLiteFile)
	}

	if u, err := url.Parse(databaseURL); err == nil && u.Scheme != "" {
		switch u.Scheme {
		case "sqlite", "sqlite3":
			path := strings.TrimPrefix(databaseURL, u.Scheme+"://")
			path = strings.TrimPrefix(path, "/")
			return DriverSQLite, sqliteDSN(path)
		case "postgres", "postgresql":
			return DriverPostgres, databaseURL
		case "pgx":
			return DriverPgx, "postgres://" + strings.TrimPrefix(databaseURL, "pgx://")
		}
	}

	// lib/pq key=value form, e.g. "host=127.0.0.1 user=postgres dbname=events sslmode=disable"
	if strings.Contains(databaseURL, "host=") || strings.Contains(databaseURL, "dbname=") {
		return DriverPostgres, databaseURL
	}

	return DriverSQLite, sqliteDSN(databaseURL)
}
