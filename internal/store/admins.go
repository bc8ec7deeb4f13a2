package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"EventRegistration/internal/db"
	"EventRegistration/internal/models"
)

// ErrAdminNotFound is returned when no admins row has the requested username.
var ErrAdminNotFound = errors.New("admin not found")

// Admins is the secondary admin credential table.
type Admins struct {
	db *db.DB
}

// NewAdmins returns a repository over d.
func NewAdmins(d *db.DB) *Admins {
	return &Admins{db: d}
}

// Upsert stores a password hash for username, replacing any previous one.
func (s *Admins) Upsert(ctx context.Context, username, passwordHash string) error {
	d := s.db.Driver
	now := d.TimeArg(time.Now().Truncate(time.Millisecond))
	q := d.Rebind(`INSERT INTO admins (username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = excluded.password_hash, updated_at = excluded.updated_at`)
	if _, err := s.db.SQL.ExecContext(ctx, q, username, passwordHash, now, now); err != nil {
		return fmt.Errorf("upsert admin: %w", err)
	}
	return nil
}

// FindByUsername loads an admin row or returns ErrAdminNotFound.
func (s *Admins) FindByUsername(ctx context.Context, username string) (*models.Administrator, error) {
	var a models.Administrator
	var created, updated db.Timestamp
	q := s.db.Driver.Rebind(`SELECT id, username, password_hash, created_at, updated_at
		FROM admins WHERE username = ?`)
	err := s.db.SQL.QueryRowContext(ctx, q, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	a.CreatedAt = created.Time
	a.UpdatedAt = updated.Time
	return &a, nil
}
