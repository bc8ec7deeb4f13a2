// Package store persists registrations and admin credentials.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"EventRegistration/internal/db"
	"EventRegistration/internal/models"
)

const registrationColumns = `id, name, phone, job, job_location, address, circle, payment_id,
	payment_screenshot, submitted_at, created_at, updated_at`

// Registrations is the registrations table.
type Registrations struct {
	db *db.DB
}

// NewRegistrations returns a repository over d.
func NewRegistrations(d *db.DB) *Registrations {
	return &Registrations{db: d}
}

func scanRegistration(scanner interface{ Scan(...any) error }) (models.Registration, error) {
	var r models.Registration
	var screenshot sql.NullString
	var submitted, created, updated db.Timestamp
	err := scanner.Scan(
		&r.ID, &r.Name, &r.Phone, &r.Job, &r.JobLocation, &r.Address, &r.Circle, &r.PaymentID,
		&screenshot, &submitted, &created, &updated,
	)
	if err != nil {
		return r, err
	}
	if screenshot.Valid {
		r.PaymentScreenshot = &screenshot.String
	}
	r.SubmittedAt = submitted.Time
	r.CreatedAt = created.Time
	r.UpdatedAt = updated.Time
	return r, nil
}

// Insert stores r and fills in its ID. SubmittedAt must be set by the caller;
// CreatedAt/UpdatedAt default to SubmittedAt.
func (s *Registrations) Insert(ctx context.Context, r *models.Registration) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = r.SubmittedAt
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.SubmittedAt
	}

	var screenshot any
	if r.PaymentScreenshot != nil {
		screenshot = *r.PaymentScreenshot
	}

	d := s.db.Driver
	q := d.Rebind(`INSERT INTO registrations
		(name, phone, job, job_location, address, circle, payment_id, payment_screenshot,
		 submitted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err := s.db.SQL.QueryRowContext(ctx, q,
		r.Name, r.Phone, r.Job, r.JobLocation, r.Address, r.Circle, r.PaymentID, screenshot,
		d.TimeArg(r.SubmittedAt), d.TimeArg(r.CreatedAt), d.TimeArg(r.UpdatedAt),
	).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// PaymentExists reports whether any registration carries paymentID.
func (s *Registrations) PaymentExists(ctx context.Context, paymentID string) (bool, error) {
	var exists bool
	q := s.db.Driver.Rebind(`SELECT EXISTS(SELECT 1 FROM registrations WHERE payment_id = ?)`)
	if err := s.db.SQL.QueryRowContext(ctx, q, paymentID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check payment id: %w", err)
	}
	return exists, nil
}

// Count returns how many rows match f, ignoring pagination.
func (s *Registrations) Count(ctx context.Context, f *Filter) (int, error) {
	where, args := f.Where(s.db.Driver)
	var n int
	q := s.db.Driver.Rebind(`SELECT COUNT(*) FROM registrations` + where)
	if err := s.db.SQL.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return n, nil
}

// List returns one page of rows matching f, newest submission first.
// Ties on submitted_at fall back to id so pages never overlap.
func (s *Registrations) List(ctx context.Context, f *Filter, limit, offset int) ([]models.Registration, error) {
	where, args := f.Where(s.db.Driver)
	q := s.db.Driver.Rebind(`SELECT ` + registrationColumns + ` FROM registrations` + where +
		` ORDER BY submitted_at DESC, id DESC LIMIT ? OFFSET ?`)
	args = append(args, limit, offset)

	rows, err := s.db.SQL.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	list := []models.Registration{}
	for rows.Next() {
		r, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return list, nil
}

// Get returns one registration or models.ErrNotFound.
func (s *Registrations) Get(ctx context.Context, id int64) (*models.Registration, error) {
	q := s.db.Driver.Rebind(`SELECT ` + registrationColumns + ` FROM registrations WHERE id = ?`)
	r, err := scanRegistration(s.db.SQL.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get registration %d: %w", id, err)
	}
	return &r, nil
}

// CountByCircle groups all rows by circle, largest group first.
// Equal counts are ordered by circle name.
func (s *Registrations) CountByCircle(ctx context.Context) ([]models.CircleCount, error) {
	rows, err := s.db.SQL.QueryContext(ctx, `
		SELECT circle, COUNT(*) AS cnt
		FROM registrations
		GROUP BY circle
		ORDER BY cnt DESC, circle ASC`)
	if err != nil {
		return nil, fmt.Errorf("count by circle: %w", err)
	}
	defer rows.Close()

	out := make([]models.CircleCount, 0, 16)
	for rows.Next() {
		var c models.CircleCount
		if err := rows.Scan(&c.Circle, &c.Count); err != nil {
			return nil, fmt.Errorf("scan circle count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a row and returns what identified it, or models.ErrNotFound.
func (s *Registrations) Delete(ctx context.Context, id int64) (*models.DeletedRegistration, error) {
	var out models.DeletedRegistration
	q := s.db.Driver.Rebind(`DELETE FROM registrations WHERE id = ? RETURNING id, name, payment_id`)
	err := s.db.SQL.QueryRowContext(ctx, q, id).Scan(&out.ID, &out.Name, &out.PaymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete registration %d: %w", id, err)
	}
	return &out, nil
}
