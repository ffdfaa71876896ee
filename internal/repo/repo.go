package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"delega/internal/db"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

// ErrConflict reports a uniqueness violation such as a duplicated cpf or oab.
var ErrConflict = errors.New("conflict")

// ErrStatusChanged reports a guarded update whose row no longer holds the expected status.
var ErrStatusChanged = errors.New("status changed")

const timeLayout = time.RFC3339Nano

func (r Repo) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.DB)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// insertID runs an INSERT ... RETURNING id statement.
func (r Repo) insertID(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := r.conn(ctx).QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return 0, err
	}
	return id, nil
}
