package db

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rebind converts '?' placeholders to the driver's format ($1, $2, ... for Postgres).
func (d Driver) Rebind(query string) string {
	if !d.IsPostgres() {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// ContainsCond is a case-insensitive LIKE on col against one '?' pattern argument
// escaped with '\'. SQLite folds both sides through FoldFunc.
func (d Driver) ContainsCond(col string) string {
	if d.IsPostgres() {
		return col + ` ILIKE ? ESCAPE '\'`
	}
	return FoldFunc + "(" + col + ") LIKE " + FoldFunc + `(?) ESCAPE '\'`
}

// TimeArg converts t to the value stored in timestamp columns:
// TIMESTAMPTZ on Postgres, Unix milliseconds (INTEGER) on SQLite.
func (d Driver) TimeArg(t time.Time) any {
	if d.IsPostgres() {
		return t
	}
	return t.UTC().UnixMilli()
}

// Timestamp scans either storage representation of a timestamp column.
type Timestamp struct {
	time.Time
}

// Scan implements sql.Scanner.
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
	case time.Time:
		t.Time = v
	case int64:
		t.Time = time.UnixMilli(v)
	default:
		return fmt.Errorf("db: cannot scan %T into Timestamp", src)
	}
	return nil
}
