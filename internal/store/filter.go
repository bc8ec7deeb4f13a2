package store

import (
	"strings"
	"time"

	"EventRegistration/internal/db"
)

// Column is a filterable registrations column. Only these names ever reach SQL text.
type Column string

const (
	ColName        Column = "name"
	ColPhone       Column = "phone"
	ColCircle      Column = "circle"
	ColSubmittedAt Column = "submitted_at"
)

type predicateKind int

const (
	predContains predicateKind = iota
	predAtOrAfter
	predAtOrBefore
)

// Predicate is one typed condition of a Filter.
type Predicate struct {
	kind   predicateKind
	column Column
	text   string
	at     time.Time
}

// Filter is a conjunction of predicates over the registrations table.
// The zero value matches every row.
type Filter struct {
	preds []Predicate
}

// NewFilter returns an empty filter.
func NewFilter() *Filter {
	return &Filter{}
}

// Contains adds a case-insensitive substring match. Empty values are ignored.
func (f *Filter) Contains(col Column, value string) *Filter {
	if value == "" {
		return f
	}
	f.preds = append(f.preds, Predicate{kind: predContains, column: col, text: value})
	return f
}

// Since adds an inclusive lower bound on submission time.
func (f *Filter) Since(t time.Time) *Filter {
	f.preds = append(f.preds, Predicate{kind: predAtOrAfter, column: ColSubmittedAt, at: t})
	return f
}

// Until adds an inclusive upper bound on submission time.
func (f *Filter) Until(t time.Time) *Filter {
	f.preds = append(f.preds, Predicate{kind: predAtOrBefore, column: ColSubmittedAt, at: t})
	return f
}

// Len is the number of predicates.
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.preds)
}

// Where compiles the filter for the given dialect into a WHERE clause (empty when the
// filter has no predicates) and its arguments. Placeholders are '?'; the caller rebinds the
// finished statement once.
func (f *Filter) Where(d db.Driver) (string, []any) {
	if f.Len() == 0 {
		return "", nil
	}

	conds := make([]string, 0, len(f.preds))
	args := make([]any, 0, len(f.preds))
	for _, p := range f.preds {
		switch p.kind {
		case predContains:
			conds = append(conds, d.ContainsCond(string(p.column)))
			args = append(args, "%"+escapeLike(p.text)+"%")
		case predAtOrAfter:
			conds = append(conds, string(p.column)+" >= ?")
			args = append(args, d.TimeArg(p.at))
		case predAtOrBefore:
			conds = append(conds, string(p.column)+" <= ?")
			args = append(args, d.TimeArg(p.at))
		}
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user text match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
