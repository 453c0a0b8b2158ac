package postgres

import (
	"fmt"
	"strings"

	"acadrepo/internal/model"
)

// SlotColumn maps an attachment role to the column holding its filename.
type SlotColumn struct {
	Role   model.Role
	Column string
}

// Table describes how one record kind is laid out in PostgreSQL. Columns are
// the editable fields; id, created_at, updated_at, slots and counters are
// handled generically through the model.Record interface.
type Table[R model.Record] struct {
	Name     string
	Columns  []string
	Slots    []SlotColumn
	Counters []model.Counter

	// New allocates an empty record to scan into.
	New func() R
	// Values returns the values for Columns, in order.
	Values func(R) []any
	// Targets returns scan destinations for Columns, in order.
	Targets func(R) []any

	// TitleColumn feeds the recent list of the stats rollup.
	TitleColumn string
	// TypeColumn is compared for equality with Filter.Type and grouped on for stats.
	TypeColumn string
	// SearchExprs are ILIKE-matched against Filter.Search.
	SearchExprs []string
	// AuthorMatch is a predicate with one %d placeholder for the pattern argument.
	AuthorMatch string
	// YearColumn is compared for equality with Filter.Year.
	YearColumn string
}

func (t *Table[R]) selectColumns() []string {
	cols := make([]string, 0, 3+len(t.Columns)+len(t.Slots)+len(t.Counters))
	cols = append(cols, "id", "created_at", "updated_at")
	cols = append(cols, t.Columns...)
	for _, s := range t.Slots {
		cols = append(cols, s.Column)
	}
	for _, c := range t.Counters {
		cols = append(cols, string(c))
	}
	return cols
}

func (t *Table[R]) scanTargets(rec R) []any {
	meta := rec.Base()
	out := []any{&meta.ID, &meta.CreatedAt, &meta.UpdatedAt}
	out = append(out, t.Targets(rec)...)
	for _, s := range t.Slots {
		out = append(out, rec.Slot(s.Role))
	}
	for _, c := range t.Counters {
		out = append(out, rec.Count(c))
	}
	return out
}

func (t *Table[R]) insertValues(rec R) []any {
	meta := rec.Base()
	out := []any{meta.ID, meta.CreatedAt, meta.UpdatedAt}
	out = append(out, t.Values(rec)...)
	for _, s := range t.Slots {
		out = append(out, *rec.Slot(s.Role))
	}
	for _, c := range t.Counters {
		out = append(out, *rec.Count(c))
	}
	return out
}

func (t *Table[R]) slotColumn(role model.Role) (string, error) {
	for _, s := range t.Slots {
		if s.Role == role {
			return s.Column, nil
		}
	}
	return "", fmt.Errorf("postgres: %s has no %s slot", t.Name, role)
}

func (t *Table[R]) hasCounter(c model.Counter) bool {
	for _, have := range t.Counters {
		if have == c {
			return true
		}
	}
	return false
}

// where renders the filter as a WHERE clause whose placeholders start at $1.
func (t *Table[R]) where(f model.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) int {
		args = append(args, v)
		return len(args)
	}

	if f.Search != "" && len(t.SearchExprs) > 0 {
		n := next(likePattern(f.Search))
		ors := make([]string, len(t.SearchExprs))
		for i, e := range t.SearchExprs {
			ors[i] = fmt.Sprintf("%s ILIKE $%d", e, n)
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}
	if f.Type != "" && t.TypeColumn != "" {
		conds = append(conds, fmt.Sprintf("%s = $%d", t.TypeColumn, next(f.Type)))
	}
	if f.Author != "" && t.AuthorMatch != "" {
		conds = append(conds, fmt.Sprintf(t.AuthorMatch, next(likePattern(f.Author))))
	}
	if f.Year != 0 && t.YearColumn != "" {
		conds = append(conds, fmt.Sprintf("%s = $%d", t.YearColumn, next(f.Year)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ps, ", ")
}
