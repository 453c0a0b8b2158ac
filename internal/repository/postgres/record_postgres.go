package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"acadrepo/internal/model"
	"acadrepo/internal/repository"
)

// RecordPostgres is a PostgreSQL implementation of repository.RecordRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type RecordPostgres[R model.Record] struct {
	db *sql.DB
	t  Table[R]

	columns string
	qInsert string
	qFind   string
	qUpdate string
	qDelete string
}

// NewRecordPostgres creates a repository for the kind described by t.
func NewRecordPostgres[R model.Record](db *sql.DB, t Table[R]) *RecordPostgres[R] {
	cols := t.selectColumns()
	columns := strings.Join(cols, ", ")

	sets := make([]string, 0, len(t.Columns)+1)
	for i, c := range t.Columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", c, i+2))
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(t.Columns)+2))

	return &RecordPostgres[R]{
		db:      db,
		t:       t,
		columns: columns,
		qInsert: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, columns, placeholders(1, len(cols))),
		qFind:   fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", columns, t.Name),
		qUpdate: fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", t.Name, strings.Join(sets, ", ")),
		qDelete: fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.Name),
	}
}

func NewProductPostgres(db *sql.DB) *RecordPostgres[*model.Product] {
	return NewRecordPostgres(db, ProductTable)
}

func NewNewsPostgres(db *sql.DB) *RecordPostgres[*model.News] {
	return NewRecordPostgres(db, NewsTable)
}

func NewEnsinoPostgres(db *sql.DB) *RecordPostgres[*model.Ensino] {
	return NewRecordPostgres(db, EnsinoTable)
}

func NewExtensaoPostgres(db *sql.DB) *RecordPostgres[*model.Extensao] {
	return NewRecordPostgres(db, ExtensaoTable)
}

var (
	_ repository.RecordRepository[*model.Product]  = (*RecordPostgres[*model.Product])(nil)
	_ repository.RecordRepository[*model.News]     = (*RecordPostgres[*model.News])(nil)
	_ repository.RecordRepository[*model.Ensino]   = (*RecordPostgres[*model.Ensino])(nil)
	_ repository.RecordRepository[*model.Extensao] = (*RecordPostgres[*model.Extensao])(nil)
)

// Create inserts a new row with every column supplied by the caller.
func (r *RecordPostgres[R]) Create(ctx context.Context, rec R) error {
	_, err := r.db.ExecContext(ctx, r.qInsert, r.t.insertValues(rec)...)
	return err
}

// FindByID fetches a single record by its ID.
func (r *RecordPostgres[R]) FindByID(ctx context.Context, id string) (R, error) {
	rec := r.t.New()
	if err := r.db.QueryRowContext(ctx, r.qFind, id).Scan(r.t.scanTargets(rec)...); err != nil {
		var zero R
		if errors.Is(err, sql.ErrNoRows) {
			return zero, repository.ErrNotFound
		}
		return zero, err
	}
	return rec, nil
}

// List returns records using LIMIT/OFFSET pagination and a total count.
func (r *RecordPostgres[R]) List(ctx context.Context, f model.Filter, pq repository.PageQuery) (*repository.PageResult[R], error) {
	where, args := r.t.where(f)

	// Count total rows
	qCount := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", r.t.Name, where)
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	// Fetch page
	qList := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		r.columns, r.t.Name, where, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]R, 0)
	for rows.Next() {
		rec := r.t.New()
		if err := rows.Scan(r.t.scanTargets(rec)...); err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[R]{
		Items: items,
		Total: total,
	}, nil
}

// Update overwrites the editable columns and updated_at.
func (r *RecordPostgres[R]) Update(ctx context.Context, rec R) error {
	meta := rec.Base()
	args := append([]any{meta.ID}, r.t.Values(rec)...)
	args = append(args, meta.UpdatedAt)
	res, err := r.db.ExecContext(ctx, r.qUpdate, args...)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// SetAttachment stores filename in the column backing role.
func (r *RecordPostgres[R]) SetAttachment(ctx context.Context, id string, role model.Role, filename string) error {
	col, err := r.t.slotColumn(role)
	if err != nil {
		return err
	}
	q := fmt.Sprintf("UPDATE %s SET %s = $2 WHERE id = $1", r.t.Name, col)
	res, err := r.db.ExecContext(ctx, q, id, filename)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// Delete removes a record by ID.
func (r *RecordPostgres[R]) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.qDelete, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// Increment bumps counter in a single statement so concurrent callers never
// lose an update.
func (r *RecordPostgres[R]) Increment(ctx context.Context, id string, counter model.Counter) (int64, error) {
	if !r.t.hasCounter(counter) {
		return 0, fmt.Errorf("postgres: %s has no %s counter", r.t.Name, counter)
	}
	q := fmt.Sprintf("UPDATE %s SET %s = %s + 1 WHERE id = $1 RETURNING %s", r.t.Name, counter, counter, counter)
	var n int64
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}
	return n, nil
}

// Summary aggregates the table for the stats rollup.
func (r *RecordPostgres[R]) Summary(ctx context.Context, recent int) (*model.KindSummary, error) {
	out := &model.KindSummary{
		ByType: map[string]int{},
		Recent: make([]model.RecentItem, 0, recent),
	}

	qCount := fmt.Sprintf("SELECT COUNT(*) FROM %s", r.t.Name)
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&out.Total); err != nil {
		return nil, err
	}

	qTypes := fmt.Sprintf("SELECT %s, COUNT(*) FROM %s GROUP BY %s", r.t.TypeColumn, r.t.Name, r.t.TypeColumn)
	rows, err := r.db.QueryContext(ctx, qTypes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			typ string
			n   int
		)
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		out.ByType[typ] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	qRecent := fmt.Sprintf("SELECT id, %s, created_at FROM %s ORDER BY created_at DESC, id DESC LIMIT $1",
		r.t.TitleColumn, r.t.Name)
	recentRows, err := r.db.QueryContext(ctx, qRecent, recent)
	if err != nil {
		return nil, err
	}
	defer recentRows.Close()
	for recentRows.Next() {
		var it model.RecentItem
		if err := recentRows.Scan(&it.ID, &it.Title, &it.CreatedAt); err != nil {
			return nil, err
		}
		out.Recent = append(out.Recent, it)
	}
	if err := recentRows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
