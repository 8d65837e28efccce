package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Insert(ctx context.Context, e Entry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_logs (username, action, entity_name, entity_id, created_at, details)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.Username, e.Action, e.EntityName, e.EntityID, e.CreatedAt, e.Details)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}

	return nil
}

// Search appends one WHERE term per present filter; absent filters add
// nothing. sort.Field comes from the service allowlist, never from the
// caller, so interpolating it is safe.
func (r *PgRepository) Search(ctx context.Context, f Filter, sort Sort, page, size int) ([]Entry, int64, error) {
	var conds []string
	var args []any

	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.UsernameContains != "" {
		add("username ILIKE $%d", "%"+f.UsernameContains+"%")
	}
	if f.Action != "" {
		add("action = $%d", f.Action)
	}
	if f.EntityName != "" {
		add("entity_name = $%d", f.EntityName)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM audit_logs"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT id, username, action, entity_name, entity_id, created_at, details
		FROM audit_logs%s
		ORDER BY %s %s, id %s
		LIMIT %d OFFSET %d
	`, where, sort.Field, dir, dir, size, page*size)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search audit logs: %w", err)
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Username, &e.Action, &e.EntityName, &e.EntityID, &e.CreatedAt, &e.Details); err != nil {
			return nil, 0, err
		}
		result = append(result, e)
	}

	return result, total, rows.Err()
}
