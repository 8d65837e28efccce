package audit

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hospital-ops/internal/identity"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// sortableFields maps caller-facing sort field names to storage columns.
// Anything else falls back to the default sort.
var sortableFields = map[string]string{
	"id":         "id",
	"username":   "username",
	"action":     "action",
	"entityName": "entity_name",
	"entityId":   "entity_id",
	"createdAt":  "created_at",
}

// Recorder appends audit entries for mutating operations and serves the
// audit search.
type Recorder struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewRecorder(repo Repository, log zerolog.Logger) *Recorder {
	return &Recorder{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Record appends one entry attributed to the caller in ctx, or SYSTEM when
// there is none. It is called after the domain write succeeds; an insert
// failure is logged and swallowed so it never rolls back or fails the
// already-committed domain change.
func (r *Recorder) Record(ctx context.Context, action, entityName string, entityID int64, details string) {
	e := Entry{
		Username:   identity.Actor(ctx),
		Action:     action,
		EntityName: entityName,
		EntityID:   entityID,
		CreatedAt:  r.now(),
		Details:    details,
	}

	if err := r.repo.Insert(ctx, e); err != nil {
		r.log.Error().
			Err(err).
			Str("action", action).
			Str("entity_name", entityName).
			Int64("entity_id", entityID).
			Msg("audit insert failed")
	}
}

// Search returns one page of entries matching the filter plus the total
// match count. sort is a "field,direction" pair; anything unparseable falls
// back to createdAt descending, and any direction other than "asc" means
// descending.
func (r *Recorder) Search(ctx context.Context, f Filter, page, size int, sort string) (*Page, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	items, total, err := r.repo.Search(ctx, f, parseSort(sort), page, size)
	if err != nil {
		return nil, err
	}

	return &Page{
		Items:      items,
		TotalCount: total,
		Page:       page,
		Size:       size,
	}, nil
}

func parseSort(raw string) Sort {
	def := Sort{Field: "created_at", Desc: true}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}

	parts := strings.Split(raw, ",")
	col, ok := sortableFields[strings.TrimSpace(parts[0])]
	if !ok {
		return def
	}

	dir := "desc"
	if len(parts) > 1 {
		dir = strings.ToLower(strings.TrimSpace(parts[1]))
	}

	return Sort{Field: col, Desc: dir != "asc"}
}
