package audit

import "context"

type Repository interface {
	Insert(ctx context.Context, e Entry) error
	Search(ctx context.Context, f Filter, sort Sort, page, size int) ([]Entry, int64, error)
}
