package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/kanishk44/social-media/internal/model"
	"golang.org/x/sync/errgroup"
)

// PageQuery describes an ordered window plus the count of the whole
// collection. Select takes Args followed by offset and limit; Count takes
// Args only.
type PageQuery struct {
	Select string
	Count  string
	Args   []any
}

// FetchPage runs the window and the count concurrently. They are
// independent reads, so neither waits on the other.
func FetchPage[T any](ctx context.Context, q Querier, req model.PageRequest, pq PageQuery, scan func(pgx.Row) (T, error)) (model.Page[T], error) {
	var (
		items []T
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		args := append(append([]any{}, pq.Args...), req.Offset, req.Limit)
		rows, err := q.Query(gctx, pq.Select, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			item, err := scan(rows)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return q.QueryRow(gctx, pq.Count, pq.Args...).Scan(&total)
	})

	if err := g.Wait(); err != nil {
		return model.Page[T]{}, err
	}
	return model.NewPage(items, req, total), nil
}
