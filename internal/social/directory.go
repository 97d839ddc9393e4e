package social

import (
	"context"

	"github.com/kanishk44/social-media/internal/db"
	"github.com/kanishk44/social-media/internal/errs"
	"github.com/kanishk44/social-media/internal/model"
)

var ErrUserNotFound = errs.New(errs.KindUserNotFound, "User not found")

// ProfileCache is satisfied by *cache.Profiles.
type ProfileCache interface {
	Get(ctx context.Context, id string) (model.PublicUser, bool)
	Set(ctx context.Context, user model.PublicUser) error
}

// Directory resolves user ids to public projections. It is also the
// existence check for every operation that names a subject user.
type Directory struct {
	db    db.Querier
	cache ProfileCache
}

func NewDirectory(q db.Querier, cache ProfileCache) *Directory {
	return &Directory{db: q, cache: cache}
}

func (d *Directory) Profile(ctx context.Context, id string) (model.PublicUser, error) {
	if d.cache != nil {
		if user, ok := d.cache.Get(ctx, id); ok {
			return user, nil
		}
	}

	var user model.PublicUser
	err := d.db.QueryRow(ctx, `
		SELECT id, handle, name, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&user.ID, &user.Handle, &user.Name, &user.CreatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return model.PublicUser{}, ErrUserNotFound
		}
		return model.PublicUser{}, db.Wrap(err, "lookup user")
	}

	if d.cache != nil {
		_ = d.cache.Set(ctx, user)
	}
	return user, nil
}
