package social

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/kanishk44/social-media/internal/db"
	"github.com/kanishk44/social-media/internal/errs"
	"github.com/kanishk44/social-media/internal/model"
)

var (
	ErrSelfFollow       = errs.New(errs.KindInvalidOperation, "Cannot follow yourself")
	ErrSelfUnfollow     = errs.New(errs.KindInvalidOperation, "Cannot unfollow yourself")
	ErrAlreadyFollowing = errs.New(errs.KindAlreadyFollowing, "Already following this user")
	ErrNotFollowing     = errs.New(errs.KindNotFollowing, "Not following this user")
)

type Service struct {
	db    db.Querier
	users *Directory
}

func NewService(q db.Querier, users *Directory) *Service {
	return &Service{db: q, users: users}
}

func (s *Service) GetPublicProfile(ctx context.Context, userID string) (model.PublicUser, error) {
	return s.users.Profile(ctx, userID)
}

// Follow creates the edge followerID -> targetID. The lookups only produce
// friendlier errors; the primary key on follows decides duplicates.
func (s *Service) Follow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return ErrSelfFollow
	}
	if _, err := s.users.Profile(ctx, targetID); err != nil {
		return err
	}

	exists, err := s.edgeExists(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyFollowing
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1,$2)
	`, followerID, targetID)
	if err != nil {
		if constraint, ok := db.UniqueViolation(err); ok && constraint == db.FollowsPkey {
			return errs.Wrap(errs.KindAlreadyFollowing, ErrAlreadyFollowing.Message, err)
		}
		if db.IsForeignKeyViolation(err) {
			return errs.Wrap(errs.KindUserNotFound, ErrUserNotFound.Message, err)
		}
		return db.Wrap(err, "create follow")
	}
	return nil
}

// Unfollow removes the edge followerID -> targetID. A delete that affects
// no rows lost a race with another unfollow.
func (s *Service) Unfollow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return ErrSelfUnfollow
	}

	exists, err := s.edgeExists(ctx, followerID, targetID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFollowing
	}

	tag, err := s.db.Exec(ctx, `
		DELETE FROM follows
		WHERE follower_id = $1 AND following_id = $2
	`, followerID, targetID)
	if err != nil {
		return db.Wrap(err, "delete follow")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFollowing
	}
	return nil
}

// ListFollowers pages through the users following userID, most recent
// edge first.
func (s *Service) ListFollowers(ctx context.Context, userID string, req model.PageRequest) (model.Page[model.PublicUser], error) {
	return s.listEdges(ctx, userID, req, db.PageQuery{
		Select: `
			SELECT u.id, u.handle, u.name, u.created_at
			FROM follows f
			JOIN users u ON u.id = f.follower_id
			WHERE f.following_id = $1
			ORDER BY f.created_at DESC, f.follower_id DESC
			OFFSET $2 LIMIT $3
		`,
		Count: `SELECT count(*) FROM follows WHERE following_id = $1`,
		Args:  []any{userID},
	})
}

// ListFollowing pages through the users userID follows, most recent edge
// first.
func (s *Service) ListFollowing(ctx context.Context, userID string, req model.PageRequest) (model.Page[model.PublicUser], error) {
	return s.listEdges(ctx, userID, req, db.PageQuery{
		Select: `
			SELECT u.id, u.handle, u.name, u.created_at
			FROM follows f
			JOIN users u ON u.id = f.following_id
			WHERE f.follower_id = $1
			ORDER BY f.created_at DESC, f.following_id DESC
			OFFSET $2 LIMIT $3
		`,
		Count: `SELECT count(*) FROM follows WHERE follower_id = $1`,
		Args:  []any{userID},
	})
}

func (s *Service) listEdges(ctx context.Context, userID string, req model.PageRequest, pq db.PageQuery) (model.Page[model.PublicUser], error) {
	if _, err := s.users.Profile(ctx, userID); err != nil {
		return model.Page[model.PublicUser]{}, err
	}
	page, err := db.FetchPage(ctx, s.db, req, pq, scanPublicUser)
	if err != nil {
		return model.Page[model.PublicUser]{}, db.Wrap(err, "list follows")
	}
	return page, nil
}

func (s *Service) edgeExists(ctx context.Context, followerID, followingID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2
		)
	`, followerID, followingID).Scan(&exists)
	if err != nil {
		return false, db.Wrap(err, "lookup follow")
	}
	return exists, nil
}

func scanPublicUser(row pgx.Row) (model.PublicUser, error) {
	var u model.PublicUser
	err := row.Scan(&u.ID, &u.Handle, &u.Name, &u.CreatedAt)
	return u, err
}
