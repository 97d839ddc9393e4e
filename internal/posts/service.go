package posts

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kanishk44/social-media/internal/db"
	"github.com/kanishk44/social-media/internal/errs"
	"github.com/kanishk44/social-media/internal/model"
)

var (
	ErrPostNotFound = errs.New(errs.KindPostNotFound, "Post not found")
	ErrUserNotFound = errs.New(errs.KindUserNotFound, "User not found")
)

// ProfileLookup is satisfied by *social.Directory.
type ProfileLookup interface {
	Profile(ctx context.Context, id string) (model.PublicUser, error)
}

// postColumns must stay in the order scanPost reads them.
const postColumns = `p.id, p.text, p.media_url, p.created_at, u.id, u.handle, u.name, u.created_at`

type Service struct {
	db    db.Querier
	users ProfileLookup
	newID func() string
}

func NewService(q db.Querier, users ProfileLookup) *Service {
	return &Service{db: q, users: users, newID: uuid.NewString}
}

// CreatePost stores a post and returns it joined with its author. The
// author comes from a verified token, so there is no pre-check; the
// foreign key catches an author that no longer exists.
func (s *Service) CreatePost(ctx context.Context, authorID string, in CreatePostInput) (model.Post, error) {
	row := s.db.QueryRow(ctx, `
		WITH p AS (
			INSERT INTO posts (id, author_id, text, media_url)
			VALUES ($1,$2,$3,$4)
			RETURNING id, author_id, text, media_url, created_at
		)
		SELECT `+postColumns+`
		FROM p
		JOIN users u ON u.id = p.author_id
	`, s.newID(), authorID, in.Text, in.MediaURL)

	post, err := scanPost(row)
	if err != nil {
		if db.IsForeignKeyViolation(err) || db.IsNoRows(err) {
			return model.Post{}, errs.Wrap(errs.KindUserNotFound, ErrUserNotFound.Message, err)
		}
		return model.Post{}, db.Wrap(err, "create post")
	}
	return post, nil
}

func (s *Service) GetPost(ctx context.Context, postID string) (model.Post, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`, postID)

	post, err := scanPost(row)
	if err != nil {
		if db.IsNoRows(err) {
			return model.Post{}, ErrPostNotFound
		}
		return model.Post{}, db.Wrap(err, "get post")
	}
	return post, nil
}

// ListUserPosts pages through one author's posts, newest first.
func (s *Service) ListUserPosts(ctx context.Context, userID string, req model.PageRequest) (model.Page[model.Post], error) {
	if _, err := s.users.Profile(ctx, userID); err != nil {
		return model.Page[model.Post]{}, err
	}

	page, err := db.FetchPage(ctx, s.db, req, db.PageQuery{
		Select: `
			SELECT ` + postColumns + `
			FROM posts p
			JOIN users u ON u.id = p.author_id
			WHERE p.author_id = $1
			ORDER BY p.created_at DESC, p.id DESC
			OFFSET $2 LIMIT $3
		`,
		Count: `SELECT count(*) FROM posts WHERE author_id = $1`,
		Args:  []any{userID},
	}, scanPost)
	if err != nil {
		return model.Page[model.Post]{}, db.Wrap(err, "list user posts")
	}
	return page, nil
}

// GetFeed pages through the posts of the viewer and everyone the viewer
// follows, newest first. Only direct follows count.
func (s *Service) GetFeed(ctx context.Context, viewerID string, req model.PageRequest) (model.Page[model.Post], error) {
	authorIDs, err := s.feedAuthors(ctx, viewerID)
	if err != nil {
		return model.Page[model.Post]{}, err
	}

	page, err := db.FetchPage(ctx, s.db, req, db.PageQuery{
		Select: `
			SELECT ` + postColumns + `
			FROM posts p
			JOIN users u ON u.id = p.author_id
			WHERE p.author_id = ANY($1)
			ORDER BY p.created_at DESC, p.id DESC
			OFFSET $2 LIMIT $3
		`,
		Count: `SELECT count(*) FROM posts WHERE author_id = ANY($1)`,
		Args:  []any{authorIDs},
	}, scanPost)
	if err != nil {
		return model.Page[model.Post]{}, db.Wrap(err, "get feed")
	}
	return page, nil
}

// feedAuthors returns the viewer followed by every followee.
func (s *Service) feedAuthors(ctx context.Context, viewerID string) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT following_id
		FROM follows
		WHERE follower_id = $1
	`, viewerID)
	if err != nil {
		return nil, db.Wrap(err, "list followees")
	}
	defer rows.Close()

	ids := []string{viewerID}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, db.Wrap(err, "scan followee")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Wrap(err, "list followees")
	}
	return ids, nil
}

func scanPost(row pgx.Row) (model.Post, error) {
	var p model.Post
	err := row.Scan(
		&p.ID, &p.Text, &p.MediaURL, &p.CreatedAt,
		&p.Author.ID, &p.Author.Handle, &p.Author.Name, &p.Author.CreatedAt,
	)
	return p, err
}
