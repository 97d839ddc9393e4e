// Command seed resets the database and fills it with a small demo graph.
// Every row goes through the same services the API uses.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kanishk44/social-media/internal/auth"
	"github.com/kanishk44/social-media/internal/config"
	"github.com/kanishk44/social-media/internal/db"
	"github.com/kanishk44/social-media/internal/logging"
	"github.com/kanishk44/social-media/internal/posts"
	"github.com/kanishk44/social-media/internal/social"
)

const seedPassword = "password123"

var seedUsers = []auth.RegisterRequest{
	{Email: "alice@example.com", Handle: "alice", Name: "Alice Johnson", Password: seedPassword},
	{Email: "bob@example.com", Handle: "bob", Name: "Bob Smith", Password: seedPassword},
	{Email: "charlie@example.com", Handle: "charlie", Name: "Charlie Brown", Password: seedPassword},
}

var seedFollows = [][2]string{
	{"alice", "bob"},
	{"alice", "charlie"},
	{"bob", "alice"},
}

var seedPosts = []struct {
	handle string
	text   string
}{
	{"alice", "Hello world! This is my first post."},
	{"bob", "Excited to be here!"},
	{"charlie", "Just another day in paradise 🌴"},
	{"alice", "Working on some cool projects today."},
}

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	pool, err := db.ConnectPostgres(cfg)
	if err != nil {
		slog.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.Migrate(ctx, pool); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if err := seed(ctx, pool, cfg); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("database seeded", "users", len(seedUsers), "follows", len(seedFollows), "posts", len(seedPosts))
}

func seed(ctx context.Context, q db.Querier, cfg config.Config) error {
	if _, err := q.Exec(ctx, `TRUNCATE posts, follows, media_uploads, users`); err != nil {
		return fmt.Errorf("clear tables: %w", err)
	}

	authSvc := auth.NewService(auth.Config{Secret: cfg.JWTSecret, TokenTTL: cfg.JWTTTL, BcryptCost: cfg.BcryptCost}, q)
	directory := social.NewDirectory(q, nil)
	socialSvc := social.NewService(q, directory)
	postSvc := posts.NewService(q, directory)

	ids := make(map[string]string, len(seedUsers))
	for _, req := range seedUsers {
		account, _, err := authSvc.Register(ctx, req)
		if err != nil {
			return fmt.Errorf("register %s: %w", req.Handle, err)
		}
		ids[req.Handle] = account.ID
	}

	for _, f := range seedFollows {
		if err := socialSvc.Follow(ctx, ids[f[0]], ids[f[1]]); err != nil {
			return fmt.Errorf("follow %s -> %s: %w", f[0], f[1], err)
		}
	}

	for _, p := range seedPosts {
		if _, err := postSvc.CreatePost(ctx, ids[p.handle], posts.CreatePostInput{Text: p.text}); err != nil {
			return fmt.Errorf("post by %s: %w", p.handle, err)
		}
	}
	return nil
}
