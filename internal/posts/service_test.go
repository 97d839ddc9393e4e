package posts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kanishk44/social-media/internal/errs"
	"github.com/kanishk44/social-media/internal/model"
	"github.com/pashagolub/pgxmock/v3"
)

var postRowColumns = []string{"id", "text", "media_url", "created_at", "author_id", "handle", "name", "author_created_at"}

type stubProfiles map[string]model.PublicUser

func (s stubProfiles) Profile(_ context.Context, id string) (model.PublicUser, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return model.PublicUser{}, errs.New(errs.KindUserNotFound, "User not found")
}

var (
	base    = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	alice   = model.PublicUser{ID: "user-a", Handle: "alice", Name: "Alice", CreatedAt: base}
	bob     = model.PublicUser{ID: "user-b", Handle: "bob", Name: "Bob", CreatedAt: base}
	charlie = model.PublicUser{ID: "user-c", Handle: "charlie", Name: "Charlie", CreatedAt: base}
)

func ptr(s string) *string { return &s }

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func newTestService(mock pgxmock.PgxPoolIface) *Service {
	svc := NewService(mock, stubProfiles{alice.ID: alice, bob.ID: bob, charlie.ID: charlie})
	svc.newID = func() string { return "post-new" }
	return svc
}

type fixture struct {
	id     string
	author model.PublicUser
	at     time.Time
}

func addPostRows(rows *pgxmock.Rows, posts ...fixture) *pgxmock.Rows {
	for _, p := range posts {
		rows.AddRow(p.id, "text of "+p.id, (*string)(nil), p.at, p.author.ID, p.author.Handle, p.author.Name, p.author.CreatedAt)
	}
	return rows
}

func expectFollowees(mock pgxmock.PgxPoolIface, viewer string, ids ...string) {
	rows := pgxmock.NewRows([]string{"following_id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	mock.ExpectQuery(`SELECT following_id\s+FROM follows`).WithArgs(viewer).WillReturnRows(rows)
}

func expectFeedPage(mock pgxmock.PgxPoolIface, authors []string, req model.PageRequest, total int, posts ...fixture) {
	mock.ExpectQuery(`WHERE p.author_id = ANY\(\$1\)`).
		WithArgs(authors, req.Offset, req.Limit).
		WillReturnRows(addPostRows(pgxmock.NewRows(postRowColumns), posts...))
	mock.ExpectQuery(`SELECT count\(\*\) FROM posts WHERE author_id = ANY\(\$1\)`).
		WithArgs(authors).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(total))
}

func ids(page model.Page[model.Post]) []string {
	out := make([]string, 0, len(page.Items))
	for _, p := range page.Items {
		out = append(out, p.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCreatePost(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`WITH p AS \(\s+INSERT INTO posts`).
		WithArgs("post-new", "user-a", "hello", ptr("https://cdn.example/a.png")).
		WillReturnRows(pgxmock.NewRows(postRowColumns).
			AddRow("post-new", "hello", ptr("https://cdn.example/a.png"), base, "user-a", "alice", "Alice", base))

	post, err := newTestService(mock).CreatePost(context.Background(), "user-a", CreatePostInput{
		Text: "hello", MediaURL: ptr("https://cdn.example/a.png"),
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if post.ID != "post-new" || post.Author.Handle != "alice" {
		t.Fatalf("unexpected post: %+v", post)
	}
	if post.MediaURL == nil || *post.MediaURL != "https://cdn.example/a.png" {
		t.Fatalf("unexpected media url: %v", post.MediaURL)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePostWithoutMedia(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs("post-new", "user-a", "plain", (*string)(nil)).
		WillReturnRows(pgxmock.NewRows(postRowColumns).
			AddRow("post-new", "plain", (*string)(nil), base, "user-a", "alice", "Alice", base))

	post, err := newTestService(mock).CreatePost(context.Background(), "user-a", CreatePostInput{Text: "plain"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if post.MediaURL != nil {
		t.Fatalf("expected no media url, got %q", *post.MediaURL)
	}
}

func TestCreatePostErrors(t *testing.T) {
	cases := []struct {
		err  error
		want errs.Kind
	}{
		{&pgconn.PgError{Code: "23503"}, errs.KindUserNotFound},
		{&pgconn.PgError{Code: "08006"}, errs.KindStorageUnavailable},
		{errors.New("boom"), errs.KindInternal},
	}
	for _, tc := range cases {
		mock := newMock(t)
		mock.ExpectQuery(`INSERT INTO posts`).
			WithArgs("post-new", "user-a", "hi", (*string)(nil)).
			WillReturnError(tc.err)

		_, err := newTestService(mock).CreatePost(context.Background(), "user-a", CreatePostInput{Text: "hi"})
		if errs.KindOf(err) != tc.want {
			t.Fatalf("%v: expected %s, got %v", tc.err, tc.want, err)
		}
	}
}

func TestGetPost(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`WHERE p.id = \$1`).
		WithArgs("post-1").
		WillReturnRows(addPostRows(pgxmock.NewRows(postRowColumns), fixture{"post-1", bob, base}))
	mock.ExpectQuery(`WHERE p.id = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	svc := newTestService(mock)
	post, err := svc.GetPost(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if post.Author.ID != bob.ID {
		t.Fatalf("unexpected author: %+v", post.Author)
	}

	if _, err := svc.GetPost(context.Background(), "ghost"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected post not found, got %v", err)
	}
}

func TestListUserPosts(t *testing.T) {
	mock := newMock(t)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`WHERE p.author_id = \$1`).
		WithArgs("user-b", 0, 20).
		WillReturnRows(addPostRows(pgxmock.NewRows(postRowColumns),
			fixture{"p4", bob, base.Add(4 * time.Minute)},
			fixture{"p1", bob, base.Add(time.Minute)},
		))
	mock.ExpectQuery(`SELECT count\(\*\) FROM posts WHERE author_id = \$1`).
		WithArgs("user-b").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	page, err := newTestService(mock).ListUserPosts(context.Background(), "user-b", model.PageRequest{Limit: 20})
	if err != nil {
		t.Fatalf("list user posts: %v", err)
	}
	if !equal(ids(page), []string{"p4", "p1"}) || page.Total != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestListUserPostsUnknownUser(t *testing.T) {
	mock := newMock(t)

	_, err := newTestService(mock).ListUserPosts(context.Background(), "ghost", model.PageRequest{Limit: 20})
	if errs.KindOf(err) != errs.KindUserNotFound {
		t.Fatalf("expected user not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected storage calls: %v", err)
	}
}

func TestFeedWithoutFollowsIsOwnPosts(t *testing.T) {
	mock := newMock(t)
	mock.MatchExpectationsInOrder(false)

	expectFollowees(mock, "user-a")
	req := model.PageRequest{Offset: 0, Limit: 20}
	expectFeedPage(mock, []string{"user-a"}, req, 1, fixture{"p2", alice, base.Add(2 * time.Minute)})

	page, err := newTestService(mock).GetFeed(context.Background(), "user-a", req)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if !equal(ids(page), []string{"p2"}) || page.Total != 1 {
		t.Fatalf("unexpected feed: %+v", page)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A follows B and C. B posts p1, A posts p2, C posts p3, B posts p4.
func TestFeedScenario(t *testing.T) {
	p1 := fixture{"p1", bob, base.Add(1 * time.Minute)}
	p2 := fixture{"p2", alice, base.Add(2 * time.Minute)}
	p3 := fixture{"p3", charlie, base.Add(3 * time.Minute)}
	p4 := fixture{"p4", bob, base.Add(4 * time.Minute)}
	req := model.PageRequest{Offset: 0, Limit: 20}

	mock := newMock(t)
	mock.MatchExpectationsInOrder(false)
	expectFollowees(mock, "user-a", "user-b", "user-c")
	expectFeedPage(mock, []string{"user-a", "user-b", "user-c"}, req, 4, p4, p3, p2, p1)

	svc := newTestService(mock)
	page, err := svc.GetFeed(context.Background(), "user-a", req)
	if err != nil {
		t.Fatalf("feed A: %v", err)
	}
	if !equal(ids(page), []string{"p4", "p3", "p2", "p1"}) || page.Total != 4 {
		t.Fatalf("unexpected feed for A: %+v", ids(page))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations for A: %v", err)
	}

	expectFollowees(mock, "user-c")
	expectFeedPage(mock, []string{"user-c"}, req, 1, p3)
	page, err = svc.GetFeed(context.Background(), "user-c", req)
	if err != nil {
		t.Fatalf("feed C: %v", err)
	}
	if !equal(ids(page), []string{"p3"}) || page.Total != 1 {
		t.Fatalf("unexpected feed for C: %+v", ids(page))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations for C: %v", err)
	}
}

func TestFeedWindow(t *testing.T) {
	// five visible posts, offset 4 limit 3: min(3, max(0, 5-4)) = 1 item
	req := model.PageRequest{Offset: 4, Limit: 3}

	mock := newMock(t)
	mock.MatchExpectationsInOrder(false)
	expectFollowees(mock, "user-a", "user-b")
	expectFeedPage(mock, []string{"user-a", "user-b"}, req, 5, fixture{"p1", bob, base})

	page, err := newTestService(mock).GetFeed(context.Background(), "user-a", req)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}
	if len(page.Items) != 1 || page.Total != 5 || page.Offset != 4 || page.Limit != 3 {
		t.Fatalf("unexpected window: %+v", page)
	}
}

func TestFeedFolloweeLookupFails(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT following_id`).
		WithArgs("user-a").
		WillReturnError(&pgconn.PgError{Code: "57P03"})

	_, err := newTestService(mock).GetFeed(context.Background(), "user-a", model.PageRequest{Limit: 20})
	if errs.KindOf(err) != errs.KindStorageUnavailable {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
}
