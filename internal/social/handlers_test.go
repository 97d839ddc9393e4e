package social

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/kanishk44/social-media/internal/auth"
	"github.com/kanishk44/social-media/internal/httpx"
	"github.com/kanishk44/social-media/internal/model"
	"github.com/pashagolub/pgxmock/v3"
)

func newSocialApp(t *testing.T, mock pgxmock.PgxPoolIface) (*fiber.App, string) {
	t.Helper()
	issuer := auth.NewTokenIssuer("test-secret", time.Minute)
	token, err := issuer.Issue(auth.Identity{UserID: "user-1", Handle: "alice"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler})
	RegisterRoutes(app.Group("/users"), newTestService(mock), auth.JWTMiddleware(issuer))
	return app, token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeError(t *testing.T, resp *http.Response) httpx.ErrorResponse {
	t.Helper()
	var body httpx.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestProfileHandler(t *testing.T) {
	mock := newMock(t)
	app, _ := newSocialApp(t, mock)

	expectProfile(mock, "user-2", "bob")
	resp := doRequest(t, app, http.MethodGet, "/users/user-2", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile status: %d", resp.StatusCode)
	}
	var user map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user["handle"] != "bob" {
		t.Fatalf("unexpected body: %v", user)
	}
	if _, leaked := user["email"]; leaked {
		t.Fatalf("public profile exposes email: %v", user)
	}

	mock.ExpectQuery(profileQuery).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)
	resp = doRequest(t, app, http.MethodGet, "/users/ghost", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing profile status: %d", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Code != "USER_NOT_FOUND" {
		t.Fatalf("unexpected error code: %+v", body)
	}
}

func TestFollowHandlers(t *testing.T) {
	mock := newMock(t)
	app, token := newSocialApp(t, mock)

	resp := doRequest(t, app, http.MethodPost, "/users/user-2/follow", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous follow status: %d", resp.StatusCode)
	}

	expectProfile(mock, "user-2", "bob")
	expectEdge(mock, "user-1", "user-2", false)
	mock.ExpectExec(`INSERT INTO follows`).
		WithArgs("user-1", "user-2").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	resp = doRequest(t, app, http.MethodPost, "/users/user-2/follow", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("follow status: %d", resp.StatusCode)
	}
	var msg MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil || msg.Message != "Successfully followed user" {
		t.Fatalf("unexpected follow body: %+v (%v)", msg, err)
	}

	expectProfile(mock, "user-2", "bob")
	expectEdge(mock, "user-1", "user-2", true)
	resp = doRequest(t, app, http.MethodPost, "/users/user-2/follow", token)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate follow status: %d", resp.StatusCode)
	}

	resp = doRequest(t, app, http.MethodPost, "/users/user-1/follow", token)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("self follow status: %d", resp.StatusCode)
	}

	expectEdge(mock, "user-1", "user-2", true)
	mock.ExpectExec(`DELETE FROM follows`).
		WithArgs("user-1", "user-2").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	resp = doRequest(t, app, http.MethodDelete, "/users/user-2/follow", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unfollow status: %d", resp.StatusCode)
	}

	expectEdge(mock, "user-1", "user-2", false)
	resp = doRequest(t, app, http.MethodDelete, "/users/user-2/follow", token)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("repeat unfollow status: %d", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Code != "NOT_FOLLOWING" {
		t.Fatalf("unexpected error code: %+v", body)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFollowerListHandler(t *testing.T) {
	mock := newMock(t)
	mock.MatchExpectationsInOrder(false)
	app, _ := newSocialApp(t, mock)

	expectProfile(mock, "user-1", "alice")
	mock.ExpectQuery(`JOIN users u ON u.id = f.follower_id`).
		WithArgs("user-1", 1, 1).
		WillReturnRows(pgxmock.NewRows(userColumns).AddRow("user-2", "bob", "Bob", time.Now()))
	mock.ExpectQuery(`SELECT count\(\*\) FROM follows WHERE following_id`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	resp := doRequest(t, app, http.MethodGet, "/users/user-1/followers?offset=1&limit=1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("followers status: %d", resp.StatusCode)
	}
	var page model.Page[model.PublicUser]
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Offset != 1 || page.Limit != 1 || page.Total != 2 || len(page.Items) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestListHandlersRejectBadPaging(t *testing.T) {
	mock := newMock(t)
	app, _ := newSocialApp(t, mock)

	for _, path := range []string{
		"/users/user-1/followers?limit=0",
		"/users/user-1/following?limit=101",
		"/users/user-1/following?offset=-1",
		"/users/user-1/followers?limit=abc",
	} {
		resp := doRequest(t, app, http.MethodGet, path, "")
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %d", path, resp.StatusCode)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected storage calls: %v", err)
	}
}
