// Package media issues pre-authorized upload URLs. It never handles the
// bytes; the object store behind MEDIA_BASE_URL checks the upload token.
package media

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kanishk44/social-media/internal/db"
	"github.com/kanishk44/social-media/internal/errs"
)

const DefaultUploadTTL = 15 * time.Minute

var (
	ErrUnsupportedType = errs.Validation("File type must be one of png, jpg, jpeg, gif, mp4")
)

var allowedExt = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"mp4":  true,
}

type UploadTicket struct {
	UploadURL string    `json:"uploadUrl"`
	MediaURL  string    `json:"mediaUrl"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type uploadClaims struct {
	Filename string `json:"filename"`
	jwt.RegisteredClaims
}

type Config struct {
	BaseURL   string
	Secret    string
	UploadTTL time.Duration
}

type Service struct {
	db      db.Querier
	baseURL string
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
	newID   func() string
}

func NewService(cfg Config, q db.Querier) *Service {
	ttl := cfg.UploadTTL
	if ttl <= 0 {
		ttl = DefaultUploadTTL
	}
	return &Service{
		db:      q,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		secret:  []byte(cfg.Secret),
		ttl:     ttl,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Configured reports whether a media base URL was provided.
func (s *Service) Configured() bool {
	return s.baseURL != ""
}

// IssueUploadURL reserves <userID>/<uuid>.<ext> for userID and returns a
// URL the client can PUT the file to until the ticket expires.
func (s *Service) IssueUploadURL(ctx context.Context, userID, ext string) (UploadTicket, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if !allowedExt[ext] {
		return UploadTicket{}, ErrUnsupportedType
	}

	id := s.newID()
	filename := userID + "/" + id + "." + ext
	now := s.now()
	expiresAt := now.Add(s.ttl)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, uploadClaims{
		Filename: filename,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}).SignedString(s.secret)
	if err != nil {
		return UploadTicket{}, errs.Wrap(errs.KindInternal, "sign upload token", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO media_uploads (id, user_id, filename, expires_at)
		VALUES ($1,$2,$3,$4)
	`, id, userID, filename, expiresAt)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return UploadTicket{}, errs.Wrap(errs.KindUserNotFound, "User not found", err)
		}
		return UploadTicket{}, db.Wrap(err, "record upload")
	}

	mediaURL := s.baseURL + "/" + filename
	return UploadTicket{
		UploadURL: s.baseURL + "/uploads/" + filename + "?" + url.Values{"token": {token}}.Encode(),
		MediaURL:  mediaURL,
		Filename:  filename,
		ExpiresAt: expiresAt,
	}, nil
}
