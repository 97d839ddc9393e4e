package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kanishk44/social-media/internal/errs"
)

const DefaultTokenTTL = 15 * time.Minute

var (
	ErrInvalidToken = errs.New(errs.KindInvalidToken, "Invalid token")
	ErrTokenExpired = errs.New(errs.KindTokenExpired, "Token expired")
)

// Identity is the verified caller carried by a bearer token.
type Identity struct {
	UserID string `json:"userId"`
	Handle string `json:"handle"`
}

type Claims struct {
	UserID string `json:"userId"`
	Handle string `json:"handle"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

func (t *TokenIssuer) Issue(id Identity) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: id.UserID,
		Handle: id.Handle,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify returns ErrTokenExpired once the validity window has passed and
// ErrInvalidToken for every other failure.
func (t *TokenIssuer) Verify(token string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, errs.Wrap(errs.KindTokenExpired, ErrTokenExpired.Message, err)
		}
		return Identity{}, errs.Wrap(errs.KindInvalidToken, ErrInvalidToken.Message, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" || claims.Handle == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: claims.UserID, Handle: claims.Handle}, nil
}
