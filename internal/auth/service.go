package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kanishk44/social-media/internal/db"
	"github.com/kanishk44/social-media/internal/errs"
	"github.com/kanishk44/social-media/internal/model"
)

var (
	ErrEmailTaken         = errs.New(errs.KindUserExists, "Email already registered")
	ErrHandleTaken        = errs.New(errs.KindUserExists, "Handle already taken")
	ErrInvalidCredentials = errs.New(errs.KindInvalidCredentials, "Invalid credentials")
)

// Config is injected at construction; the service never reads the
// environment itself.
type Config struct {
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
}

type Service struct {
	db     db.Querier
	hasher *Hasher
	tokens *TokenIssuer
}

func NewService(cfg Config, q db.Querier) *Service {
	return &Service{
		db:     q,
		hasher: NewHasher(cfg.BcryptCost),
		tokens: NewTokenIssuer(cfg.Secret, cfg.TokenTTL),
	}
}

// Register creates an account and returns it with a token bound to it.
// When both email and handle collide the email message wins.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (model.Account, string, error) {
	var existingEmail string
	err := s.db.QueryRow(ctx, `
		SELECT email
		FROM users
		WHERE email = $1 OR handle = $2
		ORDER BY (email = $1) DESC
		LIMIT 1
	`, req.Email, req.Handle).Scan(&existingEmail)
	switch {
	case err == nil:
		if existingEmail == req.Email {
			return model.Account{}, "", ErrEmailTaken
		}
		return model.Account{}, "", ErrHandleTaken
	case !db.IsNoRows(err):
		return model.Account{}, "", db.Wrap(err, "lookup user")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.Account{}, "", errs.Wrap(errs.KindInternal, "hash password", err)
	}

	user := model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Handle:       req.Handle,
		Name:         req.Name,
		PasswordHash: hash,
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, email, handle, name, password_hash)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, user.ID, user.Email, user.Handle, user.Name, user.PasswordHash)
	if err := row.Scan(&user.CreatedAt); err != nil {
		// a concurrent registration won the race after our lookup
		if constraint, ok := db.UniqueViolation(err); ok {
			switch constraint {
			case db.UsersEmailKey:
				return model.Account{}, "", errs.Wrap(errs.KindUserExists, ErrEmailTaken.Message, err)
			case db.UsersHandleKey:
				return model.Account{}, "", errs.Wrap(errs.KindUserExists, ErrHandleTaken.Message, err)
			}
		}
		return model.Account{}, "", db.Wrap(err, "create user")
	}

	token, err := s.issue(user)
	if err != nil {
		return model.Account{}, "", err
	}
	return user.Account(), token, nil
}

// Login never reveals whether the identifier or the password was wrong.
func (s *Service) Login(ctx context.Context, req LoginRequest) (model.Account, string, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, handle, name, password_hash, created_at
		FROM users
		WHERE email = $1 OR handle = $1
		LIMIT 1
	`, req.EmailOrHandle)

	var user model.User
	if err := row.Scan(&user.ID, &user.Email, &user.Handle, &user.Name, &user.PasswordHash, &user.CreatedAt); err != nil {
		if db.IsNoRows(err) {
			return model.Account{}, "", ErrInvalidCredentials
		}
		return model.Account{}, "", db.Wrap(err, "lookup user")
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return model.Account{}, "", ErrInvalidCredentials
	}

	token, err := s.issue(user)
	if err != nil {
		return model.Account{}, "", err
	}
	return user.Account(), token, nil
}

func (s *Service) Verify(token string) (Identity, error) {
	return s.tokens.Verify(token)
}

func (s *Service) issue(user model.User) (string, error) {
	token, err := s.tokens.Issue(Identity{UserID: user.ID, Handle: user.Handle})
	if err != nil {
		return "", errs.Wrap(errs.KindInternal, "issue token", err)
	}
	return token, nil
}
