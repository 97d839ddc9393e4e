package auth

import (
	"net/mail"
	"regexp"

	"github.com/gofiber/fiber/v2"
	"github.com/kanishk44/social-media/internal/errs"
	"github.com/kanishk44/social-media/internal/httpx"
	"github.com/kanishk44/social-media/internal/model"
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/register", func(c *fiber.Ctx) error {
		var req RegisterRequest
		if err := httpx.ParseBody(c, &req); err != nil {
			return err
		}
		if err := validateRegister(req); err != nil {
			return err
		}

		user, token, err := svc.Register(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(svc.response(user, token))
	})

	r.Post("/login", func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := httpx.ParseBody(c, &req); err != nil {
			return err
		}
		if req.EmailOrHandle == "" || req.Password == "" {
			return errs.Validation("Email or handle and password are required")
		}

		user, token, err := svc.Login(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.JSON(svc.response(user, token))
	})

	r.Get("/verify", authMiddleware, func(c *fiber.Ctx) error {
		id, err := MustIdentity(c)
		if err != nil {
			return err
		}
		return c.JSON(id)
	})
}

func validateRegister(req RegisterRequest) error {
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		return errs.Validation("Invalid email format")
	}
	if !handlePattern.MatchString(req.Handle) {
		return errs.Validation("Handle must be 3-30 letters, numbers, or underscores")
	}
	if !httpx.LengthBetween(req.Name, 1, 100) {
		return errs.Validation("Name must be 1-100 characters")
	}
	// bcrypt ignores bytes past 72
	if len(req.Password) < 8 || len(req.Password) > 72 {
		return errs.Validation("Password must be 8-72 characters")
	}
	return nil
}

func (s *Service) response(user model.Account, token string) AuthResponse {
	return AuthResponse{
		User:        user,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}
}
