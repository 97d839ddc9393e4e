package media

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kanishk44/social-media/internal/auth"
	"github.com/kanishk44/social-media/internal/httpx"
)

var ErrNotConfigured = &httpx.StatusError{
	Status:  fiber.StatusNotImplemented,
	Code:    "UPLOAD_NOT_CONFIGURED",
	Message: "Media upload not configured",
}

// RegisterRoutes mounts the upload route. It must be registered before
// GET /posts/:id so the literal segment wins.
func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/posts/upload-url", authMiddleware, func(c *fiber.Ctx) error {
		id, err := auth.MustIdentity(c)
		if err != nil {
			return err
		}
		if !svc.Configured() {
			return ErrNotConfigured
		}
		ticket, err := svc.IssueUploadURL(c.UserContext(), id.UserID, c.Query("ext"))
		if err != nil {
			return err
		}
		return c.JSON(ticket)
	})
}
