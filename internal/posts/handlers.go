package posts

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/kanishk44/social-media/internal/auth"
	"github.com/kanishk44/social-media/internal/errs"
	"github.com/kanishk44/social-media/internal/httpx"
)

const maxTextLength = 2000

// RegisterRoutes mounts the post and feed routes on the API root. Routes
// under /posts with a fixed segment must be registered before this so
// /posts/:id does not shadow them.
func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/posts", authMiddleware, func(c *fiber.Ctx) error {
		id, err := auth.MustIdentity(c)
		if err != nil {
			return err
		}
		var req CreatePostRequest
		if err := httpx.ParseBody(c, &req); err != nil {
			return err
		}
		if err := validateCreate(req); err != nil {
			return err
		}

		post, err := svc.CreatePost(c.UserContext(), id.UserID, CreatePostInput{Text: req.Text, MediaURL: req.MediaURL})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(post)
	})

	r.Get("/posts/:id", func(c *fiber.Ctx) error {
		post, err := svc.GetPost(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(post)
	})

	r.Get("/users/:id/posts", func(c *fiber.Ctx) error {
		req, err := httpx.PageParams(c)
		if err != nil {
			return err
		}
		page, err := svc.ListUserPosts(c.UserContext(), c.Params("id"), req)
		if err != nil {
			return err
		}
		return c.JSON(page)
	})

	r.Get("/feed", authMiddleware, func(c *fiber.Ctx) error {
		id, err := auth.MustIdentity(c)
		if err != nil {
			return err
		}
		req, err := httpx.PageParams(c)
		if err != nil {
			return err
		}
		page, err := svc.GetFeed(c.UserContext(), id.UserID, req)
		if err != nil {
			return err
		}
		return c.JSON(page)
	})
}

func validateCreate(req CreatePostRequest) error {
	if !httpx.LengthBetween(req.Text, 1, maxTextLength) {
		return errs.Validation("Text must be 1-2000 characters")
	}
	if req.MediaURL != nil && !isHTTPURL(*req.MediaURL) {
		return errs.Validation("Invalid media URL")
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
