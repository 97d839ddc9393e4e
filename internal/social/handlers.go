package social

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kanishk44/social-media/internal/auth"
	"github.com/kanishk44/social-media/internal/httpx"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/:id", func(c *fiber.Ctx) error {
		user, err := svc.GetPublicProfile(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(user)
	})

	r.Post("/:id/follow", authMiddleware, func(c *fiber.Ctx) error {
		id, err := auth.MustIdentity(c)
		if err != nil {
			return err
		}
		if err := svc.Follow(c.UserContext(), id.UserID, c.Params("id")); err != nil {
			return err
		}
		return c.JSON(MessageResponse{Message: "Successfully followed user"})
	})

	r.Delete("/:id/follow", authMiddleware, func(c *fiber.Ctx) error {
		id, err := auth.MustIdentity(c)
		if err != nil {
			return err
		}
		if err := svc.Unfollow(c.UserContext(), id.UserID, c.Params("id")); err != nil {
			return err
		}
		return c.JSON(MessageResponse{Message: "Successfully unfollowed user"})
	})

	r.Get("/:id/followers", func(c *fiber.Ctx) error {
		req, err := httpx.PageParams(c)
		if err != nil {
			return err
		}
		page, err := svc.ListFollowers(c.UserContext(), c.Params("id"), req)
		if err != nil {
			return err
		}
		return c.JSON(page)
	})

	r.Get("/:id/following", func(c *fiber.Ctx) error {
		req, err := httpx.PageParams(c)
		if err != nil {
			return err
		}
		page, err := svc.ListFollowing(c.UserContext(), c.Params("id"), req)
		if err != nil {
			return err
		}
		return c.JSON(page)
	})
}
