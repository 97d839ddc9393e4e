package httpx

import (
	"strconv"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/kanishk44/social-media/internal/errs"
	"github.com/kanishk44/social-media/internal/model"
)

// PageParams reads offset and limit from the query string, applying the
// defaults and bounds every listing endpoint shares.
func PageParams(c *fiber.Ctx) (model.PageRequest, error) {
	req := model.PageRequest{Offset: 0, Limit: model.DefaultLimit}

	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return model.PageRequest{}, errs.Validation("Offset must be non-negative")
		}
		req.Offset = offset
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > model.MaxLimit {
			return model.PageRequest{}, errs.Validation("Limit must be between 1 and 100")
		}
		req.Limit = limit
	}
	return req, nil
}

// ParseBody decodes the JSON body, reporting malformed payloads as
// validation failures.
func ParseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errs.Validation("Invalid request body")
	}
	return nil
}

// LengthBetween counts runes, not bytes.
func LengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}
