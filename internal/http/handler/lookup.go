package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"acadrepo/internal/doi"
	"acadrepo/internal/service"
)

// doiMetadata resolves the identifier in the wildcard segment; DOIs contain
// slashes, so the whole remainder of the path is the identifier.
func doiMetadata(svc service.MetadataService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("*")
		if unescaped, err := url.PathUnescape(id); err == nil {
			id = unescaped
		}
		if id == "" {
			return doi.ErrNotFound
		}
		md, err := svc.Lookup(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(md)
	}
}

func stats(svc service.StatsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := svc.Snapshot(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(s)
	}
}
