package validation

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var ErrInvalidBody = errors.New("Invalid request body")

// Bind parses the request body into out and validates it.
func Bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return ErrInvalidBody
	}
	return Struct(out)
}
