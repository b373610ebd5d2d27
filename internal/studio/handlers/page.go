package handlers

import (
	_ "embed"

	"github.com/gofiber/fiber/v3"
)

//go:embed web/index.html
var indexPage []byte

// Page авторская страница: поверхность рисования слева, 3D-вид справа.
func (h *StudioHandler) Page(c fiber.Ctx) error {
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(indexPage)
}
