package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger логирует запросы; события указателя идут часто, поэтому строка короткая.
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} | ${bytesReceived}B in, ${bytesSent}B out\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}

// Recover перехватывает паники обработчиков; вне production печатает стек.
func Recover(env string) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: env != "production",
	})
}
