package middleware

import (
	"strings"

	"visitor-pass/logger"
	"visitor-pass/types"
	"visitor-pass/utils"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger queues a sanitized snapshot of every request/response pair on
// the async database logger. PDF response bodies are redacted.
func RequestLogger(asyncLogger *logger.AsyncLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		var entry types.LogEntry
		contentType := string(c.Response().Header.ContentType())
		if strings.Contains(contentType, "application/pdf") {
			entry = utils.CreateSanitizedLogEntryWithCustomBody(c, string(c.Body()), "[PDF_CONTENT_REMOVED]")
		} else {
			entry = utils.CreateSanitizedLogEntry(c)
		}
		asyncLogger.Log(entry)

		return err
	}
}
