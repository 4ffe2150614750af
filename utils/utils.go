package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"visitor-pass/types"

	"github.com/gofiber/fiber/v2"
)

// GeneratePassNumber returns a human-readable pass number of the form
// TRF-NNNNNN. Six random digits collide roughly once per million pairs;
// the store enforces uniqueness and retries on conflict.
func GeneratePassNumber() string {
	return fmt.Sprintf("TRF-%06d", rand.Intn(1000000))
}

// sanitizeRequestBody strips large base64 payloads (webcam captures) from a
// request body before it is logged.
func sanitizeRequestBody(c *fiber.Ctx) string {
	body := string(c.Body())
	if len(body) > 1000 && (strings.Contains(body, "data:image/") ||
		strings.Contains(body, "base64") ||
		isLikelyBase64(body)) {
		return "[LARGE_REQUEST_BODY_WITH_POSSIBLE_FILE_CONTENT]"
	}
	return body
}

// isLikelyBase64 detects if content looks like base64
func isLikelyBase64(content string) bool {
	if len(content) < 100 {
		return false
	}

	base64Chars := 0
	for _, char := range content {
		if (char >= 'A' && char <= 'Z') ||
			(char >= 'a' && char <= 'z') ||
			(char >= '0' && char <= '9') ||
			char == '+' || char == '/' || char == '=' {
			base64Chars++
		}
	}

	return float64(base64Chars)/float64(len(content)) > 0.8
}

// CreateSanitizedLogEntry creates a deep copied and sanitized log entry for
// the async logger. Request bodies carrying photo data are redacted.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	return CreateSanitizedLogEntryWithCustomBody(c,
		sanitizeRequestBody(c),
		string(append([]byte(nil), c.Response().Body()...)))
}

// CreateSanitizedLogEntryWithCustomBody creates a sanitized log entry with
// pre-processed request and response bodies. Used for responses whose body
// must not be logged verbatim, such as rendered PDFs.
func CreateSanitizedLogEntryWithCustomBody(c *fiber.Ctx, requestBody, responseBody string) types.LogEntry {
	// Deep copies: fasthttp reuses its buffers once the handler returns.
	method := string([]byte(c.Method()))
	url := string([]byte(c.OriginalURL()))
	requestBodyCopy := string(append([]byte(nil), []byte(requestBody)...))
	responseBodyCopy := string(append([]byte(nil), []byte(responseBody)...))

	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())

	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	return types.LogEntry{
		Method:          method,
		URL:             url,
		RequestBody:     requestBodyCopy,
		ResponseBody:    responseBodyCopy,
		RequestHeaders:  string(requestHeaders),
		ResponseHeaders: string(responseHeaders),
		StatusCode:      c.Response().StatusCode(),
		CreatedAt:       time.Now(),
	}
}
