package types

import "time"

// LogEntry is a sanitized request/response snapshot queued for the async
// database logger.
type LogEntry struct {
	ID              uint
	Method          string
	URL             string
	RequestBody     string
	ResponseBody    string
	RequestHeaders  string
	ResponseHeaders string
	StatusCode      int
	CreatedAt       time.Time
}
