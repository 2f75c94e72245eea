package requestlog

import "time"

// Entry captures complete details of one SOAP request/response pair for
// inspection and debugging. Unlike operational logging (log/slog), an Entry
// is meant to be queried after the fact by an operator, not scanned in a
// terminal.
type Entry struct {
	// ID is a unique identifier for the log entry.
	ID string `json:"id"`

	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`

	// Method is the HTTP method (POST, PUT, or GET for metadata requests).
	Method string `json:"method"`

	// Path is the request URL path.
	Path string `json:"path"`

	// QueryString is the raw query string.
	QueryString string `json:"queryString,omitempty"`

	// Headers are the request headers.
	Headers map[string][]string `json:"headers,omitempty"`

	// Body is the request body content (truncated, see util.TruncateBody).
	Body string `json:"body,omitempty"`

	// BodySize is the original body size in bytes.
	BodySize int `json:"bodySize"`

	// RemoteAddr is the client IP address.
	RemoteAddr string `json:"remoteAddr"`

	// ResponseStatus is the HTTP status code returned.
	ResponseStatus int `json:"responseStatus"`

	// ResponseBody is the response body content (truncated).
	ResponseBody string `json:"responseBody,omitempty"`

	// DurationMs is the request processing time in milliseconds.
	DurationMs int `json:"durationMs"`

	// Error contains the error message if dispatch failed.
	Error string `json:"error,omitempty"`

	// SOAP carries operation-level metadata. Always populated for requests
	// that reached the dispatcher (nil for router-level 403/forward cases).
	SOAP *SOAPMeta `json:"soap,omitempty"`
}
