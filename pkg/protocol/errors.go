package protocol

// Error is a simple error type for protocol errors.
// It allows defining sentinel errors as constants.
type Error string

// Error implements the error interface.
func (e Error) Error() string { return string(e) }

// Sentinel errors shared by handler lifecycle management.
var (
	// ErrNilHandler is returned when attempting to register a nil handler.
	ErrNilHandler = Error("handler cannot be nil")

	// ErrMissingID is returned when a handler has no ID in its metadata.
	ErrMissingID = Error("handler ID is required")

	// ErrAlreadyRunning is returned when attempting to start a handler
	// that is already running.
	ErrAlreadyRunning = Error("handler is already running")

	// ErrNotRunning is returned when attempting to stop a handler
	// that is not running.
	ErrNotRunning = Error("handler is not running")

	// ErrShutdown is returned when an operation is attempted on a handler
	// that is shutting down.
	ErrShutdown = Error("handler is shutting down")
)
