package weather

// ErrorKind tags the two failure classes callers can observe.
type ErrorKind string

const (
	// KindValidation means caller-supplied input violated a precondition.
	KindValidation ErrorKind = "validation_error"
	// KindAPI means the upstream Open-Meteo call failed or returned garbage.
	KindAPI ErrorKind = "api_error"
)

// Error is the structured failure result returned by all service operations.
// It is data first: transports render it as an HTTP status plus JSON body or
// as an MCP tool-error payload. It is never mixed with a partial payload.
type Error struct {
	Kind    ErrorKind      `json:"type"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func newValidationError(message string, details map[string]any) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func newAPIError(message string, details map[string]any) *Error {
	return &Error{Kind: KindAPI, Message: message, Details: details}
}
