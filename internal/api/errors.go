package api

import (
	"errors"
	"log/slog"
	"net/http"
)

var (
	ErrValidation         = errors.New("invalid input")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrForbidden          = errors.New("action forbidden")
	ErrNotFound           = errors.New("requested item not found")
	ErrPremiumRequired    = errors.New("premium feature required")
	ErrPaymentIncomplete  = errors.New("payment has not been completed")
	ErrUpstreamProvider   = errors.New("payment provider error")
	ErrConflict           = errors.New("item already exists or conflict")
)

// Error pairs a sentinel kind with the message shown to the client.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Kind.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// StatusForError maps a domain error to its HTTP status. Unknown errors are 500.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrPaymentIncomplete):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrPremiumRequired):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// MessageForError returns the client-facing message carried by err, or fallback.
func MessageForError(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// HandleServiceError writes the status and {message} body for err.
func HandleServiceError(w http.ResponseWriter, r *http.Request, l *slog.Logger, err error) {
	status := StatusForError(err)
	if status == http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "Unhandled service error", slog.Any("error", err))
		ErrorResponse(w, r, status, MessageForError(err, "Internal server error"))
		return
	}
	l.WarnContext(r.Context(), "Request rejected", slog.Int("status", status), slog.Any("error", err))

	var fallback string
	for _, kind := range []error{ErrValidation, ErrUnauthenticated, ErrInvalidCredentials, ErrUsernameTaken,
		ErrForbidden, ErrNotFound, ErrPremiumRequired, ErrPaymentIncomplete, ErrConflict} {
		if errors.Is(err, kind) {
			fallback = kind.Error()
			break
		}
	}
	ErrorResponse(w, r, status, MessageForError(err, fallback))
}
