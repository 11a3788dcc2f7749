package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/battingstats/internal/api/apierr"
	mw "github.com/mcoot/battingstats/internal/middleware"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest   = apierr.CodeInvalidRequest
	CodeValidationFailed = apierr.CodeValidationFailed
	CodeUnauthorized     = apierr.CodeUnauthorized
	CodePlayerNotFound   = apierr.CodePlayerNotFound
	CodeInternalError    = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// writeError logs server-side failures before writing the error response.
// The cause of a 500 stays in the log; the client only sees the code.
func writeError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if apierr.Status(err) >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("request_id", mw.RequestID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
	WriteError(w, err)
}
