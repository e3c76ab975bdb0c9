// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/globalbusinessadvisors/llm-config-manager/internal/errors"
)

// MakeJSONResponse writes a JSON response with the given status code and data
func MakeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// HandleError maps domain errors to HTTP status codes and writes an appropriate response.
// It logs the error with structured logging and returns a user-friendly error message.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode, errorResponse := mapDomainError(err)

	// Log the full error details (including wrapped errors)
	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	MakeJSONResponse(w, statusCode, errorResponse)
}

// securityStatusCode maps a SecurityError's Kind to the HTTP status the
// request security pipeline assigns it.
func securityStatusCode(kind apperrors.SecurityKind) int {
	switch kind {
	case apperrors.SecurityKindRateLimited, apperrors.SecurityKindBanned:
		return http.StatusTooManyRequests
	case apperrors.SecurityKindIPBlocked, apperrors.SecurityKindEndpointBlocked:
		return http.StatusForbidden
	case apperrors.SecurityKindTLSRequired:
		return http.StatusUpgradeRequired
	case apperrors.SecurityKindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadRequest
	}
}

// HandleErrorGin is HandleError's gin equivalent. A *apperrors.SecurityError
// is special-cased: it always carries its own sanitized PublicMessage and
// kind-appropriate status rather than falling through the generic
// sentinel-error switch.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var secErr *apperrors.SecurityError
	if apperrors.As(err, &secErr) {
		status := securityStatusCode(secErr.Kind)
		if logger != nil {
			logger.Warn("security pipeline rejected request",
				slog.Int("status_code", status),
				slog.String("kind", string(secErr.Kind)),
				slog.Any("error", err),
			)
		}
		c.JSON(status, ErrorResponse{Error: string(secErr.Kind), Message: secErr.PublicMessage})
		return
	}

	statusCode, errorResponse := mapDomainError(err)
	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}
	c.JSON(statusCode, errorResponse)
}

// mapDomainError is the sentinel-error-to-HTTP-status switch shared by
// HandleError and HandleErrorGin.
func mapDomainError(err error) (int, ErrorResponse) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "The requested resource was not found",
		}

	case apperrors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: "A conflict occurred with existing data",
		}

	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_input",
			Message: err.Error(),
		}

	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication is required",
		}

	case apperrors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "You don't have permission to access this resource",
		}

	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		}
	}
}

// HandleValidationError writes a 400 Bad Request response for validation errors
func HandleValidationError(w http.ResponseWriter, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	errorResponse := ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	}

	MakeJSONResponse(w, http.StatusBadRequest, errorResponse)
}
