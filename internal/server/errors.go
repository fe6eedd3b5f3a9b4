package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/railzwaylabs/subview/internal/subscription/domain"
	timelinedomain "github.com/railzwaylabs/subview/internal/timeline/domain"
)

// APIError is the error body returned to clients.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *APIError) Error() string { return e.Code + ": " + e.Message }

var (
	ErrInvalidRequest = &APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "invalid request"}
	ErrNotFound       = &APIError{Status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
	ErrInternal       = &APIError{Status: http.StatusInternalServerError, Code: "internal_error", Message: "internal server error"}
)

func newValidationError(field, code, message string) error {
	return &APIError{Status: http.StatusBadRequest, Code: code, Message: message, Field: field}
}

// toAPIError maps service errors onto HTTP responses.
func toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var verr *timelinedomain.ValidationError
	if errors.As(err, &verr) {
		return &APIError{
			Status:  http.StatusBadRequest,
			Code:    verr.Err.Error(),
			Message: verr.Error(),
			Field:   verr.Field,
		}
	}

	switch {
	case errors.Is(err, subscriptiondomain.ErrInvalidKey),
		errors.Is(err, subscriptiondomain.ErrInvalidSnapshot):
		return &APIError{Status: http.StatusBadRequest, Code: rootCode(err), Message: err.Error()}
	case errors.Is(err, subscriptiondomain.ErrNotFound):
		return &APIError{Status: http.StatusNotFound, Code: subscriptiondomain.ErrNotFound.Error(), Message: "subscription not found"}
	case errors.Is(err, timelinedomain.ErrChargeNotFound):
		return &APIError{Status: http.StatusNotFound, Code: timelinedomain.ErrChargeNotFound.Error(), Message: "charge not found"}
	case errors.Is(err, subscriptiondomain.ErrUpstream):
		return &APIError{Status: http.StatusBadGateway, Code: subscriptiondomain.ErrUpstream.Error(), Message: err.Error()}
	}
	return ErrInternal
}

func rootCode(err error) string {
	for _, sentinel := range []error{subscriptiondomain.ErrInvalidKey, subscriptiondomain.ErrInvalidSnapshot} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return ErrInvalidRequest.Code
}

// AbortWithError writes the error body and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	apiErr := toAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
}
