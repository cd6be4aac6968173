// Package httperr defines the API error taxonomy and the JSON envelope every
// handler converts failures into at the request boundary.
package httperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Code identifies an error category in the response envelope.
type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR" // 400
	CodeDuplicateSlug Code = "DUPLICATE_SLUG"   // 400
	CodeAuth          Code = "AUTH_ERROR"       // 401
	CodeAuthz         Code = "AUTHZ_ERROR"      // 403
	CodeSecurity      Code = "SECURITY_ERROR"   // 403, message deliberately generic
	CodeNotFound      Code = "NOT_FOUND"        // 404
	CodeRateLimited   Code = "RATE_LIMITED"     // 429
	CodeInternal      Code = "INTERNAL_ERROR"   // 500
)

// Error is a structured API error with code, status and optional details.
type Error struct {
	Code    Code
	Status  int
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidation creates a 400 error for missing or malformed fields.
func NewValidation(msg string, missingFields []string) *Error {
	e := &Error{
		Code:    CodeValidation,
		Status:  http.StatusBadRequest,
		Message: msg,
	}
	if len(missingFields) > 0 {
		e.Details = map[string]any{"missing_fields": missingFields}
	}
	return e
}

// NewDuplicateSlug creates a 400 error for a slug collision.
func NewDuplicateSlug(slug string) *Error {
	return &Error{
		Code:    CodeDuplicateSlug,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("an article with slug %q already exists", slug),
		Details: map[string]any{"slug": slug},
	}
}

// NewAuth creates a 401 error. The message stays generic on purpose.
func NewAuth() *Error {
	return &Error{
		Code:    CodeAuth,
		Status:  http.StatusUnauthorized,
		Message: "Authentication required",
	}
}

// NewAuthz creates a 403 error for an authenticated caller without the
// required role.
func NewAuthz() *Error {
	return &Error{
		Code:    CodeAuthz,
		Status:  http.StatusForbidden,
		Message: "Insufficient permissions",
	}
}

// NewSecurity creates a 403 error for origin/CSRF failures. Never include the
// failing detail in the message.
func NewSecurity() *Error {
	return &Error{
		Code:    CodeSecurity,
		Status:  http.StatusForbidden,
		Message: "Security validation failed",
	}
}

// NewNotFound creates a 404 error.
func NewNotFound(what string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("%s not found", what),
	}
}

// NewRateLimited creates a 429 error with the seconds until the window resets.
func NewRateLimited(retryAfter int) *Error {
	return &Error{
		Code:    CodeRateLimited,
		Status:  http.StatusTooManyRequests,
		Message: "Too many requests. Please try again later.",
		Details: map[string]any{"retry_after": retryAfter},
	}
}

// NewInternal wraps an unexpected failure.
func NewInternal(err error) *Error {
	return &Error{
		Code:    CodeInternal,
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
		Details: map[string]any{"cause": err.Error()},
	}
}

// JSON writes err as the {error, code} envelope. Unknown errors become 500s;
// gorm's record-not-found becomes a 404. Details are only exposed outside
// release mode.
func JSON(c *gin.Context, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apiErr = NewNotFound("record")
		} else {
			apiErr = NewInternal(err)
		}
	}

	body := gin.H{
		"error": apiErr.Message,
		"code":  apiErr.Code,
	}
	// Internal causes are suppressed in release mode; validation details
	// (missing fields, offending slug) are part of the contract.
	if len(apiErr.Details) > 0 && (apiErr.Code != CodeInternal || gin.Mode() != gin.ReleaseMode) {
		body["details"] = apiErr.Details
	}

	c.AbortWithStatusJSON(apiErr.Status, body)
}
