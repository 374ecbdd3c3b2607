package errors

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// APIError is the error type handlers push into the gin error chain. The
// error-handling middleware turns it into the JSON response.
type APIError struct {
	Status   int    `json:"status"`
	Message  string `json:"message"`
	Internal error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

// Unwrap returns the original error
func (e *APIError) Unwrap() error {
	return e.Internal
}

func New(status int, message string, err error) *APIError {
	return &APIError{Status: status, Message: message, Internal: err}
}

func BadRequest(message string, err error) *APIError {
	return New(http.StatusBadRequest, message, err)
}

func Unauthorized(message string, err error) *APIError {
	return New(http.StatusUnauthorized, message, err)
}

func Forbidden(message string, err error) *APIError {
	return New(http.StatusForbidden, message, err)
}

func NotFound(message string, err error) *APIError {
	return New(http.StatusNotFound, message, err)
}

func Conflict(message string, err error) *APIError {
	return New(http.StatusConflict, message, err)
}

func UnprocessableEntity(message string, err error) *APIError {
	return New(http.StatusUnprocessableEntity, message, err)
}

func Internal(err error) *APIError {
	return New(http.StatusInternalServerError, "Internal server error", err)
}

// NewValidationError maps binding failures to a 422 with a readable message
// listing the failing fields.
func NewValidationError(err error) *APIError {
	var validationErrs validator.ValidationErrors
	if ok := asValidationErrors(err, &validationErrs); ok {
		fields := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
		return UnprocessableEntity("Invalid fields: "+strings.Join(fields, ", "), err)
	}
	return UnprocessableEntity("Invalid request body", err)
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	if ve, ok := err.(validator.ValidationErrors); ok {
		*target = ve
		return true
	}
	return false
}
