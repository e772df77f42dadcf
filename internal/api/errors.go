package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/letterbox/letterbox/pkg/logging"
)

// Kind classifies an API error for status-code mapping
type Kind int

// Error kinds per the taxonomy. NotFound deliberately covers both absent
// and present-but-not-owned entities so existence is never leaked.
const (
	KindValidation Kind = iota
	KindAuthRequired
	KindNotFound
	KindMethodNotAllowed
	KindPayloadTooLarge
	KindStorage
)

// Error is the typed failure returned by handlers
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("API error %d: %s: %v", e.Status(), e.Message, e.Err)
	}
	return fmt.Sprintf("API error %d: %s", e.Status(), e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the error kind to an HTTP status code
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthRequired:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// Validation reports a missing or malformed input field or query parameter
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// AuthRequired reports a missing, invalid, or expired credential
func AuthRequired(message string) *Error {
	return &Error{Kind: KindAuthRequired, Message: message}
}

// NotFound reports an absent (or not-owned) entity
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// MethodNotAllowed reports an unsupported method on a known path
func MethodNotAllowed() *Error {
	return &Error{Kind: KindMethodNotAllowed, Message: "method not allowed"}
}

// PayloadTooLarge reports a request body over the configured cap
func PayloadTooLarge() *Error {
	return &Error{Kind: KindPayloadTooLarge, Message: "request body too large"}
}

// Storage wraps an underlying data-access failure. The real error is
// logged at the boundary, never echoed to the client.
func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Message: "internal server error", Err: err}
}

// Fail writes the error response body {"Error": ...} with the mapped
// status. Storage faults are logged with their cause here.
func Fail(c *gin.Context, err *Error) {
	if err.Kind == KindStorage {
		logging.WithComponent("api").Error("Storage fault",
			zap.String("path", c.FullPath()),
			zap.Error(err.Err))
	}
	c.AbortWithStatusJSON(err.Status(), gin.H{"Error": err.Message})
}
