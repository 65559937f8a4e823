// Package response defines the JSON envelopes shared by every HTTP handler.
package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every 4xx/5xx response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// MessageResponse carries a short human readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// InvalidRequest builds a 400 body from a binding or validation error.
// Field level messages are included when the error carries them.
func InvalidRequest(err error) ErrorResponse {
	return ErrorResponse{Error: "invalid request", Fields: FieldErrors(err)}
}

// FieldErrors extracts per-field messages from ozzo-validation or
// go-playground/validator errors. Other errors yield nil.
func FieldErrors(err error) map[string]string {
	var ozzoErrs validation.Errors
	if errors.As(err, &ozzoErrs) {
		out := make(map[string]string, len(ozzoErrs))
		for field, fe := range ozzoErrs {
			out[field] = fe.Error()
		}
		return out
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		out := make(map[string]string, len(vErrs))
		for _, fe := range vErrs {
			out[lowerFirst(fe.Field())] = "failed on the '" + fe.Tag() + "' rule"
		}
		return out
	}
	return nil
}

// NotFound writes 404 with message.
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: message})
}

// Internal writes a generic 500. The cause is never exposed to the client.
func Internal(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
