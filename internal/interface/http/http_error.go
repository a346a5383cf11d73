package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/silkmart/support-assistant/pkg/errors"
)

// HTTPError pairs a transport status with a stable machine-readable code.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// httpErrorForKind translates a kinded domain error into its transport
// status. Kinds without a mapping fall back to 500 under the
// handler-supplied code.
func httpErrorForKind(err error, fallbackCode string) *HTTPError {
	status := http.StatusInternalServerError
	code := fallbackCode
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidInput:
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.KindNotFound:
		status = http.StatusNotFound
		code = "not_found"
	case apperrors.KindConfig:
		status = http.StatusUnprocessableEntity
	case apperrors.KindScrape, apperrors.KindEmbedding, apperrors.KindLLM:
		status = http.StatusBadGateway
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
