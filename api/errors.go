package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Domenick1991/airport/internal/domain"
	"github.com/gin-gonic/gin"
)

type fieldErrorResponse struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error  string               `json:"error"`
	Fields []fieldErrorResponse `json:"fields,omitempty"`
}

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrFlightDeparted):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError aborts the request with a structured error body. Unexpected
// errors are recorded on the context for the request logger and never echoed.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.AbortWithStatusJSON(status, errorResponse{Error: "internal server error"})
		return
	}

	resp := errorResponse{Error: err.Error()}
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		resp.Error = "validation failed"
		for _, f := range verr.Fields {
			msg := f.Message
			if msg == "" && f.Err != nil {
				msg = f.Err.Error()
			}
			resp.Fields = append(resp.Fields, fieldErrorResponse{Field: f.Field, Code: domain.Code(f.Err), Message: msg})
		}
	case status == http.StatusConflict:
		resp.Fields = []fieldErrorResponse{{Code: domain.Code(err), Message: err.Error()}}
	}
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, field, format string, args ...any) {
	writeError(c, domain.NewValidationError(field, domain.ErrInvalidField, format, args...))
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		badRequest(c, "", "invalid request body: %v", err)
		return false
	}
	return true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "id", "invalid id")
		return 0, false
	}
	return id, true
}
