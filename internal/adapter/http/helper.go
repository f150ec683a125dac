package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lendcore/internal/domain/fault"
)

func statusFor(err error) int {
	switch fault.KindOf(err) {
	case fault.KindValidation:
		return http.StatusBadRequest
	case fault.KindAuthorization:
		return http.StatusForbidden
	case fault.KindNotFound:
		return http.StatusNotFound
	case fault.KindConflict:
		return http.StatusConflict
	case fault.KindDependency:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeErr maps a core error onto the wire. Unknown errors keep a generic
// message so internals never leak.
func writeErr(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		return c.JSON(status, ErrorResponse{Error: "internal error"})
	}
	if status == http.StatusServiceUnavailable {
		return c.JSON(status, ErrorResponse{Error: "service temporarily unavailable", Code: fault.CodeOf(err)})
	}
	return c.JSON(status, ErrorResponse{Error: fault.MessageOf(err), Code: fault.CodeOf(err)})
}
