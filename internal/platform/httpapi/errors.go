package httpapi

import (
	"errors"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/labstack/echo/v4"

	apperrors "studyplan/internal/platform/errors"
)

// newErrorHandler maps application errors onto status codes and JSON bodies.
func newErrorHandler(logger hclog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code    int
			message any
			httpErr *echo.HTTPError
			verr    *apperrors.ValidationError
		)

		switch {
		case errors.As(err, &httpErr):
			if inner, ok := httpErr.Internal.(*echo.HTTPError); ok {
				httpErr = inner
			}
			code = httpErr.Code
			message = httpErr.Message
		case errors.As(err, &verr):
			code = http.StatusBadRequest
			if len(verr.Fields) == 0 {
				message = verr.Error()
				break
			}
			fields := make(map[string]string, len(verr.Fields))
			for _, f := range verr.Fields {
				fields[f.Field] = f.Message
			}
			message = echo.Map{"error": verr.Error(), "fields": fields}
		case errors.Is(err, apperrors.ErrNotFound):
			code, message = http.StatusNotFound, err.Error()
		case errors.Is(err, apperrors.ErrTimeConflict), errors.Is(err, apperrors.ErrInvalidTransition):
			code, message = http.StatusConflict, err.Error()
		case errors.Is(err, apperrors.ErrNothingToShare):
			code, message = http.StatusUnprocessableEntity, err.Error()
		case errors.Is(err, apperrors.ErrMalformedShare), errors.Is(err, apperrors.ErrInvalidInput):
			code, message = http.StatusBadRequest, err.Error()
		default:
			code = http.StatusInternalServerError
			message = http.StatusText(code)
			logger.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
		}

		if c.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		if c.Response().Committed {
			return
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, message)
		}
		if err != nil {
			logger.Error("write error response", "error", err)
		}
	}
}
