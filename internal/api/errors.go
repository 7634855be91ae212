package api

import (
	"context"
	"cyberdash/internal/engine"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// classify maps an error to its HTTP status and a short kind tag.
func classify(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.Is(err, engine.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, engine.ErrSchema):
		return http.StatusUnprocessableEntity, "schema"
	case errors.Is(err, engine.ErrNotFound):
		return http.StatusServiceUnavailable, "not_found"
	case errors.Is(err, engine.ErrParse):
		return http.StatusInternalServerError, "parse"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "canceled"
	case errors.As(err, &he):
		return he.Code, "http"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// ErrorHandler replaces echo's default handler so engine errors reach the
// client with a status matching their kind.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, kind := classify(err)
		msg := err.Error()
		var he *echo.HTTPError
		if kind == "http" && errors.As(err, &he) {
			msg = fmt.Sprint(he.Message)
		}

		if status >= http.StatusInternalServerError {
			logger.Error("query failed",
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", status),
				zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, ErrorResponse{Error: msg, Kind: kind})
		}
		if err != nil {
			logger.Warn("failed to write error response", zap.Error(err))
		}
	}
}
