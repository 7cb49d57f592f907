package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cris6h16/notes-api/internal/apierror"
)

// HiddenSink receives failures whose detail must stay out of responses.
type HiddenSink interface {
	Hidden(format string, args ...any)
}

// NewHTTPErrorHandler is the outermost recovery boundary. Handlers render
// their own taxonomy errors; anything that still escapes (panics caught
// by Recover, bind internals, router 404s) lands here. Unexpected errors
// are logged and audited with full detail while the caller only ever
// sees a generic message.
func NewHTTPErrorHandler(log zerolog.Logger, hidden HiddenSink) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			apierr := apierror.NewSimple(he.Code, fmt.Sprintf("%v", he.Message))
			_ = c.JSON(apierr.Code(), apierr)
			return
		}

		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("unhandled error")
		hidden.Hidden("%s %s: %v", c.Request().Method, c.Path(), err)

		_ = c.JSON(http.StatusInternalServerError, apierror.InternalServerError)
	}
}
