package utils

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/cris6h16/notes-api/internal/apierror"
	"github.com/cris6h16/notes-api/internal/domain/entity"
)

// PrincipalContextKey is where the auth middleware stores the resolved
// request identity.
const PrincipalContextKey = "principal"

func GetPrincipalFromContext(c echo.Context) (*entity.Principal, apierror.ErrorResponse) {
	val := c.Get(PrincipalContextKey)
	if val == nil {
		log.Warn().Str("path", c.Request().URL.Path).Msg("route attempted to read nil principal from context")
		return nil, apierror.UnauthenticatedError
	}

	principal, ok := val.(*entity.Principal)
	if !ok {
		log.Warn().Str("path", c.Request().URL.Path).Msg("unexpected value type at principal context key")
		return nil, apierror.InternalServerError
	}
	return principal, nil
}
