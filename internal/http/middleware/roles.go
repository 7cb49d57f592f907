package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/cris6h16/notes-api/internal/apierror"
	"github.com/cris6h16/notes-api/internal/utils"
)

// RequireRoles guards a route group so that only principals holding at
// least one of the given roles pass. Must run after the auth middleware.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, cerr := utils.GetPrincipalFromContext(c)
			if cerr != nil {
				return c.JSON(cerr.Code(), cerr)
			}

			for _, role := range roles {
				if principal.HasRole(role) {
					return next(c)
				}
			}

			return c.JSON(apierror.ForbiddenError.Code(), apierror.ForbiddenError)
		}
	}
}
