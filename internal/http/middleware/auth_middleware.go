package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/cris6h16/notes-api/internal/apierror"
	"github.com/cris6h16/notes-api/internal/domain/entity"
	"github.com/cris6h16/notes-api/internal/http/metrics"
	"github.com/cris6h16/notes-api/internal/utils"
)

type UserRepository interface {
	FindByUsername(username string) (*entity.User, error)
}

type AuthMiddlewareConfig struct {
	UserRepo UserRepository
	Realm    string
}

// NewAuthMiddleware resolves HTTP Basic credentials to a Principal and
// stores it in the request context. Unknown users, wrong passwords and
// role-less accounts are all rejected with the same 401 so that the
// response never reveals which part of the credential failed.
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	realm := cfg.Realm
	if realm == "" {
		realm = "notes"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username, password, ok := c.Request().BasicAuth()
			if !ok {
				return challenge(c, realm, "missing")
			}

			user, err := cfg.UserRepo.FindByUsername(strings.ToLower(strings.TrimSpace(username)))
			if err != nil {
				return c.JSON(http.StatusInternalServerError, apierror.InternalServerError)
			}

			if user == nil {
				// Burn a hash compare anyway so response timing does not
				// separate unknown users from wrong passwords.
				_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
				return challenge(c, realm, "unknown_user")
			}

			if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
				return challenge(c, realm, "bad_password")
			}

			if len(user.Roles) == 0 {
				// Accounts stripped of every role cannot authenticate.
				return challenge(c, realm, "no_roles")
			}

			c.Set(utils.PrincipalContextKey, entity.NewPrincipal(user))
			return next(c)
		}
	}
}

var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

func challenge(c echo.Context, realm, reason string) error {
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="`+realm+`"`)
	return c.JSON(http.StatusUnauthorized, apierror.UnauthenticatedError)
}
