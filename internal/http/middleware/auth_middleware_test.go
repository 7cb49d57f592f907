package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cris6h16/notes-api/internal/domain/entity"
	"github.com/cris6h16/notes-api/internal/utils"
)

type stubUserRepo struct {
	users map[string]*entity.User
}

func (r *stubUserRepo) FindByUsername(username string) (*entity.User, error) {
	return r.users[username], nil
}

func repoWithUser(t *testing.T, username, password string, roles ...string) *stubUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	roleRows := make([]entity.Role, len(roles))
	for i, name := range roles {
		roleRows[i] = entity.Role{ID: int64(i + 1), Name: name}
	}

	return &stubUserRepo{users: map[string]*entity.User{
		username: {ID: 10, Username: username, Email: username + "@example.com", PasswordHash: string(hash), Roles: roleRows},
	}}
}

func runAuth(t *testing.T, repo *stubUserRepo, setup func(*http.Request)) (*httptest.ResponseRecorder, *entity.Principal) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var principal *entity.Principal
	mw := NewAuthMiddleware(&AuthMiddlewareConfig{UserRepo: repo})
	handler := mw(func(c echo.Context) error {
		p, cerr := utils.GetPrincipalFromContext(c)
		require.Nil(t, cerr)
		principal = p
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	return rec, principal
}

func TestAuth_ValidCredentials(t *testing.T) {
	repo := repoWithUser(t, "cris6h16", "12345678", entity.RoleUser)

	rec, principal := runAuth(t, repo, func(req *http.Request) {
		req.SetBasicAuth("cris6h16", "12345678")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
	assert.Equal(t, int64(10), principal.ID)
	assert.Equal(t, "cris6h16", principal.Username)
	assert.Equal(t, []string{entity.RoleUser}, principal.Roles)
}

func TestAuth_UppercaseUsernameStillResolves(t *testing.T) {
	repo := repoWithUser(t, "cris6h16", "12345678", entity.RoleUser)

	rec, _ := runAuth(t, repo, func(req *http.Request) {
		req.SetBasicAuth("Cris6H16", "12345678")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_MissingHeader(t *testing.T) {
	repo := repoWithUser(t, "cris6h16", "12345678", entity.RoleUser)

	rec, principal := runAuth(t, repo, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, principal)
	assert.Contains(t, rec.Header().Get(echo.HeaderWWWAuthenticate), "Basic")
}

func TestAuth_WrongPassword(t *testing.T) {
	repo := repoWithUser(t, "cris6h16", "12345678", entity.RoleUser)

	rec, principal := runAuth(t, repo, func(req *http.Request) {
		req.SetBasicAuth("cris6h16", "nope-nope")
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, principal)
}

func TestAuth_UnknownUser(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*entity.User{}}

	rec, principal := runAuth(t, repo, func(req *http.Request) {
		req.SetBasicAuth("ghost", "12345678")
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, principal)
}

func TestAuth_RolelessUserRejected(t *testing.T) {
	repo := repoWithUser(t, "cris6h16", "12345678") // no roles

	rec, principal := runAuth(t, repo, func(req *http.Request) {
		req.SetBasicAuth("cris6h16", "12345678")
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, principal)
}

func TestRequireRoles(t *testing.T) {
	e := echo.New()

	invoke := func(principal *entity.Principal) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if principal != nil {
			c.Set(utils.PrincipalContextKey, principal)
		}

		mw := RequireRoles(entity.RoleAdmin)
		handler := mw(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, handler(c))
		return rec
	}

	admin := &entity.Principal{ID: 1, Username: "boss", Roles: []string{entity.RoleUser, entity.RoleAdmin}}
	assert.Equal(t, http.StatusOK, invoke(admin).Code)

	plain := &entity.Principal{ID: 2, Username: "pleb", Roles: []string{entity.RoleUser}}
	assert.Equal(t, http.StatusForbidden, invoke(plain).Code)

	assert.Equal(t, http.StatusUnauthorized, invoke(nil).Code)
}
