package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cris6h16/notes-api/internal/apierror"
	"github.com/cris6h16/notes-api/internal/contract"
	"github.com/cris6h16/notes-api/internal/domain/entity"
	"github.com/cris6h16/notes-api/internal/domain/sqlite/repository"
	"github.com/cris6h16/notes-api/internal/utils"
)

type stubUserService struct {
	createID  int64
	createErr apierror.ErrorResponse
	lastReq   *contract.CreateUserRequest
}

func (s *stubUserService) Create(req *contract.CreateUserRequest) (int64, apierror.ErrorResponse) {
	s.lastReq = req
	return s.createID, s.createErr
}

func (s *stubUserService) GetByID(principal *entity.Principal, targetID int64) (*contract.UserResponse, apierror.ErrorResponse) {
	return &contract.UserResponse{ID: targetID, Username: principal.Username}, nil
}

func (s *stubUserService) GetPage(principal *entity.Principal, page repository.PageRequest) ([]*contract.UserResponse, apierror.ErrorResponse) {
	return []*contract.UserResponse{}, nil
}

func (s *stubUserService) Update(principal *entity.Principal, targetID int64, req *contract.UpdateUserRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	return &contract.UserResponse{ID: targetID}, nil
}

func (s *stubUserService) Delete(principal *entity.Principal, targetID int64) apierror.ErrorResponse {
	return nil
}

func TestCreateUser_LocationHeaderNoBody(t *testing.T) {
	e := echo.New()
	svc := &stubUserService{createID: 42}
	route := NewUserDefault(svc)

	body := `{"username":"cris6h16","email":"cris@example.com","password":"12345678"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, route.CreateUser(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/v1/users/42", rec.Header().Get(echo.HeaderLocation))
	assert.Empty(t, rec.Body.String())
	require.NotNil(t, svc.lastReq)
	assert.Equal(t, "cris6h16", svc.lastReq.Username)
}

func TestCreateUser_MalformedBody(t *testing.T) {
	e := echo.New()
	route := NewUserDefault(&stubUserService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader("{not json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, route.CreateUser(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUser_ServiceErrorRendered(t *testing.T) {
	e := echo.New()
	route := NewUserDefault(&stubUserService{createErr: apierror.UsernameTakenError})

	body := `{"username":"taken","email":"x@example.com","password":"12345678"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, route.CreateUser(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already taken")
	assert.Empty(t, rec.Header().Get(echo.HeaderLocation))
}

func TestGetUser_InvalidIDParam(t *testing.T) {
	e := echo.New()
	route := NewUserDefault(&stubUserService{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(utils.PrincipalContextKey, &entity.Principal{ID: 1, Username: "boss", Roles: []string{entity.RoleAdmin}})
	c.SetParamNames("id")
	c.SetParamValues("not-a-number")

	require.NoError(t, route.GetUser(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUsers_BadPageParam(t *testing.T) {
	e := echo.New()
	route := NewUserDefault(&stubUserService{})

	req := httptest.NewRequest(http.MethodGet, "/?page=-3", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(utils.PrincipalContextKey, &entity.Principal{ID: 1, Username: "boss", Roles: []string{entity.RoleAdmin}})

	require.NoError(t, route.GetUsers(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMe_RequiresPrincipal(t *testing.T) {
	e := echo.New()
	route := NewUserDefault(&stubUserService{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, route.GetMe(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
