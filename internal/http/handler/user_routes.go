package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cris6h16/notes-api/internal/apierror"
	"github.com/cris6h16/notes-api/internal/contract"
	"github.com/cris6h16/notes-api/internal/domain/entity"
	"github.com/cris6h16/notes-api/internal/domain/sqlite/repository"
	"github.com/cris6h16/notes-api/internal/utils"
)

type UserService interface {
	Create(req *contract.CreateUserRequest) (int64, apierror.ErrorResponse)
	GetByID(principal *entity.Principal, targetID int64) (*contract.UserResponse, apierror.ErrorResponse)
	GetPage(principal *entity.Principal, page repository.PageRequest) ([]*contract.UserResponse, apierror.ErrorResponse)
	Update(principal *entity.Principal, targetID int64, req *contract.UpdateUserRequest) (*contract.UserResponse, apierror.ErrorResponse)
	Delete(principal *entity.Principal, targetID int64) apierror.ErrorResponse
}

type DefaultUserRoute struct {
	UserService UserService
}

func NewUserDefault(userService UserService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService}
}

// CreateUser is the open registration endpoint; it runs outside the auth
// middleware. 201 carries only a Location pointer, never a body.
func (u *DefaultUserRoute) CreateUser(c echo.Context) error {
	var req contract.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	id, apierr := u.UserService.Create(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/v1/users/%d", id))
	return c.NoContent(http.StatusCreated)
}

func (u *DefaultUserRoute) GetMe(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	resp, apierr := u.UserService.GetByID(principal, principal.ID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (u *DefaultUserRoute) UpdateMe(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := u.UserService.Update(principal, principal.ID, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (u *DefaultUserRoute) DeleteMe(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	if apierr := u.UserService.Delete(principal, principal.ID); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUsers lists accounts page by page. Admin only (route guard).
func (u *DefaultUserRoute) GetUsers(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	page, perr := parsePage(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	users, apierr := u.UserService.GetPage(principal, page)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"users": users, "page": page.Normalize().Page}
	return c.JSON(http.StatusOK, &resp)
}

func (u *DefaultUserRoute) GetUser(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := parseIDParam(c, "id")
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	resp, apierr := u.UserService.GetByID(principal, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (u *DefaultUserRoute) DeleteUser(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := parseIDParam(c, "id")
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	if apierr := u.UserService.Delete(principal, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
