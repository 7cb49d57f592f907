package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cris6h16/notes-api/internal/apierror"
	"github.com/cris6h16/notes-api/internal/domain/sqlite/repository"
)

func parseIDParam(c echo.Context, name string) (int64, apierror.ErrorResponse) {
	raw := strings.TrimSpace(c.Param(name))
	if raw == "" {
		return 0, apierror.NewMissingParamError(name)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apierror.NewInvalidParamTypeError(name, "int64")
	}
	return id, nil
}

// parsePage reads the pagination query parameters. Malformed numbers are
// rejected; bounds are clamped later by PageRequest.Normalize.
func parsePage(c echo.Context) (repository.PageRequest, apierror.ErrorResponse) {
	page := repository.PageRequest{
		Size: repository.DefaultPageSize,
		Sort: c.QueryParam("sort"),
		Desc: strings.EqualFold(c.QueryParam("dir"), "desc"),
	}

	if raw := c.QueryParam("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return page, apierror.NewInvalidParamTypeError("page", "int >= 0")
		}
		page.Page = v
	}

	if raw := c.QueryParam("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return page, apierror.NewInvalidParamTypeError("size", "int > 0")
		}
		page.Size = v
	}

	return page, nil
}
