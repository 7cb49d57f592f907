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

type NoteService interface {
	Create(principal *entity.Principal, req *contract.CreateNoteRequest) (int64, apierror.ErrorResponse)
	GetByID(principal *entity.Principal, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse)
	GetPage(principal *entity.Principal, page repository.PageRequest) ([]*contract.NoteResponse, apierror.ErrorResponse)
	Update(principal *entity.Principal, noteID int64, req *contract.UpdateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse)
	Delete(principal *entity.Principal, noteID int64) apierror.ErrorResponse
}

type DefaultNoteRoute struct {
	NoteService NoteService
}

func NewNoteDefault(noteService NoteService) *DefaultNoteRoute {
	return &DefaultNoteRoute{NoteService: noteService}
}

func (n *DefaultNoteRoute) GetNotes(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	page, perr := parsePage(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	notes, apierr := n.NoteService.GetPage(principal, page)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"notes": notes, "page": page.Normalize().Page}
	return c.JSON(http.StatusOK, &resp)
}

func (n *DefaultNoteRoute) GetNote(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := parseIDParam(c, "id")
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	note, apierr := n.NoteService.GetByID(principal, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, note)
}

// CreateNote responds 201 with a Location pointer to the new resource
// and no body.
func (n *DefaultNoteRoute) CreateNote(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	var req contract.CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	id, apierr := n.NoteService.Create(principal, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/v1/notes/%d", id))
	return c.NoContent(http.StatusCreated)
}

func (n *DefaultNoteRoute) UpdateNote(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := parseIDParam(c, "id")
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	var req contract.UpdateNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	note, apierr := n.NoteService.Update(principal, id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, note)
}

func (n *DefaultNoteRoute) DeleteNote(c echo.Context) error {
	principal, cerr := utils.GetPrincipalFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, perr := parseIDParam(c, "id")
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	if apierr := n.NoteService.Delete(principal, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
