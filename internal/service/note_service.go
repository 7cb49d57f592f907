package service

import (
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/cris6h16/notes-api/internal/apierror"
	"github.com/cris6h16/notes-api/internal/contract"
	"github.com/cris6h16/notes-api/internal/domain/entity"
	"github.com/cris6h16/notes-api/internal/domain/policy"
	"github.com/cris6h16/notes-api/internal/domain/sqlite/repository"
	"github.com/cris6h16/notes-api/internal/http/metrics"
	"github.com/cris6h16/notes-api/internal/utils"
)

type NoteRepository interface {
	FindByIDAndOwnerID(id, ownerID int64) (*entity.Note, error)
	ExistsByIDAndOwnerID(id, ownerID int64) (bool, error)
	FindPageByOwnerID(ownerID int64, page repository.PageRequest) ([]*entity.Note, error)
	Save(note *entity.Note) error
	DeleteByIDAndOwnerID(id, ownerID int64) (bool, error)
}

type DefaultNoteService struct {
	NoteRepo NoteRepository
	Validate *validator.Validate
	Policy   *policy.AccessPolicy
	Audit    AuditSink
	Log      zerolog.Logger
}

func NewNoteService(noteRepo NoteRepository, validate *validator.Validate, accessPolicy *policy.AccessPolicy, audit AuditSink, log zerolog.Logger) *DefaultNoteService {
	return &DefaultNoteService{
		NoteRepo: noteRepo,
		Validate: validate,
		Policy:   accessPolicy,
		Audit:    audit,
		Log:      log,
	}
}

func (n *DefaultNoteService) Create(principal *entity.Principal, req *contract.CreateNoteRequest) (int64, apierror.ErrorResponse) {
	if req == nil {
		return 0, apierror.NullRequestError
	}

	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return 0, n.fail("create", apierror.FromValidationError(valerr))
	}

	if perr := n.Policy.AuthenticatedOrFail(principal); perr != nil {
		return 0, n.fail("create", perr)
	}

	note := &entity.Note{
		Title:     req.Title,
		Content:   req.Content,
		UserID:    principal.ID,
		UpdatedAt: utils.NowUTC(),
	}

	if err := n.NoteRepo.Save(note); err != nil {
		n.Log.Error().Err(err).Msg("failed to save note")
		n.Audit.Hidden("create note: %v", err)
		return 0, apierror.InternalServerError
	}

	metrics.OperationsTotal.WithLabelValues("note", "create", "ok").Inc()
	n.Audit.Success("note created id=%d owner=%d", note.ID, principal.ID)
	return note.ID, nil
}

func (n *DefaultNoteService) GetByID(principal *entity.Principal, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, apierr := n.ownedNote(principal, noteID)
	if apierr != nil {
		return nil, apierr
	}
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) GetPage(principal *entity.Principal, page repository.PageRequest) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	if perr := n.Policy.AuthenticatedOrFail(principal); perr != nil {
		return nil, perr
	}

	notes, err := n.NoteRepo.FindPageByOwnerID(principal.ID, page)
	if err != nil {
		n.Log.Error().Err(err).Int64("owner_id", principal.ID).Msg("failed to fetch notes page")
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = toNoteResponse(note)
	}
	return resp, nil
}

func (n *DefaultNoteService) Update(principal *entity.Principal, noteID int64, req *contract.UpdateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	if req == nil {
		return nil, apierror.NullRequestError
	}

	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, n.fail("update", apierror.FromValidationError(valerr))
	}

	note, apierr := n.ownedNote(principal, noteID)
	if apierr != nil {
		return nil, apierr
	}

	dirty := false
	if req.Title != nil && *req.Title != note.Title {
		note.Title = *req.Title
		dirty = true
	}
	if req.Content != nil && *req.Content != note.Content {
		note.Content = *req.Content
		dirty = true
	}

	if dirty {
		note.UpdatedAt = utils.NowUTC()
		if err := n.NoteRepo.Save(note); err != nil {
			n.Log.Error().Err(err).Int64("note_id", note.ID).Msg("failed to update note")
			n.Audit.Hidden("update note id=%d: %v", note.ID, err)
			return nil, apierror.InternalServerError
		}
		n.Audit.Success("note updated id=%d owner=%d", note.ID, principal.ID)
	}

	metrics.OperationsTotal.WithLabelValues("note", "update", "ok").Inc()
	return toNoteResponse(note), nil
}

func (n *DefaultNoteService) Delete(principal *entity.Principal, noteID int64) apierror.ErrorResponse {
	note, apierr := n.ownedNote(principal, noteID)
	if apierr != nil {
		return apierr
	}

	deleted, err := n.NoteRepo.DeleteByIDAndOwnerID(note.ID, principal.ID)
	if err != nil {
		n.Log.Error().Err(err).Int64("note_id", note.ID).Msg("failed to delete note")
		n.Audit.Hidden("delete note id=%d: %v", note.ID, err)
		return apierror.InternalServerError
	}

	if !deleted {
		// The note vanished between the lookup and the delete.
		return apierror.NotFoundError
	}

	metrics.OperationsTotal.WithLabelValues("note", "delete", "ok").Inc()
	n.Audit.Success("note deleted id=%d owner=%d", note.ID, principal.ID)
	return nil
}

// ownedNote runs the shared prologue of every targeted note operation:
// id sanity, authentication, owner-scoped lookup and the ownership
// policy check. The scoped query already filters by owner; the policy
// check on top is defense in depth against repository bugs.
func (n *DefaultNoteService) ownedNote(principal *entity.Principal, noteID int64) (*entity.Note, apierror.ErrorResponse) {
	if noteID <= 0 {
		return nil, apierror.InvalidIDError
	}

	if perr := n.Policy.AuthenticatedOrFail(principal); perr != nil {
		return nil, perr
	}

	note, err := n.NoteRepo.FindByIDAndOwnerID(noteID, principal.ID)
	if err != nil {
		n.Log.Error().Err(err).Int64("note_id", noteID).Msg("failed to fetch note")
		return nil, apierror.InternalServerError
	}

	if note == nil {
		return nil, apierror.NotFoundError
	}

	if perr := n.Policy.OwnerOrFail(principal, note.UserID); perr != nil {
		return nil, perr
	}
	return note, nil
}

func (n *DefaultNoteService) fail(op string, apierr apierror.ErrorResponse) apierror.ErrorResponse {
	metrics.OperationsTotal.WithLabelValues("note", op, outcome(apierr)).Inc()
	n.Audit.Failure("%s note rejected with %d", op, apierr.Code())
	return apierr
}

func toNoteResponse(note *entity.Note) *contract.NoteResponse {
	return &contract.NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		UserID:    note.UserID,
		UpdatedAt: utils.FormatTime(note.UpdatedAt),
	}
}
