package service

import (
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cris6h16/notes-api/internal/contract"
	"github.com/cris6h16/notes-api/internal/domain/entity"
	"github.com/cris6h16/notes-api/internal/domain/policy"
	"github.com/cris6h16/notes-api/internal/domain/sqlite/repository"
)

type stubNoteRepo struct {
	notes  map[int64]*entity.Note
	nextID int64
}

func newStubNoteRepo() *stubNoteRepo {
	return &stubNoteRepo{notes: make(map[int64]*entity.Note), nextID: 1}
}

func (r *stubNoteRepo) FindByIDAndOwnerID(id, ownerID int64) (*entity.Note, error) {
	n, ok := r.notes[id]
	if !ok || n.UserID != ownerID {
		return nil, nil
	}
	clone := *n
	return &clone, nil
}

func (r *stubNoteRepo) ExistsByIDAndOwnerID(id, ownerID int64) (bool, error) {
	n, _ := r.FindByIDAndOwnerID(id, ownerID)
	return n != nil, nil
}

func (r *stubNoteRepo) FindPageByOwnerID(ownerID int64, page repository.PageRequest) ([]*entity.Note, error) {
	var out []*entity.Note
	for _, n := range r.notes {
		if n.UserID == ownerID {
			clone := *n
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubNoteRepo) Save(note *entity.Note) error {
	if note.ID == 0 {
		note.ID = r.nextID
		r.nextID++
	}
	clone := *note
	r.notes[note.ID] = &clone
	return nil
}

func (r *stubNoteRepo) DeleteByIDAndOwnerID(id, ownerID int64) (bool, error) {
	n, ok := r.notes[id]
	if !ok || n.UserID != ownerID {
		return false, nil
	}
	delete(r.notes, id)
	return true, nil
}

func newNoteService(repo *stubNoteRepo) *DefaultNoteService {
	return NewNoteService(repo, validator.New(), policy.NewAccessPolicy(), nopAudit{}, zerolog.Nop())
}

func TestNoteCreate_AssignsOwner(t *testing.T) {
	repo := newStubNoteRepo()
	svc := newNoteService(repo)

	id, apierr := svc.Create(userPrincipal(7), &contract.CreateNoteRequest{Title: "A", Content: "B"})
	require.Nil(t, apierr)
	require.Positive(t, id)
	assert.Equal(t, int64(7), repo.notes[id].UserID)
}

func TestNoteCreate_Unauthenticated(t *testing.T) {
	svc := newNoteService(newStubNoteRepo())

	_, apierr := svc.Create(nil, &contract.CreateNoteRequest{Title: "A", Content: "B"})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusUnauthorized, apierr.Code())
}

func TestNoteCreate_BlankTitleRejected(t *testing.T) {
	repo := newStubNoteRepo()
	svc := newNoteService(repo)

	_, apierr := svc.Create(userPrincipal(7), &contract.CreateNoteRequest{Title: "   ", Content: "B"})
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusBadRequest, apierr.Code())
	assert.Empty(t, repo.notes)
}

func TestNoteGet_OtherOwnerLooksLikeMissing(t *testing.T) {
	repo := newStubNoteRepo()
	svc := newNoteService(repo)

	id, apierr := svc.Create(userPrincipal(7), &contract.CreateNoteRequest{Title: "mine", Content: "x"})
	require.Nil(t, apierr)

	// The owner-scoped query hides foreign notes entirely.
	_, apierr = svc.GetByID(userPrincipal(8), id)
	require.NotNil(t, apierr)
	assert.Equal(t, http.StatusNotFound, apierr.Code())
}

func TestNoteGet_InvalidID(t *testing.T) {
	svc := newNoteService(newStubNoteRepo())

	for _, id := range []int64{0, -5} {
		_, apierr := svc.GetByID(userPrincipal(7), id)
		require.NotNil(t, apierr)
		assert.Equal(t, http.StatusBadRequest, apierr.Code())
	}
}

func TestNoteUpdate_PartialPreservesTitle(t *testing.T) {
	repo := newStubNoteRepo()
	svc := newNoteService(repo)

	id, apierr := svc.Create(userPrincipal(7), &contract.CreateNoteRequest{Title: "A", Content: "B"})
	require.Nil(t, apierr)

	content := "C"
	resp, apierr := svc.Update(userPrincipal(7), id, &contract.UpdateNoteRequest{Content: &content})
	require.Nil(t, apierr)
	assert.Equal(t, "A", resp.Title)
	assert.Equal(t, "C", resp.Content)
	assert.Equal(t, "A", repo.notes[id].Title)
}

func TestNoteDelete_Owned(t *testing.T) {
	repo := newStubNoteRepo()
	svc := newNoteService(repo)

	id, apierr := svc.Create(userPrincipal(7), &contract.CreateNoteRequest{Title: "gone", Content: "soon"})
	require.Nil(t, apierr)

	require.Nil(t, svc.Delete(userPrincipal(7), id))
	assert.Empty(t, repo.notes)
}

func TestNoteGetPage_OnlyOwnNotes(t *testing.T) {
	repo := newStubNoteRepo()
	svc := newNoteService(repo)

	_, _ = svc.Create(userPrincipal(7), &contract.CreateNoteRequest{Title: "a", Content: "1"})
	_, _ = svc.Create(userPrincipal(7), &contract.CreateNoteRequest{Title: "b", Content: "2"})
	_, _ = svc.Create(userPrincipal(8), &contract.CreateNoteRequest{Title: "c", Content: "3"})

	notes, apierr := svc.GetPage(userPrincipal(7), repository.PageRequest{})
	require.Nil(t, apierr)
	assert.Len(t, notes, 2)
	for _, n := range notes {
		assert.Equal(t, int64(7), n.UserID)
	}
}
