package service

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/cris6h16/notes-api/internal/apierror"
	"github.com/cris6h16/notes-api/internal/domain/entity"
)

// userUpdater acts as a change-set context for PATCH requests. It
// accumulates the first error and tracks whether a save is actually
// needed; fields absent from the request are never touched, so nothing
// the caller omitted can ever be nulled.
type userUpdater struct {
	repo       UserRepository
	target     *entity.User
	bcryptCost int

	// State
	err   apierror.ErrorResponse
	dirty bool
}

// setUsername applies a username change. Uniqueness is re-checked only
// when the value actually differs from the stored one.
func (u *userUpdater) setUsername(newVal *string) {
	if u.err != nil || newVal == nil {
		return
	}

	if *newVal == u.target.Username {
		return
	}

	taken, err := u.repo.ExistsByUsername(*newVal)
	if err != nil {
		u.err = apierror.InternalServerError
		return
	}
	if taken {
		u.err = apierror.UsernameTakenError
		return
	}

	u.target.Username = *newVal
	u.dirty = true
}

func (u *userUpdater) setEmail(newVal *string) {
	if u.err != nil || newVal == nil {
		return
	}

	if *newVal == u.target.Email {
		return
	}

	taken, err := u.repo.ExistsByEmail(*newVal)
	if err != nil {
		u.err = apierror.InternalServerError
		return
	}
	if taken {
		u.err = apierror.EmailTakenError
		return
	}

	u.target.Email = *newVal
	u.dirty = true
}

// setPassword validates length before hashing; the plaintext never
// reaches the entity or any log line.
func (u *userUpdater) setPassword(newVal *string) {
	if u.err != nil || newVal == nil {
		return
	}

	if perr := checkPasswordLength(*newVal); perr != nil {
		u.err = perr
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*newVal), u.bcryptCost)
	if err != nil {
		u.err = apierror.InternalServerError
		return
	}

	u.target.PasswordHash = string(hash)
	u.dirty = true
}
