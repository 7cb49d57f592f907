package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cris6h16/notes-api/internal/apierror"
	"github.com/cris6h16/notes-api/internal/contract"
	"github.com/cris6h16/notes-api/internal/domain/entity"
	"github.com/cris6h16/notes-api/internal/domain/policy"
	"github.com/cris6h16/notes-api/internal/domain/sqlite/repository"
	"github.com/cris6h16/notes-api/internal/http/metrics"
	"github.com/cris6h16/notes-api/internal/utils"
)

type UserRepository interface {
	FindByID(id int64) (*entity.User, error)
	FindByUsername(username string) (*entity.User, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	FindPage(page repository.PageRequest) ([]*entity.User, error)
	FindRoleByName(name string) (*entity.Role, error)
	Save(user *entity.User) error
	DeleteWithNotes(user *entity.User) error
}

// AuditSink is the fire-and-forget logging collaborator. Implementations
// must swallow their own failures; services never check for errors here.
type AuditSink interface {
	Success(format string, args ...any)
	Failure(format string, args ...any)
	Hidden(format string, args ...any)
}

type UserService struct {
	UserRepo   UserRepository
	Validate   *validator.Validate
	Policy     *policy.AccessPolicy
	Audit      AuditSink
	Log        zerolog.Logger
	BcryptCost int
}

func NewUserService(userRepo UserRepository, validate *validator.Validate, accessPolicy *policy.AccessPolicy, audit AuditSink, log zerolog.Logger, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		UserRepo:   userRepo,
		Validate:   validate,
		Policy:     accessPolicy,
		Audit:      audit,
		Log:        log,
		BcryptCost: bcryptCost,
	}
}

// Create registers a new account with the default user role. It is the
// only unauthenticated mutation in the system.
func (u *UserService) Create(req *contract.CreateUserRequest) (int64, apierror.ErrorResponse) {
	if req == nil {
		return 0, apierror.NullRequestError
	}

	utils.Sanitize(req)
	req.Username = strings.ToLower(req.Username)
	req.Email = strings.ToLower(req.Email)

	if valerr := u.Validate.Struct(req); valerr != nil {
		return 0, u.fail("user", "create", apierror.FromValidationError(valerr))
	}

	if perr := checkPasswordLength(req.Password); perr != nil {
		return 0, u.fail("user", "create", perr)
	}

	if apierr := u.checkUsernameFree(req.Username); apierr != nil {
		return 0, u.fail("user", "create", apierr)
	}
	if apierr := u.checkEmailFree(req.Email); apierr != nil {
		return 0, u.fail("user", "create", apierr)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), u.BcryptCost)
	if err != nil {
		u.Log.Error().Err(err).Msg("failed to hash password")
		return 0, apierror.InternalServerError
	}

	role, err := u.UserRepo.FindRoleByName(entity.RoleUser)
	if err != nil || role == nil {
		u.Log.Error().Err(err).Msg("default role lookup failed")
		return 0, apierror.InternalServerError
	}

	now := utils.NowUTC()
	user := &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Roles:        []entity.Role{*role},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.UserRepo.Save(user); err != nil {
		return 0, u.saveFailure("create user", err)
	}

	metrics.OperationsTotal.WithLabelValues("user", "create", "ok").Inc()
	u.Audit.Success("user created id=%d username=%s", user.ID, user.Username)
	return user.ID, nil
}

func (u *UserService) GetByID(principal *entity.Principal, targetID int64) (*contract.UserResponse, apierror.ErrorResponse) {
	target, apierr := u.authorizedTarget(principal, targetID)
	if apierr != nil {
		return nil, apierr
	}
	return toUserResponse(target), nil
}

func (u *UserService) GetPage(principal *entity.Principal, page repository.PageRequest) ([]*contract.UserResponse, apierror.ErrorResponse) {
	if perr := u.Policy.AuthenticatedOrFail(principal); perr != nil {
		return nil, perr
	}

	users, err := u.UserRepo.FindPage(page)
	if err != nil {
		u.Log.Error().Err(err).Msg("failed to fetch users page")
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.UserResponse, len(users))
	for i, user := range users {
		resp[i] = toUserResponse(user)
	}
	return resp, nil
}

func (u *UserService) Update(principal *entity.Principal, targetID int64, req *contract.UpdateUserRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	if req == nil {
		return nil, apierror.NullRequestError
	}

	utils.Sanitize(req)
	lowercase(req.Username)
	lowercase(req.Email)

	if valerr := u.Validate.Struct(req); valerr != nil {
		return nil, u.fail("user", "update", apierror.FromValidationError(valerr))
	}

	target, apierr := u.authorizedTarget(principal, targetID)
	if apierr != nil {
		return nil, u.fail("user", "update", apierr)
	}

	updater := &userUpdater{
		repo:       u.UserRepo,
		target:     target,
		bcryptCost: u.BcryptCost,
	}
	updater.setUsername(req.Username)
	updater.setEmail(req.Email)
	updater.setPassword(req.Password)

	if updater.err != nil {
		return nil, u.fail("user", "update", updater.err)
	}

	if updater.dirty {
		target.UpdatedAt = utils.NowUTC()
		if err := u.UserRepo.Save(target); err != nil {
			return nil, u.saveFailure("update user", err)
		}
		u.Audit.Success("user updated id=%d by=%d", target.ID, principal.ID)
	}

	metrics.OperationsTotal.WithLabelValues("user", "update", "ok").Inc()
	return toUserResponse(target), nil
}

// Delete removes the account together with every note it owns.
func (u *UserService) Delete(principal *entity.Principal, targetID int64) apierror.ErrorResponse {
	target, apierr := u.authorizedTarget(principal, targetID)
	if apierr != nil {
		return u.fail("user", "delete", apierr)
	}

	if err := u.UserRepo.DeleteWithNotes(target); err != nil {
		u.Log.Error().Err(err).Int64("user_id", target.ID).Msg("failed to delete user")
		u.Audit.Hidden("delete user id=%d failed: %v", target.ID, err)
		return apierror.InternalServerError
	}

	metrics.OperationsTotal.WithLabelValues("user", "delete", "ok").Inc()
	u.Audit.Success("user deleted id=%d by=%d", target.ID, principal.ID)
	return nil
}

// authorizedTarget runs the shared id/authorization/lookup prologue of
// every targeted user operation. Administrators may act on any account,
// everyone else only on their own.
func (u *UserService) authorizedTarget(principal *entity.Principal, targetID int64) (*entity.User, apierror.ErrorResponse) {
	if targetID <= 0 {
		return nil, apierror.InvalidIDError
	}

	if principal.HasRole(entity.RoleAdmin) {
		if perr := u.Policy.AuthenticatedOrFail(principal); perr != nil {
			return nil, perr
		}
	} else if perr := u.Policy.OwnerOrFail(principal, targetID); perr != nil {
		return nil, perr
	}

	target, err := u.UserRepo.FindByID(targetID)
	if err != nil {
		u.Log.Error().Err(err).Int64("user_id", targetID).Msg("failed to fetch user")
		return nil, apierror.InternalServerError
	}

	if target == nil {
		return nil, apierror.NotFoundError
	}
	return target, nil
}

func (u *UserService) checkUsernameFree(username string) apierror.ErrorResponse {
	taken, err := u.UserRepo.ExistsByUsername(username)
	if err != nil {
		u.Log.Error().Err(err).Msg("username existence check failed")
		return apierror.InternalServerError
	}
	if taken {
		return apierror.UsernameTakenError
	}
	return nil
}

func (u *UserService) checkEmailFree(email string) apierror.ErrorResponse {
	taken, err := u.UserRepo.ExistsByEmail(email)
	if err != nil {
		u.Log.Error().Err(err).Msg("email existence check failed")
		return apierror.InternalServerError
	}
	if taken {
		return apierror.EmailTakenError
	}
	return nil
}

// saveFailure maps a failed write. A unique-index violation here means a
// duplicate raced past the optimistic pre-check; it is downgraded to the
// generic conflict response instead of crashing the request.
func (u *UserService) saveFailure(op string, err error) apierror.ErrorResponse {
	if errors.Is(err, repository.ErrDuplicate) {
		u.Log.Warn().Err(err).Str("op", op).Msg("uniqueness race hit the constraint")
		u.Audit.Hidden("%s: constraint race: %v", op, err)
		return apierror.UnhandledConflictError
	}

	u.Log.Error().Err(err).Str("op", op).Msg("persistence failure")
	u.Audit.Hidden("%s: %v", op, err)
	return apierror.InternalServerError
}

func (u *UserService) fail(entityName, op string, apierr apierror.ErrorResponse) apierror.ErrorResponse {
	metrics.OperationsTotal.WithLabelValues(entityName, op, outcome(apierr)).Inc()
	u.Audit.Failure("%s %s rejected with %d", op, entityName, apierr.Code())
	return apierr
}

func toUserResponse(user *entity.User) *contract.UserResponse {
	return &contract.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Roles:     user.RoleNames(),
		CreatedAt: utils.FormatTime(user.CreatedAt),
		UpdatedAt: utils.FormatTime(user.UpdatedAt),
	}
}

func lowercase(s *string) {
	if s != nil {
		*s = strings.ToLower(*s)
	}
}

func checkPasswordLength(password string) apierror.ErrorResponse {
	if len(password) < contract.PasswordMinLength {
		return apierror.PasswordTooShortError
	}
	if len(password) > contract.PasswordMaxLength {
		return apierror.NewSimple(400, "Password is too long, max: %d", contract.PasswordMaxLength)
	}
	return nil
}
