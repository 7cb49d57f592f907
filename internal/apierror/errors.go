package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

// The closed failure taxonomy. Every domain failure resolves to exactly
// one of these (or a StructuredError built from field validation).
var (
	MalformedBodyError  = NewSimple(http.StatusBadRequest, "Malformed JSON body")
	InternalServerError = NewSimple(http.StatusInternalServerError, "Internal server error")

	NotFoundError         = NewSimple(http.StatusNotFound, "Resource not found")
	InvalidIDError        = NewSimple(http.StatusBadRequest, "The provided ID is invalid, IDs are int64 > 0")
	NullRequestError      = NewSimple(http.StatusBadRequest, "Request body is required")
	PasswordTooShortError = NewSimple(http.StatusBadRequest, "Password must be at least 8 characters long")

	UsernameTakenError = NewSimple(http.StatusConflict, "Username already taken")
	EmailTakenError    = NewSimple(http.StatusConflict, "Email already in use")

	UnauthenticatedError = NewSimple(http.StatusUnauthorized, "Authentication required")
	ForbiddenError       = NewSimple(http.StatusForbidden, "You are not allowed to access this resource")

	// UnhandledConflictError is the defensive fallback for uniqueness
	// races that slip past the optimistic pre-check and hit the
	// database constraint instead.
	UnhandledConflictError = NewSimple(http.StatusInternalServerError, "The request conflicted with existing data")
)

func FromValidationError(err error) *StructuredError {
	var ve validator.ValidationErrors
	ok := errors.As(err, &ve)
	if !ok {
		return nil
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")
		case "nospaces":
			problems[field] = append(problems[field], "Value must not contain whitespace")

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}

func NewMissingParamError(name string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' is required", name)
}
