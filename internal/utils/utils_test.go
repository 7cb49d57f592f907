package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_TrimsStringsButNotPasswords(t *testing.T) {
	type req struct {
		Username string
		Email    *string
		Password string
		Tags     []string
	}

	email := "  User@Example.com "
	r := &req{
		Username: "  Cris6H16 ",
		Email:    &email,
		Password: "  spaces kept  ",
		Tags:     []string{" a ", "b "},
	}

	Sanitize(r)

	assert.Equal(t, "Cris6H16", r.Username)
	assert.Equal(t, "User@Example.com", *r.Email)
	assert.Equal(t, "  spaces kept  ", r.Password)
	assert.Equal(t, []string{"a", "b"}, r.Tags)
}

func TestSanitize_Idempotent(t *testing.T) {
	type req struct{ Username string }

	r := &req{Username: " once "}
	Sanitize(r)
	first := r.Username
	Sanitize(r)

	assert.Equal(t, first, r.Username)
	assert.Equal(t, "once", r.Username)
}

func TestSanitize_NilPointerFieldIgnored(t *testing.T) {
	type req struct{ Email *string }

	assert.NotPanics(t, func() {
		Sanitize(&req{})
	})
}
