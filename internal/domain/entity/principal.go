package entity

import "slices"

// Principal is the authenticated identity of one request. It is built by
// the auth middleware from a User row and discarded when the request ends;
// it is never persisted.
type Principal struct {
	ID       int64
	Username string
	Roles    []string
}

// NewPrincipal derives the request identity from a stored user.
func NewPrincipal(user *User) *Principal {
	return &Principal{
		ID:       user.ID,
		Username: user.Username,
		Roles:    user.RoleNames(),
	}
}

func (p *Principal) HasRole(name string) bool {
	return p != nil && slices.Contains(p.Roles, name)
}
