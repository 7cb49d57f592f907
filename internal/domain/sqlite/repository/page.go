package repository

import "strings"

// PageRequest carries the caller's pagination and sorting choices.
// Sort keys are matched against a per-repository whitelist so that a
// caller-supplied string never reaches SQL unchecked; unknown keys fall
// back to the primary key.
type PageRequest struct {
	Page int
	Size int
	Sort string
	Desc bool
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps the request into valid bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p PageRequest) offset() int {
	return p.Page * p.Size
}

func (p PageRequest) orderClause(allowed map[string]string) string {
	column, ok := allowed[strings.ToLower(strings.TrimSpace(p.Sort))]
	if !ok {
		column = "id"
	}

	if p.Desc {
		return column + " DESC"
	}
	return column + " ASC"
}
