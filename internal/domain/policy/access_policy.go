package policy

import (
	"github.com/cris6h16/notes-api/internal/apierror"
	"github.com/cris6h16/notes-api/internal/domain/entity"
)

// AccessPolicy encapsulates the per-resource access rules.
// It returns apierror.ErrorResponse directly for seamless integration
// with services and handlers.
//
// Role gating (admin-only endpoints) stays in the transport middleware;
// the policy only carries the one rule a generic role guard cannot
// express: ownership of the target resource.
type AccessPolicy struct{}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// OwnerOrFail allows the action only when 'principal' owns the resource.
// A non-positive owner id is rejected before the ownership comparison,
// since such an id can never reference a stored row.
func (p *AccessPolicy) OwnerOrFail(principal *entity.Principal, ownerID int64) apierror.ErrorResponse {
	if ownerID <= 0 {
		return apierror.InvalidIDError
	}

	if perr := p.AuthenticatedOrFail(principal); perr != nil {
		return perr
	}

	if principal.ID != ownerID {
		return apierror.ForbiddenError
	}
	return nil
}

// AuthenticatedOrFail rejects the anonymous marker (nil or zero-id
// principal, and principals that lost all roles).
func (p *AccessPolicy) AuthenticatedOrFail(principal *entity.Principal) apierror.ErrorResponse {
	if principal == nil || principal.ID <= 0 || len(principal.Roles) == 0 {
		return apierror.UnauthenticatedError
	}
	return nil
}
