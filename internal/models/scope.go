package models

import (
	appErrors "github.com/noah-isme/respub-api/pkg/errors"
)

// Scope is the college/category restriction applied to a caller's visible
// data. Zero values mean no restriction on that axis.
type Scope struct {
	College  string
	Category string
}

// IsUnrestricted reports whether the scope filters nothing (admin view).
func (s Scope) IsUnrestricted() bool {
	return s.College == "" && s.Category == ""
}

// ScopeFor computes the data scope for a caller. Admins see everything. A
// plain user must carry both a college and a category; a record missing
// either is a configuration error surfaced to the caller, never silently
// widened or narrowed.
func ScopeFor(role UserRole, college, category string) (Scope, error) {
	if role == RoleAdmin {
		return Scope{}, nil
	}
	if college == "" || category == "" {
		return Scope{}, appErrors.Clone(appErrors.ErrValidation, "account is missing its college or category assignment")
	}
	return Scope{College: college, Category: category}, nil
}
