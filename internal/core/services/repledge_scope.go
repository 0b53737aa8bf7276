package services

import (
	"goldloan-ledger/internal/core/domain"
)

// ResolveScope derives the tenant scope for a principal.
// Admins are unrestricted whether or not a branch is selected. A branch user
// without a branch has no scope and must not query.
func ResolveScope(principal *domain.Principal, branch *domain.Branch) (domain.Scope, error) {
	if principal == nil {
		return domain.Scope{}, domain.ErrScopeUnavailable
	}

	switch principal.Role {
	case domain.RoleAdmin:
		return domain.Unrestricted(), nil
	default:
		if branch == nil || branch.ID == "" {
			return domain.Scope{}, domain.ErrScopeUnavailable
		}
		return domain.RestrictedTo(branch.ID), nil
	}
}
