package permissions

import (
	"fmt"
	"net/http"
	"strings"
)

// Preview policy names accepted by NewPreviewPolicy.
const (
	PolicyStaff      = "staff"
	PolicyPermission = "permission"
	PolicyAllowAll   = "allow_all"
)

// PreviewPolicy decides whether a request may preview unpublished content.
// A non-nil error denies the request.
type PreviewPolicy interface {
	Authorize(r *http.Request) error
}

// PreviewPolicyFunc adapts a function into a PreviewPolicy.
type PreviewPolicyFunc func(r *http.Request) error

func (fn PreviewPolicyFunc) Authorize(r *http.Request) error {
	if fn == nil {
		return Error{}
	}
	return fn(r)
}

// StaffPolicy admits principals flagged as staff.
type StaffPolicy struct{}

func (StaffPolicy) Authorize(r *http.Request) error {
	if r == nil {
		return ErrAnonymous
	}
	principal := PrincipalFromContext(r.Context())
	if principal == nil {
		return ErrAnonymous
	}
	if !principal.IsStaff() {
		return Error{Permission: "staff"}
	}
	return nil
}

// PermissionPolicy admits requests whose checker grants Permission.
type PermissionPolicy struct {
	Permission string
}

func (p PermissionPolicy) Authorize(r *http.Request) error {
	if r == nil {
		return ErrAnonymous
	}
	permission := p.Permission
	if strings.TrimSpace(permission) == "" {
		permission = PreviewPermission
	}
	return RequireStrict(r.Context(), permission)
}

// AllowAllPolicy admits every request. Development only.
type AllowAllPolicy struct{}

func (AllowAllPolicy) Authorize(*http.Request) error { return nil }

// NewPreviewPolicy returns the built-in policy registered under name.
func NewPreviewPolicy(name, permission string) (PreviewPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyStaff:
		return StaffPolicy{}, nil
	case PolicyPermission:
		return PermissionPolicy{Permission: permission}, nil
	case PolicyAllowAll:
		return AllowAllPolicy{}, nil
	default:
		return nil, fmt.Errorf("permissions: unknown preview policy %q", name)
	}
}
