package permissions

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-cms-widgy/pkg/interfaces"
)

// PreviewPermission is the default token required by the permission policy.
const PreviewPermission = "widgy:preview"

var (
	ErrPermissionDenied = errors.New("permissions: denied")
	ErrAnonymous        = errors.New("permissions: requester is anonymous")
)

type Error struct {
	Permission string
}

func (e Error) Error() string {
	if strings.TrimSpace(e.Permission) == "" {
		return "permission denied"
	}
	return "permission denied: " + e.Permission
}

func (e Error) Unwrap() error {
	return ErrPermissionDenied
}

type Checker interface {
	Allowed(permission string) bool
}

type CheckerFunc func(permission string) bool

func (fn CheckerFunc) Allowed(permission string) bool {
	return fn(permission)
}

// Set is a static permission checker. It honours "resource:*" and "*"
// wildcards.
type Set map[string]struct{}

func NewSet(perms ...string) Set {
	set := Set{}
	for _, perm := range perms {
		normalized := normalizePermission(perm)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
	}
	return set
}

func (s Set) Allowed(permission string) bool {
	if len(s) == 0 {
		return false
	}
	normalized := normalizePermission(permission)
	if normalized == "" {
		return false
	}
	if _, ok := s[normalized]; ok {
		return true
	}
	if resource, _, found := strings.Cut(normalized, ":"); found && resource != "" {
		if _, ok := s[resource+":*"]; ok {
			return true
		}
	}
	if _, ok := s["*"]; ok {
		return true
	}
	return false
}

type Permissioner interface {
	HasPermission(permission string) bool
}

type contextKey string

const (
	checkerKey   contextKey = "widgy.permissions.checker"
	principalKey contextKey = "widgy.permissions.principal"
)

// WithChecker stores a permission checker on the context.
func WithChecker(ctx context.Context, checker Checker) context.Context {
	if ctx == nil || checker == nil {
		return ctx
	}
	return context.WithValue(ctx, checkerKey, checker)
}

// WithPermissions stores a static permission set on the context.
func WithPermissions(ctx context.Context, perms ...string) context.Context {
	if ctx == nil || len(perms) == 0 {
		return ctx
	}
	return WithChecker(ctx, NewSet(perms...))
}

// WithPrincipal stores the authenticated requester on the context.
func WithPrincipal(ctx context.Context, principal interfaces.Principal) context.Context {
	if ctx == nil || principal == nil {
		return ctx
	}
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFromContext returns the requester stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) interfaces.Principal {
	if ctx == nil {
		return nil
	}
	principal, _ := ctx.Value(principalKey).(interfaces.Principal)
	return principal
}

// CheckerFromContext returns the configured permission checker. A stored
// principal is used when no explicit checker was set.
func CheckerFromContext(ctx context.Context) Checker {
	if ctx == nil {
		return nil
	}
	switch typed := ctx.Value(checkerKey).(type) {
	case Checker:
		return typed
	case Permissioner:
		return CheckerFunc(typed.HasPermission)
	}
	if principal := PrincipalFromContext(ctx); principal != nil {
		return CheckerFunc(principal.HasPermission)
	}
	return nil
}

// Require enforces a permission requirement when a checker is available on
// the context. Contexts without a checker pass.
func Require(ctx context.Context, permission string) error {
	normalized := normalizePermission(permission)
	if normalized == "" {
		return nil
	}
	checker := CheckerFromContext(ctx)
	if checker == nil {
		return nil
	}
	if checker.Allowed(normalized) {
		return nil
	}
	return Error{Permission: normalized}
}

// RequireStrict is Require for protected resources: a context without a
// checker is denied.
func RequireStrict(ctx context.Context, permission string) error {
	if CheckerFromContext(ctx) == nil {
		return Error{Permission: normalizePermission(permission)}
	}
	if normalizePermission(permission) == "" {
		return Error{}
	}
	return Require(ctx, permission)
}

func normalizePermission(permission string) string {
	return strings.ToLower(strings.TrimSpace(permission))
}
