package interfaces

import "context"

// Principal describes the authenticated requester as seen by widgy. Host
// applications attach one to the request context through their own
// authentication middleware.
type Principal interface {
	ID() string
	IsStaff() bool
	HasPermission(permission string) bool
}

// PrincipalResolver extracts the current principal from a context. A nil
// principal with a nil error means an anonymous requester.
type PrincipalResolver interface {
	CurrentPrincipal(ctx context.Context) (Principal, error)
}
