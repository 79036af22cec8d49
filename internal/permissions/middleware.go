package permissions

import (
	"net/http"

	"github.com/goliatone/go-cms-widgy/pkg/interfaces"
)

// PrincipalMiddleware attaches the principal returned by resolver to each
// request context. Resolver errors leave the request anonymous.
func PrincipalMiddleware(resolver interfaces.PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if resolver == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := resolver.CurrentPrincipal(r.Context())
			if err == nil && principal != nil {
				r = r.WithContext(WithPrincipal(r.Context(), principal))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// StaticPrincipal is a fixed principal, used for local runs and tests.
type StaticPrincipal struct {
	Subject     string
	Staff       bool
	Permissions Set
}

var _ interfaces.Principal = StaticPrincipal{}

func (p StaticPrincipal) ID() string    { return p.Subject }
func (p StaticPrincipal) IsStaff() bool { return p.Staff }

func (p StaticPrincipal) HasPermission(permission string) bool {
	return p.Permissions.Allowed(permission)
}
