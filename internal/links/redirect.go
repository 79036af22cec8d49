package links

import (
	"errors"
	"net/url"
	"strings"
)

var (
	ErrRedirectMissing    = errors.New("links: redirect target is required")
	ErrRedirectNotAllowed = errors.New("links: redirect target is not allowed")
)

// RedirectPolicy accepts local paths and absolute http(s) URLs on allowed
// hosts.
type RedirectPolicy struct {
	hosts map[string]struct{}
}

// NewRedirectPolicy builds a policy allowing the supplied hosts.
func NewRedirectPolicy(hosts []string) *RedirectPolicy {
	allowed := make(map[string]struct{}, len(hosts))
	for _, host := range hosts {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			allowed[host] = struct{}{}
		}
	}
	return &RedirectPolicy{hosts: allowed}
}

// Check returns the target to redirect to, or an error when it must not be
// followed.
func (p *RedirectPolicy) Check(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", ErrRedirectMissing
	}
	if strings.ContainsAny(target, "\\\r\n\t") {
		return "", ErrRedirectNotAllowed
	}

	if strings.HasPrefix(target, "/") {
		if strings.HasPrefix(target, "//") {
			return "", ErrRedirectNotAllowed
		}
		parsed, err := url.Parse(target)
		if err != nil || parsed.Scheme != "" || parsed.Host != "" {
			return "", ErrRedirectNotAllowed
		}
		return target, nil
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return "", ErrRedirectNotAllowed
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", ErrRedirectNotAllowed
	}
	if p == nil {
		return "", ErrRedirectNotAllowed
	}
	if _, ok := p.hosts[strings.ToLower(parsed.Hostname())]; !ok {
		return "", ErrRedirectNotAllowed
	}
	return target, nil
}
