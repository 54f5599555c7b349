// Package redirect computes where a user lands after authentication. The
// destination comes from a fixed priority chain of candidate sources; the
// first present candidate wins and suppresses everything after it.
package redirect

import (
	"net/url"
	"strings"

	"github.com/craftsite/go-auth-client/internal/utils"
)

const (
	// QueryParam is the query string key carrying an explicit destination.
	QueryParam = "redirect"

	// publishPrefix is the editor path shape a tenant can be lifted from.
	publishPrefix = "/publish/"

	defaultTarget = "/dashboard"
)

// Input bundles the ambient request context a resolution draws from.
type Input struct {
	// Flag holds a destination stored before the login round trip. It is
	// consumed when read, whether or not it ends up winning.
	Flag FlagStore

	// Query is the current request's query parameters.
	Query url.Values

	// Path is the current request path.
	Path string

	// Host is the current request host, optionally with a port.
	Host string

	// Fallback is an identity-derived destination used when no other
	// source yields one. Callers build it from the authenticated user.
	Fallback string
}

// Resolver resolves post-auth destinations against a set of known root
// domains (one for local development, one for production).
type Resolver struct {
	rootDomains []string
}

// NewResolver creates a resolver. Hosts shaped {tenant}.{root} for any of
// the given roots resolve to that tenant's dashboard.
func NewResolver(rootDomains ...string) *Resolver {
	return &Resolver{rootDomains: rootDomains}
}

// Resolve walks the priority chain and returns the first destination:
// transient flag, redirect query parameter, tenant from a /publish/ path,
// tenant from a subdomain, then the caller's fallback. Never empty.
func (r *Resolver) Resolve(input Input) string {
	var flagged string
	if input.Flag != nil {
		flagged = input.Flag.Take()
	}

	return utils.FirstNonEmpty(
		flagged,
		input.Query.Get(QueryParam),
		tenantTargetOrEmpty(tenantFromPath(input.Path)),
		tenantTargetOrEmpty(r.tenantFromHost(input.Host)),
		input.Fallback,
		defaultTarget,
	)
}

func tenantTargetOrEmpty(tenant string) string {
	if tenant == "" {
		return ""
	}
	return TenantTarget(tenant)
}

// TenantTarget is the canonical destination for a tenant's workspace.
func TenantTarget(tenant string) string {
	return "/" + tenant + "/dashboard"
}

// tenantFromPath lifts the tenant segment out of a /publish/{tenant}/...
// shaped path.
func tenantFromPath(path string) string {
	if !strings.HasPrefix(path, publishPrefix) {
		return ""
	}
	rest := strings.TrimPrefix(path, publishPrefix)
	tenant, _, _ := strings.Cut(rest, "/")
	return tenant
}

// tenantFromHost lifts the leading host label when the remainder matches a
// known root domain.
func (r *Resolver) tenantFromHost(host string) string {
	host, _, _ = strings.Cut(strings.ToLower(strings.TrimSpace(host)), ":")
	if host == "" {
		return ""
	}

	for _, root := range r.rootDomains {
		suffix := "." + strings.ToLower(root)
		if !strings.HasSuffix(host, suffix) {
			continue
		}
		tenant := strings.TrimSuffix(host, suffix)
		if tenant != "" && !strings.Contains(tenant, ".") {
			return tenant
		}
	}
	return ""
}
