package domain

import "strings"

// Default route gating settings.
const (
	DefaultSignInPath     = "/signin"
	DefaultRedirectReason = "Please sign in to access this page"
)

// DefaultProtectedPrefixes lists the paths that require a signed-in user.
func DefaultProtectedPrefixes() []string {
	return []string{"/dashboard", "/profile", "/settings", "/estimate", "/gis-analysis"}
}

// Decision is the outcome of an access check.
type Decision struct {
	Allow    bool   `json:"allow"`
	Redirect string `json:"redirect,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Allowed is the decision for content that may be shown.
func Allowed() Decision { return Decision{Allow: true} }

// RedirectTo is the decision for content that must not be shown.
func RedirectTo(path, reason string) Decision {
	return Decision{Redirect: path, Reason: reason}
}

// Guard decides whether a path may be shown to the current visitor.
// It is the single authorization check, run before protected content is produced.
type Guard struct {
	prefixes   []string
	signInPath string
	reason     string
}

// NewGuard creates a Guard for the given protected prefixes. A nil slice
// uses DefaultProtectedPrefixes.
func NewGuard(prefixes []string) *Guard {
	if prefixes == nil {
		prefixes = DefaultProtectedPrefixes()
	}
	return &Guard{
		prefixes:   prefixes,
		signInPath: DefaultSignInPath,
		reason:     DefaultRedirectReason,
	}
}

// Protected reports whether path falls under a protected prefix.
// "/dashboard" protects "/dashboard" and "/dashboard/x" but not "/dashboards".
func (g *Guard) Protected(path string) bool {
	for _, p := range g.prefixes {
		p = strings.TrimSuffix(p, "/")
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Authorize returns Allow for unprotected paths and for authenticated
// visitors, and a redirect to the sign-in page otherwise.
func (g *Guard) Authorize(path string, authenticated bool) Decision {
	if authenticated || !g.Protected(path) {
		return Allowed()
	}
	return RedirectTo(g.signInPath, g.reason)
}
