package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard_Authorize(t *testing.T) {
	g := NewGuard(nil)

	tests := []struct {
		name          string
		path          string
		authenticated bool
		expected      Decision
	}{
		{"public home", "/", false, Allowed()},
		{"public signin", "/signin", false, Allowed()},
		{"dashboard anonymous", "/dashboard", false, RedirectTo("/signin", DefaultRedirectReason)},
		{"dashboard signed in", "/dashboard", true, Allowed()},
		{"nested settings anonymous", "/settings/profile", false, RedirectTo("/signin", DefaultRedirectReason)},
		{"estimate anonymous", "/estimate", false, RedirectTo("/signin", DefaultRedirectReason)},
		{"gis analysis anonymous", "/gis-analysis", false, RedirectTo("/signin", DefaultRedirectReason)},
		{"lookalike prefix", "/dashboards", false, Allowed()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, g.Authorize(tt.path, tt.authenticated))
		})
	}
}

func TestGuard_CustomPrefixes(t *testing.T) {
	g := NewGuard([]string{"/admin/"})

	assert.True(t, g.Protected("/admin"))
	assert.True(t, g.Protected("/admin/users"))
	assert.False(t, g.Protected("/dashboard"))

	empty := NewGuard([]string{})
	assert.True(t, empty.Authorize("/dashboard", false).Allow)
}
