package route

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify_DefaultRules(t *testing.T) {
	c := NewClassifier(DefaultRules())

	tests := []struct {
		path       string
		protected  bool
		publicAuth bool
	}{
		{"/dashboard", true, false},
		{"/dashboard/overview", true, false},
		{"/transactions", true, false},
		{"/budgets/2024", true, false},
		{"/analytics", true, false},
		{"/categories", true, false},
		{"/ai-assistant", true, false},
		{"/settings/profile", true, false},
		{"/auth/login", false, true},
		{"/auth/signup", false, true},
		{"/auth/reset-password", false, true},
		{"/", false, false},
		{"/some/public/asset", false, false},
		{"/auth", false, false},
		{"dashboard", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := c.Classify(tt.path)
			require.Equal(t, tt.protected, got.IsProtected)
			require.Equal(t, tt.publicAuth, got.IsPublicAuth)
		})
	}
}

// Matching is a plain prefix check, so "/dashboards" is protected too.
func TestClassify_PrefixIsNotSegmentAware(t *testing.T) {
	c := NewClassifier(DefaultRules())
	require.True(t, c.Classify("/dashboards").IsProtected)
	require.True(t, c.Classify("/auth/login-help").IsPublicAuth)
}

func TestClassify_InjectedRules(t *testing.T) {
	c := NewClassifier(Rules{Protected: []string{"/vault"}, PublicAuth: []string{"/enter"}})

	require.Equal(t, Class{IsProtected: true}, c.Classify("/vault/1"))
	require.Equal(t, Class{IsPublicAuth: true}, c.Classify("/enter"))
	require.Equal(t, Class{}, c.Classify("/dashboard"))
}

func TestClassify_EmptyRules(t *testing.T) {
	c := NewClassifier(Rules{})
	require.Equal(t, Class{}, c.Classify("/dashboard"))
}

func TestClassifier_CopiesRules(t *testing.T) {
	rules := Rules{Protected: []string{"/a"}}
	c := NewClassifier(rules)
	rules.Protected[0] = "/b"

	require.True(t, c.Classify("/a").IsProtected)
	require.Equal(t, []string{"/a"}, c.Rules().Protected)
}

func TestExcluder(t *testing.T) {
	e := NewExcluder(DefaultExclusions())

	for _, p := range []string{"/api/user/login", "/api", "/_next/static/chunk.js", "/_next/image?url=x", "/favicon.ico", "/public/logo.svg"} {
		require.True(t, e.Excluded(p), p)
	}
	for _, p := range []string{"/", "/dashboard", "/auth/login", "/_next/data", "/some/public/asset"} {
		require.False(t, e.Excluded(p), p)
	}
}
