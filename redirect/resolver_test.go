package redirect_test

import (
	"net/url"
	"testing"

	"github.com/craftsite/go-auth-client/redirect"
	"github.com/stretchr/testify/require"
)

func newResolver() *redirect.Resolver {
	return redirect.NewResolver("localhost", "craftsite.app")
}

func TestResolve_PriorityChain(t *testing.T) {
	t.Run("transient flag wins over query parameter", func(t *testing.T) {
		flag := redirect.NewMemoryFlag()
		flag.Set("/t1/dash")

		target := newResolver().Resolve(redirect.Input{
			Flag:     flag,
			Query:    url.Values{"redirect": {"/t2/dash"}},
			Fallback: "/me",
		})
		require.Equal(t, "/t1/dash", target)
	})

	t.Run("query parameter wins over publish path", func(t *testing.T) {
		target := newResolver().Resolve(redirect.Input{
			Query:    url.Values{"redirect": {"/t2/dash"}},
			Path:     "/publish/t3/pages/home",
			Fallback: "/me",
		})
		require.Equal(t, "/t2/dash", target)
	})

	t.Run("publish path wins over subdomain", func(t *testing.T) {
		target := newResolver().Resolve(redirect.Input{
			Path:     "/publish/t3/pages/home",
			Host:     "t4.craftsite.app",
			Fallback: "/me",
		})
		require.Equal(t, "/t3/dashboard", target)
	})

	t.Run("subdomain wins over fallback", func(t *testing.T) {
		target := newResolver().Resolve(redirect.Input{
			Host:     "t4.craftsite.app",
			Fallback: "/me",
		})
		require.Equal(t, "/t4/dashboard", target)
	})

	t.Run("fallback when nothing else matches", func(t *testing.T) {
		target := newResolver().Resolve(redirect.Input{
			Path:     "/account/settings",
			Host:     "craftsite.app",
			Fallback: "/users/user-1/dashboard",
		})
		require.Equal(t, "/users/user-1/dashboard", target)
	})

	t.Run("never empty even without fallback", func(t *testing.T) {
		target := newResolver().Resolve(redirect.Input{})
		require.NotEmpty(t, target)
	})
}

func TestResolve_FlagConsumption(t *testing.T) {
	t.Run("flag is consumed once read", func(t *testing.T) {
		flag := redirect.NewMemoryFlag()
		flag.Set("/t1/dash")
		resolver := newResolver()

		first := resolver.Resolve(redirect.Input{Flag: flag, Fallback: "/me"})
		require.Equal(t, "/t1/dash", first)

		second := resolver.Resolve(redirect.Input{Flag: flag, Fallback: "/me"})
		require.Equal(t, "/me", second)
	})

	t.Run("empty flag does not shadow later sources", func(t *testing.T) {
		flag := redirect.NewMemoryFlag()

		target := newResolver().Resolve(redirect.Input{
			Flag:     flag,
			Query:    url.Values{"redirect": {"/t2/dash"}},
			Fallback: "/me",
		})
		require.Equal(t, "/t2/dash", target)
	})
}

func TestResolve_SubdomainExtraction(t *testing.T) {
	t.Run("local development root", func(t *testing.T) {
		target := newResolver().Resolve(redirect.Input{
			Host:     "acme.localhost:3000",
			Fallback: "/me",
		})
		require.Equal(t, "/acme/dashboard", target)
	})

	t.Run("production root", func(t *testing.T) {
		target := newResolver().Resolve(redirect.Input{
			Host:     "Acme.Craftsite.App",
			Fallback: "/me",
		})
		require.Equal(t, "/acme/dashboard", target)
	})

	t.Run("bare root has no tenant", func(t *testing.T) {
		target := newResolver().Resolve(redirect.Input{
			Host:     "craftsite.app",
			Fallback: "/me",
		})
		require.Equal(t, "/me", target)
	})

	t.Run("multi label prefix is not a tenant", func(t *testing.T) {
		target := newResolver().Resolve(redirect.Input{
			Host:     "a.b.craftsite.app",
			Fallback: "/me",
		})
		require.Equal(t, "/me", target)
	})

	t.Run("unknown root has no tenant", func(t *testing.T) {
		target := newResolver().Resolve(redirect.Input{
			Host:     "acme.othersite.dev",
			Fallback: "/me",
		})
		require.Equal(t, "/me", target)
	})
}

func TestResolve_PublishPath(t *testing.T) {
	t.Run("tenant lifted from publish path", func(t *testing.T) {
		target := newResolver().Resolve(redirect.Input{
			Path:     "/publish/acme/pages/home",
			Fallback: "/me",
		})
		require.Equal(t, "/acme/dashboard", target)
	})

	t.Run("bare publish prefix has no tenant", func(t *testing.T) {
		target := newResolver().Resolve(redirect.Input{
			Path:     "/publish/",
			Fallback: "/me",
		})
		require.Equal(t, "/me", target)
	})

	t.Run("non publish path has no tenant", func(t *testing.T) {
		target := newResolver().Resolve(redirect.Input{
			Path:     "/acme/pages",
			Fallback: "/me",
		})
		require.Equal(t, "/me", target)
	})
}

func TestMemoryFlag(t *testing.T) {
	flag := redirect.NewMemoryFlag()
	require.Empty(t, flag.Peek())

	flag.Set("/next")
	require.Equal(t, "/next", flag.Peek())
	require.Equal(t, "/next", flag.Take())
	require.Empty(t, flag.Take())

	flag.Set("/next")
	flag.Clear()
	flag.Clear()
	require.Empty(t, flag.Peek())
}
