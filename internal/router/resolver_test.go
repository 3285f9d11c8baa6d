package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webiny-go/restroute/internal/naming"
	"github.com/webiny-go/restroute/internal/table"
)

func newResolvers() (*Resolver, *DefaultResolver) {
	m := NewMatcher()
	c := NewCompleter(m, naming.Transformer{})
	return NewResolver(m, c), NewDefaultResolver(m, c)
}

// usersCallbacks mirrors a typical GET table: a parameterless lister with
// a defaulted page, a by-id getter flagged as the default method, and a
// named overload.
func usersCallbacks() *table.CallbackTable {
	t := &table.CallbackTable{}
	t.Add(`users/list/(\d+)/`, table.Method{
		Method:     "list",
		URLPattern: "list",
		Params:     []table.Param{{Name: "page", Default: strPtr("1")}},
	})
	t.Add(`users/get-user/(\d+)/`, table.Method{
		Method:     "getUser",
		URLPattern: "get-user",
		Default:    true,
		Params:     []table.Param{{Name: "id"}},
	})
	t.Add(`users/find-by-email/(\S+)/`, table.Method{
		Method:     "findByEmail",
		URLPattern: "find-by-email",
		Params:     []table.Param{{Name: "email"}},
	})
	return t
}

func TestResolverExactMatch(t *testing.T) {
	t.Parallel()

	r, _ := newResolvers()
	res := r.Resolve(usersCallbacks(), "/users/get-user/42/", "users")

	require.True(t, res.Matched())
	assert.Equal(t, "getUser", res.Method.Method)
	assert.Equal(t, []string{"42"}, res.Params)
	assert.True(t, res.MethodNameFound)
}

func TestResolverCompletionFallback(t *testing.T) {
	t.Parallel()

	r, _ := newResolvers()
	res := r.Resolve(usersCallbacks(), "/users/list/", "users")

	require.True(t, res.Matched())
	assert.Equal(t, "list", res.Method.Method)
	assert.Equal(t, []string{"1"}, res.Params)
	assert.True(t, res.MethodNameFound)
}

func TestResolverFirstMatchWins(t *testing.T) {
	t.Parallel()

	// Two candidates both match; insertion order decides.
	tbl := &table.CallbackTable{}
	tbl.Add(`users/list/(\d+)/`, table.Method{
		Method:     "list",
		URLPattern: "list",
		Params:     []table.Param{{Name: "page"}},
	})
	tbl.Add(`users/list/(\w+)/`, table.Method{
		Method:     "listAny",
		URLPattern: "list",
		Params:     []table.Param{{Name: "key"}},
	})

	r, _ := newResolvers()
	res := r.Resolve(tbl, "/users/list/7/", "users")

	require.True(t, res.Matched())
	assert.Equal(t, "list", res.Method.Method)
}

func TestResolverStickyMethodNameFound(t *testing.T) {
	t.Parallel()

	// The method name appears in the URL but no candidate matches. The
	// flag must still report true so the caller does not escalate to the
	// default method.
	r, _ := newResolvers()
	res := r.Resolve(usersCallbacks(), "/users/find-by-email/", "users")

	assert.False(t, res.Matched())
	assert.True(t, res.MethodNameFound)
}

func TestResolverNoNameNoMatch(t *testing.T) {
	t.Parallel()

	r, _ := newResolvers()
	res := r.Resolve(usersCallbacks(), "/users/999/", "users")

	assert.False(t, res.Matched())
	assert.False(t, res.MethodNameFound)
}

func TestResolverEmptyTable(t *testing.T) {
	t.Parallel()

	r, _ := newResolvers()
	res := r.Resolve(&table.CallbackTable{}, "/users/list/", "users")

	assert.False(t, res.Matched())
	assert.False(t, res.MethodNameFound)
}

func TestDefaultResolverMatchesByID(t *testing.T) {
	t.Parallel()

	_, d := newResolvers()
	res := d.Resolve(usersCallbacks(), "/users/999/", "users")

	require.True(t, res.Matched())
	assert.Equal(t, "getUser", res.Method.Method)
	assert.Equal(t, []string{"999"}, res.Params)
}

func TestDefaultResolverCompletesDefaults(t *testing.T) {
	t.Parallel()

	tbl := &table.CallbackTable{}
	tbl.Add(`users/list/(\d+)/`, table.Method{
		Method:     "list",
		URLPattern: "list",
		Default:    true,
		Params:     []table.Param{{Name: "page", Default: strPtr("1")}},
	})

	_, d := newResolvers()
	res := d.Resolve(tbl, "/users/", "users")

	require.True(t, res.Matched())
	assert.Equal(t, "list", res.Method.Method)
	assert.Equal(t, []string{"1"}, res.Params)
}

func TestDefaultResolverSkipsNonDefault(t *testing.T) {
	t.Parallel()

	tbl := &table.CallbackTable{}
	tbl.Add(`users/find-by-email/(\S+)/`, table.Method{
		Method:     "findByEmail",
		URLPattern: "find-by-email",
		Params:     []table.Param{{Name: "email"}},
	})

	_, d := newResolvers()
	res := d.Resolve(tbl, "/users/a@b.c/", "users")

	assert.False(t, res.Matched())
}

func TestDefaultResolverNoMatch(t *testing.T) {
	t.Parallel()

	_, d := newResolvers()
	res := d.Resolve(usersCallbacks(), "/users/not-a-number/", "users")

	assert.False(t, res.Matched())
}

func TestDefaultResolverReturnsOriginalDescriptor(t *testing.T) {
	t.Parallel()

	tbl := &table.CallbackTable{}
	tbl.Add(`users/list/(\d+)/`, table.Method{
		Method:     "list",
		URLPattern: "list",
		Default:    true,
		Params:     []table.Param{{Name: "page", Default: strPtr("1")}},
	})

	_, d := newResolvers()
	res := d.Resolve(tbl, "/users/", "users")

	// The completion retry counts against the class segment internally,
	// but the caller must see the real handler name.
	require.True(t, res.Matched())
	assert.Equal(t, "list", res.Method.Method)
}
