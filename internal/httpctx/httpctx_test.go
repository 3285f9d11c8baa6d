package httpctx

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("POST", "/crm/users/get-user/42/", nil)
	req.Header.Set("X-Webiny-Rest-Version", "v2")

	a := FromRequest(req)

	assert.Equal(t, "/crm/users/get-user/42/", a.Path())
	assert.Equal(t, "POST", a.Method())
	assert.Equal(t, "v2", a.Header("X-Webiny-Rest-Version", "current"))
	assert.Equal(t, "current", a.Header("X-Missing", "current"))
}

func TestStatic(t *testing.T) {
	t.Parallel()

	a := Static{
		RequestPath:   "/users/list/",
		RequestMethod: "GET",
		Headers:       map[string]string{"X-Webiny-Rest-Version": "v1"},
	}

	assert.Equal(t, "/users/list/", a.Path())
	assert.Equal(t, "GET", a.Method())
	assert.Equal(t, "v1", a.Header("X-Webiny-Rest-Version", "current"))
	assert.Equal(t, "current", a.Header("Other", "current"))
}

func TestStaticEmptyHeaderFallsBack(t *testing.T) {
	t.Parallel()

	a := Static{Headers: map[string]string{"X-Webiny-Rest-Version": ""}}

	assert.Equal(t, "current", a.Header("X-Webiny-Rest-Version", "current"))
}
