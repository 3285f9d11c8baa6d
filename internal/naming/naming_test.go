package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "pascal case", input: "UserService", expected: "user-service"},
		{name: "single word", input: "Users", expected: "users"},
		{name: "lower case passes through", input: "users", expected: "users"},
		{name: "dotted namespace dropped", input: "crm.api.UserService", expected: "user-service"},
		{name: "slashed namespace dropped", input: "crm/api/UserService", expected: "user-service"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var n Transformer
			assert.Equal(t, tt.expected, n.ClassURL(tt.input))
		})
	}
}

func TestMethodURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "camel case", input: "getUser", expected: "get-user"},
		{name: "single word", input: "list", expected: "list"},
		{name: "trailing digit", input: "getUser2", expected: "get-user-2"},
		{name: "digit run stays together", input: "getUser42", expected: "get-user-42"},
		{name: "consecutive capitals", input: "getABTest", expected: "get-a-b-test"},
		{name: "digit inside", input: "get2Users", expected: "get-2-users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var n Transformer
			assert.Equal(t, tt.expected, n.MethodURL(tt.input))
		})
	}
}

func TestMethodURLIdempotent(t *testing.T) {
	t.Parallel()

	var n Transformer

	inputs := []string{"getUser", "getUser2", "listAll"}
	for _, input := range inputs {
		once := n.MethodURL(input)
		assert.Equal(t, once, n.MethodURL(once), "transform of %q should be idempotent", input)
	}
}
