// Package naming implements the URL naming convention: service class and
// method names are exposed in URLs as lower-case hyphenated segments.
package naming

import (
	"strings"
	"unicode"
)

// Transformer converts class and method names to their URL segment form.
// The zero value is ready to use.
type Transformer struct{}

// ClassURL returns the URL segment for a service class name.
// "UserService" becomes "user-service". Namespace qualifiers separated by
// "." or "/" are dropped, only the final name is used.
func (Transformer) ClassURL(name string) string {
	if i := strings.LastIndexAny(name, "./"); i >= 0 {
		name = name[i+1:]
	}
	return kebab(name)
}

// MethodURL returns the URL segment for a handler method name.
// "getUser" becomes "get-user", "getUser2" becomes "get-user-2".
// Already-hyphenated segments pass through unchanged, so the transform is
// idempotent.
func (Transformer) MethodURL(name string) string {
	return kebab(name)
}

// kebab lower-cases a camelCase or PascalCase identifier, inserting a
// hyphen before each upper-case letter and before each digit run.
func kebab(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)

	var prev rune
	for i, r := range name {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && prev != '-' {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r):
			if i > 0 && prev != '-' && !unicode.IsDigit(prev) {
				b.WriteByte('-')
			}
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
		prev = r
	}

	return b.String()
}
