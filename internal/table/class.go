package table

import (
	"fmt"
	"regexp"
)

// ClassTable is the full compiled structure for one service class and
// version: per-HTTP-method callback tables plus class metadata.
type ClassTable struct {
	Class     string                    `yaml:"class" json:"class"`
	Version   string                    `yaml:"version,omitempty" json:"version,omitempty"`
	Callbacks map[string]*CallbackTable `yaml:"callbacks" json:"callbacks"`
}

// CallbacksFor returns the callback table for the given lower-case HTTP
// method. A missing method yields an empty table, never nil semantics for
// callers: iteration over it is simply empty.
func (c *ClassTable) CallbacksFor(method string) *CallbackTable {
	if c == nil || c.Callbacks == nil {
		return &CallbackTable{}
	}
	if t, ok := c.Callbacks[method]; ok && t != nil {
		return t
	}
	return &CallbackTable{}
}

// Validate checks the well-formedness of the compiled structure. A failure
// means the cache content is unusable for routing.
func (c *ClassTable) Validate() error {
	if c == nil {
		return fmt.Errorf("class table is empty")
	}

	if c.Class == "" {
		return fmt.Errorf("class name is empty")
	}

	for method, t := range c.Callbacks {
		if t == nil {
			continue
		}

		defaults := 0
		for _, e := range t.Entries() {
			if e.Pattern == "" {
				return fmt.Errorf("%s: empty pattern", method)
			}
			if e.Method.Method == "" {
				return fmt.Errorf("%s: pattern %q has no handler method", method, e.Pattern)
			}
			if e.Method.URLPattern == "" && !e.Method.Default {
				return fmt.Errorf("%s: pattern %q has no url segment", method, e.Pattern)
			}
			if err := validateArity(method, e); err != nil {
				return err
			}
			if e.Method.Default {
				defaults++
			}
		}

		if defaults > 1 {
			return fmt.Errorf("%s: %d default methods, at most one allowed", method, defaults)
		}
	}

	return nil
}

// validateArity checks that a parameterized pattern compiles and captures
// exactly one group per declared parameter. A mismatch would match requests
// yet hand the handler fewer values than the descriptor declares, so it is
// rejected up front. Parameterless patterns are matched literally and are
// not compiled.
func validateArity(method string, e Entry) error {
	if len(e.Method.Params) == 0 {
		return nil
	}

	re, err := regexp.Compile(e.Pattern)
	if err != nil {
		return fmt.Errorf("%s: pattern %q does not compile: %v", method, e.Pattern, err)
	}

	if got, want := re.NumSubexp(), len(e.Method.Params); got != want {
		return fmt.Errorf("%s: pattern %q captures %d groups for %d params",
			method, e.Pattern, got, want)
	}

	return nil
}
