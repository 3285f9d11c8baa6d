// Package table defines the compiled callback table structures consumed by
// the routing core. Tables are produced by the external annotation compiler
// and loaded through the cache; the router treats them as immutable input.
package table

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Param describes one positional parameter of a service method. A nil
// Default marks the parameter as required. Param order is significant: it
// matches the left-to-right order of capture groups in the compiled pattern.
type Param struct {
	Name    string  `yaml:"name" json:"name"`
	Default *string `yaml:"default,omitempty" json:"default,omitempty"`
}

// Required reports whether the parameter has no declared default.
func (p Param) Required() bool {
	return p.Default == nil
}

// Method is the descriptor of a registered service method.
type Method struct {
	// Method is the handler method name, e.g. "getUser".
	Method string `yaml:"method" json:"method"`

	// URLPattern is the URL segment identifying this method, e.g. "get-user".
	URLPattern string `yaml:"url" json:"url"`

	// Default marks the fallback/index method for the class.
	Default bool `yaml:"default,omitempty" json:"default,omitempty"`

	// Params are the ordered positional parameters.
	Params []Param `yaml:"params,omitempty" json:"params,omitempty"`
}

// HasDefaults reports whether any parameter declares a default value.
func (m *Method) HasDefaults() bool {
	for _, p := range m.Params {
		if p.Default != nil {
			return true
		}
	}
	return false
}

// Entry pairs a compiled URL pattern with its method descriptor.
type Entry struct {
	Pattern string
	Method  Method
}

// CallbackTable is the ordered pattern → descriptor table for a single HTTP
// method. Iteration order is the compiler's insertion order (most-specific
// patterns first, by convention); resolution is first-match-wins, so that
// order must survive decoding. The table is append-only and slice-backed.
type CallbackTable struct {
	entries []Entry
}

// Add appends an entry to the table.
func (t *CallbackTable) Add(pattern string, m Method) {
	t.entries = append(t.entries, Entry{Pattern: pattern, Method: m})
}

// Entries returns the table entries in insertion order. The returned slice
// must not be mutated.
func (t *CallbackTable) Entries() []Entry {
	if t == nil {
		return nil
	}
	return t.entries
}

// Len returns the number of entries.
func (t *CallbackTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// UnmarshalYAML decodes a YAML mapping of pattern → descriptor, preserving
// the document order of the keys.
func (t *CallbackTable) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("callback table must be a mapping, got %s", nodeKind(value.Kind))
	}

	t.entries = make([]Entry, 0, len(value.Content)/2)

	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		var pattern string
		if err := keyNode.Decode(&pattern); err != nil {
			return fmt.Errorf("callback table key at line %d: %w", keyNode.Line, err)
		}

		var m Method
		if err := valNode.Decode(&m); err != nil {
			return fmt.Errorf("descriptor for pattern %q: %w", pattern, err)
		}

		t.entries = append(t.entries, Entry{Pattern: pattern, Method: m})
	}

	return nil
}

// MarshalYAML encodes the table back to an order-preserving YAML mapping.
func (t *CallbackTable) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for _, e := range t.entries {
		var keyNode yaml.Node
		if err := keyNode.Encode(e.Pattern); err != nil {
			return nil, err
		}

		var valNode yaml.Node
		if err := valNode.Encode(e.Method); err != nil {
			return nil, err
		}

		node.Content = append(node.Content, &keyNode, &valNode)
	}

	return node, nil
}

// nodeKind returns a readable name for a YAML node kind.
func nodeKind(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
