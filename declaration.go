package keyframer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Declaration maps CSS property names to values. A value is either a scalar
// (string or number, passed through without validation) or a nested
// Declaration stored under a reserved-prefix key: a pseudo token such as
// ":hover" or an at-rule token such as "@media (max-width: 600px)".
//
// Property names and scalar values are opaque to the store. Only the
// reserved-prefix keys are validated, against a finite set of pseudo tokens
// and at-rule prefixes, and nesting is limited to one level.
type Declaration map[string]any

// knownPseudoTokens is the finite set of pseudo-class and pseudo-element
// names accepted under a ":" key, stored without leading colons.
var knownPseudoTokens = map[string]bool{
	"active":        true,
	"after":         true,
	"before":        true,
	"checked":       true,
	"disabled":      true,
	"empty":         true,
	"enabled":       true,
	"first-child":   true,
	"first-letter":  true,
	"first-line":    true,
	"first-of-type": true,
	"focus":         true,
	"focus-visible": true,
	"focus-within":  true,
	"hover":         true,
	"last-child":    true,
	"last-of-type":  true,
	"link":          true,
	"only-child":    true,
	"placeholder":   true,
	"root":          true,
	"selection":     true,
	"target":        true,
	"valid":         true,
	"invalid":       true,
	"visited":       true,
}

// knownAtPrefixes is the set of at-rule keywords accepted at the start of an
// "@" key. The rest of the key (the query text) passes through untouched.
var knownAtPrefixes = []string{"@media", "@supports", "@container"}

// IsNestedKey reports whether key selects a nested sub-declaration rather
// than a CSS property, by the reserved-prefix convention.
func IsNestedKey(key string) bool {
	return strings.HasPrefix(key, ":") || strings.HasPrefix(key, "@")
}

// validateNestedKey checks a reserved-prefix key against the finite token
// sets. The returned error wraps ErrInvalidDeclaration.
func validateNestedKey(key string) error {
	if strings.HasPrefix(key, ":") {
		token := strings.ToLower(strings.TrimLeft(key, ":"))
		if token == "" || !knownPseudoTokens[token] {
			return fmt.Errorf("%w: unknown pseudo token %q", ErrInvalidDeclaration, key)
		}
		return nil
	}
	for _, prefix := range knownAtPrefixes {
		if key == prefix || strings.HasPrefix(key, prefix+" ") || strings.HasPrefix(key, prefix+"(") {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown at-rule key %q", ErrInvalidDeclaration, key)
}

// normalizeDeclaration validates decl and returns an independently owned
// copy with nested maps converted to Declaration. When nested is false,
// reserved-prefix keys are rejected, which is how sub-declarations and
// transition end states stay one level deep.
func normalizeDeclaration(decl Declaration, nested bool) (Declaration, error) {
	out := make(Declaration, len(decl))
	for key, value := range decl {
		if IsNestedKey(key) {
			if !nested {
				return nil, fmt.Errorf("%w: nested key %q not allowed here", ErrInvalidDeclaration, key)
			}
			if err := validateNestedKey(key); err != nil {
				return nil, err
			}
			sub, err := asDeclaration(value)
			if err != nil {
				return nil, fmt.Errorf("%w: key %q must hold a declaration", ErrInvalidDeclaration, key)
			}
			normalized, err := normalizeDeclaration(sub, false)
			if err != nil {
				return nil, err
			}
			out[key] = normalized
			continue
		}
		if !isScalar(value) {
			return nil, fmt.Errorf("%w: property %q holds unsupported value type %T", ErrInvalidDeclaration, key, value)
		}
		out[key] = value
	}
	return out, nil
}

// asDeclaration converts map-shaped values to Declaration. Plain
// map[string]any is accepted so callers can pass untyped literals, for
// example values decoded from YAML.
func asDeclaration(value any) (Declaration, error) {
	switch v := value.(type) {
	case Declaration:
		return v, nil
	case map[string]any:
		return Declaration(v), nil
	default:
		return nil, fmt.Errorf("not a declaration: %T", value)
	}
}

// isScalar reports whether value is one of the supported scalar types.
func isScalar(value any) bool {
	switch value.(type) {
	case string, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// formatScalar renders a scalar property value as CSS text.
func formatScalar(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%d", v)
	}
}

// Clone returns a deep copy of the declaration. Mutating the copy never
// affects the original, and vice versa.
func (d Declaration) Clone() Declaration {
	if d == nil {
		return nil
	}
	out := make(Declaration, len(d))
	for key, value := range d {
		if sub, err := asDeclaration(value); err == nil && IsNestedKey(key) {
			out[key] = sub.Clone()
			continue
		}
		out[key] = value
	}
	return out
}

// Merge returns a new declaration containing the receiver's entries with
// overlay's entries written over them. Nested sub-declarations under the
// same key are merged recursively; everything else is replaced whole. Both
// inputs are left untouched.
func (d Declaration) Merge(overlay Declaration) Declaration {
	out := d.Clone()
	if out == nil {
		out = make(Declaration, len(overlay))
	}
	for key, value := range overlay {
		if IsNestedKey(key) {
			base, baseErr := asDeclaration(out[key])
			over, overErr := asDeclaration(value)
			if baseErr == nil && overErr == nil {
				out[key] = base.Merge(over)
				continue
			}
			if overErr == nil {
				out[key] = over.Clone()
				continue
			}
		}
		out[key] = value
	}
	return out
}

// scalarKeys returns the non-nested property names in sorted order.
func (d Declaration) scalarKeys() []string {
	keys := make([]string, 0, len(d))
	for key := range d {
		if !IsNestedKey(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// nestedKeys returns the reserved-prefix keys in sorted order.
func (d Declaration) nestedKeys() []string {
	keys := make([]string, 0, len(d))
	for key := range d {
		if IsNestedKey(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
