package keyframer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// identitySelector is the default selector transform: scoping is the host's
// concern, so the core emits selectors exactly as stored.
func identitySelector(s string) string { return s }

// expandSelector rewrites each comma-separated part of selector through
// transform and appends suffix (a pseudo token, possibly empty) to each.
func expandSelector(selector, suffix string, transform func(string) string) string {
	parts := strings.Split(selector, ",")
	for i, part := range parts {
		parts[i] = transform(strings.TrimSpace(part)) + suffix
	}
	return strings.Join(parts, ", ")
}

// formatPercent renders a waypoint percentage without trailing zeros.
func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

// writeBlock writes "selector {\n<indent>  prop: value;\n<indent>}\n" with
// properties sorted alphabetically for deterministic output.
func writeBlock(w io.Writer, selector string, decl Declaration, indent string) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s%s {\n", indent, selector)
	total += n
	if err != nil {
		return total, err
	}
	for _, name := range decl.scalarKeys() {
		n, err = fmt.Fprintf(w, "%s  %s: %s;\n", indent, name, formatScalar(decl[name]))
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprintf(w, "%s}\n", indent)
	total += n
	return total, err
}

// writeRuleBlocks writes the CSS blocks for one stored rule: the base block
// for the scalar properties, one block per pseudo sub-declaration, and one
// wrapped block per at-rule sub-declaration. Blocks are separated by blank
// lines. A base block with no scalar properties is skipped when the rule has
// sub-declarations to stand in for it.
func writeRuleBlocks(w io.Writer, selector string, decl Declaration, transform func(string) string) (int, error) {
	var total int
	nested := decl.nestedKeys()
	wroteAny := false

	write := func(n int, err error) error {
		total += n
		return err
	}
	separate := func() error {
		if !wroteAny {
			return nil
		}
		return write(fmt.Fprint(w, "\n"))
	}

	if len(decl.scalarKeys()) > 0 || len(nested) == 0 {
		if err := write(writeBlock(w, expandSelector(selector, "", transform), decl, "")); err != nil {
			return total, err
		}
		wroteAny = true
	}

	for _, key := range nested {
		sub, err := asDeclaration(decl[key])
		if err != nil {
			continue
		}
		if err := separate(); err != nil {
			return total, err
		}
		if strings.HasPrefix(key, "@") {
			if err := write(fmt.Fprintf(w, "%s {\n", key)); err != nil {
				return total, err
			}
			if err := write(writeBlock(w, expandSelector(selector, "", transform), sub, "  ")); err != nil {
				return total, err
			}
			if err := write(fmt.Fprint(w, "}\n")); err != nil {
				return total, err
			}
		} else {
			if err := write(writeBlock(w, expandSelector(selector, key, transform), sub, "")); err != nil {
				return total, err
			}
		}
		wroteAny = true
	}
	return total, nil
}

// writeKeyframeSet writes one @keyframes block with waypoints in the set's
// normalized ascending order.
func writeKeyframeSet(w io.Writer, set *KeyframeSet) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "@keyframes %s {\n", set.Name)
	total += n
	if err != nil {
		return total, err
	}
	for _, wp := range set.Waypoints {
		n, err = writeBlock(w, formatPercent(wp.Percent), wp.Style, "  ")
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}
