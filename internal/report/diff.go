package report

import (
	"sort"

	"github.com/isphillips/keyframer"
)

// PropertyDiff captures how a scoped rule departs from the effective
// global rule for the same selector.
type PropertyDiff struct {
	Added     map[string]string
	Changed   map[string]string
	Unchanged []string
}

// DiffDeclarations compares a scoped declaration's scalar values against
// the global ones for the same selector.
func DiffDeclarations(scoped, global map[string]string) *PropertyDiff {
	diff := &PropertyDiff{
		Added:     make(map[string]string),
		Changed:   make(map[string]string),
		Unchanged: []string{},
	}

	for name, scopedValue := range scoped {
		globalValue, exists := global[name]
		switch {
		case !exists:
			diff.Added[name] = scopedValue
		case globalValue != scopedValue:
			diff.Changed[name] = scopedValue
		default:
			diff.Unchanged = append(diff.Unchanged, name)
		}
	}
	sort.Strings(diff.Unchanged)

	return diff
}

// Override describes one selector a scoped instance redefines over the
// global layer.
type Override struct {
	ScopeID  string
	Selector string
	Diff     *PropertyDiff
}

// Overrides walks every scoped instance and reports the selectors that
// also exist globally, with their property-level differences. Scopes and
// selectors come out in registration order.
func Overrides(kf *keyframer.Keyframer) []Override {
	var out []Override
	for _, scopeID := range kf.Scopes() {
		sheet, ok := kf.Stylesheet(scopeID)
		if !ok {
			continue
		}
		for _, selector := range sheet.Selectors() {
			global, ok := kf.GlobalRule(selector)
			if !ok {
				continue
			}
			decl, err := sheet.GetRule(selector)
			if err != nil {
				continue
			}
			out = append(out, Override{
				ScopeID:  scopeID,
				Selector: selector,
				Diff:     DiffDeclarations(ScalarValues(decl), ScalarValues(global)),
			})
		}
	}
	return out
}
