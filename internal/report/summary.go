package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/isphillips/keyframer"
)

// Summary writes human-readable overviews of manager state and load
// results to a terminal.
type Summary struct {
	w         io.Writer
	useColors bool
}

// NewSummary creates a summary writer.
func NewSummary(w io.Writer, useColors bool) *Summary {
	return &Summary{w: w, useColors: useColors}
}

// PrintLoadStats reports the outcome of a document loading pass.
func (s *Summary) PrintLoadStats(stats keyframer.LoadStats) {
	fmt.Fprintf(s.w, "%s %s loaded (%d discovered, %d skipped)\n",
		RenderStyle(StyleOK, "✓", s.useColors),
		pluralizeCount(stats.FilesLoaded, "document", "documents"),
		stats.FilesDiscovered, stats.FilesSkipped)
	fmt.Fprintf(s.w, "  %s, %s, %s\n",
		pluralizeCount(stats.ScopesCreated, "scope", "scopes"),
		pluralizeCount(stats.RulesAdded, "rule", "rules"),
		pluralizeCount(stats.KeyframeSets, "keyframe set", "keyframe sets"))
}

// PrintSnapshot reports the per-scope rule counts, registered keyframe
// sets, and binding states held by the manager.
func (s *Summary) PrintSnapshot(snap keyframer.Snapshot) {
	fmt.Fprintln(s.w, RenderStyle(StyleHeader, "Stylesheet state", s.useColors))

	globalRules := 0
	for _, scope := range snap.Globals {
		globalRules += len(scope.Rules)
	}
	if globalRules > 0 {
		fmt.Fprintf(s.w, "  global: %s\n", pluralizeCount(globalRules, "rule", "rules"))
	}
	for _, scope := range snap.Scopes {
		fmt.Fprintf(s.w, "  %s: %s\n", scope.ScopeID,
			pluralizeCount(len(scope.Rules), "rule", "rules"))
	}
	if globalRules == 0 && len(snap.Scopes) == 0 {
		fmt.Fprintf(s.w, "  %s\n", RenderStyle(StyleDim, "no stylesheets", s.useColors))
	}

	if len(snap.Keyframes) > 0 {
		names := make([]string, len(snap.Keyframes))
		for i, set := range snap.Keyframes {
			names[i] = set.Name
		}
		fmt.Fprintf(s.w, "  keyframes: %s\n", strings.Join(names, ", "))
	}

	if len(snap.Bindings) > 0 {
		byState := make(map[string]int)
		for _, b := range snap.Bindings {
			byState[b.State]++
		}
		states := make([]string, 0, len(byState))
		for state := range byState {
			states = append(states, state)
		}
		sort.Strings(states)
		parts := make([]string, len(states))
		for i, state := range states {
			parts[i] = fmt.Sprintf("%d %s", byState[state], state)
		}
		fmt.Fprintf(s.w, "  bindings: %s\n", strings.Join(parts, ", "))
	}
}

// PrintOverrides lists the selectors scoped instances redefine over the
// global layer.
func (s *Summary) PrintOverrides(overrides []Override) {
	if len(overrides) == 0 {
		return
	}
	fmt.Fprintln(s.w, RenderStyle(StyleHeader, "Scope overrides", s.useColors))
	for _, o := range overrides {
		location := fmt.Sprintf("%s %s:", o.ScopeID, o.Selector)
		fmt.Fprintf(s.w, "  %s %d changed, %d added, %d unchanged\n",
			RenderStyle(StyleHeader, location, s.useColors),
			len(o.Diff.Changed), len(o.Diff.Added), len(o.Diff.Unchanged))
	}
}

// pluralizeCount formats a count with the singular or plural noun.
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
