package keyframer

import (
	"fmt"
	"os"
	"sort"

	"go.uber.org/multierr"
)

// Issue represents a single finding from a document check pass.
type Issue struct {
	Check    string   `json:"check"`
	Text     string   `json:"text"`
	Severity string   `json:"severity,omitempty"`
	Pos      IssuePos `json:"pos"`
}

// IssuePos specifies the location of an issue. Line is 1-based for YAML
// documents and 0 when the format cannot say.
type IssuePos struct {
	Filename string `json:"filename"`
	Line     int    `json:"line,omitempty"`
}

// Issue severity constants.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = ""
)

// Check identifiers, one per rule the check pass applies.
const (
	CheckParse          = "parse"
	CheckDuplicateScope = "duplicate-scope"
	CheckWaypointRange  = "waypoint-range"
	CheckSparseSet      = "sparse-keyframes"
	CheckEmptyRule      = "empty-rule"
	CheckNestedKey      = "nested-key"
	CheckShadowedRule   = "shadowed-rule"
	CheckKeyframeClash  = "keyframe-clash"
)

// CheckResult aggregates the findings of a document check pass.
type CheckResult struct {
	FilesChecked int     `json:"files_checked"`
	Issues       []Issue `json:"issues"`
}

// ErrorCount returns the number of error-severity issues.
func (r *CheckResult) ErrorCount() int { return r.countSeverity(SeverityError) }

// WarningCount returns the number of warning-severity issues.
func (r *CheckResult) WarningCount() int { return r.countSeverity(SeverityWarning) }

func (r *CheckResult) countSeverity(severity string) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

// CheckGlobs statically checks every document matching patterns, without
// loading anything into a manager. It reports the cross-file problems a
// load would surface late (scope collisions, keyframe replacement) and the
// per-document ones a load would reject (bad waypoints, unknown nested
// keys), plus style smells like empty and shadowed rules. The returned
// error covers I/O failures only; malformed documents become issues.
func CheckGlobs(patterns []string) (*CheckResult, error) {
	files, _, err := ExpandGlobs(patterns)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{}
	scopeOwners := make(map[string]string)
	keyframeOwners := make(map[string]string)

	var errs error
	for _, path := range files {
		content, err := os.ReadFile(path) // #nosec G304 - paths come from user-supplied glob patterns
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		result.FilesChecked++

		doc, err := parseDocument(path, content)
		if err != nil {
			result.Issues = append(result.Issues, Issue{
				Check:    CheckParse,
				Text:     err.Error(),
				Severity: SeverityError,
				Pos:      IssuePos{Filename: path},
			})
			continue
		}
		checkDocument(result, doc, scopeOwners, keyframeOwners)
	}

	sortIssues(result.Issues)
	return result, errs
}

func checkDocument(result *CheckResult, doc *documentData, scopeOwners, keyframeOwners map[string]string) {
	report := func(check, severity string, line int, format string, args ...any) {
		result.Issues = append(result.Issues, Issue{
			Check:    check,
			Text:     fmt.Sprintf(format, args...),
			Severity: severity,
			Pos:      IssuePos{Filename: doc.path, Line: line},
		})
	}

	scope := doc.scope
	if scope == "" {
		scope = ScopeFromPath(doc.path)
	}
	if scope != GlobalScope {
		if owner, taken := scopeOwners[scope]; taken {
			report(CheckDuplicateScope, SeverityError, 0,
				"scope %q already declared in %s", scope, owner)
		} else {
			scopeOwners[scope] = doc.path
		}
	}

	seen := make(map[string]int)
	for _, rule := range doc.rules {
		if prev, dup := seen[rule.selector]; dup {
			report(CheckShadowedRule, SeverityInfo, rule.line,
				"selector %q shadows the declaration on line %d, the later one wins",
				rule.selector, prev)
		}
		seen[rule.selector] = rule.line

		if len(rule.decl) == 0 {
			report(CheckEmptyRule, SeverityWarning, rule.line,
				"rule %q declares no properties", rule.selector)
		}
		for _, key := range rule.decl.nestedKeys() {
			if err := validateNestedKey(key); err != nil {
				report(CheckNestedKey, SeverityError, rule.line,
					"rule %q: %v", rule.selector, err)
			}
		}
	}

	for _, set := range doc.keyframes {
		if owner, taken := keyframeOwners[set.name]; taken {
			report(CheckKeyframeClash, SeverityWarning, set.line,
				"keyframe set %q replaces the one declared in %s and unbinds its animations",
				set.name, owner)
		} else {
			keyframeOwners[set.name] = doc.path
		}

		if len(set.waypoints) < 2 {
			report(CheckSparseSet, SeverityWarning, set.line,
				"keyframe set %q has fewer than two waypoints", set.name)
		}
		for _, wp := range set.waypoints {
			if wp.Percent < 0 || wp.Percent > 100 {
				report(CheckWaypointRange, SeverityError, set.line,
					"keyframe set %q waypoint %s is outside the 0%% to 100%% range",
					set.name, formatPercent(wp.Percent))
			}
		}
	}
}

// sortIssues orders issues by filename, then line, then check id, the
// order a reader scans a report in.
func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Pos.Filename != b.Pos.Filename {
			return a.Pos.Filename < b.Pos.Filename
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		return a.Check < b.Check
	})
}
