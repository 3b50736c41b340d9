package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/isphillips/keyframer"
)

// PrintIssues writes check findings in file:line: format, one per line,
// grouped the way an editor jump list expects.
func PrintIssues(w io.Writer, issues []keyframer.Issue, useColors bool) {
	for _, issue := range issues {
		location := issue.Pos.Filename + ":"
		if issue.Pos.Line > 0 {
			location = fmt.Sprintf("%s:%d:", issue.Pos.Filename, issue.Pos.Line)
		}
		fmt.Fprintf(w, "%s %s %s\n",
			RenderStyle(StyleHeader, location, useColors),
			severityTag(issue.Severity, useColors),
			issue.Text)
	}
}

func severityTag(severity string, useColors bool) string {
	switch severity {
	case keyframer.SeverityError:
		return RenderStyle(StyleError, "error:", useColors)
	case keyframer.SeverityWarning:
		return RenderStyle(StyleWarn, "warning:", useColors)
	default:
		return RenderStyle(StyleDim, "note:", useColors)
	}
}

// PrintCheckSummary writes the closing count line of a check pass.
func PrintCheckSummary(w io.Writer, result *keyframer.CheckResult, useColors bool) {
	total := len(result.Issues)
	if total == 0 {
		fmt.Fprintf(w, "%s %s checked, no issues\n",
			RenderStyle(StyleOK, "✓", useColors),
			pluralizeCount(result.FilesChecked, "document", "documents"))
		return
	}

	errors := result.ErrorCount()
	warnings := result.WarningCount()
	fmt.Fprintln(w, "")
	if errors > 0 && warnings > 0 {
		fmt.Fprintf(w, "%s (%s, %s):\n",
			pluralizeCount(total, "issue", "issues"),
			pluralizeCount(errors, "error", "errors"),
			pluralizeCount(warnings, "warning", "warnings"))
	} else {
		fmt.Fprintf(w, "%s:\n", pluralizeCount(total, "issue", "issues"))
	}

	checkCounts := make(map[string]int)
	for _, issue := range result.Issues {
		checkCounts[issue.Check]++
	}
	checks := make([]string, 0, len(checkCounts))
	for check := range checkCounts {
		checks = append(checks, check)
	}
	sort.Strings(checks)
	for _, check := range checks {
		fmt.Fprintf(w, "* %s: %d\n", check, checkCounts[check])
	}
}
