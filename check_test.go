package keyframer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issuesByCheck(result *CheckResult, check string) []Issue {
	var out []Issue
	for _, issue := range result.Issues {
		if issue.Check == check {
			out = append(out, issue)
		}
	}
	return out
}

func TestCheckGlobsCleanDocuments(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "hero.yaml", `
scope: hero
rules:
  .title:
    color: red
    ":hover":
      color: blue
keyframes:
  fade:
    from:
      opacity: 0
    to:
      opacity: 1
`)
	writeDoc(t, tmpDir, "banner.css", `
/* @scope banner */
.banner { display: flex; }
`)

	result, err := CheckGlobs([]string{filepath.Join(tmpDir, "*")})
	require.NoError(t, err)

	assert.Equal(t, 2, result.FilesChecked)
	assert.Empty(t, result.Issues)
	assert.Equal(t, 0, result.ErrorCount())
	assert.Equal(t, 0, result.WarningCount())
}

func TestCheckGlobsDuplicateScope(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "a.yaml", "scope: hero\nrules:\n  .a:\n    color: red\n")
	writeDoc(t, tmpDir, "b.yaml", "scope: hero\nrules:\n  .b:\n    color: blue\n")

	result, err := CheckGlobs([]string{filepath.Join(tmpDir, "*.yaml")})
	require.NoError(t, err)

	dups := issuesByCheck(result, CheckDuplicateScope)
	require.Len(t, dups, 1)
	assert.Equal(t, SeverityError, dups[0].Severity)
	assert.Contains(t, dups[0].Text, `scope "hero" already declared in`)
	assert.Contains(t, dups[0].Text, "a.yaml")
	assert.Contains(t, dups[0].Pos.Filename, "b.yaml")
}

func TestCheckGlobsGlobalScopesNeverCollide(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "base.yaml", "scope: \"*\"\nrules:\n  .a:\n    color: red\n")
	writeDoc(t, tmpDir, "more.yaml", "scope: \"*\"\nrules:\n  .b:\n    color: blue\n")

	result, err := CheckGlobs([]string{filepath.Join(tmpDir, "*.yaml")})
	require.NoError(t, err)
	assert.Empty(t, issuesByCheck(result, CheckDuplicateScope))
}

func TestCheckGlobsWaypointRange(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "overshoot.css", `
@keyframes overshoot {
  0% { opacity: 0; }
  150% { opacity: 1; }
}
`)

	result, err := CheckGlobs([]string{filepath.Join(tmpDir, "*.css")})
	require.NoError(t, err)

	ranges := issuesByCheck(result, CheckWaypointRange)
	require.Len(t, ranges, 1)
	assert.Equal(t, SeverityError, ranges[0].Severity)
	assert.Contains(t, ranges[0].Text, `"overshoot" waypoint 150%`)
}

func TestCheckGlobsRuleFindings(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "panel.yaml", `
scope: panel
rules:
  .ghost:
  .item:
    color: red
  .item:
    color: blue
  .weird:
    ":sparkle":
      color: gold
`)

	result, err := CheckGlobs([]string{filepath.Join(tmpDir, "*.yaml")})
	require.NoError(t, err)

	empties := issuesByCheck(result, CheckEmptyRule)
	require.Len(t, empties, 1)
	assert.Equal(t, SeverityWarning, empties[0].Severity)
	assert.Contains(t, empties[0].Text, `".ghost"`)
	assert.Equal(t, 4, empties[0].Pos.Line)

	shadowed := issuesByCheck(result, CheckShadowedRule)
	require.Len(t, shadowed, 1)
	assert.Equal(t, SeverityInfo, shadowed[0].Severity)
	assert.Contains(t, shadowed[0].Text, `".item"`)
	assert.Contains(t, shadowed[0].Text, "the later one wins")

	nested := issuesByCheck(result, CheckNestedKey)
	require.Len(t, nested, 1)
	assert.Equal(t, SeverityError, nested[0].Severity)
	assert.Contains(t, nested[0].Text, `":sparkle"`)
}

func TestCheckGlobsKeyframeFindings(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "a.yaml", `
keyframes:
  fade:
    from:
      opacity: 0
    to:
      opacity: 1
  stub:
    "50%":
      opacity: 0.5
`)
	writeDoc(t, tmpDir, "b.yaml", `
keyframes:
  fade:
    from:
      opacity: 1
    to:
      opacity: 0
`)

	result, err := CheckGlobs([]string{filepath.Join(tmpDir, "*.yaml")})
	require.NoError(t, err)

	sparse := issuesByCheck(result, CheckSparseSet)
	require.Len(t, sparse, 1)
	assert.Contains(t, sparse[0].Text, `"stub" has fewer than two waypoints`)

	clashes := issuesByCheck(result, CheckKeyframeClash)
	require.Len(t, clashes, 1)
	assert.Equal(t, SeverityWarning, clashes[0].Severity)
	assert.Contains(t, clashes[0].Text, `"fade" replaces the one declared in`)
	assert.Contains(t, clashes[0].Pos.Filename, "b.yaml")
}

func TestCheckGlobsParseErrorBecomesIssue(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "bad.yaml", "rules: [not, a, mapping]\n")
	writeDoc(t, tmpDir, "good.yaml", "scope: ok\nrules:\n  .a:\n    color: red\n")

	result, err := CheckGlobs([]string{filepath.Join(tmpDir, "*.yaml")})
	require.NoError(t, err)

	assert.Equal(t, 2, result.FilesChecked)
	parses := issuesByCheck(result, CheckParse)
	require.Len(t, parses, 1)
	assert.Equal(t, SeverityError, parses[0].Severity)
	assert.Contains(t, parses[0].Pos.Filename, "bad.yaml")
	assert.Contains(t, parses[0].Text, "expected a mapping")
}

func TestSortIssues(t *testing.T) {
	issues := []Issue{
		{Check: "b", Pos: IssuePos{Filename: "z.yaml", Line: 1}},
		{Check: "a", Pos: IssuePos{Filename: "a.yaml", Line: 9}},
		{Check: "b", Pos: IssuePos{Filename: "a.yaml", Line: 2}},
		{Check: "a", Pos: IssuePos{Filename: "a.yaml", Line: 2}},
	}

	sortIssues(issues)

	assert.Equal(t, "a.yaml", issues[0].Pos.Filename)
	assert.Equal(t, 2, issues[0].Pos.Line)
	assert.Equal(t, "a", issues[0].Check)
	assert.Equal(t, "b", issues[1].Check)
	assert.Equal(t, 9, issues[2].Pos.Line)
	assert.Equal(t, "z.yaml", issues[3].Pos.Filename)
}
