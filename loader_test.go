package keyframer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadYAMLDocument(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "card.yaml", `scope: card
rules:
  .title:
    font-weight: bold
    ":hover":
      color: red
  .body:
    color: gray
keyframes:
  spin:
    from:
      transform: rotate(0deg)
    to:
      transform: rotate(360deg)
`)

	kf := New()
	stats, err := LoadGlobs(kf, []string{filepath.Join(tmpDir, "*.yaml")}, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FilesDiscovered)
	assert.Equal(t, 1, stats.FilesLoaded)
	assert.Equal(t, 1, stats.ScopesCreated)
	assert.Equal(t, 2, stats.RulesAdded)
	assert.Equal(t, 1, stats.KeyframeSets)

	sheet, ok := kf.Stylesheet("card")
	require.True(t, ok)
	assert.Equal(t, []string{".title", ".body"}, sheet.Selectors())

	out := kf.Render()
	assert.Contains(t, out, "/* scope: card */")
	assert.Contains(t, out, ".title:hover {")
	assert.Contains(t, out, "@keyframes spin {")
}

func TestLoadCSSDocument(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "hero.css", `/* @scope hero */
.banner { background: navy; color: white; }
.banner:hover { background: royalblue; }
@media (max-width: 600px) {
	.banner { display: none; }
}

@keyframes fade-in {
	from { opacity: 0; }
	to { opacity: 1; }
}
`)

	kf := New()
	stats, err := LoadGlobs(kf, []string{filepath.Join(tmpDir, "*.css")}, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ScopesCreated)
	assert.Equal(t, 1, stats.KeyframeSets)

	sheet, ok := kf.Stylesheet("hero")
	require.True(t, ok)

	// Pseudo and at-rule blocks fold into the base selector's rule.
	decl, err := sheet.GetRule(".banner")
	require.NoError(t, err)
	assert.Equal(t, "navy", decl["background"])
	assert.Contains(t, decl, ":hover")
	assert.Contains(t, decl, "@media (max-width: 600px)")

	out := kf.Render()
	assert.Contains(t, out, ".banner:hover {")
	assert.Contains(t, out, "@media (max-width: 600px) {\n  .banner {\n    display: none;\n  }\n}")
	assert.Contains(t, out, "@keyframes fade-in {")
}

func TestYAMLMatchesCSS(t *testing.T) {
	yamlDir := t.TempDir()
	writeDoc(t, yamlDir, "banner.yaml", `scope: banner
rules:
  .hero:
    background: navy
    z-index: 5
    ":hover":
      background: royalblue
keyframes:
  pulse:
    0:
      opacity: 1
    50:
      opacity: 0.4
    100:
      opacity: 1
`)

	cssDir := t.TempDir()
	writeDoc(t, cssDir, "banner.css", `/* @scope banner */
.hero {
	background: navy;
	z-index: 5;
}
.hero:hover {
	background: royalblue;
}
@keyframes pulse {
	0% { opacity: 1; }
	50% { opacity: 0.4; }
	100% { opacity: 1; }
}
`)

	fromYAML := New()
	_, err := LoadGlobs(fromYAML, []string{filepath.Join(yamlDir, "*.yaml")}, LoadOptions{})
	require.NoError(t, err)

	fromCSS := New()
	_, err = LoadGlobs(fromCSS, []string{filepath.Join(cssDir, "*.css")}, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, fromYAML.Render(), fromCSS.Render())
}

func TestLoadGlobsSkipsNonDocuments(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "styles.css", ".x { color: red; }")
	writeDoc(t, tmpDir, "notes.txt", "not a stylesheet")

	kf := New()
	stats, err := LoadGlobs(kf, []string{filepath.Join(tmpDir, "*")}, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FilesDiscovered)
	assert.Equal(t, 1, stats.FilesSkipped)
	assert.Equal(t, 1, stats.FilesLoaded)
}

func TestLoadFileReplacesPriorDocument(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeDoc(t, tmpDir, "panel.css", ".old { color: red; }")

	kf := New()
	loader := NewLoader(kf)
	_, err := loader.LoadFile(path, LoadOptions{})
	require.NoError(t, err)
	assert.Contains(t, kf.Render(), ".old {")

	writeDoc(t, tmpDir, "panel.css", ".new { color: blue; }")
	_, err = loader.LoadFile(path, LoadOptions{})
	require.NoError(t, err)

	out := kf.Render()
	assert.NotContains(t, out, ".old {")
	assert.Contains(t, out, ".new {")
	assert.Equal(t, []string{"panel"}, kf.Scopes())
	assert.Equal(t, []string{path}, loader.Files())
}

func TestLoaderForget(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeDoc(t, tmpDir, "panel.css", ".item { color: red; }")

	kf := New()
	loader := NewLoader(kf)
	_, err := loader.LoadFile(path, LoadOptions{})
	require.NoError(t, err)
	require.True(t, loader.Loaded(path))

	assert.True(t, loader.Forget(path))
	assert.False(t, loader.Loaded(path))
	assert.Empty(t, loader.Files())
	assert.Empty(t, kf.Scopes())
	assert.NotContains(t, kf.Render(), ".item {")

	// A forgotten path never errors twice.
	assert.False(t, loader.Forget(path))
}

func TestLoadGlobsScopeCollision(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "a.yaml", "scope: shared\nrules:\n  .first:\n    color: red\n")
	writeDoc(t, tmpDir, "b.yaml", "scope: shared\nrules:\n  .second:\n    color: blue\n")

	t.Run("collision is an error", func(t *testing.T) {
		kf := New()
		_, err := LoadGlobs(kf, []string{filepath.Join(tmpDir, "*.yaml")}, LoadOptions{})
		require.ErrorIs(t, err, ErrDuplicateScope)

		// The first document still loaded.
		assert.Contains(t, kf.Render(), ".first {")
	})

	t.Run("replace lets the later document win", func(t *testing.T) {
		kf := New()
		_, err := LoadGlobs(kf, []string{filepath.Join(tmpDir, "*.yaml")}, LoadOptions{Replace: true})
		require.NoError(t, err)

		out := kf.Render()
		assert.NotContains(t, out, ".first {")
		assert.Contains(t, out, ".second {")
	})
}

func TestLoadAggregatesPerFileErrors(t *testing.T) {
	tmpDir := t.TempDir()
	writeDoc(t, tmpDir, "bad.yaml", "rules: [not, a, mapping]\n")
	writeDoc(t, tmpDir, "good.yaml", "scope: ok\nrules:\n  .fine:\n    color: green\n")

	kf := New()
	stats, err := LoadGlobs(kf, []string{filepath.Join(tmpDir, "*.yaml")}, LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")

	// The good document loads regardless.
	assert.Equal(t, 1, stats.FilesLoaded)
	assert.Contains(t, kf.Render(), ".fine {")
}

func TestScopeFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"cards.yaml", "cards"},
		{"styles/Hero Banner.css", "hero-banner"},
		{"deep/nested/NavBar.yml", "navbar"},
		{"20 buttons.css", "20-buttons"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScopeFromPath(tt.path))
		})
	}
}

func TestParseWaypointKey(t *testing.T) {
	tests := []struct {
		key     string
		want    float64
		wantErr bool
	}{
		{"from", 0, false},
		{"to", 100, false},
		{"50", 50, false},
		{"50%", 50, false},
		{"12.5", 12.5, false},
		{"oops", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := parseWaypointKey(tt.key)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidWaypoint)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitPseudoSuffix(t *testing.T) {
	tests := []struct {
		selector   string
		wantBase   string
		wantPseudo string
	}{
		{".btn:hover", ".btn", ":hover"},
		{".x::before", ".x", "::before"},
		{"a:visited", "a", ":visited"},
		{".btn:hover:focus", ".btn:hover:focus", ""},
		{"div.a", "div.a", ""},
		{":hover", ":hover", ""},
		{".a, .b:hover", ".a, .b:hover", ""},
		{".btn:unknown-thing", ".btn:unknown-thing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			base, pseudo := splitPseudoSuffix(tt.selector)
			assert.Equal(t, tt.wantBase, base)
			assert.Equal(t, tt.wantPseudo, pseudo)
		})
	}
}

func TestFromCSS(t *testing.T) {
	t.Run("rule order follows the text", func(t *testing.T) {
		kf := New()
		sheet, err := kf.FromCSS("panel", ".z { color: red; } .a { color: blue; }")
		require.NoError(t, err)
		assert.Equal(t, []string{".z", ".a"}, sheet.Selectors())
	})

	t.Run("empty scope defers to the pragma", func(t *testing.T) {
		kf := New()
		sheet, err := kf.FromCSS("", "/* @scope fromtext */ .x { color: red; }")
		require.NoError(t, err)
		assert.Equal(t, "fromtext", sheet.ScopeID())
	})

	t.Run("keyframes register globally", func(t *testing.T) {
		kf := New()
		_, err := kf.FromCSS("panel", `.x { color: red; }
			@keyframes slide { from { left: 0; } to { left: 100px; } }`)
		require.NoError(t, err)
		assert.Contains(t, kf.Render(), "@keyframes slide {")
	})

	t.Run("bad waypoints roll the instance back", func(t *testing.T) {
		kf := New()
		_, err := kf.FromCSS("bad", `.x { color: red; }
			@keyframes broken { 150% { opacity: 0; } }`)
		require.ErrorIs(t, err, ErrInvalidWaypoint)

		_, ok := kf.Stylesheet("bad")
		assert.False(t, ok)
	})
}
