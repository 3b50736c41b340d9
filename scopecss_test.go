package keyframer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeSelector(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		scopeID  string
		expected string
	}{
		{
			name:     "simple class",
			selector: ".title",
			scopeID:  "card",
			expected: `.title[data-kf-scope="card"]`,
		},
		{
			name:     "comma list scopes every part",
			selector: ".btn, .link",
			scopeID:  "nav",
			expected: `.btn[data-kf-scope="nav"], .link[data-kf-scope="nav"]`,
		},
		{
			name:     "descendant selector scopes the subject",
			selector: ".card .title",
			scopeID:  "card",
			expected: `.card .title[data-kf-scope="card"]`,
		},
		{
			name:     "quote in the id is escaped",
			selector: ".x",
			scopeID:  `we"ird`,
			expected: `.x[data-kf-scope="we\"ird"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScopeSelector(tt.selector, tt.scopeID))
		})
	}
}

func TestRenderScoped(t *testing.T) {
	kf := New()

	global, err := kf.NewStylesheet(GlobalScope, nil)
	require.NoError(t, err)
	require.NoError(t, global.AddRule("body", Declaration{"margin": 0}))

	card, err := kf.NewStylesheet("card", nil)
	require.NoError(t, err)
	require.NoError(t, card.AddRule(".title", Declaration{
		"font-weight": "bold",
		":hover":      Declaration{"color": "red"},
	}))

	_, err = kf.AddKeyframes("spin", map[float64]Declaration{
		0:   {"transform": "rotate(0deg)"},
		100: {"transform": "rotate(360deg)"},
	})
	require.NoError(t, err)

	out := kf.RenderScoped()

	// Global rules stay untouched and come first.
	assert.Contains(t, out, "body {\n  margin: 0;\n}")

	// Scoped selectors carry the marker attribute, pseudo suffix outside it.
	assert.Contains(t, out, `.title[data-kf-scope="card"] {`)
	assert.Contains(t, out, `.title[data-kf-scope="card"]:hover {`)

	// No marker comments in attribute-scoped output.
	assert.NotContains(t, out, "/* scope:")

	// Keyframe names are global; the block is emitted verbatim.
	assert.Contains(t, out, "@keyframes spin {")
}
