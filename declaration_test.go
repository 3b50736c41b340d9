package keyframer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNestedKey(t *testing.T) {
	assert.True(t, IsNestedKey(":hover"))
	assert.True(t, IsNestedKey("::before"))
	assert.True(t, IsNestedKey("@media (max-width: 600px)"))
	assert.False(t, IsNestedKey("color"))
	assert.False(t, IsNestedKey("animation-name"))
}

func TestValidateNestedKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{key: ":hover"},
		{key: "::before"},
		{key: ":FOCUS"}, // tokens are case-insensitive
		{key: ":focus-visible"},
		{key: "@media (max-width: 600px)"},
		{key: "@supports (display: grid)"},
		{key: "@container"},
		{key: ":sparkle", wantErr: true},
		{key: ":", wantErr: true},
		{key: "@import url(x)", wantErr: true},
		{key: "@mediaquery", wantErr: true}, // keyword must end the word
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := validateNestedKey(tt.key)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidDeclaration)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDeclarationClone(t *testing.T) {
	orig := Declaration{
		"color":  "blue",
		"width":  100,
		":hover": Declaration{"color": "red"},
	}

	clone := orig.Clone()
	clone["color"] = "green"
	clone[":hover"].(Declaration)["color"] = "white"

	assert.Equal(t, "blue", orig["color"])
	assert.Equal(t, Declaration{"color": "red"}, orig[":hover"])

	var nilDecl Declaration
	assert.Nil(t, nilDecl.Clone())
}

func TestDeclarationMerge(t *testing.T) {
	base := Declaration{
		"color":   "blue",
		"padding": "8px",
		":hover":  Declaration{"color": "red", "cursor": "pointer"},
	}
	overlay := Declaration{
		"color":  "green",
		":hover": Declaration{"color": "black"},
	}

	merged := base.Merge(overlay)

	// Scalars replace; nested declarations merge per key.
	assert.Equal(t, "green", merged["color"])
	assert.Equal(t, "8px", merged["padding"])
	assert.Equal(t, Declaration{"color": "black", "cursor": "pointer"}, merged[":hover"])

	// Both inputs stay untouched.
	assert.Equal(t, "blue", base["color"])
	assert.Equal(t, Declaration{"color": "red", "cursor": "pointer"}, base[":hover"])
	assert.Equal(t, Declaration{"color": "black"}, overlay[":hover"])
}

func TestDeclarationMergeOntoNil(t *testing.T) {
	var base Declaration
	merged := base.Merge(Declaration{"color": "red"})
	assert.Equal(t, Declaration{"color": "red"}, merged)
}

func TestDeclarationKeySplit(t *testing.T) {
	decl := Declaration{
		"width":   "100%",
		"color":   "blue",
		":hover":  Declaration{"color": "red"},
		"@media1": nil, // never valid, but the split is purely prefix-based
	}
	// Exercised through the unexported accessors the emitters use.
	assert.Equal(t, []string{"color", "width"}, decl.scalarKeys())
	assert.Equal(t, []string{":hover", "@media1"}, decl.nestedKeys())
}

func TestFormatScalar(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "string", value: "12px", want: "12px"},
		{name: "int", value: 0, want: "0"},
		{name: "negative int", value: -4, want: "-4"},
		{name: "float", value: 0.5, want: "0.5"},
		{name: "whole float", value: 2.0, want: "2"},
		{name: "float32", value: float32(1.5), want: "1.5"},
		{name: "uint", value: uint(7), want: "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatScalar(tt.value))
		})
	}
}

func TestNormalizeDeclarationAcceptsUntypedMaps(t *testing.T) {
	// Values decoded from YAML arrive as map[string]any, not Declaration.
	decl := Declaration{
		"color":  "blue",
		":hover": map[string]any{"color": "red"},
	}

	normalized, err := normalizeDeclaration(decl, true)
	require.NoError(t, err)
	assert.Equal(t, Declaration{"color": "red"}, normalized[":hover"])
}
