package keyframer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryElementMatches(t *testing.T) {
	doc := NewMemoryDocument()
	el := doc.AddElement("DIV", "app", "btn", "primary")

	tests := []struct {
		selector string
		want     bool
	}{
		{selector: ".btn", want: true},
		{selector: ".primary", want: true},
		{selector: ".missing", want: false},
		{selector: "#app", want: true},
		{selector: "#other", want: false},
		{selector: "div", want: true},
		{selector: "DIV", want: true},
		{selector: "span", want: false},
		{selector: "*", want: true},
		{selector: ".missing, #app", want: true},
		{selector: ".missing, .nope", want: false},
		{selector: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			assert.Equal(t, tt.want, el.Matches(tt.selector))
		})
	}
}

func TestMemoryDocumentQueryAll(t *testing.T) {
	doc := NewMemoryDocument()
	a := doc.AddElement("div", "", "btn")
	b := doc.AddElement("button", "", "btn")
	doc.AddElement("span", "", "label")

	got := doc.QueryAll(".btn")
	assert.Equal(t, []Element{a, b}, got)
	assert.Empty(t, doc.QueryAll(".missing"))
	assert.Len(t, doc.QueryAll("*"), 3)
}

func TestMemoryElementScope(t *testing.T) {
	doc := NewMemoryDocument()
	el := doc.AddElement("div", "", "card")

	assert.Empty(t, el.ScopeID())
	el.SetScope("sidebar")
	assert.Equal(t, "sidebar", el.ScopeID())
	assert.Equal(t, "sidebar", el.Attr(ScopeAttr))
}

func TestMemoryElementStyles(t *testing.T) {
	doc := NewMemoryDocument()
	el := doc.AddElement("div", "", "card")

	el.SetStyle("color", "red")
	el.SetStyle("background", "blue")
	assert.Equal(t, "red", el.Style("color"))
	assert.Equal(t, "background: blue; color: red", el.StyleText())

	el.RemoveStyle("color")
	assert.Empty(t, el.Style("color"))
	assert.Equal(t, "background: blue", el.StyleText())
}

func TestMemoryDocumentElements(t *testing.T) {
	doc := NewMemoryDocument()
	doc.AddElement("div", "a")
	doc.AddElement("div", "b")

	els := doc.Elements()
	assert.Len(t, els, 2)
	assert.Equal(t, "a", els[0].ID)
	assert.Equal(t, "b", els[1].ID)
}
