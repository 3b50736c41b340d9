package keyframer

import (
	"sort"
	"strings"
)

// MemoryDocument is an in-memory Document for tests and headless hosts. It
// holds a flat element list and matches the three conventional selector
// forms: class ".x", id "#x", and element name "x", plus "*" and
// comma-separated lists of those.
type MemoryDocument struct {
	elements []*MemoryElement
}

// NewMemoryDocument returns an empty document.
func NewMemoryDocument() *MemoryDocument {
	return &MemoryDocument{}
}

// AddElement appends an element with the given tag, optional id, and
// classes, and returns it for further attribute setup.
func (d *MemoryDocument) AddElement(tag, id string, classes ...string) *MemoryElement {
	el := &MemoryElement{
		TagName: strings.ToLower(tag),
		ID:      id,
		Classes: append([]string(nil), classes...),
		attrs:   make(map[string]string),
		styles:  make(map[string]string),
	}
	d.elements = append(d.elements, el)
	return el
}

// QueryAll implements Document.
func (d *MemoryDocument) QueryAll(selector string) []Element {
	var out []Element
	for _, el := range d.elements {
		if el.Matches(selector) {
			out = append(out, el)
		}
	}
	return out
}

// Elements returns all elements in insertion order.
func (d *MemoryDocument) Elements() []*MemoryElement {
	return append([]*MemoryElement(nil), d.elements...)
}

// MemoryElement is the element type of MemoryDocument.
type MemoryElement struct {
	TagName string
	ID      string
	Classes []string
	attrs   map[string]string
	styles  map[string]string
}

// Matches implements Element for the conventional selector forms.
func (e *MemoryElement) Matches(selector string) bool {
	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
			continue
		case part == "*":
			return true
		case strings.HasPrefix(part, "."):
			for _, class := range e.Classes {
				if class == part[1:] {
					return true
				}
			}
		case strings.HasPrefix(part, "#"):
			if e.ID == part[1:] {
				return true
			}
		default:
			if e.TagName == strings.ToLower(part) {
				return true
			}
		}
	}
	return false
}

// ScopeID implements Element.
func (e *MemoryElement) ScopeID() string { return e.attrs[ScopeAttr] }

// SetScope sets the scope marker attribute and returns the element.
func (e *MemoryElement) SetScope(scopeID string) *MemoryElement {
	e.attrs[ScopeAttr] = scopeID
	return e
}

// SetAttr sets an attribute.
func (e *MemoryElement) SetAttr(name, value string) { e.attrs[name] = value }

// Attr returns an attribute value, empty when unset.
func (e *MemoryElement) Attr(name string) string { return e.attrs[name] }

// SetStyle implements Element.
func (e *MemoryElement) SetStyle(property, value string) { e.styles[property] = value }

// RemoveStyle implements Element.
func (e *MemoryElement) RemoveStyle(property string) { delete(e.styles, property) }

// Style returns the inline style value for property, empty when unset.
func (e *MemoryElement) Style(property string) string { return e.styles[property] }

// StyleText renders the element's inline styles as "prop: value; …" with
// properties sorted for stable output.
func (e *MemoryElement) StyleText() string {
	names := make([]string, 0, len(e.styles))
	for name := range e.styles {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.styles[name])
	}
	return strings.Join(parts, "; ")
}
