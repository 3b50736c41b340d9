package keyframer

import "io"

// ScopeAttr is the marker attribute through which an element opts into a
// non-global scope: its value names the scope id whose rules apply to the
// element. Elements without the marker receive only global rules.
const ScopeAttr = "data-kf-scope"

// Element is the minimal view of a host element the trigger engine needs:
// selector matching, the scope marker, and inline style mutation. The host
// document itself stays outside this package.
type Element interface {
	// Matches reports whether the element matches a selector. How much
	// selector syntax is honored is the host's decision; the engine treats
	// selectors as opaque.
	Matches(selector string) bool
	// ScopeID returns the element's scope marker value, empty when the
	// element carries none.
	ScopeID() string
	// SetStyle writes an inline style property on the element.
	SetStyle(property, value string)
	// RemoveStyle clears an inline style property.
	RemoveStyle(property string)
}

// Document resolves selectors to live elements for immediate and
// key-triggered animations.
type Document interface {
	QueryAll(selector string) []Element
}

// Surface is the host's live style output. Each flush of the render
// pipeline replaces the surface's entire content with the freshly resolved
// CSS text.
type Surface interface {
	ApplyStyles(css string) error
}

// WriterSurface streams every applied stylesheet to an io.Writer, each
// application terminated by a blank line. Suited to logs and demos rather
// than files, which would accumulate one copy per flush.
type WriterSurface struct {
	W io.Writer
}

// ApplyStyles implements Surface.
func (s WriterSurface) ApplyStyles(css string) error {
	if _, err := io.WriteString(s.W, css); err != nil {
		return err
	}
	_, err := io.WriteString(s.W, "\n")
	return err
}

// StyleBuffer is a Surface that retains only the most recent stylesheet,
// the way a browser style element would. It also counts applications, which
// makes render coalescing observable.
type StyleBuffer struct {
	css     string
	applies int
}

// ApplyStyles implements Surface.
func (b *StyleBuffer) ApplyStyles(css string) error {
	b.css = css
	b.applies++
	return nil
}

// CSS returns the most recently applied stylesheet text.
func (b *StyleBuffer) CSS() string { return b.css }

// Applies returns how many times the surface has been written.
func (b *StyleBuffer) Applies() int { return b.applies }
