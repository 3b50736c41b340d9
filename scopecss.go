package keyframer

import (
	"io"
	"strings"
)

// ScopeSelector rewrites selector so each comma-separated part requires the
// scope marker attribute on its subject element: for scope id "card",
// ".title" becomes `.title[data-kf-scope="card"]`. Pseudo suffixes stay
// outside the attribute, ".btn:hover" style, because the attribute is
// appended to the part before any pseudo expansion.
func ScopeSelector(selector, scopeID string) string {
	attr := scopeAttrSelector(scopeID)
	return expandSelector(selector, "", func(part string) string { return part + attr })
}

// scopeAttrSelector builds the attribute selector for one scope id.
func scopeAttrSelector(scopeID string) string {
	escaped := strings.ReplaceAll(scopeID, `"`, `\"`)
	return "[" + ScopeAttr + `="` + escaped + `"]`
}

// WriteScopedTo writes the resolved document with every scoped instance's
// selectors rewritten per ScopeSelector, in place of the marker comments
// WriteTo uses. The output is one flat stylesheet a host can serve to
// markup whose elements carry the marker attribute; no further scoping
// layer is needed on the host side. Global blocks and @keyframes blocks
// are emitted untouched, since keyframe names are global by contract.
func (k *Keyframer) WriteScopedTo(w io.Writer) (int64, error) {
	sw := &sectionWriter{w: w}
	k.writeGlobalSections(sw)
	for _, s := range k.reg.scopedInOrder() {
		if s.Len() == 0 {
			continue
		}
		attr := scopeAttrSelector(s.scopeID)
		sw.section(func(w io.Writer) (int64, error) {
			return s.writeTo(w, func(part string) string { return part + attr })
		})
	}
	k.writeKeyframeSection(sw)
	return sw.total, sw.err
}

// RenderScoped returns the attribute-scoped document as CSS text.
func (k *Keyframer) RenderScoped() string {
	var sb strings.Builder
	k.WriteScopedTo(&sb) //nolint:errcheck
	return sb.String()
}
