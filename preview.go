package keyframer

import (
	"strings"

	"github.com/beevik/etree"
)

// PreviewHTML renders a self-contained HTML page for eyeballing the
// manager's output: the attribute-scoped CSS in a style element and one
// sample element per class selector. Scoped samples carry the scope marker
// attribute, so their rules hit them and nothing else.
func (k *Keyframer) PreviewHTML(title string) ([]byte, error) {
	if title == "" {
		title = "keyframer preview"
	}

	doc := etree.NewDocument()
	doc.CreateDirective("DOCTYPE html")

	html := doc.CreateElement("html")
	html.CreateAttr("lang", "en")

	head := html.CreateElement("head")
	head.CreateElement("meta").CreateAttr("charset", "utf-8")
	head.CreateElement("title").SetText(title)
	head.CreateElement("style").SetText("\n" + k.RenderScoped())

	body := html.CreateElement("body")
	body.CreateElement("h1").SetText(title)

	for _, s := range k.reg.globalsInOrder() {
		section := body.CreateElement("section")
		section.CreateElement("h2").SetText("global")
		addSampleElements(section, s, "")
	}
	for _, s := range k.reg.scopedInOrder() {
		section := body.CreateElement("section")
		section.CreateElement("h2").SetText("scope " + s.scopeID)
		addSampleElements(section, s, s.scopeID)
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

// addSampleElements appends one sample per class selector. Selectors that
// are not plain class lists show as code only.
func addSampleElements(section *etree.Element, s *Stylesheet, scopeID string) {
	for _, selector := range s.Selectors() {
		classes, ok := sampleClasses(selector)
		if !ok {
			section.CreateElement("code").SetText(selector)
			continue
		}
		div := section.CreateElement("div")
		div.CreateAttr("class", strings.Join(classes, " "))
		if scopeID != "" {
			div.CreateAttr(ScopeAttr, scopeID)
		}
		div.SetText(selector)
	}
}

// sampleClasses converts a simple class selector like ".btn.primary" into
// its class list. Compound and non-class selectors are rejected.
func sampleClasses(selector string) ([]string, bool) {
	if !strings.HasPrefix(selector, ".") || strings.ContainsAny(selector, " ,:>[#") {
		return nil, false
	}
	parts := strings.Split(strings.TrimPrefix(selector, "."), ".")
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
	}
	return parts, true
}
