package keyframer

import (
	"gopkg.in/yaml.v3"
)

// ConvertCSS rewrites a CSS document as the equivalent YAML document, the
// nested form the loader reads: pseudo and at-rule blocks fold under their
// base selector and @keyframes blocks become the keyframes section. Rule
// order follows the CSS text. An empty scopeID keeps the text's
// /* @scope <id> */ pragma, if any.
func ConvertCSS(scopeID, cssText string) ([]byte, error) {
	doc, err := parseCSSDocument("", cssText)
	if err != nil {
		return nil, err
	}
	if scopeID != "" {
		doc.scope = scopeID
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	if doc.scope != "" {
		appendMapEntry(root, "scope", scalarNode(doc.scope))
	}

	if len(doc.rules) > 0 {
		rules := &yaml.Node{Kind: yaml.MappingNode}
		for _, rule := range doc.rules {
			appendMapEntry(rules, rule.selector, declarationNode(rule.decl))
		}
		appendMapEntry(root, "rules", rules)
	}

	if len(doc.keyframes) > 0 {
		sets := &yaml.Node{Kind: yaml.MappingNode}
		for _, set := range doc.keyframes {
			frames := &yaml.Node{Kind: yaml.MappingNode}
			for _, wp := range set.waypoints {
				appendMapEntry(frames, formatPercent(wp.Percent), declarationNode(wp.Style))
			}
			appendMapEntry(sets, set.name, frames)
		}
		appendMapEntry(root, "keyframes", sets)
	}

	return yaml.Marshal(root)
}

// declarationNode builds the mapping node form of a declaration: scalar
// properties first, nested sub-declarations after, each group sorted the
// way the renderer sorts them.
func declarationNode(decl Declaration) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range decl.scalarKeys() {
		appendMapEntry(node, key, scalarNode(formatScalar(decl[key])))
	}
	for _, key := range decl.nestedKeys() {
		sub, err := asDeclaration(decl[key])
		if err != nil {
			continue
		}
		appendMapEntry(node, key, declarationNode(sub))
	}
	return node
}

func appendMapEntry(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, scalarNode(key), value)
}

func scalarNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
}
