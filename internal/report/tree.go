package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/isphillips/keyframer"
)

// Tree renders a snapshot as an ASCII tree with branches for the global
// layer, each scoped instance, registered keyframe sets, and live
// animation bindings.
func Tree(snap keyframer.Snapshot) string {
	root := treeprint.NewWithRoot("keyframer")

	if len(snap.Globals) > 0 {
		branch := root.AddBranch("global")
		for _, scope := range snap.Globals {
			addRuleNodes(branch, scope)
		}
	}
	for _, scope := range snap.Scopes {
		addRuleNodes(root.AddBranch("scope "+scope.ScopeID), scope)
	}
	if len(snap.Keyframes) > 0 {
		branch := root.AddBranch("keyframes")
		for _, set := range snap.Keyframes {
			branch.AddNode(set.Name + " " + waypointLabel(set.Waypoints))
		}
	}
	if len(snap.Bindings) > 0 {
		branch := root.AddBranch("bindings")
		for _, b := range snap.Bindings {
			branch.AddNode(bindingLabel(b))
		}
	}

	return root.String()
}

func addRuleNodes(branch treeprint.Tree, scope keyframer.ScopeSnapshot) {
	for _, rule := range scope.Rules {
		label := fmt.Sprintf("%s (%s)", rule.Selector,
			pluralizeCount(len(rule.Properties), "property", "properties"))
		if len(rule.Nested) == 0 {
			branch.AddNode(label)
			continue
		}
		sub := branch.AddBranch(label)
		for _, key := range rule.Nested {
			sub.AddNode(key)
		}
	}
}

func waypointLabel(percents []float64) string {
	parts := make([]string, len(percents))
	for i, p := range percents {
		parts[i] = strconv.FormatFloat(p, 'f', -1, 64) + "%"
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func bindingLabel(b keyframer.BindingSnapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%d %s %q", b.ID, b.Trigger, b.Selector)
	if b.Event != "" {
		fmt.Fprintf(&sb, " on %s", b.Event)
	}
	if b.KeyPhase != "" {
		fmt.Fprintf(&sb, " on key %s", b.KeyPhase)
	}
	fmt.Fprintf(&sb, " plays %s (%s)", b.Animation, b.State)
	return sb.String()
}
