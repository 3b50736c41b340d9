package keyframer

import (
	"fmt"
	"io"
	"strings"
)

// GlobalScope is the reserved scope id of global stylesheets. Rules of a
// global instance apply to every element; rules of any other instance apply
// only to elements whose scope marker attribute carries the instance's id.
const GlobalScope = "*"

// Stylesheet is a live stylesheet instance: a rule store bound to an
// immutable scope id. Instances are created through a Keyframer and stay
// registered with it until purged.
//
// Like everything else in this package, a Stylesheet is driven from a single
// goroutine and is not safe for concurrent use.
type Stylesheet struct {
	scopeID string
	owner   *Keyframer
	rules   map[string]Declaration
	order   []string
	purged  bool
}

// ScopeID returns the instance's scope id.
func (s *Stylesheet) ScopeID() string { return s.scopeID }

// IsGlobal reports whether the instance uses the reserved global scope.
func (s *Stylesheet) IsGlobal() bool { return s.scopeID == GlobalScope }

// AddRule stores decl under selector, replacing any previous declaration for
// that selector (last write wins) and scheduling a coalesced re-render.
// The declaration is validated at the boundary (reserved-prefix keys only)
// and deep-copied, so later mutation of decl by the caller has no effect on
// the stored rule. Property names and scalar values pass through unchecked.
func (s *Stylesheet) AddRule(selector string, decl Declaration) error {
	if s.purged {
		return fmt.Errorf("%w: scope %q", ErrStylesheetPurged, s.scopeID)
	}
	normalized, err := normalizeDeclaration(decl, true)
	if err != nil {
		return fmt.Errorf("rule %q: %w", selector, err)
	}
	if _, exists := s.rules[selector]; !exists {
		s.order = append(s.order, selector)
	}
	s.rules[selector] = normalized
	s.owner.noteMutation("rule added", s.scopeID, selector)
	return nil
}

// GetRule returns an independent deep copy of the declaration stored for
// selector, or ErrUnknownSelector if none is stored. The copy is a frozen
// snapshot: callers compose new declarations by merging it without ever
// aliasing the stored rule, and later AddRule calls do not alter copies
// already handed out.
func (s *Stylesheet) GetRule(selector string) (Declaration, error) {
	decl, ok := s.rules[selector]
	if !ok {
		return nil, fmt.Errorf("%w: %q in scope %q", ErrUnknownSelector, selector, s.scopeID)
	}
	return decl.Clone(), nil
}

// Selectors returns the stored selectors in insertion order.
func (s *Stylesheet) Selectors() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of stored rules.
func (s *Stylesheet) Len() int { return len(s.rules) }

// Purge removes the instance from its Keyframer, discards the rule store,
// silently unbinds trigger bindings created through this instance, and
// schedules a re-render without the instance's CSS output. Purging an
// already-purged instance is a no-op.
func (s *Stylesheet) Purge() {
	if s.purged {
		return
	}
	s.purged = true
	s.rules = nil
	s.order = nil
	s.owner.dropStylesheet(s)
}

// WriteTo writes the instance's CSS block to w in rule insertion order,
// implementing io.WriterTo. Property order within a declaration is sorted
// for deterministic output.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	return s.writeTo(w, identitySelector)
}

func (s *Stylesheet) writeTo(w io.Writer, transform func(string) string) (int64, error) {
	var total int64
	for i, selector := range s.order {
		if i > 0 {
			n, err := fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
		n, err := writeRuleBlocks(w, selector, s.rules[selector], transform)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// CSS returns the instance's CSS block as text.
func (s *Stylesheet) CSS() string {
	var sb strings.Builder
	s.writeTo(&sb, identitySelector) //nolint:errcheck
	return sb.String()
}

// Animate immediately runs the animation described by d on every element
// matching selector, tied to this instance: purging the instance unbinds the
// animation. See Keyframer.Animate for the completion contract.
func (s *Stylesheet) Animate(selector string, d Descriptor, onComplete func()) (*Binding, error) {
	if s.purged {
		return nil, fmt.Errorf("%w: scope %q", ErrStylesheetPurged, s.scopeID)
	}
	return s.owner.eng.animate(selector, d, onComplete, s)
}

// AnimateOn arms an event-triggered animation tied to this instance.
// See Keyframer.AnimateOn.
func (s *Stylesheet) AnimateOn(selector, eventName string, d Descriptor, onComplete func()) (*Binding, error) {
	if s.purged {
		return nil, fmt.Errorf("%w: scope %q", ErrStylesheetPurged, s.scopeID)
	}
	return s.owner.eng.animateOn(selector, eventName, d, onComplete, s)
}

// AnimateOnKey arms a key-triggered animation tied to this instance.
// See Keyframer.AnimateOnKey.
func (s *Stylesheet) AnimateOnKey(selector string, phase KeyPhase, keys KeySet, d Descriptor, onComplete func()) (*Binding, error) {
	if s.purged {
		return nil, fmt.Errorf("%w: scope %q", ErrStylesheetPurged, s.scopeID)
	}
	return s.owner.eng.animateOnKey(selector, phase, keys, d, onComplete, s)
}
