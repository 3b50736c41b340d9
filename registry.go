package keyframer

import "fmt"

// registry tracks the live stylesheet instances by scope id and preserves
// the order blocks are emitted in: global instances first in creation
// order, then scoped instances in creation order, so the cascade favors
// scoped rules on selector collisions.
type registry struct {
	globals     []*Stylesheet
	scoped      map[string]*Stylesheet
	scopedOrder []string
}

func newRegistry() *registry {
	return &registry{scoped: make(map[string]*Stylesheet)}
}

// add registers a new instance. A second live instance under the same
// non-global scope id is rejected with ErrDuplicateScope; any number of
// global instances may coexist.
func (r *registry) add(s *Stylesheet) error {
	if s.IsGlobal() {
		r.globals = append(r.globals, s)
		return nil
	}
	if _, live := r.scoped[s.scopeID]; live {
		return fmt.Errorf("%w: %q", ErrDuplicateScope, s.scopeID)
	}
	r.scoped[s.scopeID] = s
	r.scopedOrder = append(r.scopedOrder, s.scopeID)
	return nil
}

// remove forgets an instance. Unknown instances are ignored, which keeps
// purge idempotent.
func (r *registry) remove(s *Stylesheet) {
	if s.IsGlobal() {
		for i, g := range r.globals {
			if g == s {
				r.globals = append(r.globals[:i], r.globals[i+1:]...)
				return
			}
		}
		return
	}
	if r.scoped[s.scopeID] != s {
		return
	}
	delete(r.scoped, s.scopeID)
	for i, id := range r.scopedOrder {
		if id == s.scopeID {
			r.scopedOrder = append(r.scopedOrder[:i], r.scopedOrder[i+1:]...)
			return
		}
	}
}

// byScope returns the live instance for a non-global scope id.
func (r *registry) byScope(scopeID string) (*Stylesheet, bool) {
	s, ok := r.scoped[scopeID]
	return s, ok
}

// globalsInOrder returns the live global instances in creation order.
func (r *registry) globalsInOrder() []*Stylesheet {
	out := make([]*Stylesheet, len(r.globals))
	copy(out, r.globals)
	return out
}

// scopedInOrder returns the live scoped instances in creation order.
func (r *registry) scopedInOrder() []*Stylesheet {
	out := make([]*Stylesheet, 0, len(r.scopedOrder))
	for _, id := range r.scopedOrder {
		out = append(out, r.scoped[id])
	}
	return out
}

// scopeIDs returns the live non-global scope ids in creation order.
func (r *registry) scopeIDs() []string {
	out := make([]string, len(r.scopedOrder))
	copy(out, r.scopedOrder)
	return out
}
