// Package keyframer is a runtime stylesheet manager: rules, pseudo-selector
// nesting, keyframe animations, and transitions are declared as in-memory
// data and materialized into CSS text pushed to a host document's live
// style surface.
//
// # Stylesheets and scoping
//
// Stylesheet instances are namespaces. An instance created under the
// reserved scope "*" is global; any other scope id is private to elements
// that opt in through the ScopeAttr marker attribute:
//
//	kf := keyframer.New(keyframer.WithSurface(surface))
//	chat, err := kf.NewStylesheet("chat", nil)
//	err = chat.AddRule(".msg", keyframer.Declaration{
//		"color":  "#222",
//		":hover": keyframer.Declaration{"color": "#000"},
//	})
//
// Scoped blocks are emitted after global blocks, so on selector collisions
// the cascade favors the scoped rule for elements in that scope.
//
// # Animations
//
// Keyframe sets are global and produce descriptor factories:
//
//	spin, err := kf.AddKeyframes("spin", map[float64]keyframer.Declaration{
//		0:   {"transform": "none"},
//		100: {"transform": "rotate(360deg)"},
//	})
//	d := spin(2*time.Second, "linear", keyframer.IterInfinite)
//
// Transitions build the same kind of factory from a timing configuration
// and an end-state declaration.
//
// # Triggers
//
// Animate runs a descriptor immediately; AnimateOn and AnimateOnKey arm
// bindings fired by host-dispatched events and key strokes. Completion
// callbacks fire exactly once per finished run on the cooperative runtime;
// re-triggering a running binding restarts it instead of queuing.
//
// # CLI Tool
//
// The keyframer CLI loads stylesheet documents from disk and renders,
// watches, inspects, imports, and previews them. Install with:
//
//	go install github.com/isphillips/keyframer/cmd/keyframer@latest
package keyframer

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Keyframer owns the process-wide state of one stylesheet world: the scope
// registry, the keyframe registry, the trigger engine, and the runtime they
// share. Independent Keyframers are fully isolated, which is what unit
// tests and embedded hosts construct; a lazily built package default mirrors
// the one-world surface most applications want.
//
// A Keyframer must be driven from a single goroutine.
type Keyframer struct {
	log     *zap.Logger
	rt      *Runtime
	doc     Document
	surface Surface
	reg     *registry
	kfs     *keyframeRegistry
	eng     *engine

	dirty         bool
	renderPending bool
}

// Option configures a Keyframer.
type Option func(*Keyframer)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(k *Keyframer) { k.log = log }
}

// WithDocument sets the host document the trigger engine resolves target
// selectors against. Without one, animations still schedule and complete
// but mutate no elements.
func WithDocument(doc Document) Option {
	return func(k *Keyframer) { k.doc = doc }
}

// WithSurface sets the live style output the render pipeline pushes
// resolved CSS to. Without one, rendering stays on demand via Render.
func WithSurface(surface Surface) Option {
	return func(k *Keyframer) { k.surface = surface }
}

// WithRuntime shares an existing runtime, for hosts that drive several
// components off one cooperative loop.
func WithRuntime(rt *Runtime) Option {
	return func(k *Keyframer) { k.rt = rt }
}

// New constructs an isolated Keyframer.
func New(opts ...Option) *Keyframer {
	k := &Keyframer{
		reg: newRegistry(),
		kfs: newKeyframeRegistry(),
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.log == nil {
		k.log = zap.NewNop()
	}
	if k.rt == nil {
		k.rt = NewRuntime()
	}
	k.eng = newEngine(k.rt, k.doc, k.kfs, k.log)
	return k
}

// defaultKF is the lazily constructed package default, reachable through
// Default and the package-level convenience functions.
var defaultKF *Keyframer

// Default returns the package default Keyframer, constructing it on first
// access.
func Default() *Keyframer {
	if defaultKF == nil {
		defaultKF = New()
	}
	return defaultKF
}

// ResetDefault tears the package default down so the next Default call
// starts fresh. Test teardown calls this to keep cases isolated.
func ResetDefault() {
	if defaultKF != nil {
		defaultKF.Reset()
	}
	defaultKF = nil
}

// NewStylesheet registers a stylesheet instance under scopeID. A non-global
// scope id already held by a live instance fails with ErrDuplicateScope.
// The initial rules, if any, are added as if passed to AddRule one by one,
// in sorted selector order for deterministic output.
func (k *Keyframer) NewStylesheet(scopeID string, initial map[string]Declaration) (*Stylesheet, error) {
	if scopeID == "" {
		return nil, fmt.Errorf("stylesheet needs a scope id")
	}
	s := &Stylesheet{
		scopeID: scopeID,
		owner:   k,
		rules:   make(map[string]Declaration),
	}
	if err := k.reg.add(s); err != nil {
		return nil, err
	}
	for _, selector := range sortedKeys(initial) {
		if err := s.AddRule(selector, initial[selector]); err != nil {
			s.Purge()
			return nil, err
		}
	}
	k.noteMutation("stylesheet created", scopeID, "")
	return s, nil
}

// NewScopedStylesheet registers a stylesheet under a generated unique scope
// id, for callers that only need isolation and not a meaningful name.
func (k *Keyframer) NewScopedStylesheet() (*Stylesheet, error) {
	var err error
	for attempt := 0; attempt < 8; attempt++ {
		var s *Stylesheet
		s, err = k.NewStylesheet("kf-"+uuid.NewString()[:8], nil)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrDuplicateScope) {
			return nil, err
		}
		// Short-id collision; roll again.
	}
	return nil, err
}

// FromObject bulk-constructs a stylesheet instance from a flat selector to
// declaration mapping, exactly as NewStylesheet with initial rules.
func (k *Keyframer) FromObject(scopeID string, rules map[string]Declaration) (*Stylesheet, error) {
	return k.NewStylesheet(scopeID, rules)
}

// dropStylesheet finishes a purge: the instance leaves the registry, its
// bindings unbind silently, and the document re-renders without its block.
func (k *Keyframer) dropStylesheet(s *Stylesheet) {
	k.reg.remove(s)
	k.eng.unbindSheet(s)
	k.noteMutation("stylesheet purged", s.scopeID, "")
}

// Animate immediately runs the animation described by d once on every
// element matching selector. onComplete, if non-nil, is invoked exactly
// once when the animation's total duration has elapsed, duration times
// iteration count; with IterInfinite it is never invoked. The call returns
// as soon as the run is scheduled.
func (k *Keyframer) Animate(selector string, d Descriptor, onComplete func()) (*Binding, error) {
	return k.eng.animate(selector, d, onComplete, nil)
}

// AnimateOn arms a binding that runs d each time the host dispatches
// eventName on an element matching selector. An event arriving while the
// animation is running restarts it; the superseded run never reports
// completion.
func (k *Keyframer) AnimateOn(selector, eventName string, d Descriptor, onComplete func()) (*Binding, error) {
	return k.eng.animateOn(selector, eventName, d, onComplete, nil)
}

// AnimateOnKey arms a binding fired by key strokes in the given phase whose
// key code is in keys, running d on every element matching selector. The
// restart policy matches AnimateOn.
func (k *Keyframer) AnimateOnKey(selector string, phase KeyPhase, keys KeySet, d Descriptor, onComplete func()) (*Binding, error) {
	return k.eng.animateOnKey(selector, phase, keys, d, onComplete, nil)
}

// DispatchEvent delivers a host event to the trigger engine.
func (k *Keyframer) DispatchEvent(target Element, eventName string) {
	k.eng.dispatchEvent(target, eventName)
}

// DispatchKey delivers a host key stroke to the trigger engine.
func (k *Keyframer) DispatchKey(phase KeyPhase, code string) {
	k.eng.dispatchKey(phase, code)
}

// Runtime returns the cooperative runtime driving this Keyframer.
func (k *Keyframer) Runtime() *Runtime { return k.rt }

// Flush drains pending microtasks, including the coalesced re-render pass.
func (k *Keyframer) Flush() { k.rt.Flush() }

// Advance moves the runtime clock forward, firing due animation
// completions and pending flushes. See Runtime.Advance.
func (k *Keyframer) Advance(dt time.Duration) { k.rt.Advance(dt) }

// Scopes returns the live non-global scope ids in creation order.
func (k *Keyframer) Scopes() []string { return k.reg.scopeIDs() }

// Stylesheet returns the live instance registered under a non-global scope
// id.
func (k *Keyframer) Stylesheet(scopeID string) (*Stylesheet, bool) {
	return k.reg.byScope(scopeID)
}

// GlobalRule returns the effective global declaration for selector: the
// global instances' declarations merged in creation order, later instances
// overriding earlier ones. ok is false when no global instance holds the
// selector. The returned declaration is a detached copy.
func (k *Keyframer) GlobalRule(selector string) (Declaration, bool) {
	var out Declaration
	found := false
	for _, s := range k.reg.globalsInOrder() {
		if decl, ok := s.rules[selector]; ok {
			out = out.Merge(decl)
			found = true
		}
	}
	if !found {
		return nil, false
	}
	return out, true
}

// Reset tears down all process-wide state: every instance is purged, every
// binding released, and every keyframe set dropped. The runtime and its
// clock survive. Tests call this between cases.
func (k *Keyframer) Reset() {
	for _, s := range k.reg.globalsInOrder() {
		s.Purge()
	}
	for _, s := range k.reg.scopedInOrder() {
		s.Purge()
	}
	k.eng.releaseAll()
	k.kfs = newKeyframeRegistry()
	k.eng.kfs = k.kfs
	k.scheduleRender()
	k.log.Debug("keyframer reset")
}

// sortedKeys returns the map keys in sorted order.
func sortedKeys(m map[string]Declaration) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// The functions below mirror the instance API on the package default, the
// registry-singleton surface applications reach for when one stylesheet
// world is enough.

// NewStylesheet registers a stylesheet instance on the package default.
func NewStylesheet(scopeID string, initial map[string]Declaration) (*Stylesheet, error) {
	return Default().NewStylesheet(scopeID, initial)
}

// FromObject bulk-constructs a stylesheet instance on the package default.
func FromObject(scopeID string, rules map[string]Declaration) (*Stylesheet, error) {
	return Default().FromObject(scopeID, rules)
}

// AddKeyframes registers a keyframe set on the package default.
func AddKeyframes(name string, waypoints map[float64]Declaration) (AnimationFactory, error) {
	return Default().AddKeyframes(name, waypoints)
}

// Transition builds a transition factory on the package default.
func Transition(cfg TransitionConfig) (AnimationFactory, error) {
	return Default().Transition(cfg)
}

// Animate runs an animation immediately on the package default.
func Animate(selector string, d Descriptor, onComplete func()) (*Binding, error) {
	return Default().Animate(selector, d, onComplete)
}

// AnimateOn arms an event-triggered binding on the package default.
func AnimateOn(selector, eventName string, d Descriptor, onComplete func()) (*Binding, error) {
	return Default().AnimateOn(selector, eventName, d, onComplete)
}

// AnimateOnKey arms a key-triggered binding on the package default.
func AnimateOnKey(selector string, phase KeyPhase, keys KeySet, d Descriptor, onComplete func()) (*Binding, error) {
	return Default().AnimateOnKey(selector, phase, keys, d, onComplete)
}

// Render renders the package default's combined CSS document.
func Render() string {
	return Default().Render()
}

// ResolveScope renders the cascade one scope sees on the package default.
func ResolveScope(scopeID string) string {
	return Default().ResolveScope(scopeID)
}

// Flush drains the package default's pending microtasks.
func Flush() {
	Default().Flush()
}

// Advance moves the package default's clock forward by dt.
func Advance(dt time.Duration) {
	Default().Advance(dt)
}

// DispatchEvent feeds a host event to the package default.
func DispatchEvent(target Element, eventName string) {
	Default().DispatchEvent(target, eventName)
}

// DispatchKey feeds a host key event to the package default.
func DispatchKey(phase KeyPhase, code string) {
	Default().DispatchKey(phase, code)
}

// TakeSnapshot captures the package default's current state.
func TakeSnapshot() Snapshot {
	return Default().Snapshot()
}
