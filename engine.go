package keyframer

import (
	"fmt"

	"go.uber.org/zap"
)

// KeyPhase selects which half of a key stroke triggers a key binding.
type KeyPhase string

// Key phases accepted by AnimateOnKey.
const (
	KeyUp    KeyPhase = "up"
	KeyDown  KeyPhase = "down"
	KeyPress KeyPhase = "press"
)

// KeySet is a key-code filter for key-triggered bindings.
type KeySet map[string]struct{}

// Keys builds a KeySet from key codes.
func Keys(codes ...string) KeySet {
	set := make(KeySet, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

// Has reports whether code is in the set.
func (s KeySet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// BindingState is the lifecycle state of a trigger binding.
type BindingState uint8

// Binding lifecycle: Unbound -> Armed -> (Running -> Armed)* -> Unbound.
const (
	StateUnbound BindingState = iota
	StateArmed
	StateRunning
)

// String returns the state name.
func (s BindingState) String() string {
	switch s {
	case StateArmed:
		return "armed"
	case StateRunning:
		return "running"
	default:
		return "unbound"
	}
}

type triggerKind uint8

const (
	kindImmediate triggerKind = iota
	kindEvent
	kindKey
)

func (t triggerKind) String() string {
	switch t {
	case kindEvent:
		return "event"
	case kindKey:
		return "key"
	default:
		return "immediate"
	}
}

// Binding is a live trigger binding: a target selector, an animation
// descriptor, and the condition that runs it. Bindings are created by the
// animate functions and live until released, completed (immediate bindings),
// or silently unbound when the stylesheet or keyframe set they depend on
// goes away.
type Binding struct {
	id         uint32
	kind       triggerKind
	selector   string
	eventName  string
	phase      KeyPhase
	keys       KeySet
	desc       Descriptor
	onComplete func()
	state      BindingState
	timer      *Timer
	sheet      *Stylesheet
	eng        *engine
}

// State returns the binding's current lifecycle state.
func (b *Binding) State() BindingState { return b.state }

// Selector returns the binding's target selector.
func (b *Binding) Selector() string { return b.selector }

// Descriptor returns the bound animation descriptor.
func (b *Binding) Descriptor() Descriptor { return b.desc }

// Release unbinds the binding: any pending completion is cancelled and
// further trigger firings are ignored. Releasing twice is a no-op.
func (b *Binding) Release() {
	b.eng.unbind(b, "released")
}

// engine owns all trigger bindings and runs their state machines. Event and
// key occurrences reach it through the dispatch entry points; completions
// arrive through runtime timers.
type engine struct {
	bindings []*Binding
	nextID   uint32
	rt       *Runtime
	doc      Document
	kfs      *keyframeRegistry
	log      *zap.Logger
}

func newEngine(rt *Runtime, doc Document, kfs *keyframeRegistry, log *zap.Logger) *engine {
	return &engine{rt: rt, doc: doc, kfs: kfs, log: log}
}

// validate rejects trigger misconfiguration synchronously.
func (e *engine) validate(selector string, d Descriptor) error {
	if selector == "" {
		return fmt.Errorf("%w: empty target selector", ErrInvalidTrigger)
	}
	if d.IsZero() {
		return fmt.Errorf("%w: zero animation descriptor", ErrInvalidTrigger)
	}
	return nil
}

func (e *engine) bind(kind triggerKind, selector string, d Descriptor, onComplete func(), sheet *Stylesheet) *Binding {
	e.nextID++
	b := &Binding{
		id:         e.nextID,
		kind:       kind,
		selector:   selector,
		desc:       d,
		onComplete: onComplete,
		sheet:      sheet,
		state:      StateArmed,
		eng:        e,
	}
	if e.stale(d) {
		// The descriptor outlived its keyframe registration, an expected
		// race rather than misuse. The binding starts out unbound and every
		// trigger is ignored.
		b.state = StateUnbound
		e.log.Debug("binding created against replaced keyframes",
			zap.String("selector", selector), zap.String("keyframes", d.Name))
		return b
	}
	e.bindings = append(e.bindings, b)
	return b
}

// stale reports whether a keyframe descriptor no longer matches the
// registry, because its set was replaced or never survived.
func (e *engine) stale(d Descriptor) bool {
	if d.Kind != KindKeyframes {
		return false
	}
	set, ok := e.kfs.get(d.Name)
	return !ok || set.generation != d.generation
}

// animate immediately runs d once on every element matching selector.
func (e *engine) animate(selector string, d Descriptor, onComplete func(), sheet *Stylesheet) (*Binding, error) {
	if err := e.validate(selector, d); err != nil {
		return nil, err
	}
	b := e.bind(kindImmediate, selector, d, onComplete, sheet)
	if b.state == StateUnbound {
		return b, nil
	}
	e.run(b, e.targets(selector))
	return b, nil
}

// animateOn arms an event-triggered binding.
func (e *engine) animateOn(selector, eventName string, d Descriptor, onComplete func(), sheet *Stylesheet) (*Binding, error) {
	if err := e.validate(selector, d); err != nil {
		return nil, err
	}
	if eventName == "" {
		return nil, fmt.Errorf("%w: event trigger needs an event name", ErrInvalidTrigger)
	}
	b := e.bind(kindEvent, selector, d, onComplete, sheet)
	b.eventName = eventName
	return b, nil
}

// animateOnKey arms a key-triggered binding.
func (e *engine) animateOnKey(selector string, phase KeyPhase, keys KeySet, d Descriptor, onComplete func(), sheet *Stylesheet) (*Binding, error) {
	if err := e.validate(selector, d); err != nil {
		return nil, err
	}
	switch phase {
	case KeyUp, KeyDown, KeyPress:
	default:
		return nil, fmt.Errorf("%w: unsupported key phase %q", ErrInvalidTrigger, string(phase))
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: key trigger needs a non-empty key filter", ErrInvalidTrigger)
	}
	b := e.bind(kindKey, selector, d, onComplete, sheet)
	b.phase = phase
	b.keys = keys
	return b, nil
}

// dispatchEvent runs every armed event binding whose event name and
// selector match the target. A binding already running restarts: the newer
// trigger supersedes the in-flight animation, there is no queue.
func (e *engine) dispatchEvent(target Element, eventName string) {
	if target == nil || eventName == "" {
		return
	}
	for _, b := range e.snapshot() {
		if b.kind != kindEvent || b.state == StateUnbound || b.eventName != eventName {
			continue
		}
		if !target.Matches(b.selector) {
			continue
		}
		e.run(b, []Element{target})
	}
}

// dispatchKey runs every armed key binding whose phase matches and whose
// filter contains code, against all elements matching its selector.
func (e *engine) dispatchKey(phase KeyPhase, code string) {
	for _, b := range e.snapshot() {
		if b.kind != kindKey || b.state == StateUnbound || b.phase != phase {
			continue
		}
		if !b.keys.Has(code) {
			continue
		}
		e.run(b, e.targets(b.selector))
	}
}

func (e *engine) targets(selector string) []Element {
	if e.doc == nil {
		return nil
	}
	return e.doc.QueryAll(selector)
}

// run transitions a binding to Running, applies the style mutation, and
// schedules the completion. Restarting cancels the pending completion
// first, so a superseded run never reports.
func (e *engine) run(b *Binding, targets []Element) {
	if e.stale(b.desc) {
		e.unbind(b, "keyframes replaced")
		return
	}
	restarted := b.state == StateRunning
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.state = StateRunning

	property := b.desc.Property()
	value := b.desc.CSS()
	for _, el := range targets {
		if restarted {
			// Clearing the property first lets hosts restart a CSS
			// animation that is already applied.
			el.RemoveStyle(property)
		}
		el.SetStyle(property, value)
		if b.desc.Kind == KindTransition {
			for _, name := range b.desc.EndState.scalarKeys() {
				el.SetStyle(name, formatScalar(b.desc.EndState[name]))
			}
		}
	}

	total, finite := b.desc.TotalDuration()
	if !finite {
		// Infinite iteration count: the completion callback never fires.
		e.log.Debug("infinite animation running",
			zap.Uint32("binding", b.id), zap.String("selector", b.selector))
		return
	}
	b.timer = e.rt.After(total, func() { e.complete(b) })
	e.log.Debug("animation running",
		zap.Uint32("binding", b.id),
		zap.String("selector", b.selector),
		zap.String("trigger", b.kind.String()),
		zap.Duration("total", total),
		zap.Bool("restarted", restarted))
}

// complete finishes a run: immediate bindings unbind, triggered bindings
// re-arm, and the completion callback fires exactly once per finished run.
func (e *engine) complete(b *Binding) {
	if b.state != StateRunning {
		return
	}
	b.timer = nil
	cb := b.onComplete
	if b.kind == kindImmediate {
		e.unbind(b, "completed")
	} else {
		b.state = StateArmed
	}
	if cb != nil {
		cb()
	}
}

// unbind removes a binding from the engine. Safe to call repeatedly.
func (e *engine) unbind(b *Binding, reason string) {
	if b.state == StateUnbound {
		return
	}
	b.state = StateUnbound
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	for i, other := range e.bindings {
		if other == b {
			e.bindings = append(e.bindings[:i], e.bindings[i+1:]...)
			break
		}
	}
	e.log.Debug("binding unbound",
		zap.Uint32("binding", b.id),
		zap.String("selector", b.selector),
		zap.String("reason", reason))
}

// unbindSheet silently unbinds every binding created through the given
// stylesheet instance. Called on purge.
func (e *engine) unbindSheet(sheet *Stylesheet) {
	for _, b := range e.snapshot() {
		if b.sheet == sheet {
			e.unbind(b, "stylesheet purged")
		}
	}
}

// unbindKeyframes silently unbinds bindings holding a generation of the
// named keyframe set older than current. Called on replacement.
func (e *engine) unbindKeyframes(name string, current uint64) {
	for _, b := range e.snapshot() {
		if b.desc.Kind == KindKeyframes && b.desc.Name == name && b.desc.generation < current {
			e.unbind(b, "keyframes replaced")
		}
	}
}

// releaseAll unbinds everything. Used by Reset.
func (e *engine) releaseAll() {
	for _, b := range e.snapshot() {
		e.unbind(b, "reset")
	}
}

// snapshot copies the binding list so dispatch survives removal mid-walk.
func (e *engine) snapshot() []*Binding {
	out := make([]*Binding, len(e.bindings))
	copy(out, e.bindings)
	return out
}
