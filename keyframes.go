package keyframer

import (
	"fmt"
	"io"
	"sort"
	"time"

	"go.uber.org/multierr"
)

// Waypoint is one keyframe: a percentage position and the style at that
// position.
type Waypoint struct {
	Percent float64
	Style   Declaration
}

// KeyframeSet is a named animation: waypoints held in ascending percent
// order, the form they are emitted in regardless of input order.
type KeyframeSet struct {
	Name      string
	Waypoints []Waypoint

	// generation increments each time the name is re-registered, so
	// descriptors minted before a replacement can be told apart from the
	// current set.
	generation uint64
}

// keyframeRegistry holds all keyframe sets. Sets are always global: their
// @keyframes blocks are part of the global CSS output no matter where the
// registration happened.
type keyframeRegistry struct {
	sets    map[string]*KeyframeSet
	order   []string
	nextGen uint64
}

func newKeyframeRegistry() *keyframeRegistry {
	return &keyframeRegistry{sets: make(map[string]*KeyframeSet)}
}

// add validates and stores a keyframe set, replacing any set of the same
// name in place. It reports whether a prior set was replaced.
func (r *keyframeRegistry) add(name string, waypoints map[float64]Declaration) (*KeyframeSet, bool, error) {
	var errs error
	if name == "" {
		errs = multierr.Append(errs, fmt.Errorf("%w: keyframe set needs a name", ErrInvalidWaypoint))
	}
	if len(waypoints) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: keyframe set %q has no waypoints", ErrInvalidWaypoint, name))
	}

	normalized := make([]Waypoint, 0, len(waypoints))
	for percent, style := range waypoints {
		if percent < 0 || percent > 100 {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q has percent %s outside [0, 100]",
				ErrInvalidWaypoint, name, formatPercent(percent)))
			continue
		}
		if len(style) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q has an empty declaration at %s",
				ErrInvalidWaypoint, name, formatPercent(percent)))
			continue
		}
		decl, err := normalizeDeclaration(style, false)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q waypoint %s: %v",
				ErrInvalidWaypoint, name, formatPercent(percent), err))
			continue
		}
		normalized = append(normalized, Waypoint{Percent: percent, Style: decl})
	}
	if errs != nil {
		return nil, false, errs
	}

	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i].Percent < normalized[j].Percent
	})

	r.nextGen++
	set := &KeyframeSet{Name: name, Waypoints: normalized, generation: r.nextGen}
	_, replaced := r.sets[name]
	if !replaced {
		r.order = append(r.order, name)
	}
	r.sets[name] = set
	return set, replaced, nil
}

func (r *keyframeRegistry) get(name string) (*KeyframeSet, bool) {
	set, ok := r.sets[name]
	return set, ok
}

// names returns the registered set names in first-registration order.
func (r *keyframeRegistry) names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// writeTo writes every @keyframes block in registration order, blocks
// separated by blank lines.
func (r *keyframeRegistry) writeTo(w io.Writer) (int64, error) {
	var total int64
	for i, name := range r.order {
		if i > 0 {
			n, err := fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
		n, err := writeKeyframeSet(w, r.sets[name])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// AddKeyframes registers a named keyframe set from a percent-to-declaration
// mapping. Waypoints are normalized to ascending percent order before
// emission; input order carries no meaning. Re-adding a name replaces the
// prior set and silently unbinds trigger bindings still referencing it.
//
// The returned factory mints keyframe descriptors for this registration:
// AddKeyframes("spin", …) followed by factory(2*time.Second, "linear",
// IterInfinite) yields a descriptor whose CSS shorthand is
// "spin 2s linear infinite".
//
// Waypoint percents outside [0, 100] and empty waypoint declarations fail
// with ErrInvalidWaypoint; all violations are reported together.
func (k *Keyframer) AddKeyframes(name string, waypoints map[float64]Declaration) (AnimationFactory, error) {
	set, replaced, err := k.kfs.add(name, waypoints)
	if err != nil {
		return nil, err
	}
	if replaced {
		k.eng.unbindKeyframes(name, set.generation)
	}
	k.noteMutation("keyframes registered", GlobalScope, name)

	generation := set.generation
	factory := func(duration time.Duration, easing string, iterations int) Descriptor {
		if iterations < 1 && iterations != IterInfinite {
			iterations = 1
		}
		return Descriptor{
			Kind:       KindKeyframes,
			Name:       name,
			Duration:   duration,
			Easing:     easing,
			Iterations: iterations,
			generation: generation,
		}
	}
	return factory, nil
}
