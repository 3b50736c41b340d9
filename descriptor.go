package keyframer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tanema/gween/ease"
)

// DescriptorKind distinguishes the two animation sources.
type DescriptorKind uint8

const (
	// KindNone marks the zero descriptor, rejected by the trigger engine.
	KindNone DescriptorKind = iota
	// KindKeyframes marks a descriptor referencing a named keyframe set.
	KindKeyframes
	// KindTransition marks a descriptor carrying an inline end state.
	KindTransition
)

// IterInfinite is the iteration count of an animation that never completes.
// Completion callbacks are never invoked for infinite descriptors.
const IterInfinite = -1

// Descriptor is a resolved, ready-to-apply animation: a keyframe set
// reference or a transition end state combined with concrete duration,
// easing, and iteration parameters. Descriptors are plain values produced by
// animation factories and consumed by the trigger engine.
type Descriptor struct {
	Kind       DescriptorKind
	Name       string        // keyframe set name, KindKeyframes only
	EndState   Declaration   // end-state declaration, KindTransition only
	Duration   time.Duration // duration of one iteration
	Easing     string        // CSS timing function, empty for the CSS default
	Iterations int           // 1 or more, or IterInfinite

	// generation pins a keyframe descriptor to the registry state it was
	// created from; replacing the set invalidates bindings holding older
	// generations.
	generation uint64
}

// AnimationFactory produces descriptors with concrete timing parameters.
// Factories are returned by AddKeyframes and Transition. Zero arguments keep
// the factory's own defaults: a transition factory falls back to its
// configured duration and easing, and iterations below 1 normalize to 1
// unless IterInfinite is given.
type AnimationFactory func(duration time.Duration, easing string, iterations int) Descriptor

// IsZero reports whether the descriptor carries no animation source.
func (d Descriptor) IsZero() bool { return d.Kind == KindNone }

// TotalDuration returns the wall-clock time until completion, duration times
// iteration count. ok is false for infinite descriptors, which never
// complete.
func (d Descriptor) TotalDuration() (total time.Duration, ok bool) {
	if d.Iterations == IterInfinite {
		return 0, false
	}
	iters := d.Iterations
	if iters < 1 {
		iters = 1
	}
	return d.Duration * time.Duration(iters), true
}

// Property returns the inline style property the descriptor is applied
// through: "animation" for keyframe descriptors, "transition" otherwise.
func (d Descriptor) Property() string {
	if d.Kind == KindKeyframes {
		return "animation"
	}
	return "transition"
}

// CSS returns the descriptor's shorthand value: the animation shorthand
// "name duration easing [count]" for keyframe descriptors, the transition
// shorthand "all duration easing" for transition descriptors.
func (d Descriptor) CSS() string {
	var parts []string
	switch d.Kind {
	case KindKeyframes:
		parts = append(parts, d.Name, formatDuration(d.Duration))
		if d.Easing != "" {
			parts = append(parts, d.Easing)
		}
		if d.Iterations == IterInfinite {
			parts = append(parts, "infinite")
		} else if d.Iterations > 1 {
			parts = append(parts, strconv.Itoa(d.Iterations))
		}
	case KindTransition:
		parts = append(parts, "all", formatDuration(d.Duration))
		if d.Easing != "" {
			parts = append(parts, d.Easing)
		}
	default:
		return ""
	}
	return strings.Join(parts, " ")
}

// Progress returns the eased progress in [0, 1] of the iteration running at
// elapsed, using the descriptor's timing function. Finite descriptors report
// 1 from their total duration on; infinite descriptors loop forever.
func (d Descriptor) Progress(elapsed time.Duration) float32 {
	if d.Duration <= 0 {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	if total, ok := d.TotalDuration(); ok && elapsed >= total {
		return 1
	}
	within := elapsed % d.Duration
	if within == 0 {
		// An exact iteration boundary reads as a finished iteration.
		within = d.Duration
	}
	fn := easingFunc(d.Easing)
	return fn(float32(within.Seconds()), 0, 1, float32(d.Duration.Seconds()))
}

// easingFunc maps a CSS timing-function keyword to a tween function.
// Unrecognized values, including cubic-bezier() expressions that only the
// host can honor, fall back to linear for sampling purposes.
func easingFunc(name string) ease.TweenFunc {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear":
		return ease.Linear
	case "", "ease":
		return ease.InOutSine
	case "ease-in":
		return ease.InQuad
	case "ease-out":
		return ease.OutQuad
	case "ease-in-out":
		return ease.InOutQuad
	case "bounce":
		return ease.OutBounce
	case "elastic":
		return ease.OutElastic
	default:
		return ease.Linear
	}
}

// formatDuration renders a duration as CSS time: whole seconds as "Ns",
// anything finer as milliseconds.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d%time.Second == 0 {
		return fmt.Sprintf("%ds", d/time.Second)
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}
