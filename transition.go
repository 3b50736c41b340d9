package keyframer

import (
	"fmt"
	"time"
)

// TransitionConfig describes a transition: the timing to animate with and
// the end-state declaration to animate to. The end state holds scalar
// properties only; nested pseudo or at-rule keys are rejected.
type TransitionConfig struct {
	Duration time.Duration
	Easing   string
	Style    Declaration
}

// Transition builds an animation factory from cfg, the transition-flavored
// counterpart of the factory returned by AddKeyframes. The factory's
// arguments override the configured duration and easing when non-zero, so
// factory(0, "", 0) animates with cfg's own timing. The minted descriptor
// carries the end-state declaration as its payload instead of a keyframe
// name.
func (k *Keyframer) Transition(cfg TransitionConfig) (AnimationFactory, error) {
	if len(cfg.Style) == 0 {
		return nil, fmt.Errorf("%w: transition end state is empty", ErrInvalidDeclaration)
	}
	end, err := normalizeDeclaration(cfg.Style, false)
	if err != nil {
		return nil, fmt.Errorf("transition end state: %w", err)
	}

	factory := func(duration time.Duration, easing string, iterations int) Descriptor {
		if duration <= 0 {
			duration = cfg.Duration
		}
		if easing == "" {
			easing = cfg.Easing
		}
		if iterations < 1 && iterations != IterInfinite {
			iterations = 1
		}
		return Descriptor{
			Kind:       KindTransition,
			EndState:   end.Clone(),
			Duration:   duration,
			Easing:     easing,
			Iterations: iterations,
		}
	}
	return factory, nil
}
