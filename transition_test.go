package keyframer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionFactoryDefaults(t *testing.T) {
	kf := New()

	grow, err := kf.Transition(TransitionConfig{
		Duration: 250 * time.Millisecond,
		Easing:   "ease-out",
		Style:    Declaration{"opacity": 1},
	})
	require.NoError(t, err)

	// Zero arguments fall back to the configured timing.
	d := grow(0, "", 0)
	assert.Equal(t, KindTransition, d.Kind)
	assert.Equal(t, 250*time.Millisecond, d.Duration)
	assert.Equal(t, "ease-out", d.Easing)
	assert.Equal(t, 1, d.Iterations)
	assert.Equal(t, Declaration{"opacity": 1}, d.EndState)

	// Non-zero arguments override the configuration.
	d = grow(time.Second, "linear", 2)
	assert.Equal(t, time.Second, d.Duration)
	assert.Equal(t, "linear", d.Easing)
	assert.Equal(t, 2, d.Iterations)
}

func TestTransitionRejectsBadConfig(t *testing.T) {
	kf := New()

	_, err := kf.Transition(TransitionConfig{Duration: time.Second})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDeclaration)

	_, err = kf.Transition(TransitionConfig{
		Duration: time.Second,
		Style:    Declaration{":hover": Declaration{"opacity": 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDeclaration)
}

func TestTransitionDescriptorsAreIndependent(t *testing.T) {
	kf := New()

	grow, err := kf.Transition(TransitionConfig{
		Duration: time.Second,
		Style:    Declaration{"opacity": 1},
	})
	require.NoError(t, err)

	d1 := grow(0, "", 0)
	d1.EndState["opacity"] = 0.2

	// Each minted descriptor carries its own copy of the end state.
	d2 := grow(0, "", 0)
	assert.Equal(t, 1, d2.EndState["opacity"])
}

func TestTransitionConfigIsDetached(t *testing.T) {
	kf := New()

	cfg := TransitionConfig{
		Duration: time.Second,
		Style:    Declaration{"opacity": 1},
	}
	grow, err := kf.Transition(cfg)
	require.NoError(t, err)

	// Mutating the config after the fact changes nothing.
	cfg.Style["opacity"] = 0

	d := grow(0, "", 0)
	assert.Equal(t, 1, d.EndState["opacity"])
}
