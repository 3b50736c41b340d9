package keyframer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestAddKeyframesNormalizesWaypointOrder(t *testing.T) {
	kf := New()

	_, err := kf.AddKeyframes("fade", map[float64]Declaration{
		100: {"opacity": 1},
		0:   {"opacity": 0},
		50:  {"opacity": 0.5},
	})
	require.NoError(t, err)

	snap := kf.Snapshot()
	require.Len(t, snap.Keyframes, 1)
	assert.Equal(t, []float64{0, 50, 100}, snap.Keyframes[0].Waypoints)

	// Emission follows the normalized order too.
	out := kf.Render()
	require.Contains(t, out, "@keyframes fade {")
	assert.Less(t, strings.Index(out, "0% {"), strings.Index(out, "50% {"))
	assert.Less(t, strings.Index(out, "50% {"), strings.Index(out, "100% {"))
}

func TestAddKeyframesFractionalPercents(t *testing.T) {
	kf := New()

	_, err := kf.AddKeyframes("wobble", map[float64]Declaration{
		0:    {"transform": "none"},
		33.3: {"transform": "rotate(2deg)"},
		100:  {"transform": "none"},
	})
	require.NoError(t, err)

	assert.Contains(t, kf.Render(), "33.3% {")
}

func TestAddKeyframesRejectsBadInput(t *testing.T) {
	kf := New()

	tests := []struct {
		name      string
		setName   string
		waypoints map[float64]Declaration
		wantText  string
	}{
		{
			name:      "empty set name",
			setName:   "",
			waypoints: map[float64]Declaration{0: {"opacity": 0}},
			wantText:  "needs a name",
		},
		{
			name:      "no waypoints",
			setName:   "fade",
			waypoints: map[float64]Declaration{},
			wantText:  "no waypoints",
		},
		{
			name:      "percent below range",
			setName:   "fade",
			waypoints: map[float64]Declaration{-10: {"opacity": 0}},
			wantText:  "-10% outside [0, 100]",
		},
		{
			name:      "percent above range",
			setName:   "fade",
			waypoints: map[float64]Declaration{150: {"opacity": 1}},
			wantText:  "150% outside [0, 100]",
		},
		{
			name:      "empty waypoint declaration",
			setName:   "fade",
			waypoints: map[float64]Declaration{50: {}},
			wantText:  "empty declaration at 50%",
		},
		{
			name:    "nested key in waypoint style",
			setName: "fade",
			waypoints: map[float64]Declaration{
				0: {":hover": Declaration{"opacity": 0}},
			},
			wantText: "not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := kf.AddKeyframes(tt.setName, tt.waypoints)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidWaypoint)
			assert.Contains(t, err.Error(), tt.wantText)
		})
	}
}

func TestAddKeyframesReportsAllViolationsTogether(t *testing.T) {
	kf := New()

	_, err := kf.AddKeyframes("fade", map[float64]Declaration{
		-10: {"opacity": 0},
		50:  {},
		150: {"opacity": 1},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWaypoint)
	assert.Len(t, multierr.Errors(err), 3)
}

func TestAddKeyframesFailureLeavesRegistryUntouched(t *testing.T) {
	kf := New()

	_, err := kf.AddKeyframes("fade", map[float64]Declaration{150: {"opacity": 1}})
	require.Error(t, err)

	assert.Empty(t, kf.Snapshot().Keyframes)
	assert.NotContains(t, kf.Render(), "@keyframes")
}

func TestAddKeyframesReplacementKeepsOrder(t *testing.T) {
	kf := New()

	_, err := kf.AddKeyframes("fade", map[float64]Declaration{
		0: {"opacity": 0}, 100: {"opacity": 1},
	})
	require.NoError(t, err)
	_, err = kf.AddKeyframes("spin", map[float64]Declaration{
		0: {"transform": "none"}, 100: {"transform": "rotate(360deg)"},
	})
	require.NoError(t, err)

	// Re-registering fade replaces its content without re-ordering.
	_, err = kf.AddKeyframes("fade", map[float64]Declaration{
		0: {"opacity": 0.2}, 100: {"opacity": 0.9},
	})
	require.NoError(t, err)

	snap := kf.Snapshot()
	require.Len(t, snap.Keyframes, 2)
	assert.Equal(t, "fade", snap.Keyframes[0].Name)
	assert.Equal(t, "spin", snap.Keyframes[1].Name)

	out := kf.Render()
	assert.Contains(t, out, "opacity: 0.2;")
	assert.NotContains(t, out, "opacity: 0;\n")
}

func TestAnimationFactoryNormalizesIterations(t *testing.T) {
	kf := New()

	fade, err := kf.AddKeyframes("fade", map[float64]Declaration{
		0: {"opacity": 0}, 100: {"opacity": 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, fade(time.Second, "linear", 0).Iterations)
	assert.Equal(t, 1, fade(time.Second, "linear", -3).Iterations)
	assert.Equal(t, 4, fade(time.Second, "linear", 4).Iterations)
	assert.Equal(t, IterInfinite, fade(time.Second, "linear", IterInfinite).Iterations)

	d := fade(2*time.Second, "ease-out", 1)
	assert.Equal(t, KindKeyframes, d.Kind)
	assert.Equal(t, "fade", d.Name)
	assert.Equal(t, 2*time.Second, d.Duration)
	assert.Equal(t, "ease-out", d.Easing)
}
