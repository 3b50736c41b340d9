package keyframer

import (
	"strconv"
	"strings"
	"time"

	"github.com/tanema/gween"
)

// SampleTransition returns the style a transition descriptor would show at
// elapsed, interpolating from the given starting declaration toward the
// descriptor's end state with the descriptor's own timing function. Numeric
// values with matching units are tweened; discrete values flip at the
// halfway point, the way CSS animates non-interpolable properties.
//
// Only the end state's properties appear in the result. Descriptors that are
// not transitions sample to nil. Hosts that render styles themselves, and
// the preview tooling, use this to show intermediate frames without a CSS
// engine.
func SampleTransition(from Declaration, d Descriptor, elapsed time.Duration) Declaration {
	if d.Kind != KindTransition || len(d.EndState) == 0 {
		return nil
	}
	if elapsed < 0 {
		elapsed = 0
	}
	duration := d.Duration
	if duration <= 0 || elapsed >= duration {
		return d.EndState.Clone()
	}

	out := make(Declaration, len(d.EndState))
	fn := easingFunc(d.Easing)
	for _, name := range d.EndState.scalarKeys() {
		endText := formatScalar(d.EndState[name])
		fromText := ""
		if from != nil {
			if v, ok := from[name]; ok && isScalar(v) {
				fromText = formatScalar(v)
			}
		}

		endNum, endUnit, endOK := splitNumeric(endText)
		fromNum, fromUnit, fromOK := splitNumeric(fromText)
		if endOK && (fromOK && fromUnit == endUnit || fromText == "") {
			tween := gween.New(float32(fromNum), float32(endNum), float32(duration.Seconds()), fn)
			value, _ := tween.Update(float32(elapsed.Seconds()))
			out[name] = formatSampled(value) + endUnit
			continue
		}

		// Discrete value: hold the start until halfway, then the end.
		if fromText != "" && elapsed*2 < duration {
			out[name] = fromText
		} else {
			out[name] = endText
		}
	}
	return out
}

// splitNumeric splits CSS text like "12.5px" into its leading number and
// trailing unit. ok is false when the text does not start with a number.
func splitNumeric(s string) (num float64, unit string, ok bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' || c == '.' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0, "", false
	}
	num, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, "", false
	}
	return num, s[end:], true
}

// formatSampled renders an interpolated number with at most two decimals.
func formatSampled(v float32) string {
	text := strconv.FormatFloat(float64(v), 'f', 2, 32)
	text = strings.TrimRight(text, "0")
	return strings.TrimRight(text, ".")
}
