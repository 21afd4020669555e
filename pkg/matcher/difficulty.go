package matcher

import (
	"math"

	"github.com/defidude/revanity/pkg/identity"
)

// KeysPerSecPerCore is a conservative single-core throughput used to turn
// expected attempts into wall-clock estimates.
const KeysPerSecPerCore = 5000

// Difficulty is a closed-form cost estimate for a pattern. Known is false
// for regex patterns, which have no closed form.
type Difficulty struct {
	ExpectedAttempts uint64
	Known            bool
	SecondsPerCore   float64
	Description      string
}

// Estimate predicts the expected number of attempts to find a match,
// assuming each hex nibble of the address is independent and uniform.
//
// For contains patterns the expectation is divided by the number of
// possible start positions. This union-bound approximation ignores
// overlapping-match correlation and slightly under-counts; it is kept
// as-is deliberately.
func Estimate(s Spec) Difficulty {
	if s.Mode == Regex {
		return Difficulty{Description: "Cannot estimate for regex"}
	}

	n := len(s.Pattern)
	expected := pow16(n)

	if s.Mode == Contains {
		positions := identity.HexAddressLen - n + 1
		if positions < 1 {
			positions = 1
		}
		expected /= uint64(positions)
	}

	return Difficulty{
		ExpectedAttempts: expected,
		Known:            true,
		SecondsPerCore:   float64(expected) / KeysPerSecPerCore,
		Description:      describe(expected),
	}
}

// pow16 computes 16^n, saturating at MaxUint64. Saturation only kicks in
// for patterns of 16+ chars, far past anything searchable; the value is
// display-only at that point.
func pow16(n int) uint64 {
	v := uint64(1)
	for i := 0; i < n; i++ {
		if v > math.MaxUint64/16 {
			return math.MaxUint64
		}
		v *= 16
	}
	return v
}

func describe(expected uint64) string {
	switch {
	case expected < 100:
		return "Instant"
	case expected < 100_000:
		return "Seconds"
	case expected < 10_000_000:
		return "Minutes"
	case expected < 1_000_000_000:
		return "Hours"
	case expected < 100_000_000_000:
		return "Days"
	default:
		return "Weeks+ (consider a shorter pattern)"
	}
}
