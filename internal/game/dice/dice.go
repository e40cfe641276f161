// Package dice provides the randomness abstraction used for crit and damage
// rolls in combat resolution.
package dice

// Source is the randomness provider for rolls.
//
// Implementations returned by this package are safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// percentScale is the resolution of Chance: hundredths of a percent.
const percentScale = 100

// Chance reports whether a roll against percent succeeds.
//
// Precondition: src must be non-nil.
// Postcondition: percent <= 0 always fails; percent >= 100 always succeeds.
func Chance(src Source, percent float64) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	return float64(src.Intn(100*percentScale)) < percent*percentScale
}

// Between returns a value uniformly drawn from [lo, hi] at integer resolution
// above lo. When hi <= lo it returns lo without consuming randomness.
//
// Precondition: src must be non-nil.
// Postcondition: lo <= result <= max(lo, hi).
func Between(src Source, lo, hi float64) float64 {
	span := int(hi - lo)
	if span <= 0 {
		return lo
	}
	return lo + float64(src.Intn(span+1))
}
