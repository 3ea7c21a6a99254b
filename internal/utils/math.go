package utils

import (
	"math/rand"
)

// RandomFloat returns a random float64 in [0.0, 1.0)
func RandomFloat() float64 {
	return rand.Float64() //nolint:gosec // Reward randomness, not security critical
}

// RandomIndex returns a random index in [0, n). n must be positive.
func RandomIndex(n int) int {
	if n <= 1 {
		return 0
	}
	return rand.Intn(n) //nolint:gosec // Reward randomness, not security critical
}

// PickIndex maps a roll in [0, 1) onto [0, n)
func PickIndex(roll float64, n int) int {
	if n <= 1 {
		return 0
	}
	i := int(roll * float64(n))
	return Clamp(i, 0, n-1)
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Percent returns value as a whole percentage of target, capped at 100.
// A non-positive target counts as complete.
func Percent(value, target int) int {
	if target <= 0 {
		return 100
	}
	if value <= 0 {
		return 0
	}
	p := int(int64(value) * 100 / int64(target))
	return Clamp(p, 0, 100)
}
