// Package level maps accumulated experience to user levels.
//
// Advancing from level L to L+1 costs BaseXP * L^Exponent, so the cumulative
// requirement for level N is the sum of that cost over 1..N-1. Everyone starts
// at level 1 with zero experience.
package level

import (
	"math"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

const (
	BaseXP   = 100.0
	Exponent = 1.5

	// MinLevel is the level of a user with no experience
	MinLevel = 1

	// MaxLevel bounds the search loop
	MaxLevel = 500
)

// stepCost is the XP needed to go from level l to l+1
func stepCost(l int) int64 {
	return int64(BaseXP * math.Pow(float64(l), Exponent))
}

// XPForLevel returns the cumulative experience required to reach level
func XPForLevel(level int) int64 {
	if level <= MinLevel {
		return 0
	}
	var cumulative int64
	for l := MinLevel; l < level; l++ {
		cumulative += stepCost(l)
	}
	return cumulative
}

// FromExperience determines the level for a total experience amount
func FromExperience(xp int64) int {
	lvl, _ := levelAndNext(xp)
	return lvl
}

// Progress returns the current level and the experience still needed for the next one
func Progress(xp int64) (current int, toNext int64) {
	current, next := levelAndNext(xp)
	return current, next - xp
}

func levelAndNext(xp int64) (int, int64) {
	lvl := MinLevel
	var cumulative int64
	for lvl < MaxLevel {
		cost := stepCost(lvl)
		if cumulative+cost > xp {
			return lvl, cumulative + cost
		}
		cumulative += cost
		lvl++
	}
	return lvl, cumulative + stepCost(lvl)
}

// Apply adds xp to the user and recomputes their level.
// It reports whether the level went up.
func Apply(user *domain.User, xp int64) bool {
	if xp <= 0 {
		return false
	}
	old := user.Level
	user.Experience += xp
	user.Level = FromExperience(user.Experience)
	return user.Level > old
}
