package rarity

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// pityTier is the pity configuration of one tier. Hard pity guarantees the
// tier once its counter reaches Hard. Past Soft, the tier's rate grows by
// Step per draw of overshoot, up to Cap. A counter equal to Soft has no
// overshoot yet.
type pityTier struct {
	Rarity  domain.Rarity
	Hard    int
	Soft    int
	Step    decimal.Decimal
	Cap     decimal.Decimal
	counter func(domain.PityCounters) int
}

// pityTiers is ordered by precedence: the highest guarantee wins
var pityTiers = []pityTier{
	{
		Rarity: domain.RarityLegendary, Hard: 200, Soft: 100,
		Step: decimal.RequireFromString("0.1"), Cap: decimal.NewFromInt(10),
		counter: func(p domain.PityCounters) int { return p.SinceLegendary },
	},
	{
		Rarity: domain.RarityEpic, Hard: 100, Soft: 50,
		Step: decimal.RequireFromString("0.3"), Cap: decimal.NewFromInt(15),
		counter: func(p domain.PityCounters) int { return p.SinceEpic },
	},
	{
		Rarity: domain.RarityRare, Hard: 20, Soft: 15,
		Step: decimal.NewFromInt(4), Cap: decimal.NewFromInt(20),
		counter: func(p domain.PityCounters) int { return p.SinceRare },
	},
}

// ComputePity counts, for each tier, the draws since the most recent draw of
// that tier or higher. recent must be newest first. A tier never drawn in the
// window counts the whole window.
func ComputePity(recent []domain.Rarity) domain.PityCounters {
	return domain.PityCounters{
		SinceRare:      drawsSince(recent, domain.RarityRare),
		SinceEpic:      drawsSince(recent, domain.RarityEpic),
		SinceLegendary: drawsSince(recent, domain.RarityLegendary),
	}
}

func drawsSince(recent []domain.Rarity, tier domain.Rarity) int {
	for i, r := range recent {
		if r.AtLeast(tier) {
			return i
		}
	}
	return len(recent)
}

// HardPity returns the guaranteed tier for the next draw, if any
func HardPity(p domain.PityCounters) (domain.Rarity, bool) {
	for _, t := range pityTiers {
		if t.counter(p) >= t.Hard {
			return t.Rarity, true
		}
	}
	return "", false
}

// SoftPityBonus is the extra rate, in percentage points, added to tier
func SoftPityBonus(tier domain.Rarity, p domain.PityCounters) decimal.Decimal {
	for _, t := range pityTiers {
		if t.Rarity != tier {
			continue
		}
		count := t.counter(p)
		if count <= t.Soft {
			return decimal.Zero
		}
		bonus := t.Step.Mul(decimal.NewFromInt(int64(count - t.Soft)))
		return decimal.Min(bonus, t.Cap)
	}
	return decimal.Zero
}
