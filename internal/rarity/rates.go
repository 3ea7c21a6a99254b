package rarity

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// Rates maps every tier to a percentage
type Rates map[domain.Rarity]decimal.Decimal

var hundred = decimal.NewFromInt(100)

// BaseRates are the odds before custom rules and pity
func BaseRates() Rates {
	return Rates{
		domain.RarityCommon:    decimal.NewFromInt(60),
		domain.RarityUncommon:  decimal.NewFromInt(25),
		domain.RarityRare:      decimal.NewFromInt(10),
		domain.RarityEpic:      decimal.NewFromInt(4),
		domain.RarityLegendary: decimal.NewFromInt(1),
	}
}

// WithRules overrides base rates with active custom rules
func WithRules(base Rates, rules []domain.RateRule) Rates {
	out := make(Rates, len(base))
	for k, v := range base {
		out[k] = v
	}
	for _, rule := range rules {
		if rule.Rarity.Rank() < 0 {
			continue
		}
		out[rule.Rarity] = decimal.NewFromFloat(rule.Rate)
	}
	return out
}

// WithSoftPity adds the soft pity bonus of each tier
func WithSoftPity(rates Rates, p domain.PityCounters) Rates {
	out := make(Rates, len(rates))
	for k, v := range rates {
		out[k] = v
	}
	for _, r := range domain.Rarities {
		if bonus := SoftPityBonus(r, p); bonus.IsPositive() {
			out[r] = out[r].Add(bonus)
		}
	}
	return out
}

// Normalize scales rates so they sum to exactly 100. Negative rates count as
// zero and an all-zero table falls back to BaseRates. Rounding leftovers go
// to the largest tier.
func Normalize(rates Rates) Rates {
	clean := make(Rates, len(domain.Rarities))
	total := decimal.Zero
	for _, r := range domain.Rarities {
		v := rates[r]
		if v.IsNegative() {
			v = decimal.Zero
		}
		clean[r] = v
		total = total.Add(v)
	}
	if total.IsZero() {
		clean = BaseRates()
		total = hundred
	}

	out := make(Rates, len(domain.Rarities))
	sum := decimal.Zero
	largest := domain.RarityCommon
	for _, r := range domain.Rarities {
		v := clean[r].Mul(hundred).Div(total).Round(RateScale)
		out[r] = v
		sum = sum.Add(v)
		if v.GreaterThan(out[largest]) {
			largest = r
		}
	}
	if residual := hundred.Sub(sum); !residual.IsZero() {
		out[largest] = out[largest].Add(residual)
	}
	return out
}

// Sum adds every tier's rate
func Sum(rates Rates) decimal.Decimal {
	total := decimal.Zero
	for _, r := range domain.Rarities {
		total = total.Add(rates[r])
	}
	return total
}

// Pick walks the cumulative intervals from COMMON to LEGENDARY with a roll in
// [0, 1). Rolls past the last interval land on COMMON.
func Pick(rates Rates, roll float64) domain.Rarity {
	target := decimal.NewFromFloat(roll).Mul(hundred)
	cumulative := decimal.Zero
	for _, r := range domain.Rarities {
		rate := rates[r]
		if !rate.IsPositive() {
			continue
		}
		cumulative = cumulative.Add(rate)
		if target.LessThan(cumulative) {
			return r
		}
	}
	return domain.RarityCommon
}

// Floats converts rates for JSON responses
func (r Rates) Floats() map[domain.Rarity]float64 {
	out := make(map[domain.Rarity]float64, len(r))
	for k, v := range r {
		out[k] = v.InexactFloat64()
	}
	return out
}
