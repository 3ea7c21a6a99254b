package pack

import "github.com/osse101/RewardEngine_Go/internal/domain"

// Summarize counts the opened cards per rarity, adds up their value and
// picks the reveal effects.
func Summarize(cards []domain.Card) (map[domain.Rarity]int, domain.SpecialEffects, int) {
	counts := make(map[domain.Rarity]int, len(domain.Rarities))
	for _, r := range domain.Rarities {
		counts[r] = 0
	}

	total := 0
	rareOrBetter := 0
	best := domain.RarityCommon
	for _, c := range cards {
		counts[c.Rarity]++
		total += c.Value
		if c.Rarity.AtLeast(domain.RarityRare) {
			rareOrBetter++
		}
		if c.Rarity.Rank() > best.Rank() {
			best = c.Rarity
		}
	}

	effects := domain.SpecialEffects{
		HasEpicOrLegendary: best.AtLeast(domain.RarityEpic),
		HasMultipleRare:    rareOrBetter > 1,
		CelebrationLevel:   celebration(best),
	}
	return counts, effects, total
}

// BestRarity returns the highest tier among cards
func BestRarity(cards []domain.Card) domain.Rarity {
	best := domain.RarityCommon
	for _, c := range cards {
		if c.Rarity.Rank() > best.Rank() {
			best = c.Rarity
		}
	}
	return best
}

func celebration(best domain.Rarity) string {
	switch best {
	case domain.RarityLegendary:
		return domain.CelebrationLegendary
	case domain.RarityEpic:
		return domain.CelebrationEpic
	case domain.RarityRare:
		return domain.CelebrationRare
	default:
		return domain.CelebrationNormal
	}
}
