package badge

import (
	"context"
	"fmt"
	"math"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/repository"
	"github.com/osse101/RewardEngine_Go/internal/utils"
)

// MetricSource is what rule conditions are read from
type MetricSource interface {
	repository.Metrics
	repository.Streak
	repository.Card
}

// metrics reads rule values for one user, loading shared rows once
type metrics struct {
	src    MetricSource
	user   *domain.User
	streak *domain.LoginStreak
	loaded bool
}

func newMetrics(src MetricSource, user *domain.User) *metrics {
	return &metrics{src: src, user: user}
}

func (m *metrics) loginStreak(ctx context.Context) (*domain.LoginStreak, error) {
	if m.loaded {
		return m.streak, nil
	}
	st, err := m.src.GetStreak(ctx, m.user.ID)
	if err != nil {
		return nil, err
	}
	m.streak, m.loaded = st, true
	return st, nil
}

// Value returns the current value of a rule's metric
func (m *metrics) Value(ctx context.Context, cond domain.RuleCondition) (int, error) {
	switch c := cond.(type) {
	case domain.CountCondition:
		return m.src.CountCompletedActivities(ctx, m.user.ID, c.ActivityType, c.Category, c.MinScore)
	case domain.StreakCondition:
		st, err := m.loginStreak(ctx)
		if err != nil || st == nil {
			return 0, err
		}
		if c.UseLongest {
			return st.LongestStreak, nil
		}
		return st.CurrentStreak, nil
	case domain.SkillMasteryCondition:
		return m.src.GetSkillMastery(ctx, m.user.ID, c.Skill)
	case domain.LevelCondition:
		return m.user.Level, nil
	case domain.DiamondsCondition:
		if c.Current {
			return m.user.CurrentDiamonds, nil
		}
		return m.user.TotalDiamonds, nil
	case domain.CollectionCondition:
		minRarity := c.MinRarity
		if minRarity == "" {
			minRarity = domain.RarityCommon
		}
		return m.src.CountUserCards(ctx, m.user.ID, minRarity, c.Distinct)
	case nil:
		return 0, fmt.Errorf("%w: missing condition", domain.ErrInvalidRuleType)
	default:
		return 0, fmt.Errorf("%w: %T", domain.ErrInvalidRuleType, cond)
	}
}

// Part is one evaluated rule
type Part struct {
	Percent int
	Weight  float64
}

// Combine merges rule percentages by weight. With no positive weight every
// rule counts the same. A badge without rules stays at 0.
func Combine(parts []Part) int {
	if len(parts) == 0 {
		return 0
	}
	if len(parts) == 1 {
		return parts[0].Percent
	}

	var weighted, totalWeight float64
	for _, p := range parts {
		if p.Weight <= 0 {
			continue
		}
		weighted += float64(p.Percent) * p.Weight
		totalWeight += p.Weight
	}
	if totalWeight == 0 {
		for _, p := range parts {
			weighted += float64(p.Percent)
		}
		totalWeight = float64(len(parts))
	}
	return utils.Clamp(int(math.Floor(weighted/totalWeight+1e-9)), 0, 100)
}

// Progress evaluates every rule of b for the user
func (m *metrics) Progress(ctx context.Context, b domain.Badge) (int, error) {
	parts := make([]Part, 0, len(b.Rules))
	for _, rule := range b.Rules {
		value, err := m.Value(ctx, rule.Condition)
		if err != nil {
			return 0, fmt.Errorf(ErrMsgMetricFailed, rule.Metric, b.Key, err)
		}
		parts = append(parts, Part{Percent: utils.Percent(value, rule.Target), Weight: rule.Weight})
	}
	return Combine(parts), nil
}
