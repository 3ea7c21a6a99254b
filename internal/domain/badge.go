package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// RuleType selects how a badge rule reads its metric
type RuleType string

const (
	RuleTypeCount        RuleType = "count"
	RuleTypeStreak       RuleType = "streak"
	RuleTypeSkillMastery RuleType = "skill_mastery"
	RuleTypeLevel        RuleType = "level"
	RuleTypeDiamonds     RuleType = "diamonds"
	RuleTypeCollection   RuleType = "collection"
)

// RuleCondition is the typed definition of a badge rule.
// Each rule type has exactly one implementation.
type RuleCondition interface {
	RuleType() RuleType
}

// CountCondition counts completed activities matching the filters
type CountCondition struct {
	ActivityType ActivityType `json:"activity_type,omitempty"`
	Category     string       `json:"category,omitempty"`
	MinScore     int          `json:"min_score,omitempty"`
}

// StreakCondition reads the current streak, or the longest one
type StreakCondition struct {
	UseLongest bool `json:"use_longest,omitempty"`
}

// SkillMasteryCondition reads the stored mastery percentage for a skill
type SkillMasteryCondition struct {
	Skill string `json:"skill"`
}

// LevelCondition reads the user's level
type LevelCondition struct{}

// DiamondsCondition reads lifetime diamonds, or the current balance
type DiamondsCondition struct {
	Current bool `json:"current,omitempty"`
}

// CollectionCondition counts owned cards at or above a rarity
type CollectionCondition struct {
	MinRarity Rarity `json:"min_rarity,omitempty"`
	Distinct  bool   `json:"distinct,omitempty"`
}

func (CountCondition) RuleType() RuleType        { return RuleTypeCount }
func (StreakCondition) RuleType() RuleType       { return RuleTypeStreak }
func (SkillMasteryCondition) RuleType() RuleType { return RuleTypeSkillMastery }
func (LevelCondition) RuleType() RuleType        { return RuleTypeLevel }
func (DiamondsCondition) RuleType() RuleType     { return RuleTypeDiamonds }
func (CollectionCondition) RuleType() RuleType   { return RuleTypeCollection }

// DecodeRuleCondition turns a stored (rule_type, metric, definition) triple into
// its typed condition. metric fills the skill name when the definition omits it.
func DecodeRuleCondition(ruleType RuleType, metric string, definition []byte) (RuleCondition, error) {
	if len(definition) == 0 {
		definition = []byte("{}")
	}

	var cond RuleCondition
	var err error
	switch ruleType {
	case RuleTypeCount:
		var c CountCondition
		err = json.Unmarshal(definition, &c)
		cond = c
	case RuleTypeStreak:
		var c StreakCondition
		err = json.Unmarshal(definition, &c)
		cond = c
	case RuleTypeSkillMastery:
		var c SkillMasteryCondition
		err = json.Unmarshal(definition, &c)
		if c.Skill == "" {
			c.Skill = metric
		}
		cond = c
	case RuleTypeLevel:
		cond = LevelCondition{}
	case RuleTypeDiamonds:
		var c DiamondsCondition
		err = json.Unmarshal(definition, &c)
		cond = c
	case RuleTypeCollection:
		var c CollectionCondition
		err = json.Unmarshal(definition, &c)
		cond = c
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidRuleType, ruleType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s rule definition: %w", ruleType, err)
	}
	return cond, nil
}

// BadgeRule is one weighted condition attached to a badge
type BadgeRule struct {
	ID        int           `json:"id"`
	BadgeID   int           `json:"badge_id"`
	Metric    string        `json:"metric"`
	Target    int           `json:"target"`
	Weight    float64       `json:"weight"`
	Condition RuleCondition `json:"-"`
}

// Badge is a one-time reward definition
type Badge struct {
	ID               int         `json:"id"`
	Key              string      `json:"key"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	RewardDiamonds   int         `json:"reward_diamonds"`
	RewardExperience int64       `json:"reward_experience"`
	IsActive         bool        `json:"is_active"`
	Rules            []BadgeRule `json:"rules"`
}

// UserBadge is a user's progress toward one badge
type UserBadge struct {
	UserID      string     `json:"user_id"`
	BadgeID     int        `json:"badge_id"`
	Progress    int        `json:"progress"`
	IsUnlocked  bool       `json:"is_unlocked"`
	IsCompleted bool       `json:"is_completed"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AwardedBadge is reported when evaluation completes a badge
type AwardedBadge struct {
	BadgeID          int       `json:"badge_id"`
	Key              string    `json:"key"`
	Name             string    `json:"name"`
	RewardDiamonds   int       `json:"reward_diamonds"`
	RewardExperience int64     `json:"reward_experience"`
	EarnedAt         time.Time `json:"earned_at"`
}

// BadgeProgress is one row of a user's badge list
type BadgeProgress struct {
	BadgeID     int        `json:"badge_id"`
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Progress    int        `json:"progress"`
	IsUnlocked  bool       `json:"is_unlocked"`
	IsCompleted bool       `json:"is_completed"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
}
