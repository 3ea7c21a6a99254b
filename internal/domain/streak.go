package domain

import "time"

// LoginStreak is the per-user streak singleton
type LoginStreak struct {
	UserID           string    `json:"user_id"`
	CurrentStreak    int       `json:"current_streak"`
	LongestStreak    int       `json:"longest_streak"`
	LastActivityDate time.Time `json:"last_activity_date"`
	TotalDays        int       `json:"total_days"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StreakMilestone is a fixed reward for reaching an exact streak length
type StreakMilestone struct {
	Days       int   `json:"days"`
	Diamonds   int   `json:"diamonds"`
	Experience int64 `json:"experience"`
}

// MilestoneStatus is a milestone as seen by one user
type MilestoneStatus struct {
	StreakMilestone
	Achieved bool `json:"achieved"`
}

// StreakResult is the outcome of recording one activity
type StreakResult struct {
	Streak          int              `json:"streak"`
	LongestStreak   int              `json:"longestStreak"`
	IsNewRecord     bool             `json:"isNewRecord"`
	AlreadyRecorded bool             `json:"alreadyRecorded"`
	Broken          bool             `json:"broken"`
	MilestoneReward *StreakMilestone `json:"milestoneReward,omitempty"`
	LevelUp         bool             `json:"levelUp"`
	NewLevel        int              `json:"newLevel,omitempty"`
}

// StreakStatus is the streak status response
type StreakStatus struct {
	CurrentStreak int               `json:"currentStreak"`
	LongestStreak int               `json:"longestStreak"`
	TotalLogins   int               `json:"totalLogins"`
	Milestones    []MilestoneStatus `json:"milestones"`
	NextMilestone *StreakMilestone  `json:"nextMilestone"`
}

// UserDailyLogin is the per-user 7-day login cycle singleton
type UserDailyLogin struct {
	UserID              string     `json:"user_id"`
	ConsecutiveDays     int        `json:"consecutive_days"`
	LastLoginDate       *time.Time `json:"last_login_date,omitempty"`
	TotalLogins         int        `json:"total_logins"`
	TotalEarnedDiamonds int        `json:"total_earned_diamonds"`
	TotalEarnedXP       int64      `json:"total_earned_xp"`
}

// DailyLoginReward is one entry of the rotating 7-day table
type DailyLoginReward struct {
	Day        int   `json:"day"`
	Diamonds   int   `json:"diamonds"`
	Experience int64 `json:"experience"`
	IsSpecial  bool  `json:"isSpecial"`
}

// DailyLoginResult is returned by a successful claim
type DailyLoginResult struct {
	Day             int              `json:"day"`
	Reward          DailyLoginReward `json:"reward"`
	SpecialBonus    *DailyLoginBonus `json:"specialBonus,omitempty"`
	IsSpecial       bool             `json:"isSpecial"`
	Diamonds        int              `json:"diamonds"`
	Experience      int64            `json:"experience"`
	ConsecutiveDays int              `json:"consecutiveDays"`
	NewBalance      int              `json:"newBalance"`
	LevelUp         bool             `json:"levelUp"`
	NewLevel        int              `json:"newLevel,omitempty"`
}

// DailyLoginBonus is paid on top of the day-7 table entry
type DailyLoginBonus struct {
	Diamonds   int   `json:"diamonds"`
	Experience int64 `json:"experience"`
}

// DailyLoginStatus previews the next claim
type DailyLoginStatus struct {
	ConsecutiveDays int                `json:"consecutiveDays"`
	ClaimedToday    bool               `json:"claimedToday"`
	NextDay         int                `json:"nextDay"`
	TotalLogins     int                `json:"totalLogins"`
	Week            []DailyLoginReward `json:"week"`
}
