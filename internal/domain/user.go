package domain

import "time"

// User represents a learner and their mutable progression counters.
// CurrentDiamonds may fall below TotalDiamonds; TotalDiamonds never decreases.
type User struct {
	ID              string     `json:"id"`
	Username        string     `json:"username"`
	IsPremium       bool       `json:"is_premium"`
	CurrentDiamonds int        `json:"current_diamonds"`
	TotalDiamonds   int        `json:"total_diamonds"`
	DailyDiamonds   int        `json:"daily_diamonds"`
	LastDailyReset  *time.Time `json:"last_daily_reset,omitempty"`
	Experience      int64      `json:"experience"`
	Level           int        `json:"level"`
	LoginStreak     int        `json:"login_streak"`
	MaxLoginStreak  int        `json:"max_login_streak"`
	LastLoginDate   *time.Time `json:"last_login_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DateOf truncates t to its calendar day in loc. The result is midnight UTC of
// that day so it compares cleanly with DATE columns.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b are the same calendar date.
// Both are expected to come from DateOf.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
