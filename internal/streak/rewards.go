package streak

import "github.com/osse101/RewardEngine_Go/internal/domain"

// Milestones are paid when the streak reaches exactly Days
var Milestones = []domain.StreakMilestone{
	{Days: 3, Diamonds: 10, Experience: 20},
	{Days: 7, Diamonds: 25, Experience: 50},
	{Days: 14, Diamonds: 60, Experience: 120},
	{Days: 30, Diamonds: 150, Experience: 300},
	{Days: 50, Diamonds: 300, Experience: 600},
	{Days: 100, Diamonds: 750, Experience: 1500},
	{Days: 200, Diamonds: 1500, Experience: 3000},
	{Days: 365, Diamonds: 3500, Experience: 7000},
}

// MilestoneAt returns the milestone for a streak of exactly days
func MilestoneAt(days int) (domain.StreakMilestone, bool) {
	for _, m := range Milestones {
		if m.Days == days {
			return m, true
		}
	}
	return domain.StreakMilestone{}, false
}

// NextMilestone returns the first milestone above days, or nil past the last
func NextMilestone(days int) *domain.StreakMilestone {
	for _, m := range Milestones {
		if m.Days > days {
			next := m
			return &next
		}
	}
	return nil
}

// CycleLength is the number of entries in the daily login table
const CycleLength = 7

// LoginWeek is the rotating daily login table
var LoginWeek = [CycleLength]domain.DailyLoginReward{
	{Day: 1, Diamonds: 10, Experience: 20},
	{Day: 2, Diamonds: 15, Experience: 25},
	{Day: 3, Diamonds: 20, Experience: 30},
	{Day: 4, Diamonds: 25, Experience: 35},
	{Day: 5, Diamonds: 30, Experience: 40},
	{Day: 6, Diamonds: 40, Experience: 50},
	{Day: 7, Diamonds: 50, Experience: 75, IsSpecial: true},
}

// SpecialBonus is paid on top of the day-7 entry
var SpecialBonus = domain.DailyLoginBonus{Diamonds: 100, Experience: 150}

// CycleDay maps the consecutive days before today's claim to the table day.
// prev is 0 for a first claim or after a missed day.
func CycleDay(prev int) int {
	if prev < 0 {
		prev = 0
	}
	return prev%CycleLength + 1
}
