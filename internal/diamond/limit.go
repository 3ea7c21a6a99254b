package diamond

import (
	"time"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// DailyLimit returns how many diamonds a user may earn per calendar day
func DailyLimit(level int, premium bool) int {
	limit := BaseDailyLimit
	switch {
	case level >= Level25Threshold:
		limit = Level25DailyLimit
	case level >= Level10Threshold:
		limit = Level10DailyLimit
	}
	if premium {
		limit += PremiumDailyBonus
	}
	return limit
}

// EffectiveDaily is the user's daily counter as of today. A counter last
// reset on an earlier day counts as zero.
func EffectiveDaily(user *domain.User, today time.Time) int {
	if user.LastDailyReset == nil || !domain.SameDay(*user.LastDailyReset, today) {
		return 0
	}
	return user.DailyDiamonds
}

func resetIfNewDay(user *domain.User, today time.Time) {
	if user.LastDailyReset != nil && domain.SameDay(*user.LastDailyReset, today) {
		return
	}
	d := today
	user.DailyDiamonds = 0
	user.LastDailyReset = &d
}
