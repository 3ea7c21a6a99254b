package domain

import "time"

// ActivityType distinguishes lessons, quizzes and coding exercises
type ActivityType string

const (
	ActivityLesson   ActivityType = "lesson"
	ActivityQuiz     ActivityType = "quiz"
	ActivityExercise ActivityType = "exercise"
	ActivityLogin    ActivityType = "login"
)

// TransactionType returns the ledger cause for completing this kind of activity
func (t ActivityType) TransactionType() TransactionType {
	switch t {
	case ActivityLesson:
		return TxLessonCompletion
	case ActivityQuiz:
		return TxQuizCompletion
	default:
		return TxActivityCompletion
	}
}

// Activity is a catalog entry that pays out once on first completion
type Activity struct {
	ID               string       `json:"id"`
	Type             ActivityType `json:"type"`
	Title            string       `json:"title"`
	Category         string       `json:"category"`
	DiamondReward    int          `json:"diamond_reward"`
	ExperienceReward int64        `json:"experience_reward"`
	PassingScore     int          `json:"passing_score"`
}

// ActivityAttempt is the per-(user, activity) singleton. Completed never reverts.
type ActivityAttempt struct {
	UserID           string     `json:"user_id"`
	ActivityID       string     `json:"activity_id"`
	Attempts         int        `json:"attempts"`
	BestScore        int        `json:"best_score"`
	Completed        bool       `json:"completed"`
	TimeSpentSeconds int        `json:"time_spent_seconds"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Rewards is the reward block of a grant response
type Rewards struct {
	Diamonds   int            `json:"diamonds"`
	Experience int64          `json:"experience"`
	LevelUp    bool           `json:"levelUp"`
	NewLevel   *int           `json:"newLevel,omitempty"`
	Badges     []AwardedBadge `json:"badges"`
}

// Progression reports experience before and after a grant
type Progression struct {
	Previous int64 `json:"previous"`
	Current  int64 `json:"current"`
	Earned   int64 `json:"earned"`
}

// SideEffect is the outcome of one best-effort step run after the primary commit
type SideEffect struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RewardGrant is the reward grant response. SideEffects never affect Success.
type RewardGrant struct {
	Success     bool            `json:"success"`
	Rewards     Rewards         `json:"rewards"`
	Progression Progression     `json:"progression"`
	Attempt     ActivityAttempt `json:"attempt"`
	FirstClear  bool            `json:"firstClear"`
	Rejection   *Rejection      `json:"rejection,omitempty"`
	Streak      *StreakResult   `json:"streak,omitempty"`
	SideEffects []SideEffect    `json:"sideEffects,omitempty"`
}
