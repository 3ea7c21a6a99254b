package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Reward metric names
const (
	MetricNameDiamondsEarned      = "diamonds_earned_total"
	MetricNameDiamondsSpent       = "diamonds_spent_total"
	MetricNameBalanceAdjustments  = "balance_adjustments_total"
	MetricNamePacksOpened         = "packs_opened_total"
	MetricNameCardsDrawn          = "cards_drawn_total"
	MetricNameStreakMilestones    = "streak_milestones_total"
	MetricNameDailyLoginClaims    = "daily_login_claims_total"
	MetricNameBadgesAwarded       = "badges_awarded_total"
	MetricNameLevelUps            = "level_ups_total"
	MetricNameActivitiesCompleted = "activities_completed_total"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Reward metric help text
const (
	HelpTextDiamondsEarned      = "Total diamonds credited, by source"
	HelpTextDiamondsSpent       = "Total diamonds debited, by source"
	HelpTextBalanceAdjustments  = "Total admin balance adjustments"
	HelpTextPacksOpened         = "Total packs opened, by pack type"
	HelpTextCardsDrawn          = "Total cards drawn, by rarity"
	HelpTextStreakMilestones    = "Total streak milestones paid, by days"
	HelpTextDailyLoginClaims    = "Total daily login claims, by cycle day"
	HelpTextBadgesAwarded       = "Total badges awarded, by badge"
	HelpTextLevelUps            = "Total level ups"
	HelpTextActivitiesCompleted = "Total activity attempts, by type and first clear"
)

// Label names
const (
	LabelMethod     = "method"
	LabelPath       = "path"
	LabelStatus     = "status"
	LabelType       = "type"
	LabelSource     = "source"
	LabelPackType   = "pack_type"
	LabelRarity     = "rarity"
	LabelDays       = "days"
	LabelDay        = "day"
	LabelBadge      = "badge"
	LabelFirstClear = "first_clear"
)

// PathUnmatched labels requests that matched no route
const PathUnmatched = "unmatched"

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Log messages
const (
	LogMsgEventPayloadInvalid = "Event payload could not be decoded"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
