package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Reward Metrics
var (
	DiamondsEarned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDiamondsEarned,
			Help: HelpTextDiamondsEarned,
		},
		[]string{LabelSource},
	)

	DiamondsSpent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDiamondsSpent,
			Help: HelpTextDiamondsSpent,
		},
		[]string{LabelSource},
	)

	BalanceAdjustments = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBalanceAdjustments,
			Help: HelpTextBalanceAdjustments,
		},
	)

	PacksOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePacksOpened,
			Help: HelpTextPacksOpened,
		},
		[]string{LabelPackType},
	)

	CardsDrawn = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCardsDrawn,
			Help: HelpTextCardsDrawn,
		},
		[]string{LabelRarity},
	)

	StreakMilestones = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStreakMilestones,
			Help: HelpTextStreakMilestones,
		},
		[]string{LabelDays},
	)

	DailyLoginClaims = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDailyLoginClaims,
			Help: HelpTextDailyLoginClaims,
		},
		[]string{LabelDay},
	)

	BadgesAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBadgesAwarded,
			Help: HelpTextBadgesAwarded,
		},
		[]string{LabelBadge},
	)

	LevelUps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLevelUps,
			Help: HelpTextLevelUps,
		},
	)

	ActivitiesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameActivitiesCompleted,
			Help: HelpTextActivitiesCompleted,
		},
		[]string{LabelType, LabelFirstClear},
	)
)
