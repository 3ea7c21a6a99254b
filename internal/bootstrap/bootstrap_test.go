package bootstrap

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardEngine_Go/internal/config"
	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/eventlog"
	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/worker"
)

type recordingEnqueuer struct {
	mu   sync.Mutex
	jobs []worker.Job
}

func (r *recordingEnqueuer) Enqueue(job worker.Job) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
	return true
}

type nopSender struct{}

func (nopSender) WebhookExecute(string, string, bool, *discordgo.WebhookParams, ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{}, nil
}

func TestLoggerConfig(t *testing.T) {
	cfg := &config.Config{
		LogLevel:    "debug",
		LogFormat:   "json",
		LogDir:      "logs",
		Environment: logger.EnvironmentDev,
		Version:     "1.2.3",
	}

	lc := LoggerConfig(cfg)
	assert.Equal(t, filepath.Join("logs", LogFileName), lc.FilePath)
	assert.True(t, lc.AddSource)
	assert.Equal(t, "1.2.3", lc.Version)

	cfg.LogDir = ""
	cfg.Environment = "prod"
	lc = LoggerConfig(cfg)
	assert.Empty(t, lc.FilePath)
	assert.False(t, lc.AddSource)
}

func TestInitializeEventSystem_Defaults(t *testing.T) {
	cfg := &config.Config{EventDeadLetterPath: filepath.Join(t.TempDir(), "dl", "events.jsonl")}

	bus, publisher, err := InitializeEventSystem(cfg)
	require.NoError(t, err)
	require.NotNil(t, bus)
	require.NotNil(t, publisher)
	assert.DirExists(t, filepath.Dir(cfg.EventDeadLetterPath))
	require.NoError(t, publisher.Shutdown(context.Background()))
}

func TestRegisterEventHandlers_WithoutWebhook(t *testing.T) {
	repo := new(eventlog.MockRepository)
	repo.On("LogEvent", mock.Anything, "badge.awarded", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	bus := event.NewMemoryBus()
	jobs := &recordingEnqueuer{}
	err := RegisterEventHandlers(EventHandlerDependencies{
		EventBus:        bus,
		EventLogService: eventlog.NewService(repo),
		Jobs:            jobs,
		Config:          &config.Config{},
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), event.New(event.BadgeAwarded, domain.BadgeAwardedPayload{
		UserID:   "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d",
		BadgeKey: "first_steps",
	})))

	repo.AssertExpectations(t)
	assert.Empty(t, jobs.jobs)
}

func TestRegisterEventHandlers_AnnouncerQueuesMilestones(t *testing.T) {
	repo := new(eventlog.MockRepository)
	repo.On("LogEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	bus := event.NewMemoryBus()
	jobs := &recordingEnqueuer{}
	err := RegisterEventHandlers(EventHandlerDependencies{
		EventBus:        bus,
		EventLogService: eventlog.NewService(repo),
		Jobs:            jobs,
		Config:          &config.Config{DiscordWebhookURL: "https://discord.com/api/webhooks/123/abc"},
		Sender:          nopSender{},
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, event.New(event.StreakMilestone, domain.StreakMilestonePayload{
		UserID: "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", Days: 7, Diamonds: 50,
	})))
	require.NoError(t, bus.Publish(ctx, event.New(event.StreakMilestone, domain.StreakMilestonePayload{
		UserID: "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", Days: 30, Diamonds: 300,
	})))

	require.Len(t, jobs.jobs, 1)
	assert.NoError(t, jobs.jobs[0].Process(ctx))
}

func TestRegisterEventHandlers_BadWebhookURL(t *testing.T) {
	err := RegisterEventHandlers(EventHandlerDependencies{
		EventBus:        event.NewMemoryBus(),
		EventLogService: eventlog.NewService(new(eventlog.MockRepository)),
		Jobs:            &recordingEnqueuer{},
		Config:          &config.Config{DiscordWebhookURL: "https://example.com/not-a-webhook"},
		Sender:          nopSender{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgFailedCreateAnnouncer)
}

type stopRecorder struct {
	order *[]string
	err   error
}

func (s stopRecorder) Stop(context.Context) error {
	*s.order = append(*s.order, "server")
	return s.err
}

type closeRecorder struct {
	order *[]string
	name  string
}

func (c closeRecorder) Close() {
	*c.order = append(*c.order, c.name)
}

type errCloser struct {
	order *[]string
}

func (c errCloser) Close() error {
	*c.order = append(*c.order, "log")
	return nil
}

func TestGracefulShutdown_Order(t *testing.T) {
	var order []string

	GracefulShutdown(context.Background(), ShutdownComponents{
		Server:    stopRecorder{order: &order, err: errors.New("deadline exceeded")},
		DBPool:    closeRecorder{order: &order, name: "db"},
		LogCloser: errCloser{order: &order},
	})

	assert.Equal(t, []string{"server", "db", "log"}, order)
}

func TestGracefulShutdown_NilComponents(t *testing.T) {
	assert.NotPanics(t, func() {
		GracefulShutdown(context.Background(), ShutdownComponents{})
	})
}
