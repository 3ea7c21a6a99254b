// Package announce posts notable reward events to a Discord channel
// through a webhook. Posting happens on the worker pool, off the request path.
package announce

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/worker"
)

// Sender executes a Discord webhook. *discordgo.Session satisfies it.
type Sender interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Enqueuer accepts jobs without blocking
type Enqueuer interface {
	Enqueue(job worker.Job) bool
}

// Announcer turns events into webhook posts
type Announcer struct {
	sender    Sender
	pool      Enqueuer
	webhookID string
	token     string
	title     cases.Caser
}

// ParseWebhookURL splits https://discord.com/api/webhooks/{id}/{token}
func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf(ErrMsgInvalidWebhookURL, raw)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf(ErrMsgInvalidWebhookURL, raw)
}

// New creates an announcer posting through sender to the webhook at webhookURL
func New(sender Sender, pool Enqueuer, webhookURL string) (*Announcer, error) {
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	return &Announcer{
		sender:    sender,
		pool:      pool,
		webhookID: id,
		token:     token,
		title:     cases.Title(language.English),
	}, nil
}

// NewSession returns a session that can only execute webhooks
func NewSession() (*discordgo.Session, error) {
	return discordgo.New("")
}

// Register subscribes to the events worth announcing
func (a *Announcer) Register(bus event.Bus) {
	bus.Subscribe(event.BadgeAwarded, a.HandleEvent)
	bus.Subscribe(event.StreakMilestone, a.HandleEvent)
	bus.Subscribe(event.PackOpened, a.HandleEvent)
}

// HandleEvent queues a post for events worth announcing. It never fails the
// publisher.
func (a *Announcer) HandleEvent(ctx context.Context, evt event.Event) error {
	embed, err := a.Embed(evt)
	if err != nil {
		logger.FromContext(ctx).Debug(LogMsgAnnouncementDropped, "type", evt.Type, "error", err)
		return nil
	}
	if embed == nil {
		return nil
	}
	if !a.pool.Enqueue(&postJob{a: a, embed: embed}) {
		logger.FromContext(ctx).Warn(LogMsgAnnouncementDropped, "type", evt.Type, "reason", "queue full")
	}
	return nil
}

// Embed builds the message for evt, or nil when evt is not announced
func (a *Announcer) Embed(evt event.Event) (*discordgo.MessageEmbed, error) {
	switch evt.Type {
	case event.BadgeAwarded:
		p, err := event.DecodePayload[domain.BadgeAwardedPayload](evt.Payload)
		if err != nil {
			return nil, err
		}
		return a.embed(TitleBadge, ColorBadge, p.Timestamp,
			fmt.Sprintf(DescBadgeFmt, displayName(p.Username), p.BadgeName)), nil

	case event.StreakMilestone:
		p, err := event.DecodePayload[domain.StreakMilestonePayload](evt.Payload)
		if err != nil {
			return nil, err
		}
		if p.Days < MinMilestoneDays {
			return nil, nil
		}
		return a.embed(TitleMilestone, ColorMilestone, p.Timestamp,
			fmt.Sprintf(DescMilestoneFmt, displayName(p.Username), p.Days, p.Diamonds)), nil

	case event.PackOpened:
		p, err := event.DecodePayload[domain.PackOpenedPayload](evt.Payload)
		if err != nil {
			return nil, err
		}
		if p.BestRarity != domain.RarityLegendary {
			return nil, nil
		}
		return a.embed(TitleLegendary, ColorLegendary, p.Timestamp,
			fmt.Sprintf(DescLegendaryFmt, displayName(p.Username), a.display(string(p.BestRarity)), a.display(p.PackType))), nil
	}
	return nil, nil
}

func (a *Announcer) embed(title string, color int, unix int64, description string) *discordgo.MessageEmbed {
	ts := time.Now()
	if unix > 0 {
		ts = time.Unix(unix, 0)
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   ts.UTC().Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: FooterText},
	}
}

// display turns values like "LEGENDARY" or "premium" into "Legendary" and "Premium"
func (a *Announcer) display(s string) string {
	return a.title.String(strings.ToLower(strings.ReplaceAll(s, "_", " ")))
}

func displayName(username string) string {
	if username == "" {
		return AnonymousName
	}
	return username
}

type postJob struct {
	a     *Announcer
	embed *discordgo.MessageEmbed
}

func (j *postJob) Name() string { return "discord_announce" }

func (j *postJob) Process(ctx context.Context) error {
	_, err := j.a.sender.WebhookExecute(j.a.webhookID, j.a.token, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{j.embed},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf(ErrMsgPostFailed, err)
	}
	logger.FromContext(ctx).Debug(LogMsgAnnouncementPosted, "title", j.embed.Title)
	return nil
}
