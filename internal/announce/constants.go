package announce

// MinMilestoneDays is the shortest streak milestone worth announcing
const MinMilestoneDays = 30

// Embed colors
const (
	ColorBadge     = 0x3498db
	ColorMilestone = 0xe67e22
	ColorLegendary = 0xf1c40f
)

// Messages
const (
	TitleBadge       = "🏅 Badge Earned"
	TitleMilestone   = "🔥 Streak Milestone"
	TitleLegendary   = "✨ Legendary Pull"
	DescBadgeFmt     = "**%s** earned the **%s** badge!"
	DescMilestoneFmt = "**%s** kept a %d day streak going and earned %d diamonds."
	DescLegendaryFmt = "**%s** pulled a %s card from a %s pack!"
	FooterText       = "Reward Engine"
	AnonymousName    = "A learner"
)

// Error messages
const (
	ErrMsgInvalidWebhookURL = "invalid discord webhook url %q"
	ErrMsgPostFailed        = "failed to post announcement: %w"
)

// Log messages
const (
	LogMsgAnnouncementPosted  = "Announcement posted"
	LogMsgAnnouncementDropped = "Announcement dropped"
	LogMsgAnnouncerDisabled   = "Discord webhook not configured, announcements disabled"
)
