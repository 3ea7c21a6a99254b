package pack

import "time"

// Card catalog cache sizing
const (
	CardCacheSize = 8
	CardCacheTTL  = 5 * time.Minute
)

// Error messages
const (
	ErrMsgReadConfigFailed  = "failed to read pack config: %w"
	ErrMsgParseConfigFailed = "failed to parse pack config: %w"
	ErrMsgSchemaFailed      = "schema validation failed for %s: %w"
	ErrMsgNoPacksDefined    = "no packs defined"
	ErrMsgDuplicatePackFmt  = "%w: duplicate pack type %q"
	ErrMsgBeginTxFailed     = "failed to begin transaction: %w"
	ErrMsgGetUserFailed     = "failed to get user: %w"
	ErrMsgSpendFailed       = "failed to charge pack: %w"
	ErrMsgDrawFailed        = "failed to draw card %d: %w"
	ErrMsgGetCardsFailed    = "failed to load cards: %w"
	ErrMsgAddCardFailed     = "failed to add card: %w"
	ErrMsgUpdateUserFailed  = "failed to update user: %w"
	ErrMsgCommitFailed      = "failed to commit transaction: %w"
)

// DescPackOpenFmt is the ledger description of a pack purchase
const DescPackOpenFmt = "Opened %s"

// Log messages
const (
	LogMsgCatalogLoaded = "Pack catalog loaded"
	LogMsgPackOpened    = "Pack opened"
	LogMsgPackRejected  = "Pack purchase rejected"
	LogMsgCardFallback  = "No cards for drawn rarity, using a lower tier"
)
