// Package pack sells card packs. Opening one charges the pack cost, draws a
// rarity per card, picks a card of that rarity and adds it to the user's
// collection, all in one transaction.
package pack

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/RewardEngine_Go/internal/diamond"
	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/repository"
	"github.com/osse101/RewardEngine_Go/internal/utils"
)

// Drawer draws one rarity inside a transaction
type Drawer interface {
	DrawTx(ctx context.Context, q repository.Queries, userID, packType string) (domain.Rarity, error)
}

// Service defines pack operations
type Service interface {
	// Open buys and opens one pack. A balance shortfall is returned as a
	// *domain.Rejection error and charges nothing.
	Open(ctx context.Context, userID, packType string) (*domain.PackOpening, error)
	Packs() []domain.PackDefinition
}

type service struct {
	repo    repository.Store
	catalog *Catalog
	drawer  Drawer
	bus     event.Publisher
	cards   *expirable.LRU[domain.Rarity, []domain.Card]
	rnd     func() float64
	now     func() time.Time
}

// NewService creates a new pack service
func NewService(repo repository.Store, catalog *Catalog, drawer Drawer, bus event.Publisher) Service {
	return &service{
		repo:    repo,
		catalog: catalog,
		drawer:  drawer,
		bus:     bus,
		cards:   expirable.NewLRU[domain.Rarity, []domain.Card](CardCacheSize, nil, CardCacheTTL),
		rnd:     utils.RandomFloat,
		now:     time.Now,
	}
}

func (s *service) Packs() []domain.PackDefinition {
	return s.catalog.List()
}

func (s *service) Open(ctx context.Context, userID, packType string) (*domain.PackOpening, error) {
	log := logger.FromContext(ctx)
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}
	def, err := s.catalog.Get(packType)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	user, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}

	spend, err := diamond.ApplySpend(ctx, tx, user, diamond.Request{
		UserID:      userID,
		Amount:      def.Cost,
		Source:      domain.TxPackPurchase,
		Description: fmt.Sprintf(DescPackOpenFmt, def.DisplayName),
		Ref:         &domain.Reference{ID: def.Type, Type: domain.RelatedPack},
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgSpendFailed, err)
	}
	if !spend.Applied {
		log.Info(LogMsgPackRejected, "user_id", userID, "pack_type", packType, "cost", def.Cost, "balance", user.CurrentDiamonds)
		return nil, spend.Rejection
	}

	cards := make([]domain.Card, 0, def.CardCount)
	for i := 0; i < def.CardCount; i++ {
		r, err := s.drawer.DrawTx(ctx, tx, userID, packType)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgDrawFailed, i+1, err)
		}
		card, err := s.pickCard(ctx, tx, r)
		if err != nil {
			return nil, err
		}
		if err := tx.AddUserCard(ctx, userID, card.ID, 1); err != nil {
			return nil, fmt.Errorf(ErrMsgAddCardFailed, err)
		}
		cards = append(cards, card)
	}

	if err := tx.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf(ErrMsgUpdateUserFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	counts, effects, total := Summarize(cards)
	opening := &domain.PackOpening{
		PackType:       packType,
		Cards:          cards,
		RarityCount:    counts,
		SpecialEffects: effects,
		TotalValue:     total,
		NewBalance:     user.CurrentDiamonds,
	}

	log.Info(LogMsgPackOpened, "user_id", userID, "pack_type", packType,
		"celebration", effects.CelebrationLevel, "total_value", total)

	_ = event.Emit(ctx, s.bus, event.NewDiamondsEvent(event.DiamondsSpent, userID, def.Cost, domain.TxPackPurchase, user.CurrentDiamonds))
	_ = event.Emit(ctx, s.bus, event.New(event.PackOpened, domain.PackOpenedPayload{
		UserID:      userID,
		Username:    user.Username,
		PackType:    packType,
		RarityCount: counts,
		BestRarity:  BestRarity(cards),
		TotalValue:  total,
		Timestamp:   s.now().Unix(),
	}))
	return opening, nil
}

// pickCard chooses a card of rarity r. When the catalog has no card of that
// tier the next lower tier with cards is used.
func (s *service) pickCard(ctx context.Context, q repository.Card, r domain.Rarity) (domain.Card, error) {
	for rank := r.Rank(); rank >= 0; rank-- {
		tier := domain.Rarities[rank]
		cards, err := s.cardsOf(ctx, q, tier)
		if err != nil {
			return domain.Card{}, err
		}
		if len(cards) == 0 {
			logger.FromContext(ctx).Warn(LogMsgCardFallback, "rarity", tier)
			continue
		}
		return cards[utils.PickIndex(s.rnd(), len(cards))], nil
	}
	return domain.Card{}, fmt.Errorf("%w: %s", domain.ErrNoCardsForRarity, r)
}

func (s *service) cardsOf(ctx context.Context, q repository.Card, r domain.Rarity) ([]domain.Card, error) {
	if cards, ok := s.cards.Get(r); ok {
		return cards, nil
	}
	cards, err := q.GetCardsByRarity(ctx, r)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetCardsFailed, err)
	}
	s.cards.Add(r, cards)
	return cards, nil
}
