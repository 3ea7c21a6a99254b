package rarity

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// ruleCache keeps active custom rate rules per pack type.
// An empty slice is cached too so packs without rules skip the query.
type ruleCache struct {
	lru *expirable.LRU[string, []domain.RateRule]
}

func newRuleCache(size int, ttl time.Duration) *ruleCache {
	return &ruleCache{
		lru: expirable.NewLRU[string, []domain.RateRule](size, nil, ttl),
	}
}

func (c *ruleCache) Get(packType string) ([]domain.RateRule, bool) {
	return c.lru.Get(packType)
}

func (c *ruleCache) Set(packType string, rules []domain.RateRule) {
	if rules == nil {
		rules = []domain.RateRule{}
	}
	c.lru.Add(packType, rules)
}

// Clear drops every cached pack type
func (c *ruleCache) Clear() {
	c.lru.Purge()
}
