package pack

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/utils"
	"github.com/osse101/RewardEngine_Go/internal/validation"
)

// ErrInvalidConfig is returned for a pack file that passes the schema but is unusable
var ErrInvalidConfig = errors.New("invalid pack configuration")

// Config is the JSON pack file
type Config struct {
	Version     string                  `json:"version"`
	Description string                  `json:"description"`
	Packs       []domain.PackDefinition `json:"packs"`
}

// Catalog is the set of purchasable packs
type Catalog struct {
	packs map[string]domain.PackDefinition
}

// LoadCatalog reads the pack file, checks it against its schema and indexes it
func LoadCatalog(path, schemaPath string, v validation.SchemaValidator) (*Catalog, error) {
	data, err := utils.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadConfigFailed, err)
	}
	if v != nil {
		if err := v.ValidateBytes(data, schemaPath); err != nil {
			return nil, fmt.Errorf(ErrMsgSchemaFailed, path, err)
		}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(ErrMsgParseConfigFailed, err)
	}
	return NewCatalog(cfg.Packs...)
}

// NewCatalog indexes pack definitions by type
func NewCatalog(defs ...domain.PackDefinition) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, ErrMsgNoPacksDefined)
	}
	c := &Catalog{packs: make(map[string]domain.PackDefinition, len(defs))}
	for _, def := range defs {
		if def.Type == "" || def.Cost <= 0 || def.CardCount <= 0 {
			return nil, fmt.Errorf("%w: pack %q needs a type, a positive cost and a positive card count", ErrInvalidConfig, def.Type)
		}
		if _, dup := c.packs[def.Type]; dup {
			return nil, fmt.Errorf(ErrMsgDuplicatePackFmt, ErrInvalidConfig, def.Type)
		}
		c.packs[def.Type] = def
	}
	return c, nil
}

// Get returns the definition of packType
func (c *Catalog) Get(packType string) (domain.PackDefinition, error) {
	def, ok := c.packs[packType]
	if !ok {
		return domain.PackDefinition{}, fmt.Errorf("%w: %q", domain.ErrPackTypeNotFound, packType)
	}
	return def, nil
}

// List returns every pack, cheapest first
func (c *Catalog) List() []domain.PackDefinition {
	out := make([]domain.PackDefinition, 0, len(c.packs))
	for _, def := range c.packs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost < out[j].Cost
		}
		return out[i].Type < out[j].Type
	})
	return out
}
