package estimate

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PriceProvider resolves a price-per-pound for a material in a region. It is
// an external collaborator boundary: callers treat failures as recoverable
// and decide their own fallback.
type PriceProvider interface {
	GetPricePerPound(ctx context.Context, materialKey, region string) (float64, error)
}

// fallback constants, $/lb
const (
	fallbackSteelPrice     = 0.85
	fallbackStainlessPrice = 2.60
	fallbackAluminumPrice  = 2.10
	fallbackDefaultPrice   = 1.00
)

// PriceBook is a file-backed provider with per-region material prices and
// static fallbacks for anything the file does not cover.
type PriceBook struct {
	Regions  map[string]map[string]float64 `yaml:"regions"`
	Fallback map[string]float64            `yaml:"fallback"`
	Default  float64                       `yaml:"default"`
}

// LoadPriceBook reads a YAML price book. An empty path returns a book that
// only serves the static fallbacks.
func LoadPriceBook(path string) (*PriceBook, error) {
	book := &PriceBook{}
	if path == "" {
		return book, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read price book: %w", err)
	}
	if err := yaml.Unmarshal(data, book); err != nil {
		return nil, fmt.Errorf("parse price book: %w", err)
	}
	return book, nil
}

// GetPricePerPound looks up region+material, then the file's fallback table,
// then the built-in constants. It never fails for a non-empty material key.
func (b *PriceBook) GetPricePerPound(_ context.Context, materialKey, region string) (float64, error) {
	key := strings.ToLower(strings.TrimSpace(materialKey))
	if key == "" {
		return 0, fmt.Errorf("empty material key")
	}
	if prices, ok := b.Regions[region]; ok {
		if p, ok := prices[key]; ok && p > 0 {
			return p, nil
		}
	}
	if p, ok := b.Fallback[key]; ok && p > 0 {
		return p, nil
	}
	if b.Default > 0 {
		return b.Default, nil
	}
	return staticPrice(key), nil
}

func staticPrice(key string) float64 {
	switch key {
	case "steel":
		return fallbackSteelPrice
	case "stainless":
		return fallbackStainlessPrice
	case "aluminum":
		return fallbackAluminumPrice
	}
	return fallbackDefaultPrice
}
