package domain

import (
	"errors"
	"fmt"
	"os"
	"sort"

	toml "github.com/pelletier/go-toml/v2"
)

type Code string

const DefaultCurrency Code = "INR"

// CurrencyInfo describes one entry of the rate catalog: the display symbol,
// the ordered per-minute rates the hall offers, and the rate preselected
// when none is given.
type CurrencyInfo struct {
	Symbol      string
	Rates       []float64
	DefaultRate float64
}

func (c CurrencyInfo) HasRate(rate float64) bool {
	for _, r := range c.Rates {
		if r == rate {
			return true
		}
	}
	return false
}

// Catalog maps currency codes to their rate configuration. It is resolved
// once at startup and read-only afterwards.
type Catalog map[Code]CurrencyInfo

// DefaultCatalog returns the built-in currency and rate configuration.
func DefaultCatalog() Catalog {
	return Catalog{
		"INR": {Symbol: "₹", Rates: []float64{3, 3.5, 4, 4.5, 5}, DefaultRate: 4},
		"USD": {Symbol: "$", Rates: []float64{0.10, 0.12, 0.15}, DefaultRate: 0.10},
		"EUR": {Symbol: "€", Rates: []float64{0.09, 0.11, 0.14}, DefaultRate: 0.09},
		"GBP": {Symbol: "£", Rates: []float64{0.08, 0.10, 0.12}, DefaultRate: 0.08},
	}
}

func (c Catalog) Lookup(code Code) (CurrencyInfo, error) {
	info, ok := c[code]
	if !ok {
		return CurrencyInfo{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return info, nil
}

// ResolveRate validates a requested per-minute rate against the catalog
// entry for the given currency. A zero rate selects the currency's default.
func (c Catalog) ResolveRate(code Code, rate float64) (float64, error) {
	info, err := c.Lookup(code)
	if err != nil {
		return 0, err
	}
	if rate == 0 {
		return info.DefaultRate, nil
	}
	if !info.HasRate(rate) {
		return 0, fmt.Errorf("%w: %.2f (%s offers %v)", ErrRateNotOffered, rate, code, info.Rates)
	}
	return rate, nil
}

// Codes returns the catalog's currency codes in lexical order.
func (c Catalog) Codes() []Code {
	codes := make([]Code, 0, len(c))
	for code := range c {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

type catalogOverrideSchema struct {
	Currencies map[string]currencyOverrideSchema `toml:"currencies"`
}

type currencyOverrideSchema struct {
	Symbol      string    `toml:"symbol"`
	Rates       []float64 `toml:"rates"`
	DefaultRate float64   `toml:"default_rate"`
}

// LoadCatalog builds the runtime catalog: the built-in entries, overlaid
// with any entries from the override file at path. A missing file is fine;
// a present but invalid file is an error, since silently ignoring a broken
// price list would bill customers at the wrong rates.
func LoadCatalog(path string) (Catalog, error) {
	catalog := DefaultCatalog()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return catalog, nil
		}
		return nil, fmt.Errorf("read rate catalog: %w", err)
	}

	var overrides catalogOverrideSchema
	if err := toml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("decode rate catalog: %w", err)
	}

	for rawCode, entry := range overrides.Currencies {
		code := Code(rawCode)
		info := CurrencyInfo{
			Symbol:      entry.Symbol,
			Rates:       entry.Rates,
			DefaultRate: entry.DefaultRate,
		}
		if existing, ok := catalog[code]; ok {
			if info.Symbol == "" {
				info.Symbol = existing.Symbol
			}
			if len(info.Rates) == 0 {
				info.Rates = existing.Rates
			}
			if info.DefaultRate == 0 {
				info.DefaultRate = existing.DefaultRate
			}
		}
		if err := validateCatalogEntry(code, info); err != nil {
			return nil, err
		}
		catalog[code] = info
	}

	return catalog, nil
}

func validateCatalogEntry(code Code, info CurrencyInfo) error {
	if info.Symbol == "" {
		return fmt.Errorf("rate catalog %s: symbol is required", code)
	}
	if len(info.Rates) == 0 {
		return fmt.Errorf("rate catalog %s: rates must not be empty", code)
	}
	for _, r := range info.Rates {
		if r <= 0 {
			return fmt.Errorf("rate catalog %s: rate %.2f must be positive", code, r)
		}
	}
	if !info.HasRate(info.DefaultRate) {
		return fmt.Errorf("rate catalog %s: default rate %.2f is not in the rate list", code, info.DefaultRate)
	}
	return nil
}
