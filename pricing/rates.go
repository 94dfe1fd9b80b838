// Package pricing implements the rate card of the house: discrete blocks of
// days (Tuesday–Friday, Friday–Sunday, Saturday–Sunday, Tuesday–Sunday) that
// are priced as single units, plus special holiday dates. Everything here is
// pure; nothing touches the database.
package pricing

import (
	"encoding/json"
	"os"
)

// Special date kinds.
const (
	SpecialNavidad  = "navidad"
	SpecialFinAnio  = "finAnio"
	SpecialCarnaval = "carnaval"
)

// RateCard holds the block prices in ARS and the special-date overrides.
// It is configuration, not logic: season or year changes ship as a new JSON
// file, not a code edit.
type RateCard struct {
	TuesdayToFriday int `json:"tuesdayToFriday"`
	FridayToSunday  int `json:"fridayToSunday"`
	Weekend         int `json:"weekend"`
	TuesdayToSunday int `json:"tuesdayToSunday"`
	Navidad         int `json:"navidad"`
	FinAnio         int `json:"finAnio"`
	Carnaval        int `json:"carnaval"`

	// SpecialDates maps YYYY-MM-DD to a special kind. These only affect the
	// informational per-day price label, never the block detection.
	SpecialDates map[string]string `json:"specialDates"`
}

// DefaultRateCard returns the current season's rates.
func DefaultRateCard() *RateCard {
	return &RateCard{
		TuesdayToFriday: 400000,
		FridayToSunday:  375000,
		Weekend:         250000,
		TuesdayToSunday: 650000,
		Navidad:         450000,
		FinAnio:         450000,
		Carnaval:        500000,
		SpecialDates: map[string]string{
			"2025-12-24": SpecialNavidad,
			"2025-12-25": SpecialNavidad,
			"2025-12-31": SpecialFinAnio,
			"2026-01-01": SpecialFinAnio,
			"2026-02-14": SpecialCarnaval,
			"2026-02-15": SpecialCarnaval,
			"2026-02-16": SpecialCarnaval,
			"2026-02-17": SpecialCarnaval,
		},
	}
}

var active = DefaultRateCard()

// Active returns the rate card currently in use.
func Active() *RateCard {
	return active
}

// LoadRateCard reads a JSON rate card from path and makes it active.
func LoadRateCard(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	card := DefaultRateCard()
	if err := json.Unmarshal(data, card); err != nil {
		return err
	}
	active = card
	return nil
}

// LoadFromEnv loads PRICING_CONFIG if set, otherwise keeps the defaults.
func LoadFromEnv() error {
	path := os.Getenv("PRICING_CONFIG")
	if path == "" {
		return nil
	}
	return LoadRateCard(path)
}

// PriceOfBlock returns the price of a detected block.
func (rc *RateCard) PriceOfBlock(blockType BlockType) int {
	switch blockType {
	case BlockTuesdayToFriday:
		return rc.TuesdayToFriday
	case BlockFridayToSunday:
		return rc.FridayToSunday
	case BlockWeekend:
		return rc.Weekend
	case BlockTuesdayToSunday:
		return rc.TuesdayToSunday
	}
	return 0
}

func (rc *RateCard) specialPrice(kind string) int {
	switch kind {
	case SpecialNavidad:
		return rc.Navidad
	case SpecialFinAnio:
		return rc.FinAnio
	case SpecialCarnaval:
		return rc.Carnaval
	}
	return 0
}

// PriceForDate returns the informational per-day label for a single date.
// It is display-only: block totals never come from summing these. Mondays
// are the cleaning day and always cost zero.
func (rc *RateCard) PriceForDate(date string) (int, error) {
	dow, err := DayOfWeek(date)
	if err != nil {
		return 0, err
	}
	if dow == 1 {
		return 0, nil
	}
	if kind, ok := rc.SpecialDates[date]; ok {
		return rc.specialPrice(kind), nil
	}
	if dow == 0 || dow == 6 {
		return rc.Weekend / 2, nil
	}
	return rc.TuesdayToFriday / 4, nil
}

// Quote is the result of pricing a selection: the complete blocks found,
// their combined price, and any dates that belong to no complete block.
// A selection with unclaimed dates is not confirmable.
type Quote struct {
	Blocks    []Block  `json:"blocks"`
	Total     int      `json:"total"`
	Unclaimed []string `json:"unclaimed"`
}

// QuoteDates prices a date selection.
func (rc *RateCard) QuoteDates(dates []string) (*Quote, error) {
	blocks, unclaimed, err := DetectCoverage(dates)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, b := range blocks {
		total += rc.PriceOfBlock(b.Type)
	}
	return &Quote{Blocks: blocks, Total: total, Unclaimed: unclaimed}, nil
}

// TotalPrice sums the prices of all complete blocks in the selection.
// Unclaimed dates contribute nothing.
func (rc *RateCard) TotalPrice(dates []string) (int, error) {
	quote, err := rc.QuoteDates(dates)
	if err != nil {
		return 0, err
	}
	return quote.Total, nil
}
