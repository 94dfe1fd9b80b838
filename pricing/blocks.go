package pricing

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/exp/slices"
)

// ISODate is the wire format for calendar dates.
const ISODate = "2006-01-02"

// ErrInvalidDate is returned for any date string that is not YYYY-MM-DD.
// Malformed input is a caller bug, never silently priced as zero.
var ErrInvalidDate = errors.New("invalid date, want YYYY-MM-DD")

// BlockType names a contiguous span of days priced as one unit.
type BlockType string

const (
	BlockTuesdayToFriday BlockType = "tuesdayToFriday"
	BlockFridayToSunday  BlockType = "fridayToSunday"
	BlockWeekend         BlockType = "weekend"
	BlockTuesdayToSunday BlockType = "tuesdayToSunday"
)

// Block is a detected rate unit and the dates it claims.
type Block struct {
	Type  BlockType `json:"type"`
	Dates []string  `json:"dates"`
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(ISODate, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t, nil
}

// DayOfWeek returns 0..6 with 0 = Sunday.
func DayOfWeek(date string) (int, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}

// IsMonday reports whether the date is the cleaning day. Mondays are never
// selectable and never priced.
func IsMonday(date string) (bool, error) {
	dow, err := DayOfWeek(date)
	if err != nil {
		return false, err
	}
	return dow == 1, nil
}

func addDays(t time.Time, n int) string {
	return t.AddDate(0, 0, n).Format(ISODate)
}

func spanFrom(start time.Time, days int) []string {
	dates := make([]string, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, addDays(start, i))
	}
	return dates
}

// TuesdayToFridayDates returns the 4-day Tuesday–Friday block containing the
// date, or nil if the date falls outside Tuesday..Friday.
func TuesdayToFridayDates(date string) ([]string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	dow := int(t.Weekday())
	if dow < 2 || dow > 5 {
		return nil, nil
	}
	tuesday := t.AddDate(0, 0, -(dow - 2))
	return spanFrom(tuesday, 4), nil
}

// FridayToSundayDates returns the 3-day Friday–Sunday block starting at the
// date, or nil if the date is not a Friday.
func FridayToSundayDates(date string) ([]string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	if t.Weekday() != time.Friday {
		return nil, nil
	}
	return spanFrom(t, 3), nil
}

// WeekendDates returns the Saturday–Sunday pair containing the date, or nil
// if the date is neither.
func WeekendDates(date string) ([]string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	switch t.Weekday() {
	case time.Saturday:
		return spanFrom(t, 2), nil
	case time.Sunday:
		return spanFrom(t.AddDate(0, 0, -1), 2), nil
	}
	return nil, nil
}

// TuesdayToSundayDates returns the 6-day full week (Tuesday through Sunday,
// Monday excluded) containing the date, or nil for Mondays.
func TuesdayToSundayDates(date string) ([]string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	dow := int(t.Weekday())
	switch {
	case dow >= 2:
		return spanFrom(t.AddDate(0, 0, -(dow-2)), 6), nil
	case dow == 0:
		return spanFrom(t.AddDate(0, 0, -5), 6), nil
	}
	return nil, nil
}

// BlockDatesFor returns the default block a click on the date expands to:
// Tue/Wed/Thu select their Tuesday–Friday block, Friday selects
// Friday–Sunday, Saturday and Sunday select the weekend pair. Whether a
// Friday should instead extend an already-selected Tuesday–Thursday run is
// the caller's decision. Mondays expand to nothing.
func BlockDatesFor(date string) ([]string, error) {
	dow, err := DayOfWeek(date)
	if err != nil {
		return nil, err
	}
	switch {
	case dow >= 2 && dow <= 4:
		return TuesdayToFridayDates(date)
	case dow == 5:
		return FridayToSundayDates(date)
	case dow == 6 || dow == 0:
		return WeekendDates(date)
	}
	return nil, nil
}

// normalizeSelection validates, dedupes, sorts and drops Mondays.
func normalizeSelection(dates []string) ([]string, error) {
	seen := make(map[string]bool, len(dates))
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		monday, err := IsMonday(d)
		if err != nil {
			return nil, err
		}
		if monday || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}

func allSelected(block []string, selected map[string]bool) bool {
	for _, d := range block {
		if !selected[d] {
			return false
		}
	}
	return true
}

func noneClaimed(block []string, claimed map[string]bool) bool {
	for _, d := range block {
		if claimed[d] {
			return false
		}
	}
	return true
}

func claim(blockType BlockType, dates []string, claimed map[string]bool, blocks []Block) []Block {
	for _, d := range dates {
		claimed[d] = true
	}
	return append(blocks, Block{Type: blockType, Dates: dates})
}

// DetectCoverage partitions a date selection into complete rate blocks.
// The scan is deterministic and greedy, left to right over the sorted
// selection, so any permutation of the input yields the same partition:
//
//  1. A selection that is exactly one Tuesday–Sunday week collapses into a
//     single tuesdayToSunday block (the merge rule: Tue–Fri plus the same
//     week's Sat–Sun is one unit, not two).
//  2. Otherwise each date is tested against its Tuesday–Friday block, then
//     (Fridays only, when not inside a complete Tuesday–Friday) the
//     Friday–Sunday block, then the weekend pair. A block is detected only
//     when all of its dates are selected and none was claimed before.
//
// Dates that complete no block are returned as unclaimed; they carry no
// price and the selection should not be confirmable.
func DetectCoverage(dates []string) ([]Block, []string, error) {
	sorted, err := normalizeSelection(dates)
	if err != nil {
		return nil, nil, err
	}
	if len(sorted) == 0 {
		return nil, nil, nil
	}

	if len(sorted) == 6 {
		week, err := TuesdayToSundayDates(sorted[0])
		if err != nil {
			return nil, nil, err
		}
		if week != nil && slices.Equal(sorted, week) {
			return []Block{{Type: BlockTuesdayToSunday, Dates: week}}, nil, nil
		}
	}

	selected := make(map[string]bool, len(sorted))
	for _, d := range sorted {
		selected[d] = true
	}

	var blocks []Block
	var unclaimed []string
	claimed := make(map[string]bool, len(sorted))

	for _, d := range sorted {
		if claimed[d] {
			continue
		}
		dow, err := DayOfWeek(d)
		if err != nil {
			return nil, nil, err
		}

		if dow >= 2 && dow <= 5 {
			tueFri, _ := TuesdayToFridayDates(d)
			if allSelected(tueFri, selected) && noneClaimed(tueFri, claimed) {
				blocks = claim(BlockTuesdayToFriday, tueFri, claimed, blocks)
				continue
			}
		}
		if dow == 5 {
			friSun, _ := FridayToSundayDates(d)
			tueFri, _ := TuesdayToFridayDates(d)
			partOfTueFri := allSelected(tueFri, selected)
			if !partOfTueFri && allSelected(friSun, selected) && noneClaimed(friSun, claimed) {
				blocks = claim(BlockFridayToSunday, friSun, claimed, blocks)
				continue
			}
		}
		if dow == 6 || dow == 0 {
			weekend, _ := WeekendDates(d)
			if allSelected(weekend, selected) && noneClaimed(weekend, claimed) {
				blocks = claim(BlockWeekend, weekend, claimed, blocks)
				continue
			}
		}
		unclaimed = append(unclaimed, d)
	}

	return blocks, unclaimed, nil
}
