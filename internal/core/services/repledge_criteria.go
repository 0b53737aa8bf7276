package services

import (
	"fmt"
	"strings"
	"time"
)

// Filter sentinels sent by the list screen
const (
	BankAll   = "all"
	StatusAll = "All"
)

// DatePreset is a named, relative date window
type DatePreset string

const (
	PresetAll       DatePreset = "All"
	PresetToday     DatePreset = "Today"
	PresetThisWeek  DatePreset = "This Week"
	PresetThisMonth DatePreset = "This Month"
	PresetThisYear  DatePreset = "This Year"
)

var presetsByKey = map[string]DatePreset{
	"all":       PresetAll,
	"today":     PresetToday,
	"thisweek":  PresetThisWeek,
	"thismonth": PresetThisMonth,
	"thisyear":  PresetThisYear,
}

// ParseDatePreset accepts the display labels ("This Week") as well as
// compact forms ("this_week", "thisweek"). Empty means All.
func ParseDatePreset(s string) (DatePreset, error) {
	key := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.TrimSpace(s)))
	if key == "" {
		return PresetAll, nil
	}
	if p, ok := presetsByKey[key]; ok {
		return p, nil
	}
	return PresetAll, fmt.Errorf("unknown date preset %q", s)
}

// FilterCriteria is the composite filter applied to a repledge listing
type FilterCriteria struct {
	SearchTerm string
	BankID     string
	Status     string
	DatePreset DatePreset
	StartDate  *time.Time
	EndDate    *time.Time
}

// DefaultCriteria matches everything
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		BankID:     BankAll,
		Status:     StatusAll,
		DatePreset: PresetAll,
	}
}

// NormalizedSearch is the trimmed, lower-cased search term
func (c FilterCriteria) NormalizedSearch() string {
	return strings.ToLower(strings.TrimSpace(c.SearchTerm))
}

// BankFilter returns nil when every bank passes
func (c FilterCriteria) BankFilter() *string {
	if c.BankID == "" || c.BankID == BankAll {
		return nil
	}
	id := c.BankID
	return &id
}

// StatusFilter returns nil when every status passes
func (c FilterCriteria) StatusFilter() *string {
	if c.Status == "" || c.Status == StatusAll {
		return nil
	}
	s := c.Status
	return &s
}

// HasExplicitRange is true when both bounds are set; an explicit range
// overrides the preset.
func (c FilterCriteria) HasExplicitRange() bool {
	return c.StartDate != nil && c.EndDate != nil
}

func (c FilterCriteria) preset() DatePreset {
	if c.DatePreset == "" {
		return PresetAll
	}
	return c.DatePreset
}

// DateWindow converts the active date filter into inclusive day bounds
// relative to now. Nil bounds are open. Presets become [start, open) except
// Today which is the single day.
func (c FilterCriteria) DateWindow(now time.Time) (start, end *time.Time) {
	loc := now.Location()

	if c.HasExplicitRange() {
		s := midnight(*c.StartDate, loc)
		e := midnight(*c.EndDate, loc)
		return &s, &e
	}

	today := midnight(now, loc)
	switch c.preset() {
	case PresetToday:
		e := today
		return &today, &e
	case PresetThisWeek:
		s := startOfWeek(today)
		return &s, nil
	case PresetThisMonth:
		s := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		return &s, nil
	case PresetThisYear:
		s := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return &s, nil
	default:
		return nil, nil
	}
}

// midnight truncates t to the start of its day in loc
func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// startOfWeek returns the preceding Sunday (weekday index 0)
func startOfWeek(day time.Time) time.Time {
	return day.AddDate(0, 0, -int(day.Weekday()))
}
