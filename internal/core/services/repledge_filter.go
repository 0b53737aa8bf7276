package services

import (
	"strings"
	"time"

	"goldloan-ledger/internal/core/domain"
)

// MatchSearch passes when term is empty or is a case-insensitive substring
// of the customer name, customer mobile, loan number or repledge number.
// term must already be normalized (see FilterCriteria.NormalizedSearch).
func MatchSearch(r *domain.RepledgeRecord, term string) bool {
	if term == "" {
		return true
	}

	fields := []string{r.RepledgeNo}
	if r.Customer != nil {
		fields = append(fields, r.Customer.Name, r.Customer.MobileNo)
	}
	if r.Loan != nil {
		fields = append(fields, r.Loan.LoanNo)
	}

	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// MatchBank passes for "all" or an equal bank id
func MatchBank(r *domain.RepledgeRecord, bankID *string) bool {
	return bankID == nil || r.BankID == *bankID
}

// MatchStatus passes for "All" or an equal status
func MatchStatus(r *domain.RepledgeRecord, status *string) bool {
	return status == nil || r.Status == *status
}

// MatchDate applies the explicit range when both bounds are set, otherwise
// the preset. Undated records pass only when no date filter is active; a
// single bound without its pair is ignored.
func MatchDate(r *domain.RepledgeRecord, c FilterCriteria, now time.Time) bool {
	if r.Date == nil {
		return c.preset() == PresetAll && !c.HasExplicitRange()
	}

	loc := now.Location()
	day := midnight(*r.Date, loc)

	if c.HasExplicitRange() {
		start, end := c.DateWindow(now)
		return !day.Before(*start) && !day.After(*end)
	}

	if c.preset() == PresetToday {
		return day.Equal(midnight(now, loc))
	}

	start, _ := c.DateWindow(now)
	return start == nil || !day.Before(*start)
}

// ApplyFilters runs search, bank, status and date stages over records,
// preserving order
func ApplyFilters(records []domain.RepledgeRecord, c FilterCriteria, now time.Time) []domain.RepledgeRecord {
	term := c.NormalizedSearch()
	bank := c.BankFilter()
	status := c.StatusFilter()

	out := make([]domain.RepledgeRecord, 0, len(records))
	for i := range records {
		r := &records[i]
		if !MatchSearch(r, term) {
			continue
		}
		if !MatchBank(r, bank) {
			continue
		}
		if !MatchStatus(r, status) {
			continue
		}
		if !MatchDate(r, c, now) {
			continue
		}
		out = append(out, *r)
	}
	return out
}
