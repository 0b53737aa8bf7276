package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"goldloan-ledger/internal/adapters/persistence/repositories"
	"goldloan-ledger/internal/core/domain"
)

// RepledgeSearcher executes one scoped, filtered, paginated listing
type RepledgeSearcher interface {
	Search(ctx context.Context, scope domain.Scope, criteria FilterCriteria, page domain.Page) (domain.SearchResult, error)
}

// Clock returns the current time; its location drives day truncation
type Clock func() time.Time

// RemoteSearchAdapter delegates filtering, pagination and counting to the
// search procedure in a single call
type RemoteSearchAdapter struct {
	proc repositories.SearchProcedure
	now  Clock
}

// NewRemoteSearchAdapter creates a new remote search adapter
func NewRemoteSearchAdapter(proc repositories.SearchProcedure, now Clock) *RemoteSearchAdapter {
	if now == nil {
		now = time.Now
	}
	return &RemoteSearchAdapter{proc: proc, now: now}
}

// BuildParams translates scope, criteria and page into procedure input.
// Presets are resolved to explicit day bounds here; the procedure only
// understands explicit ranges.
func (a *RemoteSearchAdapter) BuildParams(scope domain.Scope, criteria FilterCriteria, page domain.Page) (domain.SearchParams, error) {
	if err := scope.Check(); err != nil {
		return domain.SearchParams{}, err
	}
	if page.Index < 1 || page.Size < 1 {
		return domain.SearchParams{}, domain.ErrInvalidPageRequest
	}
	if criteria.StatusFilter() != nil {
		return domain.SearchParams{}, fmt.Errorf("%w: status %q", domain.ErrUnsupportedFilter, criteria.Status)
	}

	start, end := criteria.DateWindow(a.now())

	return domain.SearchParams{
		SearchTerm:      strings.TrimSpace(criteria.SearchTerm),
		PageNum:         page.Index,
		PageSize:        page.Size,
		BankIDFilter:    criteria.BankFilter(),
		StartDateFilter: start,
		EndDateFilter:   end,
		BranchIDFilter:  scope.BranchFilter(),
	}, nil
}

// Search runs the procedure and lifts total_count from the first row
func (a *RemoteSearchAdapter) Search(ctx context.Context, scope domain.Scope, criteria FilterCriteria, page domain.Page) (domain.SearchResult, error) {
	params, err := a.BuildParams(scope, criteria, page)
	if errors.Is(err, domain.ErrScopeUnavailable) {
		return domain.SearchResult{}, err
	}
	if err != nil {
		return domain.SearchResult{}, domain.NewQueryError("search repledges", err)
	}

	rows, err := a.proc.SearchRepledgeDetails(ctx, params)
	if err != nil {
		return domain.SearchResult{}, domain.NewQueryError("search repledges", err)
	}

	if len(rows) == 0 {
		return domain.SearchResult{Rows: []domain.RepledgeRecord{}, TotalCount: 0}, nil
	}
	if rows[0].TotalCount == nil {
		return domain.SearchResult{}, domain.NewQueryError("search repledges", domain.ErrMissingTotalCount)
	}

	records := make([]domain.RepledgeRecord, len(rows))
	for i := range rows {
		if !scope.Allows(rows[i].BranchID) {
			return domain.SearchResult{}, domain.NewQueryError("search repledges", domain.ErrScopeViolation)
		}
		records[i] = rows[i].RepledgeRecord
	}

	return domain.SearchResult{
		Rows:       records,
		TotalCount: int(*rows[0].TotalCount),
	}, nil
}
