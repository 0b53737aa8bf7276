package services

import (
	"context"
	"time"

	"goldloan-ledger/internal/adapters/persistence/repositories"
	"goldloan-ledger/internal/core/domain"
	"goldloan-ledger/internal/pkg/pagination"
)

// LocalFilterAdapter pulls the full scoped dataset and filters and pages it
// in memory
type LocalFilterAdapter struct {
	reader repositories.FullScopeReader
	now    Clock
}

// NewLocalFilterAdapter creates a new local filter adapter
func NewLocalFilterAdapter(reader repositories.FullScopeReader, now Clock) *LocalFilterAdapter {
	if now == nil {
		now = time.Now
	}
	return &LocalFilterAdapter{reader: reader, now: now}
}

// FetchAll returns every record visible to scope, newest first
func (a *LocalFilterAdapter) FetchAll(ctx context.Context, scope domain.Scope) ([]domain.RepledgeRecord, error) {
	if err := scope.Check(); err != nil {
		return nil, err
	}

	records, err := a.reader.ListByScope(ctx, scope)
	if err != nil {
		return nil, domain.NewQueryError("fetch repledges", err)
	}

	// isolation holds even if the reader ignores scope
	visible := make([]domain.RepledgeRecord, 0, len(records))
	for _, r := range records {
		if scope.Allows(r.BranchID) {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

// Filter fetches the scope and applies the filter pipeline without paging
func (a *LocalFilterAdapter) Filter(ctx context.Context, scope domain.Scope, criteria FilterCriteria) ([]domain.RepledgeRecord, error) {
	records, err := a.FetchAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	return ApplyFilters(records, criteria, a.now()), nil
}

// Search filters in memory; TotalCount is the filtered length
func (a *LocalFilterAdapter) Search(ctx context.Context, scope domain.Scope, criteria FilterCriteria, page domain.Page) (domain.SearchResult, error) {
	if page.Index < 1 || page.Size < 1 {
		return domain.SearchResult{}, domain.NewQueryError("search repledges", domain.ErrInvalidPageRequest)
	}

	filtered, err := a.Filter(ctx, scope, criteria)
	if err != nil {
		return domain.SearchResult{}, err
	}

	return domain.SearchResult{
		Rows:       pagination.Paginate(filtered, page.Index, page.Size),
		TotalCount: len(filtered),
	}, nil
}
