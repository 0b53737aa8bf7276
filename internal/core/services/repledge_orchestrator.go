package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"goldloan-ledger/internal/core/domain"
	"goldloan-ledger/internal/pkg/pagination"

	"go.uber.org/zap"
)

// Snapshot is a copy of the orchestrator state
type Snapshot struct {
	Criteria   FilterCriteria
	Page       domain.Page
	Scope      domain.Scope
	ScopeReady bool
	Loading    bool
	Err        error
	Result     domain.SearchResult
	TotalPages int
	// Committed is the sequence number of the fetch that produced Result
	Committed uint64
}

// OrchestratorOption configures a RepledgeOrchestrator
type OrchestratorOption func(*RepledgeOrchestrator)

// WithFetchTimeout bounds every searcher call
func WithFetchTimeout(d time.Duration) OrchestratorOption {
	return func(o *RepledgeOrchestrator) {
		o.timeout = d
	}
}

// WithOrchestratorLogger sets the logger
func WithOrchestratorLogger(l *zap.Logger) OrchestratorOption {
	return func(o *RepledgeOrchestrator) {
		o.logger = l
	}
}

// WithPageSize sets the initial page size
func WithPageSize(size int) OrchestratorOption {
	return func(o *RepledgeOrchestrator) {
		if size > 0 {
			o.page.Size = size
		}
	}
}

// WithBaseContext sets the parent context of every fetch
func WithBaseContext(ctx context.Context) OrchestratorOption {
	return func(o *RepledgeOrchestrator) {
		o.baseCtx = ctx
	}
}

// RepledgeOrchestrator owns one listing session: criteria, page, scope and
// the last committed result. Every mutation schedules a fetch tagged with a
// sequence number; only the most recently issued fetch may commit.
type RepledgeOrchestrator struct {
	searcher RepledgeSearcher
	logger   *zap.Logger
	timeout  time.Duration
	baseCtx  context.Context

	mu         sync.Mutex
	criteria   FilterCriteria
	page       domain.Page
	scope      domain.Scope
	scopeReady bool
	loading    bool
	lastErr    error
	result     domain.SearchResult
	hasResult  bool
	issued     uint64
	committed  uint64

	inflight sync.WaitGroup
}

// NewRepledgeOrchestrator creates a session over searcher. No fetch runs
// until SetSession resolves a scope.
func NewRepledgeOrchestrator(searcher RepledgeSearcher, opts ...OrchestratorOption) *RepledgeOrchestrator {
	o := &RepledgeOrchestrator{
		searcher: searcher,
		logger:   zap.NewNop(),
		baseCtx:  context.Background(),
		criteria: DefaultCriteria(),
		page:     domain.Page{Index: 1, Size: pagination.DefaultLimit},
		result:   domain.SearchResult{Rows: []domain.RepledgeRecord{}},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SetSession sets the principal and branch. When the scope resolves an
// initial fetch is issued; otherwise the session stays idle.
func (o *RepledgeOrchestrator) SetSession(principal *domain.Principal, branch *domain.Branch) {
	scope, err := ResolveScope(principal, branch)

	o.mu.Lock()
	changed := !o.scopeReady || err != nil || o.scope != scope
	if err != nil {
		o.scopeReady = false
		o.scope = domain.Scope{}
		// anything still in flight belongs to the old session
		o.issued++
		o.loading = false
	} else {
		o.scopeReady = true
		o.scope = scope
	}
	if changed {
		o.page.Index = 1
		o.result = domain.SearchResult{Rows: []domain.RepledgeRecord{}}
		o.hasResult = false
		o.lastErr = nil
	}
	o.mu.Unlock()

	if err != nil {
		o.logger.Debug("repledge session idle", zap.Error(err))
		return
	}
	o.schedule()
}

// SetSearchTerm updates the free-text search
func (o *RepledgeOrchestrator) SetSearchTerm(term string) {
	o.updateCriteria(func(c *FilterCriteria) { c.SearchTerm = term })
}

// SetBankFilter sets the bank id, "all" clears it
func (o *RepledgeOrchestrator) SetBankFilter(bankID string) {
	o.updateCriteria(func(c *FilterCriteria) { c.BankID = bankID })
}

// SetStatusFilter sets the status, "All" clears it
func (o *RepledgeOrchestrator) SetStatusFilter(status string) {
	o.updateCriteria(func(c *FilterCriteria) { c.Status = status })
}

// SetDatePreset sets the named date window
func (o *RepledgeOrchestrator) SetDatePreset(preset DatePreset) {
	o.updateCriteria(func(c *FilterCriteria) { c.DatePreset = preset })
}

// SetDateRange sets explicit bounds; nil clears a bound
func (o *RepledgeOrchestrator) SetDateRange(start, end *time.Time) {
	o.updateCriteria(func(c *FilterCriteria) {
		c.StartDate = start
		c.EndDate = end
	})
}

// ClearDateRange drops explicit bounds
func (o *RepledgeOrchestrator) ClearDateRange() {
	o.SetDateRange(nil, nil)
}

// SetCriteria replaces every filter field at once
func (o *RepledgeOrchestrator) SetCriteria(c FilterCriteria) {
	o.updateCriteria(func(cur *FilterCriteria) { *cur = c })
}

// SetPage moves to a page, clamped to the known page count
func (o *RepledgeOrchestrator) SetPage(index int) {
	o.mu.Lock()
	if o.hasResult {
		index = pagination.ClampPage(index, o.result.TotalCount, o.page.Size)
	} else if index < 1 {
		index = 1
	}
	o.page.Index = index
	o.mu.Unlock()

	o.schedule()
}

// SetPageSize changes the page size and returns to page 1
func (o *RepledgeOrchestrator) SetPageSize(size int) {
	if size < 1 {
		size = pagination.DefaultLimit
	}
	o.mu.Lock()
	o.page = domain.Page{Index: 1, Size: size}
	o.mu.Unlock()

	o.schedule()
}

// Refetch issues a new fetch with the current state. Safe to call while a
// fetch is in flight; the older response will be discarded.
func (o *RepledgeOrchestrator) Refetch() {
	o.schedule()
}

// Wait blocks until every issued fetch has returned
func (o *RepledgeOrchestrator) Wait() {
	o.inflight.Wait()
}

// Snapshot returns a copy of the current state
func (o *RepledgeOrchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	rows := make([]domain.RepledgeRecord, len(o.result.Rows))
	copy(rows, o.result.Rows)

	return Snapshot{
		Criteria:   o.criteria,
		Page:       o.page,
		Scope:      o.scope,
		ScopeReady: o.scopeReady,
		Loading:    o.loading,
		Err:        o.lastErr,
		Result:     domain.SearchResult{Rows: rows, TotalCount: o.result.TotalCount},
		TotalPages: pagination.TotalPages(o.result.TotalCount, o.page.Size),
		Committed:  o.committed,
	}
}

// updateCriteria applies a filter change; any filter change resets to page 1
func (o *RepledgeOrchestrator) updateCriteria(mutate func(*FilterCriteria)) {
	o.mu.Lock()
	mutate(&o.criteria)
	o.page.Index = 1
	o.mu.Unlock()

	o.schedule()
}

// schedule issues a fetch for the current state if the scope is ready
func (o *RepledgeOrchestrator) schedule() {
	o.mu.Lock()
	if !o.scopeReady {
		o.mu.Unlock()
		return
	}
	o.issued++
	seq := o.issued
	scope, criteria, page := o.scope, o.criteria, o.page
	o.loading = true
	o.inflight.Add(1)
	o.mu.Unlock()

	go o.run(seq, scope, criteria, page)
}

func (o *RepledgeOrchestrator) run(seq uint64, scope domain.Scope, criteria FilterCriteria, page domain.Page) {
	defer o.inflight.Done()

	ctx := o.baseCtx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	res, err := o.search(ctx, scope, criteria, page)
	o.commit(seq, page, res, err)
}

// search calls the searcher, turning a panic into a QueryError
func (o *RepledgeOrchestrator) search(ctx context.Context, scope domain.Scope, criteria FilterCriteria, page domain.Page) (res domain.SearchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.NewQueryError("search repledges", fmt.Errorf("searcher panic: %v", r))
		}
	}()
	return o.searcher.Search(ctx, scope, criteria, page)
}

func (o *RepledgeOrchestrator) commit(seq uint64, page domain.Page, res domain.SearchResult, err error) {
	o.mu.Lock()

	if latest := o.issued; seq != latest {
		o.mu.Unlock()
		o.logger.Debug("discarding stale repledge response",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", latest),
		)
		return
	}

	o.loading = false
	if err != nil {
		o.lastErr = domain.NewQueryError("search repledges", err)
		o.mu.Unlock()
		o.logger.Warn("repledge fetch failed", zap.Uint64("seq", seq), zap.Error(err))
		return
	}

	if res.Rows == nil {
		res.Rows = []domain.RepledgeRecord{}
	}
	o.result = res
	o.hasResult = true
	o.lastErr = nil
	o.committed = seq

	// the data shrank below the requested page; move to the last page
	clamped := pagination.ClampPage(page.Index, res.TotalCount, page.Size)
	refetch := clamped != page.Index && o.page == page
	if refetch {
		o.page.Index = clamped
	}
	o.mu.Unlock()

	o.logger.Debug("repledge page committed",
		zap.Uint64("seq", seq),
		zap.Int("rows", len(res.Rows)),
		zap.Int("total", res.TotalCount),
	)

	if refetch {
		o.schedule()
	}
}
