package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"goldloan-ledger/internal/core/domain"
	"goldloan-ledger/internal/pkg/pagination"

	"github.com/shopspring/decimal"
)

// fixedNow is Monday 2026-10-19 14:30 in UTC+7
var fixedNow = time.Date(2026, 10, 19, 14, 30, 0, 0, time.FixedZone("ICT", 7*3600))

func fixedClock() time.Time { return fixedNow }

func day(offset int) *time.Time {
	d := time.Date(fixedNow.Year(), fixedNow.Month(), fixedNow.Day(), 9, 15, 0, 0, fixedNow.Location()).AddDate(0, 0, offset)
	return &d
}

type recOpt func(*domain.RepledgeRecord)

func withCustomer(name, mobile string) recOpt {
	return func(r *domain.RepledgeRecord) {
		r.Customer = &domain.CustomerRef{ID: "cust-" + name, Name: name, MobileNo: mobile}
	}
}

func withLoanNo(no string) recOpt {
	return func(r *domain.RepledgeRecord) {
		r.Loan = &domain.LoanRef{ID: "loan-" + no, LoanNo: no, Amount: decimal.NewFromInt(10000)}
		r.LoanID = r.Loan.ID
	}
}

func withBank(id string) recOpt {
	return func(r *domain.RepledgeRecord) {
		r.BankID = id
		r.Bank = &domain.BankRef{ID: id, Name: strings.ToUpper(id)}
	}
}

func withStatus(s string) recOpt {
	return func(r *domain.RepledgeRecord) { r.Status = s }
}

func withDate(d *time.Time) recOpt {
	return func(r *domain.RepledgeRecord) { r.Date = d }
}

func withBranch(id string) recOpt {
	return func(r *domain.RepledgeRecord) { r.BranchID = id }
}

func rec(id string, opts ...recOpt) domain.RepledgeRecord {
	r := domain.RepledgeRecord{
		ID:         id,
		RepledgeNo: "RP-" + id,
		Amount:     decimal.NewFromInt(5000),
		Status:     "active",
		BankID:     "bank-a",
		BranchID:   "br-1",
		Date:       day(0),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// newestFirst assigns decreasing created_at in slice order
func newestFirst(records []domain.RepledgeRecord) []domain.RepledgeRecord {
	for i := range records {
		records[i].CreatedAt = fixedNow.Add(-time.Duration(i) * time.Minute)
	}
	return records
}

// sortNewestFirst orders like the repository: created_at DESC, id DESC
func sortNewestFirst(records []domain.RepledgeRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID > records[j].ID
	})
}

// fakeReader is an in-memory FullScopeReader
type fakeReader struct {
	mu      sync.Mutex
	records []domain.RepledgeRecord
	err     error
	scopes  []domain.Scope
}

func (f *fakeReader) ListByScope(ctx context.Context, scope domain.Scope) ([]domain.RepledgeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scopes = append(f.scopes, scope)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.RepledgeRecord, 0, len(f.records))
	for _, r := range f.records {
		if scope.Allows(r.BranchID) {
			out = append(out, r)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// fakeProcedure evaluates SearchParams over an in-memory table the way the
// SQL procedure does: branch, search, bank, day bounds, then a page with the
// total on every row
type fakeProcedure struct {
	records  []domain.RepledgeRecord
	err      error
	rows     []domain.SearchRow // when set, returned verbatim
	received []domain.SearchParams
}

func (f *fakeProcedure) SearchRepledgeDetails(ctx context.Context, p domain.SearchParams) ([]domain.SearchRow, error) {
	f.received = append(f.received, p)
	if f.err != nil {
		return nil, f.err
	}
	if f.rows != nil {
		return f.rows, nil
	}

	term := strings.ToLower(strings.TrimSpace(p.SearchTerm))
	var matched []domain.RepledgeRecord
	for _, r := range f.records {
		if p.BranchIDFilter != nil && r.BranchID != *p.BranchIDFilter {
			continue
		}
		if term != "" {
			hay := []string{strings.ToLower(r.RepledgeNo)}
			if r.Customer != nil {
				hay = append(hay, strings.ToLower(r.Customer.Name), strings.ToLower(r.Customer.MobileNo))
			}
			if r.Loan != nil {
				hay = append(hay, strings.ToLower(r.Loan.LoanNo))
			}
			hit := false
			for _, h := range hay {
				if strings.Contains(h, term) {
					hit = true
				}
			}
			if !hit {
				continue
			}
		}
		if p.BankIDFilter != nil && r.BankID != *p.BankIDFilter {
			continue
		}
		if p.StartDateFilter != nil || p.EndDateFilter != nil {
			if r.Date == nil {
				continue
			}
			d := r.Date.In(fixedNow.Location()).Format("2006-01-02")
			if p.StartDateFilter != nil && d < p.StartDateFilter.Format("2006-01-02") {
				continue
			}
			if p.EndDateFilter != nil && d > p.EndDateFilter.Format("2006-01-02") {
				continue
			}
		}
		matched = append(matched, r)
	}
	sortNewestFirst(matched)

	total := int64(len(matched))
	page := pagination.Paginate(matched, p.PageNum, p.PageSize)
	rows := make([]domain.SearchRow, len(page))
	for i, r := range page {
		t := total
		rows[i] = domain.SearchRow{RepledgeRecord: r, TotalCount: &t}
	}
	return rows, nil
}

// gateSearcher blocks each call until the test releases it
type gateSearcher struct {
	mu      sync.Mutex
	calls   int
	started chan int
	gates   map[int]chan gateReply
}

type gateReply struct {
	res domain.SearchResult
	err error
}

func newGateSearcher() *gateSearcher {
	return &gateSearcher{started: make(chan int, 32), gates: map[int]chan gateReply{}}
}

func (g *gateSearcher) gate(n int) chan gateReply {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[n]
	if !ok {
		ch = make(chan gateReply, 1)
		g.gates[n] = ch
	}
	return ch
}

func (g *gateSearcher) Search(ctx context.Context, scope domain.Scope, criteria FilterCriteria, page domain.Page) (domain.SearchResult, error) {
	g.mu.Lock()
	g.calls++
	n := g.calls
	g.mu.Unlock()

	g.started <- n
	reply := <-g.gate(n)
	return reply.res, reply.err
}

func (g *gateSearcher) release(n int, res domain.SearchResult, err error) {
	g.gate(n) <- gateReply{res: res, err: err}
}

func resultOf(ids ...string) domain.SearchResult {
	rows := make([]domain.RepledgeRecord, len(ids))
	for i, id := range ids {
		rows[i] = rec(id)
	}
	return domain.SearchResult{Rows: rows, TotalCount: len(ids)}
}

func ids(records []domain.RepledgeRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

// staticSearcher answers every call immediately
type staticSearcher struct {
	mu       sync.Mutex
	res      domain.SearchResult
	err      error
	requests []domain.Page
	criteria []FilterCriteria
}

func (s *staticSearcher) Search(ctx context.Context, scope domain.Scope, criteria FilterCriteria, page domain.Page) (domain.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, page)
	s.criteria = append(s.criteria, criteria)
	if s.err != nil {
		return domain.SearchResult{}, s.err
	}
	return s.res, nil
}

func (s *staticSearcher) set(res domain.SearchResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.res, s.err = res, err
}

func (s *staticSearcher) lastPage() domain.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[len(s.requests)-1]
}

func (s *staticSearcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func manyRecords(n int, branch string) []domain.RepledgeRecord {
	out := make([]domain.RepledgeRecord, n)
	for i := range out {
		out[i] = rec(fmt.Sprintf("%s-%02d", branch, i), withBranch(branch))
	}
	return newestFirst(out)
}
