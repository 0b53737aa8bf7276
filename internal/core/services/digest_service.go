package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"goldloan-ledger/internal/adapters/persistence/repositories"
	"goldloan-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// digestConcurrency bounds per-branch queries in one run
const digestConcurrency = 4

// BranchDigest summarizes one branch's repledges for a day
type BranchDigest struct {
	BranchID    string          `json:"branch_id"`
	BranchName  string          `json:"branch_name"`
	Count       int             `json:"count"`
	ActiveCount int             `json:"active_count"`
	ClosedCount int             `json:"closed_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Digest is the result of one digest run
type Digest struct {
	Date        string          `json:"date"`
	Branches    []BranchDigest  `json:"branches"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// DigestService builds a per-branch summary of today's repledges
type DigestService struct {
	branchRepo repositories.BranchRepository
	local      *LocalFilterAdapter
	now        Clock
	logger     *zap.Logger

	mu   sync.Mutex
	last *Digest
}

// NewDigestService creates a new digest service
func NewDigestService(branchRepo repositories.BranchRepository, local *LocalFilterAdapter, now Clock, logger *zap.Logger) *DigestService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DigestService{
		branchRepo: branchRepo,
		local:      local,
		now:        now,
		logger:     logger,
	}
}

// Last returns the most recent digest, nil before the first run
func (s *DigestService) Last() *Digest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Run computes today's digest for every branch
func (s *DigestService) Run(ctx context.Context) (*Digest, error) {
	branches, err := s.branchRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	criteria := DefaultCriteria()
	criteria.DatePreset = PresetToday

	results := make([]BranchDigest, len(branches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(digestConcurrency)

	for i, b := range branches {
		i, b := i, b
		g.Go(func() error {
			records, err := s.local.Filter(gctx, domain.RestrictedTo(b.ID), criteria)
			if err != nil {
				return err
			}
			results[i] = summarize(b.ID, b.Name, records)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Count > results[j].Count })

	d := &Digest{
		Date:        s.now().Format("2006-01-02"),
		Branches:    results,
		TotalAmount: decimal.Zero,
	}
	for _, r := range results {
		d.Count += r.Count
		d.TotalAmount = d.TotalAmount.Add(r.TotalAmount)
	}

	s.mu.Lock()
	s.last = d
	s.mu.Unlock()

	s.logger.Info("repledge digest",
		zap.String("date", d.Date),
		zap.Int("branches", len(results)),
		zap.Int("count", d.Count),
		zap.String("total_amount", d.TotalAmount.StringFixed(2)),
	)
	return d, nil
}

func summarize(branchID, branchName string, records []domain.RepledgeRecord) BranchDigest {
	bd := BranchDigest{
		BranchID:    branchID,
		BranchName:  branchName,
		Count:       len(records),
		TotalAmount: decimal.Zero,
	}
	for _, r := range records {
		bd.TotalAmount = bd.TotalAmount.Add(r.Amount)
		if r.CloseRecord != nil || r.Status == "closed" {
			bd.ClosedCount++
		} else {
			bd.ActiveCount++
		}
	}
	return bd
}
