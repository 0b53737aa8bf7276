package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"goldloan-ledger/internal/adapters/persistence/repositories"
	"goldloan-ledger/internal/core/domain"
	"goldloan-ledger/internal/pkg/pagination"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Strategy selects how a listing is computed
type Strategy string

const (
	StrategyRemote Strategy = "remote"
	StrategyLocal  Strategy = "local"
)

// ParseStrategy maps a config or query value to a Strategy. Empty returns
// fallback.
func ParseStrategy(s string, fallback Strategy) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return fallback, nil
	case StrategyRemote:
		return StrategyRemote, nil
	case StrategyLocal:
		return StrategyLocal, nil
	default:
		return fallback, fmt.Errorf("%w: unknown search strategy %q", domain.ErrInvalidInput, s)
	}
}

// ListInput is one listing request on behalf of an authenticated user
type ListInput struct {
	Principal *domain.Principal
	BranchID  *string
	Criteria  FilterCriteria
	Page      int
	Limit     int
	Strategy  Strategy
}

// RepledgeListItem is the flat row the list screen renders
type RepledgeListItem struct {
	ID             string          `json:"id"`
	ReNo           string          `json:"re_no"`
	LoanNo         string          `json:"loan_no"`
	BankName       string          `json:"bank_name"`
	CustomerName   string          `json:"customer_name"`
	CustomerPhoto  string          `json:"customer_photo"`
	CustomerMobile string          `json:"customer_mobile"`
	Amount         decimal.Decimal `json:"amount"`
	Date           *time.Time      `json:"date"`
	Status         string          `json:"status"`
	BranchID       string          `json:"branch_id"`
	CreatedAt      time.Time       `json:"created_at"`
	IsClosed       bool            `json:"is_closed"`
}

// NewRepledgeListItem flattens a record and its joins
func NewRepledgeListItem(r domain.RepledgeRecord) RepledgeListItem {
	item := RepledgeListItem{
		ID:        r.ID,
		ReNo:      r.RepledgeNo,
		Amount:    r.Amount,
		Date:      r.Date,
		Status:    r.Status,
		BranchID:  r.BranchID,
		CreatedAt: r.CreatedAt,
		IsClosed:  r.CloseRecord != nil,
	}
	if r.Loan != nil {
		item.LoanNo = r.Loan.LoanNo
	}
	if r.Bank != nil {
		item.BankName = r.Bank.Name
	}
	if r.Customer != nil {
		item.CustomerName = r.Customer.Name
		item.CustomerPhoto = r.Customer.PhotoURL
		item.CustomerMobile = r.Customer.MobileNo
	}
	return item
}

// RepledgeList is one page of list items with pagination meta
type RepledgeList struct {
	Items    []RepledgeListItem `json:"items"`
	Meta     *pagination.Meta   `json:"meta"`
	Strategy Strategy           `json:"strategy"`
}

// RepledgeService serves scoped repledge listings over either strategy
type RepledgeService struct {
	remote     RepledgeSearcher
	local      RepledgeSearcher
	branchRepo repositories.BranchRepository
	strategy   Strategy
	timeout    time.Duration
	logger     *zap.Logger
}

// NewRepledgeService creates a new repledge service
func NewRepledgeService(
	remote RepledgeSearcher,
	local RepledgeSearcher,
	branchRepo repositories.BranchRepository,
	strategy Strategy,
	timeout time.Duration,
	logger *zap.Logger,
) *RepledgeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strategy == "" {
		strategy = StrategyRemote
	}
	return &RepledgeService{
		remote:     remote,
		local:      local,
		branchRepo: branchRepo,
		strategy:   strategy,
		timeout:    timeout,
		logger:     logger,
	}
}

// DefaultStrategy returns the configured strategy
func (s *RepledgeService) DefaultStrategy() Strategy {
	return s.strategy
}

// Searcher returns the searcher for strategy, falling back to the default
func (s *RepledgeService) Searcher(strategy Strategy) RepledgeSearcher {
	if strategy == "" {
		strategy = s.strategy
	}
	if strategy == StrategyLocal {
		return s.local
	}
	return s.remote
}

// ResolveBranch loads the branch a session is bound to. A missing branch is
// not an error; the scope resolver decides whether one is required.
func (s *RepledgeService) ResolveBranch(ctx context.Context, branchID *string) (*domain.Branch, error) {
	if branchID == nil || *branchID == "" {
		return nil, nil
	}
	b, err := s.branchRepo.GetByID(ctx, *branchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return b.ToDomain(), nil
}

// List resolves the caller's scope and returns one page
func (s *RepledgeService) List(ctx context.Context, in ListInput) (*RepledgeList, error) {
	branch, err := s.ResolveBranch(ctx, in.BranchID)
	if err != nil {
		return nil, err
	}

	scope, err := ResolveScope(in.Principal, branch)
	if err != nil {
		return nil, err
	}

	params := pagination.NewParams(in.Page, in.Limit)
	strategy := in.Strategy
	if strategy == "" {
		strategy = s.strategy
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.Searcher(strategy).Search(ctx, scope, in.Criteria, domain.Page{Index: params.Page, Size: params.Limit})
	if err != nil {
		s.logger.Warn("repledge list failed",
			zap.String("scope", scope.String()),
			zap.String("strategy", string(strategy)),
			zap.Error(err),
		)
		return nil, err
	}

	items := make([]RepledgeListItem, len(res.Rows))
	for i, r := range res.Rows {
		items[i] = NewRepledgeListItem(r)
	}

	s.logger.Debug("repledge list",
		zap.String("scope", scope.String()),
		zap.String("strategy", string(strategy)),
		zap.Int("page", params.Page),
		zap.Int("rows", len(items)),
		zap.Int("total", res.TotalCount),
	)

	return &RepledgeList{
		Items:    items,
		Meta:     pagination.GetMeta(params, int64(res.TotalCount)),
		Strategy: strategy,
	}, nil
}
