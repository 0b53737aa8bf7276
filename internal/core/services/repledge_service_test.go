package services

import (
	"context"
	"errors"
	"testing"

	"goldloan-ledger/internal/adapters/persistence/models"
	"goldloan-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeBranchRepo struct {
	branches []*models.Branch
	err      error
}

func (f *fakeBranchRepo) GetByID(ctx context.Context, id string) (*models.Branch, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.branches {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBranchRepo) List(ctx context.Context) ([]*models.Branch, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.branches, nil
}

func newTestRepledgeService(records []domain.RepledgeRecord, strategy Strategy) *RepledgeService {
	branches := &fakeBranchRepo{branches: []*models.Branch{
		{ID: "br-1", Code: "HQ", Name: "Head Office"},
		{ID: "br-2", Code: "B02", Name: "Riverside"},
	}}
	return NewRepledgeService(
		NewRemoteSearchAdapter(&fakeProcedure{records: records}, fixedClock),
		NewLocalFilterAdapter(&fakeReader{records: records}, fixedClock),
		branches,
		strategy,
		0,
		nil,
	)
}

func strPtr(s string) *string { return &s }

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("", StrategyLocal)
	require.NoError(t, err)
	assert.Equal(t, StrategyLocal, s)

	s, err = ParseStrategy(" Remote ", StrategyLocal)
	require.NoError(t, err)
	assert.Equal(t, StrategyRemote, s)

	_, err = ParseStrategy("graphql", StrategyRemote)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRepledgeService_ListBranchUser(t *testing.T) {
	records := append(manyRecords(23, "br-1"), manyRecords(4, "br-2")...)
	svc := newTestRepledgeService(records, StrategyRemote)

	for _, strategy := range []Strategy{StrategyRemote, StrategyLocal} {
		t.Run(string(strategy), func(t *testing.T) {
			out, err := svc.List(context.Background(), ListInput{
				Principal: testClerk,
				BranchID:  strPtr("br-1"),
				Criteria:  DefaultCriteria(),
				Page:      3,
				Limit:     10,
				Strategy:  strategy,
			})
			require.NoError(t, err)
			assert.Equal(t, strategy, out.Strategy)
			assert.Len(t, out.Items, 3)
			assert.Equal(t, int64(23), out.Meta.Total)
			assert.Equal(t, 3, out.Meta.TotalPages)
			assert.False(t, out.Meta.HasNext)
			assert.True(t, out.Meta.HasPrev)
			for _, it := range out.Items {
				assert.Equal(t, "br-1", it.BranchID)
			}
		})
	}
}

func TestRepledgeService_AdminSeesEveryBranch(t *testing.T) {
	records := append(manyRecords(5, "br-1"), manyRecords(4, "br-2")...)
	svc := newTestRepledgeService(records, StrategyLocal)

	out, err := svc.List(context.Background(), ListInput{Principal: testAdmin, Criteria: DefaultCriteria()})
	require.NoError(t, err)
	assert.Equal(t, int64(9), out.Meta.Total)
	assert.Equal(t, 10, out.Meta.Limit)
	assert.Equal(t, 1, out.Meta.Page)
}

func TestRepledgeService_BranchUserWithoutBranch(t *testing.T) {
	svc := newTestRepledgeService(manyRecords(3, "br-1"), StrategyRemote)

	_, err := svc.List(context.Background(), ListInput{Principal: testClerk, Criteria: DefaultCriteria()})
	assert.ErrorIs(t, err, domain.ErrScopeUnavailable)

	_, err = svc.List(context.Background(), ListInput{Principal: testClerk, BranchID: strPtr("br-404"), Criteria: DefaultCriteria()})
	assert.ErrorIs(t, err, domain.ErrScopeUnavailable)
}

func TestRepledgeService_BranchLookupError(t *testing.T) {
	boom := errors.New("db gone")
	svc := NewRepledgeService(&staticSearcher{}, &staticSearcher{}, &fakeBranchRepo{err: boom}, StrategyRemote, 0, nil)

	_, err := svc.List(context.Background(), ListInput{Principal: testClerk, BranchID: strPtr("br-1")})
	assert.ErrorIs(t, err, boom)
}

func TestRepledgeService_StatusOnlyLocal(t *testing.T) {
	records := newestFirst([]domain.RepledgeRecord{rec("1"), rec("2", withStatus("closed"))})
	svc := newTestRepledgeService(records, StrategyRemote)
	c := DefaultCriteria()
	c.Status = "closed"

	_, err := svc.List(context.Background(), ListInput{Principal: testAdmin, Criteria: c})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFilter)
	assert.True(t, domain.IsQueryError(err))

	out, err := svc.List(context.Background(), ListInput{Principal: testAdmin, Criteria: c, Strategy: StrategyLocal})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "2", out.Items[0].ID)
}

func TestNewRepledgeListItem(t *testing.T) {
	r := rec("9", withCustomer("Malee", "0891112222"), withLoanNo("LN-9"), withBank("bank-k"))
	r.Customer.PhotoURL = "https://cdn.example.com/malee.jpg"
	r.Amount = decimal.RequireFromString("12500.50")
	r.CloseRecord = &domain.CloseRecord{TotalPayable: decimal.NewFromInt(13000)}

	item := NewRepledgeListItem(r)
	assert.Equal(t, "RP-9", item.ReNo)
	assert.Equal(t, "LN-9", item.LoanNo)
	assert.Equal(t, "BANK-K", item.BankName)
	assert.Equal(t, "Malee", item.CustomerName)
	assert.Equal(t, "0891112222", item.CustomerMobile)
	assert.Equal(t, "https://cdn.example.com/malee.jpg", item.CustomerPhoto)
	assert.True(t, item.Amount.Equal(decimal.RequireFromString("12500.5")))
	assert.True(t, item.IsClosed)

	bare := NewRepledgeListItem(rec("10"))
	assert.Empty(t, bare.LoanNo)
	assert.Empty(t, bare.CustomerName)
	assert.False(t, bare.IsClosed)
}

func TestDigestService_Run(t *testing.T) {
	records := newestFirst([]domain.RepledgeRecord{
		rec("1", withBranch("br-1")),
		rec("2", withBranch("br-1"), withStatus("closed")),
		rec("3", withBranch("br-1"), withDate(day(-1))),
		rec("4", withBranch("br-2")),
		rec("5", withBranch("br-2"), withDate(nil)),
	})
	records[0].Amount = decimal.RequireFromString("1000.25")
	records[1].Amount = decimal.RequireFromString("2000.50")
	records[3].Amount = decimal.RequireFromString("300")

	branches := &fakeBranchRepo{branches: []*models.Branch{
		{ID: "br-1", Name: "Head Office"},
		{ID: "br-2", Name: "Riverside"},
		{ID: "br-3", Name: "Empty"},
	}}
	local := NewLocalFilterAdapter(&fakeReader{records: records}, fixedClock)
	svc := NewDigestService(branches, local, fixedClock, nil)

	assert.Nil(t, svc.Last())

	d, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", d.Date)
	assert.Equal(t, 3, d.Count)
	assert.True(t, d.TotalAmount.Equal(decimal.RequireFromString("3300.75")), d.TotalAmount.String())

	require.Len(t, d.Branches, 3)
	assert.Equal(t, "br-1", d.Branches[0].BranchID)
	assert.Equal(t, 2, d.Branches[0].Count)
	assert.Equal(t, 1, d.Branches[0].ActiveCount)
	assert.Equal(t, 1, d.Branches[0].ClosedCount)
	assert.Equal(t, "br-2", d.Branches[1].BranchID)
	assert.Equal(t, 1, d.Branches[1].Count)
	assert.Equal(t, 0, d.Branches[2].Count)
	assert.True(t, d.Branches[2].TotalAmount.IsZero())

	assert.Same(t, d, svc.Last())
}

func TestDigestService_ReaderError(t *testing.T) {
	branches := &fakeBranchRepo{branches: []*models.Branch{{ID: "br-1"}}}
	local := NewLocalFilterAdapter(&fakeReader{err: errors.New("timeout")}, fixedClock)
	svc := NewDigestService(branches, local, fixedClock, nil)

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsQueryError(err))
	assert.Nil(t, svc.Last())
}
