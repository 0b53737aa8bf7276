package repositories

import (
	"context"
	"testing"
	"time"

	"goldloan-ledger/internal/adapters/persistence/models"
	"goldloan-ledger/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dryRunDB builds a gorm handle that renders SQL without a server
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "ledger:ledger@tcp(127.0.0.1:3306)/ledger?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestScopedQuery_BranchUserGetsPredicate(t *testing.T) {
	repo := NewRepledgeRepository(dryRunDB(t))

	var rows []*models.Repledge
	stmt := repo.scopedQuery(context.Background(), domain.RestrictedTo("br-1")).Find(&rows).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "branch_id = ?")
	assert.Contains(t, sql, "ORDER BY created_at DESC, id DESC")
	assert.Contains(t, stmt.Vars, "br-1")
}

func TestScopedQuery_AdminHasNoPredicate(t *testing.T) {
	repo := NewRepledgeRepository(dryRunDB(t))

	var rows []*models.Repledge
	stmt := repo.scopedQuery(context.Background(), domain.Unrestricted()).Find(&rows).Statement

	assert.NotContains(t, stmt.SQL.String(), "branch_id")
	assert.Empty(t, stmt.Vars)
}

func TestSearchQuery_TranslatesParams(t *testing.T) {
	repo := NewRepledgeRepository(dryRunDB(t))
	bank := "bank-9"
	branch := "br-2"
	start := time.Date(2026, 10, 1, 15, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	var hits []searchHit
	stmt := repo.searchQuery(context.Background(), domain.SearchParams{
		SearchTerm:      "  50%_Off ",
		PageNum:         1,
		PageSize:        10,
		BankIDFilter:    &bank,
		StartDateFilter: &start,
		EndDateFilter:   &end,
		BranchIDFilter:  &branch,
	}).Find(&hits).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "r.branch_id = ?")
	assert.Contains(t, sql, "r.bank_id = ?")
	assert.Contains(t, sql, "DATE(r.date) >= ?")
	assert.Contains(t, sql, "DATE(r.date) <= ?")
	assert.Contains(t, stmt.Vars, `%50\%\_off%`)
	assert.Contains(t, stmt.Vars, "2026-10-01")
	assert.Contains(t, stmt.Vars, "2026-10-19")
	assert.Contains(t, stmt.Vars, "br-2")
}

func TestSearchQuery_UnrestrictedEmptyTerm(t *testing.T) {
	repo := NewRepledgeRepository(dryRunDB(t))

	var hits []searchHit
	stmt := repo.searchQuery(context.Background(), domain.SearchParams{PageNum: 1, PageSize: 10}).Find(&hits).Statement

	sql := stmt.SQL.String()
	assert.NotContains(t, sql, "branch_id")
	assert.NotContains(t, sql, "LIKE")
	assert.NotContains(t, sql, "DATE(")
}

func TestSearchRepledgeDetails_RejectsBadPage(t *testing.T) {
	repo := NewRepledgeRepository(dryRunDB(t))

	_, err := repo.SearchRepledgeDetails(context.Background(), domain.SearchParams{PageNum: 0, PageSize: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidPageRequest)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

func TestSearchPage_StableOrder(t *testing.T) {
	repo := NewRepledgeRepository(dryRunDB(t))

	var hits []searchHit
	stmt := repo.searchPage(context.Background(), domain.SearchParams{PageNum: 3, PageSize: 10}).Find(&hits).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "COUNT(*) OVER()")
	assert.Contains(t, sql, "ORDER BY r.created_at DESC, r.id DESC")
	assert.Contains(t, sql, "LIMIT")
	assert.Contains(t, sql, "OFFSET")
}

func TestListByScope_RejectsInvalidScope(t *testing.T) {
	repo := NewRepledgeRepository(dryRunDB(t))

	records, err := repo.ListByScope(context.Background(), domain.Scope{})
	assert.ErrorIs(t, err, domain.ErrScopeUnavailable)
	assert.Nil(t, records)
}
