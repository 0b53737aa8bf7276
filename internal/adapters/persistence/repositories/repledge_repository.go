package repositories

import (
	"context"
	"strings"

	"goldloan-ledger/internal/adapters/persistence/models"
	"goldloan-ledger/internal/core/domain"

	"gorm.io/gorm"
)

const sqlDateLayout = "2006-01-02"

// RepledgeRepository handles repledge reads. It serves both the full-scope
// read and the paginated search procedure.
type RepledgeRepository struct {
	db *gorm.DB
}

// NewRepledgeRepository creates a new repledge repository
func NewRepledgeRepository(db *gorm.DB) *RepledgeRepository {
	return &RepledgeRepository{db: db}
}

// newestFirst orders by creation time with id as the tie-break so pages are
// stable
const newestFirst = "created_at DESC, id DESC"

// scopedQuery applies the branch predicate and the newest-first order
func (r *RepledgeRepository) scopedQuery(ctx context.Context, scope domain.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Repledge{})
	if branchID := scope.BranchFilter(); branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}
	return q.Order(newestFirst)
}

func withRelations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Loan.Customer").
		Preload("Bank").
		Preload("CloseRepledge")
}

// ListByScope gets every repledge visible to scope with loan, customer,
// bank and close relations
func (r *RepledgeRepository) ListByScope(ctx context.Context, scope domain.Scope) ([]domain.RepledgeRecord, error) {
	if err := scope.Check(); err != nil {
		return nil, err
	}

	var rows []*models.Repledge
	if err := withRelations(r.scopedQuery(ctx, scope)).Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]domain.RepledgeRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.ToDomain())
	}
	return records, nil
}

// searchHit is the id page of a search with the window count
type searchHit struct {
	ID         string `gorm:"column:id"`
	TotalCount int64  `gorm:"column:total_count"`
}

// searchQuery builds the filtered join used by SearchRepledgeDetails
func (r *RepledgeRepository) searchQuery(ctx context.Context, p domain.SearchParams) *gorm.DB {
	q := r.db.WithContext(ctx).
		Table("repledges AS r").
		Joins("LEFT JOIN loans AS l ON l.id = r.loan_id").
		Joins("LEFT JOIN customers AS c ON c.id = l.customer_id")

	if p.BranchIDFilter != nil {
		q = q.Where("r.branch_id = ?", *p.BranchIDFilter)
	}

	if term := strings.ToLower(strings.TrimSpace(p.SearchTerm)); term != "" {
		like := "%" + escapeLike(term) + "%"
		q = q.Where(
			"(LOWER(c.name) LIKE ? OR LOWER(c.mobile_no) LIKE ? OR LOWER(l.loan_no) LIKE ? OR LOWER(r.repledge_no) LIKE ?)",
			like, like, like, like,
		)
	}

	if p.BankIDFilter != nil {
		q = q.Where("r.bank_id = ?", *p.BankIDFilter)
	}
	if p.StartDateFilter != nil {
		q = q.Where("DATE(r.date) >= ?", p.StartDateFilter.Format(sqlDateLayout))
	}
	if p.EndDateFilter != nil {
		q = q.Where("DATE(r.date) <= ?", p.EndDateFilter.Format(sqlDateLayout))
	}

	return q
}

// searchPage selects one page of ids with the window count
func (r *RepledgeRepository) searchPage(ctx context.Context, p domain.SearchParams) *gorm.DB {
	return r.searchQuery(ctx, p).
		Select("r.id AS id, COUNT(*) OVER() AS total_count").
		Order("r.created_at DESC, r.id DESC").
		Offset((p.PageNum - 1) * p.PageSize).
		Limit(p.PageSize)
}

// SearchRepledgeDetails runs the paginated search. Every returned row
// carries the filtered total (COUNT(*) OVER(), MySQL 8+).
func (r *RepledgeRepository) SearchRepledgeDetails(ctx context.Context, p domain.SearchParams) ([]domain.SearchRow, error) {
	if p.PageNum < 1 || p.PageSize < 1 {
		return nil, domain.ErrInvalidPageRequest
	}

	var hits []searchHit
	err := r.searchPage(ctx, p).Find(&hits).Error
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return []domain.SearchRow{}, nil
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}

	var repledges []*models.Repledge
	if err := withRelations(r.db.WithContext(ctx)).Where("id IN ?", ids).Find(&repledges).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Repledge, len(repledges))
	for _, rp := range repledges {
		byID[rp.ID] = rp
	}

	rows := make([]domain.SearchRow, 0, len(hits))
	for _, h := range hits {
		rp, ok := byID[h.ID]
		if !ok {
			// deleted between the two reads
			continue
		}
		total := h.TotalCount
		rows = append(rows, domain.SearchRow{RepledgeRecord: rp.ToDomain(), TotalCount: &total})
	}
	return rows, nil
}

// escapeLike escapes LIKE wildcards so the term matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
