package repositories

import (
	"context"

	"goldloan-ledger/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// bankRepository implements BankRepository interface
type bankRepository struct {
	db *gorm.DB
}

// NewBankRepository creates a new bank repository
func NewBankRepository(db *gorm.DB) BankRepository {
	return &bankRepository{db: db}
}

// List lists all active banks
func (r *bankRepository) List(ctx context.Context) ([]*models.Bank, error) {
	var banks []*models.Bank
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&banks).Error
	return banks, err
}

// branchRepository implements BranchRepository interface
type branchRepository struct {
	db *gorm.DB
}

// NewBranchRepository creates a new branch repository
func NewBranchRepository(db *gorm.DB) BranchRepository {
	return &branchRepository{db: db}
}

// GetByID gets a branch by ID
func (r *branchRepository) GetByID(ctx context.Context, id string) (*models.Branch, error) {
	var branch models.Branch
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&branch).Error
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

// List lists all branches
func (r *branchRepository) List(ctx context.Context) ([]*models.Branch, error) {
	var branches []*models.Branch
	err := r.db.WithContext(ctx).Order("code ASC").Find(&branches).Error
	return branches, err
}
