package models

import (
	"time"

	"goldloan-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Tenancy & Auth Tables
// ============================================================

// Branch represents branches table
type Branch struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Code      string    `gorm:"uniqueIndex;size:20;not null" json:"code"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Branch) TableName() string {
	return "branches"
}

func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (b *Branch) ToDomain() *domain.Branch {
	return &domain.Branch{ID: b.ID, Name: b.Name, Code: b.Code}
}

// User represents users table
type User struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	FullName  string         `gorm:"size:100" json:"full_name"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'BRANCH_USER'" json:"role"`
	BranchID  *string        `gorm:"size:36;index" json:"branch_id"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Branch    *Branch        `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserResponse DTO
type UserResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	FullName string  `json:"full_name"`
	Role     string  `json:"role"`
	BranchID *string `json:"branch_id"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
		BranchID: u.BranchID,
	}
}

func (u *User) ToPrincipal() *domain.Principal {
	return &domain.Principal{ID: u.ID, Username: u.Username, Role: domain.ParseRole(u.Role)}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	UserID    string     `gorm:"size:36;index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:64;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	return nil
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(rt.ExpiresAt)
}

// ============================================================
// Ledger Tables
// ============================================================

// Customer represents customers table
type Customer struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:150;not null;index" json:"name"`
	MobileNo  *string   `gorm:"size:20;index" json:"mobile_no"`
	PhotoURL  *string   `gorm:"size:500" json:"photo_url"`
	BranchID  *string   `gorm:"size:36;index" json:"branch_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Customer) TableName() string {
	return "customers"
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Loan represents loans table
type Loan struct {
	ID         string          `gorm:"primaryKey;size:36" json:"id"`
	LoanNo     string          `gorm:"size:30;not null;index" json:"loan_no"`
	CustomerID string          `gorm:"size:36;not null;index" json:"customer_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date       *time.Time      `gorm:"type:date" json:"date"`
	BranchID   *string         `gorm:"size:36;index" json:"branch_id"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	Customer   *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Bank represents banks table (Master)
type Bank struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Bank) TableName() string {
	return "banks"
}

func (b *Bank) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Repledge status values
const (
	RepledgeStatusActive = "active"
	RepledgeStatusClosed = "closed"
)

// Repledge represents repledges table
type Repledge struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	LoanID         *string         `gorm:"size:36;index" json:"loan_id"`
	RepledgeNo     string          `gorm:"size:30;not null;index" json:"repledge_no"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount"`
	InterestRate   decimal.Decimal `gorm:"type:decimal(5,2)" json:"interest_rate"`
	ValidityMonths *int            `json:"validity_months"`
	Date           *time.Time      `gorm:"type:date;index" json:"date"`
	Status         string          `gorm:"size:20;default:'active';index" json:"status"`
	BankID         *string         `gorm:"size:36;index" json:"bank_id"`
	BranchID       *string         `gorm:"size:36;index" json:"branch_id"`
	CreatedAt      time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	Loan           *Loan           `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
	Bank           *Bank           `gorm:"foreignKey:BankID" json:"bank,omitempty"`
	CloseRepledge  *CloseRepledge  `gorm:"foreignKey:RepledgeID" json:"close_repledge,omitempty"`
}

func (Repledge) TableName() string {
	return "repledges"
}

func (r *Repledge) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// CloseRepledge represents close_repledges table
type CloseRepledge struct {
	ID                 string          `gorm:"primaryKey;size:36" json:"id"`
	RepledgeID         string          `gorm:"size:36;uniqueIndex;not null" json:"repledge_id"`
	EndDate            time.Time       `gorm:"type:date;not null" json:"end_date"`
	PaymentMethod      string          `gorm:"size:30" json:"payment_method"`
	CalculationMethod  string          `gorm:"size:30" json:"calculation_method"`
	Duration           int             `json:"duration"`
	FinalInterestRate  decimal.Decimal `gorm:"type:decimal(5,2)" json:"final_interest_rate"`
	CalculatedInterest decimal.Decimal `gorm:"type:decimal(15,2)" json:"calculated_interest"`
	TotalPayable       decimal.Decimal `gorm:"type:decimal(15,2)" json:"total_payable"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (CloseRepledge) TableName() string {
	return "close_repledges"
}

func (c *CloseRepledge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ToDomain flattens the row and its preloaded relations
func (r *Repledge) ToDomain() domain.RepledgeRecord {
	rec := domain.RepledgeRecord{
		ID:         r.ID,
		LoanID:     deref(r.LoanID),
		RepledgeNo: r.RepledgeNo,
		Amount:     r.Amount,
		Date:       r.Date,
		Status:     r.Status,
		BankID:     deref(r.BankID),
		BranchID:   deref(r.BranchID),
		CreatedAt:  r.CreatedAt,
	}

	if r.Loan != nil {
		rec.Loan = &domain.LoanRef{
			ID:         r.Loan.ID,
			LoanNo:     r.Loan.LoanNo,
			CustomerID: r.Loan.CustomerID,
			Amount:     r.Loan.Amount,
			Date:       r.Loan.Date,
		}
		if c := r.Loan.Customer; c != nil {
			rec.Customer = &domain.CustomerRef{
				ID:       c.ID,
				Name:     c.Name,
				MobileNo: deref(c.MobileNo),
				PhotoURL: deref(c.PhotoURL),
			}
		}
	}

	if r.Bank != nil {
		rec.Bank = &domain.BankRef{ID: r.Bank.ID, Name: r.Bank.Name}
	}

	if cr := r.CloseRepledge; cr != nil {
		rec.CloseRecord = &domain.CloseRecord{
			EndDate:            cr.EndDate,
			PaymentMethod:      cr.PaymentMethod,
			CalculationMethod:  cr.CalculationMethod,
			Duration:           cr.Duration,
			FinalInterestRate:  cr.FinalInterestRate,
			CalculatedInterest: cr.CalculatedInterest,
			TotalPayable:       cr.TotalPayable,
			CreatedAt:          cr.CreatedAt,
		}
	}

	return rec
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Branch{},
		&User{},
		&RefreshToken{},
		&Customer{},
		&Loan{},
		&Bank{},
		&Repledge{},
		&CloseRepledge{},
	)
}
