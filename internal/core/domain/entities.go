package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role represents user role in the system
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleBranchUser Role = "BRANCH_USER"
)

// ParseRole maps a stored role string onto the closed role set.
// Anything that is not ADMIN is treated as a branch user so that an unknown
// role can never widen visibility.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleBranchUser
}

// Principal is the authenticated user a query runs on behalf of
type Principal struct {
	ID       string
	Username string
	Role     Role
}

// IsAdmin returns true for admin principals
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Branch is a tenant unit
type Branch struct {
	ID   string
	Name string
	Code string
}

type scopeKind uint8

const (
	scopeInvalid scopeKind = iota
	scopeAll
	scopeBranch
)

// Scope is the tenant visibility applied to every repledge query.
// The zero value is invalid: it allows nothing and adapters reject it with
// ErrScopeUnavailable. Build one with Unrestricted or RestrictedTo.
type Scope struct {
	kind     scopeKind
	branchID string
}

// Unrestricted is the admin scope
func Unrestricted() Scope {
	return Scope{kind: scopeAll}
}

// RestrictedTo limits visibility to one branch. An empty id yields the
// invalid scope.
func RestrictedTo(branchID string) Scope {
	if branchID == "" {
		return Scope{}
	}
	return Scope{kind: scopeBranch, branchID: branchID}
}

// Valid reports whether the scope was built by Unrestricted or RestrictedTo
func (s Scope) Valid() bool {
	return s.kind != scopeInvalid
}

// Check returns ErrScopeUnavailable for the invalid scope
func (s Scope) Check() error {
	if !s.Valid() {
		return ErrScopeUnavailable
	}
	return nil
}

// IsRestricted reports whether a branch predicate applies. The invalid
// scope counts as restricted.
func (s Scope) IsRestricted() bool {
	return s.kind != scopeAll
}

// BranchID returns the restricting branch, empty otherwise
func (s Scope) BranchID() string {
	return s.branchID
}

// BranchFilter returns the optional equality value for branch_id. The
// invalid scope yields an empty id, which matches no row.
func (s Scope) BranchFilter() *string {
	if s.kind == scopeAll {
		return nil
	}
	id := s.branchID
	return &id
}

// Allows reports whether a record from branchID is visible in this scope
func (s Scope) Allows(branchID string) bool {
	switch s.kind {
	case scopeAll:
		return true
	case scopeBranch:
		return s.branchID == branchID
	default:
		return false
	}
}

func (s Scope) String() string {
	switch s.kind {
	case scopeAll:
		return "unrestricted"
	case scopeBranch:
		return "branch:" + s.branchID
	default:
		return "invalid"
	}
}

// LoanRef is the loan projection joined onto a repledge
type LoanRef struct {
	ID         string          `json:"id"`
	LoanNo     string          `json:"loan_no"`
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       *time.Time      `json:"date"`
}

// CustomerRef is the customer projection joined through the loan
type CustomerRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MobileNo string `json:"mobile_no"`
	PhotoURL string `json:"photo_url"`
}

// BankRef is the bank the loan was re-pledged to
type BankRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CloseRecord is present once a repledge has been closed
type CloseRecord struct {
	EndDate            time.Time       `json:"end_date"`
	PaymentMethod      string          `json:"payment_method"`
	CalculationMethod  string          `json:"calculation_method"`
	Duration           int             `json:"duration"`
	FinalInterestRate  decimal.Decimal `json:"final_interest_rate"`
	CalculatedInterest decimal.Decimal `json:"calculated_interest"`
	TotalPayable       decimal.Decimal `json:"total_payable"`
	CreatedAt          time.Time       `json:"created_at"`
}

// RepledgeRecord is a repledge with its joined projections
type RepledgeRecord struct {
	ID          string          `json:"id"`
	LoanID      string          `json:"loan_id"`
	RepledgeNo  string          `json:"repledge_no"`
	Amount      decimal.Decimal `json:"amount"`
	Date        *time.Time      `json:"date"`
	Status      string          `json:"status"`
	BankID      string          `json:"bank_id"`
	BranchID    string          `json:"branch_id"`
	CreatedAt   time.Time       `json:"created_at"`
	Loan        *LoanRef        `json:"loan,omitempty"`
	Customer    *CustomerRef    `json:"customer,omitempty"`
	Bank        *BankRef        `json:"bank,omitempty"`
	CloseRecord *CloseRecord    `json:"close_record,omitempty"`
}

// SearchResult is one page of records plus the filtered total
type SearchResult struct {
	Rows       []RepledgeRecord `json:"rows"`
	TotalCount int              `json:"total_count"`
}

// Page is a 1-based page request
type Page struct {
	Index int
	Size  int
}
