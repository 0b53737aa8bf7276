package repositories

import (
	"context"
	"time"

	"goldloan-ledger/internal/adapters/persistence/models"
	"goldloan-ledger/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id string) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// BranchRepository defines branch repository interface
type BranchRepository interface {
	GetByID(ctx context.Context, id string) (*models.Branch, error)
	List(ctx context.Context) ([]*models.Branch, error)
}

// BankRepository defines bank lookup interface
type BankRepository interface {
	List(ctx context.Context) ([]*models.Bank, error)
}

// SearchProcedure is the server-side repledge search.
// Implementations apply branch isolation and filters, paginate, and put the
// same total_count on every returned row.
type SearchProcedure interface {
	SearchRepledgeDetails(ctx context.Context, params domain.SearchParams) ([]domain.SearchRow, error)
}

// FullScopeReader returns every repledge visible to a scope with its joins,
// newest first.
type FullScopeReader interface {
	ListByScope(ctx context.Context, scope domain.Scope) ([]domain.RepledgeRecord, error)
}
