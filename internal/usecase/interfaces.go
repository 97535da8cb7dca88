package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nando/finper/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
	// GetByIDsForUpdate loads and locks accounts. Callers pass ids in sorted
	// order to keep lock acquisition deterministic.
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalances(ctx context.Context, tx Transaction, id string, previous, balance decimal.Decimal, updatedAt time.Time) error
	UpdateStartBalance(ctx context.Context, tx Transaction, id string, balanceStart decimal.Decimal, updatedAt time.Time) error
	// UpdateDetails changes code and name only; it must never touch the
	// balance columns.
	UpdateDetails(ctx context.Context, id, code, name string, updatedAt time.Time) error
	// Delete removes an account, returning domain.ErrAccountInUse while any
	// movement still references it.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// MovementRepository defines data access for movements.
type MovementRepository interface {
	Create(ctx context.Context, tx Transaction, movement *domain.Movement) error
	GetByID(ctx context.Context, id string) (*domain.Movement, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Movement, error)
	Update(ctx context.Context, tx Transaction, movement *domain.Movement) error
	Delete(ctx context.Context, tx Transaction, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Movement, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Movement, error)
	// ListAllByAccount returns every movement referencing the account in
	// either role, for balance verification.
	ListAllByAccount(ctx context.Context, accountID string) ([]*domain.Movement, error)
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	// Delete removes a category, returning domain.ErrCategoryInUse while any
	// movement still references it.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*domain.Category, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for account reads.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Retrier retries an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

func accountCacheKey(id string) string {
	return "account:" + id
}

// withTx runs fn inside a transaction, committing on success.
func withTx(ctx context.Context, tm TransactionManager, fn func(tx Transaction) error) error {
	tx, err := tm.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
