package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nando/finper/internal/domain"
)

const defaultAccountCacheTTL = 30 * time.Second

// AccountUseCase handles account business logic. Balance fields are never
// written here beyond the creation invariant; only the movement engine and
// the balance repair operations touch them.
type AccountUseCase struct {
	accountRepo     AccountRepository
	idGen           IDGenerator
	cache           Cache
	cacheTTL        time.Duration
	defaultCurrency string
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator, cache Cache) *AccountUseCase {
	return &AccountUseCase{
		accountRepo:     accountRepo,
		idGen:           idGen,
		cache:           cache,
		cacheTTL:        defaultAccountCacheTTL,
		defaultCurrency: "$",
	}
}

// WithCacheTTL overrides how long cached accounts stay fresh.
func (uc *AccountUseCase) WithCacheTTL(ttl time.Duration) *AccountUseCase {
	if ttl > 0 {
		uc.cacheTTL = ttl
	}
	return uc
}

// WithDefaultCurrency overrides the currency tag stamped on accounts created
// without one.
func (uc *AccountUseCase) WithDefaultCurrency(currency string) *AccountUseCase {
	if currency != "" {
		uc.defaultCurrency = currency
	}
	return uc
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Code         string
	Name         string
	Currency     string
	BalanceStart decimal.Decimal
}

// CreateAccount creates a new account with balance == balance_start and
// balance_previous == 0. This holds only at creation; later saves of the
// account never reapply it.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountCode(input.Code); err != nil {
		return nil, err
	}

	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = uc.defaultCurrency
	}

	if err := domain.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	account := domain.NewAccount(uc.idGen.Generate(), input.Code, input.Name, currency, input.BalanceStart, time.Now().UTC())

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID, through the read cache when one is
// configured.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, accountCacheKey(id)); err == nil {
			var account domain.Account
			if err := json.Unmarshal(data, &account); err == nil {
				return &account, nil
			}
		}
	}

	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(account); err == nil {
			_ = uc.cache.Set(ctx, accountCacheKey(id), data, uc.cacheTTL)
		}
	}

	return account, nil
}

// GetAccountByCode retrieves an account by its short code.
func (uc *AccountUseCase) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return uc.accountRepo.GetByCode(ctx, code)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.accountRepo.List(ctx, limit, offset)
}

// RenameAccountInput represents input for renaming an account.
type RenameAccountInput struct {
	ID   string
	Code string
	Name string
}

// RenameAccount changes the code and display name of an account. The
// balance fields are untouched: renaming must never re-trigger the creation
// invariant.
func (uc *AccountUseCase) RenameAccount(ctx context.Context, input RenameAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountCode(input.Code); err != nil {
		return nil, err
	}

	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateDetails(ctx, input.ID, input.Code, input.Name, time.Now().UTC()); err != nil {
		return nil, err
	}

	uc.invalidate(ctx, input.ID)

	return uc.accountRepo.GetByID(ctx, input.ID)
}

// DeleteAccount deletes an account. Accounts still referenced by movements
// are protected: the repository's domain.ErrAccountInUse propagates as is.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, id string) error {
	if err := uc.accountRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.invalidate(ctx, id)

	return nil
}

func (uc *AccountUseCase) invalidate(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}

	_ = uc.cache.Delete(ctx, accountCacheKey(id))
}
