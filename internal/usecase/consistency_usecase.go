package usecase

import (
	"context"
	"time"

	"github.com/nando/finper/internal/domain"
)

// ConsistencyUseCase verifies account balances against the movements that
// reference them and exposes the two explicit repair operations. Repairs are
// always caller-invoked, never automatic.
type ConsistencyUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	movementRepo MovementRepository
	cache        Cache
}

// NewConsistencyUseCase creates a new ConsistencyUseCase.
func NewConsistencyUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	movementRepo MovementRepository,
	cache Cache,
) *ConsistencyUseCase {
	return &ConsistencyUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		cache:        cache,
	}
}

// CheckBalance recomputes the expected balance of an account from its
// starting balance and its movements. An unbalanced account is reported, not
// an error.
func (uc *ConsistencyUseCase) CheckBalance(ctx context.Context, accountID string) (*domain.BalanceCheck, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	movements, err := uc.movementRepo.ListAllByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	check := domain.CheckBalance(account, movements)

	return &check, nil
}

// CheckAllBalances checks every account.
func (uc *ConsistencyUseCase) CheckAllBalances(ctx context.Context) (map[string]domain.BalanceCheck, error) {
	limit, offset := domain.ValidatePagination(1000, 0)

	accounts, err := uc.accountRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	checks := make(map[string]domain.BalanceCheck, len(accounts))
	for _, account := range accounts {
		check, err := uc.CheckBalance(ctx, account.ID)
		if err != nil {
			return nil, err
		}

		checks[account.ID] = *check
	}

	return checks, nil
}

// CorrectBalance recomputes the current balance from the starting balance
// plus the movement sum, keeping the pre-repair balance in
// balance_previous.
func (uc *ConsistencyUseCase) CorrectBalance(ctx context.Context, accountID string) (*domain.Account, error) {
	now := time.Now().UTC()

	var account *domain.Account

	err := withTx(ctx, uc.txManager, func(tx Transaction) error {
		accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, []string{accountID})
		if err != nil {
			return err
		}

		if len(accounts) != 1 {
			return domain.ErrAccountNotFound
		}

		account = accounts[0]

		movements, err := uc.movementRepo.ListAllByAccount(ctx, accountID)
		if err != nil {
			return err
		}

		sum := domain.MovementSum(accountID, movements)

		account.BalancePrevious = account.Balance
		account.Balance = account.BalanceStart.Add(sum)

		return uc.accountRepo.UpdateBalances(ctx, tx, accountID, account.BalancePrevious, account.Balance, now)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, accountID)

	return account, nil
}

// CorrectStartBalance recomputes the starting balance from the current
// balance minus the movement sum. The current balance is left as is.
func (uc *ConsistencyUseCase) CorrectStartBalance(ctx context.Context, accountID string) (*domain.Account, error) {
	now := time.Now().UTC()

	var account *domain.Account

	err := withTx(ctx, uc.txManager, func(tx Transaction) error {
		accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, []string{accountID})
		if err != nil {
			return err
		}

		if len(accounts) != 1 {
			return domain.ErrAccountNotFound
		}

		account = accounts[0]

		movements, err := uc.movementRepo.ListAllByAccount(ctx, accountID)
		if err != nil {
			return err
		}

		sum := domain.MovementSum(accountID, movements)

		account.BalanceStart = account.Balance.Sub(sum)

		return uc.accountRepo.UpdateStartBalance(ctx, tx, accountID, account.BalanceStart, now)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, accountID)

	return account, nil
}

func (uc *ConsistencyUseCase) invalidate(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}

	_ = uc.cache.Delete(ctx, accountCacheKey(id))
}
