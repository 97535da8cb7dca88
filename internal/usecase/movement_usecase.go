package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nando/finper/internal/domain"
)

// MovementUseCase is the balance mutation engine. Creating, editing and
// deleting a movement must keep every touched account's balance equal to its
// starting balance plus the net of the movements referencing it.
//
// Edits are the intricate part: the amount and either account reference can
// change in the same request, and the same physical account may play several
// roles across the edit (old in-account becoming the new out-account, a
// swapped transfer, a role flip on one account). Instead of applying the four
// role adjustments as separate writes that must observe each other, the
// engine folds them into one net delta per account identity and flushes each
// distinct account exactly once, so stale-handle overwrites cannot happen.
type MovementUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	movementRepo MovementRepository
	categoryRepo CategoryRepository
	idGen        IDGenerator
	cache        Cache
	retrier      Retrier

	defaultCurrency string
}

// NewMovementUseCase creates a new MovementUseCase.
func NewMovementUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	movementRepo MovementRepository,
	categoryRepo CategoryRepository,
	idGen IDGenerator,
	cache Cache,
) *MovementUseCase {
	return &MovementUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		movementRepo: movementRepo,
		categoryRepo: categoryRepo,
		idGen:        idGen,
		cache:        cache,

		defaultCurrency: "$",
	}
}

// WithRetrier enables retries on transient storage errors.
func (uc *MovementUseCase) WithRetrier(r Retrier) *MovementUseCase {
	uc.retrier = r
	return uc
}

// WithDefaultCurrency overrides the currency tag stamped on movements created
// without one.
func (uc *MovementUseCase) WithDefaultCurrency(currency string) *MovementUseCase {
	if currency != "" {
		uc.defaultCurrency = currency
	}
	return uc
}

// CreateMovementInput represents input for creating a movement.
type CreateMovementInput struct {
	Date         *time.Time
	Title        string
	Detail       string
	Amount       decimal.Decimal
	Currency     string
	AccountInID  string
	AccountOutID string
	CategoryID   string
}

// CreateMovement creates a movement and applies its amount to the referenced
// accounts: added to the in-account, subtracted from the out-account. The
// movement record is persisted last, inside the same transaction.
func (uc *MovementUseCase) CreateMovement(ctx context.Context, input CreateMovementInput) (*domain.Movement, error) {
	now := time.Now().UTC()

	date := now
	if input.Date != nil {
		date = *input.Date
	}

	currency := input.Currency
	if currency == "" {
		currency = uc.defaultCurrency
	}

	movement := &domain.Movement{
		ID:           uc.idGen.Generate(),
		Date:         date,
		Title:        input.Title,
		Detail:       input.Detail,
		Amount:       input.Amount,
		Currency:     currency,
		AccountInID:  input.AccountInID,
		AccountOutID: input.AccountOutID,
		CategoryID:   input.CategoryID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Fail fast: nothing is written when the movement is invalid.
	if err := uc.validateMovement(ctx, movement); err != nil {
		return nil, err
	}

	deltas := newBalanceDeltas()
	deltas.add(movement.AccountInID, movement.Amount)
	deltas.add(movement.AccountOutID, movement.Amount.Neg())

	err := uc.run(ctx, func(tx Transaction) error {
		if err := uc.applyDeltas(ctx, tx, deltas, now); err != nil {
			return err
		}

		return uc.movementRepo.Create(ctx, tx, movement)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateAccounts(ctx, deltas.accountIDs())

	return movement, nil
}

// UpdateMovementInput represents the full new state of an edited movement.
type UpdateMovementInput struct {
	ID           string
	Date         *time.Time
	Title        string
	Detail       string
	Amount       decimal.Decimal
	Currency     string
	AccountInID  string
	AccountOutID string
	CategoryID   string
}

// UpdateMovement edits a movement, diffing the new values against the last
// persisted snapshot. The old amount is backed out of the old account
// references and the new amount applied to the new ones; when an account
// appears in several of those roles the deltas collapse into a single net
// write, so the result is the same whichever combination of amount,
// in-account and out-account changed.
func (uc *MovementUseCase) UpdateMovement(ctx context.Context, input UpdateMovementInput) (*domain.Movement, error) {
	now := time.Now().UTC()

	var movement *domain.Movement
	var touched []string

	err := uc.run(ctx, func(tx Transaction) error {
		prior, err := uc.movementRepo.GetByIDForUpdate(ctx, tx, input.ID)
		if err != nil {
			return err
		}

		snapshot := prior.Snapshot()

		movement = prior
		movement.Title = input.Title
		movement.Detail = input.Detail
		movement.Amount = input.Amount
		movement.AccountInID = input.AccountInID
		movement.AccountOutID = input.AccountOutID
		movement.CategoryID = input.CategoryID
		movement.UpdatedAt = now

		if input.Date != nil {
			movement.Date = *input.Date
		}

		if input.Currency != "" {
			movement.Currency = input.Currency
		}

		if err := uc.validateMovement(ctx, movement); err != nil {
			return err
		}

		deltas := newBalanceDeltas()
		deltas.add(snapshot.AccountInID, snapshot.Amount.Neg())
		deltas.add(snapshot.AccountOutID, snapshot.Amount)
		deltas.add(movement.AccountInID, movement.Amount)
		deltas.add(movement.AccountOutID, movement.Amount.Neg())
		touched = deltas.accountIDs()

		if err := uc.applyDeltas(ctx, tx, deltas, now); err != nil {
			return err
		}

		return uc.movementRepo.Update(ctx, tx, movement)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateAccounts(ctx, touched)

	return movement, nil
}

// DeleteMovement removes a movement, backing its amount out of the
// referenced accounts: the exact inverse of CreateMovement for the
// movement's persisted state.
func (uc *MovementUseCase) DeleteMovement(ctx context.Context, id string) error {
	now := time.Now().UTC()

	var touched []string

	err := uc.run(ctx, func(tx Transaction) error {
		movement, err := uc.movementRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		deltas := newBalanceDeltas()
		deltas.add(movement.AccountInID, movement.Amount.Neg())
		deltas.add(movement.AccountOutID, movement.Amount)
		touched = deltas.accountIDs()

		if err := uc.applyDeltas(ctx, tx, deltas, now); err != nil {
			return err
		}

		return uc.movementRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	uc.invalidateAccounts(ctx, touched)

	return nil
}

// GetMovement retrieves a movement by ID.
func (uc *MovementUseCase) GetMovement(ctx context.Context, id string) (*domain.Movement, error) {
	return uc.movementRepo.GetByID(ctx, id)
}

// ListMovementsInput represents input for listing movements.
type ListMovementsInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListMovements lists movements, optionally filtered by account.
func (uc *MovementUseCase) ListMovements(ctx context.Context, input ListMovementsInput) ([]*domain.Movement, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	if input.AccountID != "" {
		return uc.movementRepo.ListByAccount(ctx, input.AccountID, limit, offset)
	}

	return uc.movementRepo.List(ctx, limit, offset)
}

func (uc *MovementUseCase) validateMovement(ctx context.Context, movement *domain.Movement) error {
	if err := movement.Validate(); err != nil {
		return err
	}

	if err := domain.ValidateTitle(movement.Title); err != nil {
		return err
	}

	if err := domain.ValidateAmount(movement.Amount); err != nil {
		return err
	}

	if err := domain.ValidateCurrency(movement.Currency); err != nil {
		return err
	}

	if _, err := uc.categoryRepo.GetByID(ctx, movement.CategoryID); err != nil {
		return err
	}

	return nil
}

// applyDeltas locks every account named in deltas (sorted ids, deterministic
// lock order) and writes each one exactly once: previous balance saved, net
// delta added. A zero net delta still records the previous balance.
func (uc *MovementUseCase) applyDeltas(ctx context.Context, tx Transaction, deltas balanceDeltas, now time.Time) error {
	ids := deltas.accountIDs()

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return err
	}

	if len(accounts) != len(ids) {
		return domain.ErrAccountNotFound
	}

	for _, account := range accounts {
		account.Apply(deltas.sum(account.ID))

		err := uc.accountRepo.UpdateBalances(ctx, tx, account.ID, account.BalancePrevious, account.Balance, now)
		if err != nil {
			return err
		}
	}

	return nil
}

func (uc *MovementUseCase) run(ctx context.Context, fn func(tx Transaction) error) error {
	op := func() error {
		return withTx(ctx, uc.txManager, fn)
	}

	if uc.retrier != nil {
		return uc.retrier.Retry(ctx, op)
	}

	return op()
}

func (uc *MovementUseCase) invalidateAccounts(ctx context.Context, ids []string) {
	if uc.cache == nil {
		return
	}

	for _, id := range ids {
		_ = uc.cache.Delete(ctx, accountCacheKey(id))
	}
}

// balanceDeltas accumulates one net balance delta per account identity.
type balanceDeltas struct {
	sums map[string]decimal.Decimal
}

func newBalanceDeltas() balanceDeltas {
	return balanceDeltas{sums: make(map[string]decimal.Decimal)}
}

func (d balanceDeltas) add(accountID string, delta decimal.Decimal) {
	if accountID == "" {
		return
	}

	d.sums[accountID] = d.sums[accountID].Add(delta)
}

func (d balanceDeltas) sum(accountID string) decimal.Decimal {
	return d.sums[accountID]
}

func (d balanceDeltas) accountIDs() []string {
	ids := make([]string, 0, len(d.sums))
	for id := range d.sums {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}
