package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nando/finper/internal/domain"
	"github.com/nando/finper/internal/usecase"
	"github.com/nando/finper/internal/usecase/mocks"
)

type engineFixture struct {
	uc      *usecase.MovementUseCase
	accRepo *mocks.MockAccountRepository
	movRepo *mocks.MockMovementRepository
	catRepo *mocks.MockCategoryRepository
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	f := &engineFixture{
		accRepo: mocks.NewMockAccountRepository(),
		movRepo: mocks.NewMockMovementRepository(),
		catRepo: mocks.NewMockCategoryRepository(),
	}

	f.catRepo.Create(context.Background(), &domain.Category{ID: "cat-1", Name: "groceries"})

	f.uc = usecase.NewMovementUseCase(
		mocks.NewMockTransactionManager(),
		f.accRepo,
		f.movRepo,
		f.catRepo,
		mocks.NewMockIDGenerator(),
		nil,
	)

	return f
}

// seedAccount stores an account whose balance may differ from its starting
// balance, the way a long-lived account looks after many movements.
func (f *engineFixture) seedAccount(t *testing.T, id string, balance int64) {
	t.Helper()

	err := f.accRepo.Create(context.Background(), &domain.Account{
		ID:           id,
		Code:         id,
		Name:         id,
		Currency:     "$",
		BalanceStart: decimal.NewFromInt(balance),
		Balance:      decimal.NewFromInt(balance),
	})
	if err != nil {
		t.Fatalf("seed account %s: %v", id, err)
	}
}

func (f *engineFixture) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()

	acc, err := f.accRepo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get account %s: %v", id, err)
	}

	return acc.Balance
}

func (f *engineFixture) account(t *testing.T, id string) *domain.Account {
	t.Helper()

	acc, err := f.accRepo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get account %s: %v", id, err)
	}

	return acc
}

func assertBalance(t *testing.T, got decimal.Decimal, want int64) {
	t.Helper()

	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("balance = %s, want %d", got, want)
	}
}

func createMovement(t *testing.T, f *engineFixture, amount int64, in, out string) *domain.Movement {
	t.Helper()

	mov, err := f.uc.CreateMovement(context.Background(), usecase.CreateMovementInput{
		Title:        "movement",
		Amount:       decimal.NewFromInt(amount),
		AccountInID:  in,
		AccountOutID: out,
		CategoryID:   "cat-1",
	})
	if err != nil {
		t.Fatalf("create movement: %v", err)
	}

	return mov
}

func editMovement(t *testing.T, f *engineFixture, mov *domain.Movement, amount int64, in, out string) *domain.Movement {
	t.Helper()

	updated, err := f.uc.UpdateMovement(context.Background(), usecase.UpdateMovementInput{
		ID:           mov.ID,
		Title:        mov.Title,
		Amount:       decimal.NewFromInt(amount),
		AccountInID:  in,
		AccountOutID: out,
		CategoryID:   mov.CategoryID,
	})
	if err != nil {
		t.Fatalf("edit movement: %v", err)
	}

	return updated
}

func TestMovementUseCase_CreateOutflow(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-out", 5000)

	createMovement(t, f, 500, "", "acc-out")

	assertBalance(t, f.balance(t, "acc-out"), 4500)

	acc := f.account(t, "acc-out")
	if !acc.BalancePrevious.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("balance_previous = %s, want 5000", acc.BalancePrevious)
	}
	if !acc.BalanceStart.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("balance_start = %s, want unchanged 5000", acc.BalanceStart)
	}
}

func TestMovementUseCase_CreateInflow(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-in", 1200)

	createMovement(t, f, 600, "acc-in", "")

	assertBalance(t, f.balance(t, "acc-in"), 1800)
}

func TestMovementUseCase_CreateTransfer(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-in", 2000)
	f.seedAccount(t, "acc-out", 4500)

	createMovement(t, f, 900, "acc-in", "acc-out")

	assertBalance(t, f.balance(t, "acc-in"), 2900)
	assertBalance(t, f.balance(t, "acc-out"), 3600)
}

func TestMovementUseCase_CreateSelfTransferNetsZero(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-1", 3000)

	createMovement(t, f, 750, "acc-1", "acc-1")

	assertBalance(t, f.balance(t, "acc-1"), 3000)
}

func TestMovementUseCase_CreateNoAccount(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-1", 3000)

	_, err := f.uc.CreateMovement(context.Background(), usecase.CreateMovementInput{
		Title:      "orphan",
		Amount:     decimal.NewFromInt(100),
		CategoryID: "cat-1",
	})
	if !errors.Is(err, domain.ErrNoAccountSpecified) {
		t.Fatalf("expected ErrNoAccountSpecified, got %v", err)
	}

	// Fail fast: nothing was written.
	movements, _ := f.movRepo.List(context.Background(), 100, 0)
	if len(movements) != 0 {
		t.Errorf("expected no movements persisted, got %d", len(movements))
	}
	assertBalance(t, f.balance(t, "acc-1"), 3000)
}

func TestMovementUseCase_CreateNegativeAmount(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-1", 3000)

	_, err := f.uc.CreateMovement(context.Background(), usecase.CreateMovementInput{
		Title:       "negative",
		Amount:      decimal.NewFromInt(-10),
		AccountInID: "acc-1",
		CategoryID:  "cat-1",
	})
	if !errors.Is(err, domain.ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}

	assertBalance(t, f.balance(t, "acc-1"), 3000)
}

func TestMovementUseCase_CreateUnknownCategory(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-1", 3000)

	_, err := f.uc.CreateMovement(context.Background(), usecase.CreateMovementInput{
		Title:       "uncategorized",
		Amount:      decimal.NewFromInt(10),
		AccountInID: "acc-1",
		CategoryID:  "cat-missing",
	})
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	assertBalance(t, f.balance(t, "acc-1"), 3000)
}

func TestMovementUseCase_EditAmountOnly(t *testing.T) {
	t.Run("inflow", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedAccount(t, "acc-in", 1000)

		mov := createMovement(t, f, 1500, "acc-in", "")
		assertBalance(t, f.balance(t, "acc-in"), 2500)

		editMovement(t, f, mov, 2000, "acc-in", "")
		assertBalance(t, f.balance(t, "acc-in"), 3000)
	})

	t.Run("outflow", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedAccount(t, "acc-out", 5000)

		mov := createMovement(t, f, 1500, "", "acc-out")
		assertBalance(t, f.balance(t, "acc-out"), 3500)

		editMovement(t, f, mov, 2000, "", "acc-out")
		assertBalance(t, f.balance(t, "acc-out"), 3000)
	})

	t.Run("transfer", func(t *testing.T) {
		f := newEngineFixture(t)
		f.seedAccount(t, "acc-in", 1000)
		f.seedAccount(t, "acc-out", 5000)

		mov := createMovement(t, f, 1500, "acc-in", "acc-out")
		assertBalance(t, f.balance(t, "acc-in"), 2500)
		assertBalance(t, f.balance(t, "acc-out"), 3500)

		editMovement(t, f, mov, 2000, "acc-in", "acc-out")
		assertBalance(t, f.balance(t, "acc-in"), 3000)
		assertBalance(t, f.balance(t, "acc-out"), 3000)
	})
}

// A role flip on a single account: the in-account of an inflow becomes the
// out-account of an outflow. The net effect is minus twice the amount.
func TestMovementUseCase_EditRoleFlipSameAccount(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-1", 4000)

	mov := createMovement(t, f, 1500, "acc-1", "")
	assertBalance(t, f.balance(t, "acc-1"), 5500)

	editMovement(t, f, mov, 1500, "", "acc-1")
	assertBalance(t, f.balance(t, "acc-1"), 2500)
}

func TestMovementUseCase_EditRoleFlipOppositeDirection(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-1", 4000)

	mov := createMovement(t, f, 1500, "", "acc-1")
	assertBalance(t, f.balance(t, "acc-1"), 2500)

	editMovement(t, f, mov, 1500, "acc-1", "")
	assertBalance(t, f.balance(t, "acc-1"), 5500)
}

// Swapping the two ends of a transfer moves each account by twice the
// amount, in opposite directions.
func TestMovementUseCase_EditSwapTransferAccounts(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-a", 10000)
	f.seedAccount(t, "acc-b", 10000)

	mov := createMovement(t, f, 2350, "acc-a", "acc-b")
	assertBalance(t, f.balance(t, "acc-a"), 12350)
	assertBalance(t, f.balance(t, "acc-b"), 7650)

	editMovement(t, f, mov, 2350, "acc-b", "acc-a")
	assertBalance(t, f.balance(t, "acc-a"), 7650)
	assertBalance(t, f.balance(t, "acc-b"), 12350)
}

// Swap plus amount change in one edit: each account backs out the old
// amount in its old role and applies the new amount in its new role.
func TestMovementUseCase_EditSwapAndAmountChange(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-a", 10000)
	f.seedAccount(t, "acc-b", 10000)

	mov := createMovement(t, f, 2322, "acc-a", "acc-b")
	assertBalance(t, f.balance(t, "acc-a"), 12322)
	assertBalance(t, f.balance(t, "acc-b"), 7678)

	editMovement(t, f, mov, 329, "acc-b", "acc-a")

	// acc-a: 12322 - 2322 - 329 = 9671; acc-b: 7678 + 2322 + 329 = 10329.
	assertBalance(t, f.balance(t, "acc-a"), 9671)
	assertBalance(t, f.balance(t, "acc-b"), 10329)
}

func TestMovementUseCase_EditTransferToOutflow(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-in", 5000)
	f.seedAccount(t, "acc-out", 5000)

	mov := createMovement(t, f, 2340, "acc-in", "acc-out")
	assertBalance(t, f.balance(t, "acc-in"), 7340)
	assertBalance(t, f.balance(t, "acc-out"), 2660)

	// Dropping the in-account turns the transfer into a plain outflow. The
	// former in-account gets its amount backed out; the out-account keeps
	// its deduction.
	editMovement(t, f, mov, 2340, "", "acc-out")
	assertBalance(t, f.balance(t, "acc-in"), 5000)
	assertBalance(t, f.balance(t, "acc-out"), 2660)
}

func TestMovementUseCase_EditOutflowToTransfer(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-in", 5000)
	f.seedAccount(t, "acc-out", 5000)

	mov := createMovement(t, f, 2350, "", "acc-out")
	assertBalance(t, f.balance(t, "acc-out"), 2650)

	editMovement(t, f, mov, 2350, "acc-in", "acc-out")
	assertBalance(t, f.balance(t, "acc-in"), 7350)
	assertBalance(t, f.balance(t, "acc-out"), 2650)
}

func TestMovementUseCase_EditAccountAndAmountChange(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-a", 5000)
	f.seedAccount(t, "acc-b", 5000)

	mov := createMovement(t, f, 1000, "acc-a", "")
	assertBalance(t, f.balance(t, "acc-a"), 6000)

	// Move the inflow to a different account and change the amount. The old
	// account returns to its pre-movement balance, the new account absorbs
	// only the new amount.
	editMovement(t, f, mov, 1750, "acc-b", "")
	assertBalance(t, f.balance(t, "acc-a"), 5000)
	assertBalance(t, f.balance(t, "acc-b"), 6750)
}

// Both ends and the amount change at once: four distinct accounts, each
// written exactly once with exactly one net delta.
func TestMovementUseCase_EditThreeWayChange(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-old-in", 5000)
	f.seedAccount(t, "acc-old-out", 5000)
	f.seedAccount(t, "acc-new-in", 5000)
	f.seedAccount(t, "acc-new-out", 5000)

	mov := createMovement(t, f, 800, "acc-old-in", "acc-old-out")
	assertBalance(t, f.balance(t, "acc-old-in"), 5800)
	assertBalance(t, f.balance(t, "acc-old-out"), 4200)

	counted := countBalanceWrites(f.accRepo)

	editMovement(t, f, mov, 1200, "acc-new-in", "acc-new-out")

	got := counted()
	for _, id := range []string{"acc-old-in", "acc-old-out", "acc-new-in", "acc-new-out"} {
		if got[id] != 1 {
			t.Errorf("account %s written %d times, want exactly 1", id, got[id])
		}
	}

	assertBalance(t, f.balance(t, "acc-old-in"), 5000)
	assertBalance(t, f.balance(t, "acc-old-out"), 5000)
	assertBalance(t, f.balance(t, "acc-new-in"), 6200)
	assertBalance(t, f.balance(t, "acc-new-out"), 3800)
}

// countBalanceWrites instruments the repository to count UpdateBalances
// calls per account, delegating to the default map-backed behavior.
func countBalanceWrites(repo *mocks.MockAccountRepository) func() map[string]int {
	writes := make(map[string]int)

	repo.UpdateBalancesFunc = func(ctx context.Context, tx usecase.Transaction, id string, previous, balance decimal.Decimal, updatedAt time.Time) error {
		writes[id]++
		saved := repo.UpdateBalancesFunc
		repo.UpdateBalancesFunc = nil
		err := repo.UpdateBalances(ctx, tx, id, previous, balance, updatedAt)
		repo.UpdateBalancesFunc = saved
		return err
	}

	return func() map[string]int {
		repo.UpdateBalancesFunc = nil
		return writes
	}
}

func TestMovementUseCase_EditNoOp(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-in", 2000)
	f.seedAccount(t, "acc-out", 8000)

	mov := createMovement(t, f, 450, "acc-in", "acc-out")
	assertBalance(t, f.balance(t, "acc-in"), 2450)
	assertBalance(t, f.balance(t, "acc-out"), 7550)

	editMovement(t, f, mov, 450, "acc-in", "acc-out")

	assertBalance(t, f.balance(t, "acc-in"), 2450)
	assertBalance(t, f.balance(t, "acc-out"), 7550)
}

func TestMovementUseCase_EditRemovingBothAccounts(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-in", 2000)

	mov := createMovement(t, f, 450, "acc-in", "")

	_, err := f.uc.UpdateMovement(context.Background(), usecase.UpdateMovementInput{
		ID:         mov.ID,
		Title:      mov.Title,
		Amount:     decimal.NewFromInt(450),
		CategoryID: "cat-1",
	})
	if !errors.Is(err, domain.ErrNoAccountSpecified) {
		t.Fatalf("expected ErrNoAccountSpecified, got %v", err)
	}

	// Rolled back: the movement and balance are untouched.
	assertBalance(t, f.balance(t, "acc-in"), 2450)

	stored, err := f.uc.GetMovement(context.Background(), mov.ID)
	if err != nil {
		t.Fatalf("get movement: %v", err)
	}
	if stored.AccountInID != "acc-in" {
		t.Errorf("movement in-account = %q, want acc-in", stored.AccountInID)
	}
}

func TestMovementUseCase_DeleteInflow(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-in", 1200)

	mov := createMovement(t, f, 600, "acc-in", "")
	assertBalance(t, f.balance(t, "acc-in"), 1800)

	if err := f.uc.DeleteMovement(context.Background(), mov.ID); err != nil {
		t.Fatalf("delete movement: %v", err)
	}

	assertBalance(t, f.balance(t, "acc-in"), 1200)
}

func TestMovementUseCase_DeleteTransfer(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-in", 2000)
	f.seedAccount(t, "acc-out", 4500)

	mov := createMovement(t, f, 900, "acc-in", "acc-out")

	if err := f.uc.DeleteMovement(context.Background(), mov.ID); err != nil {
		t.Fatalf("delete movement: %v", err)
	}

	assertBalance(t, f.balance(t, "acc-in"), 2000)
	assertBalance(t, f.balance(t, "acc-out"), 4500)

	if _, err := f.uc.GetMovement(context.Background(), mov.ID); !errors.Is(err, domain.ErrMovementNotFound) {
		t.Fatalf("expected ErrMovementNotFound after delete, got %v", err)
	}
}

// Round trip: create, a chain of edits, delete. Every account ends where it
// started.
func TestMovementUseCase_RoundTrip(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-a", 5000)
	f.seedAccount(t, "acc-b", 3000)
	f.seedAccount(t, "acc-c", 7000)

	mov := createMovement(t, f, 1234, "acc-a", "acc-b")
	mov = editMovement(t, f, mov, 567, "acc-b", "acc-c")
	mov = editMovement(t, f, mov, 567, "acc-c", "acc-c")
	mov = editMovement(t, f, mov, 89, "acc-a", "")

	if err := f.uc.DeleteMovement(context.Background(), mov.ID); err != nil {
		t.Fatalf("delete movement: %v", err)
	}

	assertBalance(t, f.balance(t, "acc-a"), 5000)
	assertBalance(t, f.balance(t, "acc-b"), 3000)
	assertBalance(t, f.balance(t, "acc-c"), 7000)
}

func TestMovementUseCase_BalancePreviousOnEdit(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-1", 4000)

	mov := createMovement(t, f, 1500, "acc-1", "")
	assertBalance(t, f.balance(t, "acc-1"), 5500)

	editMovement(t, f, mov, 1500, "", "acc-1")

	acc := f.account(t, "acc-1")
	if !acc.BalancePrevious.Equal(decimal.NewFromInt(5500)) {
		t.Errorf("balance_previous = %s, want balance before the edit 5500", acc.BalancePrevious)
	}
	assertBalance(t, acc.Balance, 2500)
}

func TestMovementUseCase_EditUnknownMovement(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-1", 4000)

	_, err := f.uc.UpdateMovement(context.Background(), usecase.UpdateMovementInput{
		ID:          "missing",
		Title:       "ghost",
		Amount:      decimal.NewFromInt(10),
		AccountInID: "acc-1",
		CategoryID:  "cat-1",
	})
	if !errors.Is(err, domain.ErrMovementNotFound) {
		t.Fatalf("expected ErrMovementNotFound, got %v", err)
	}
}

func TestMovementUseCase_CreateUnknownAccount(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.uc.CreateMovement(context.Background(), usecase.CreateMovementInput{
		Title:       "nowhere",
		Amount:      decimal.NewFromInt(10),
		AccountInID: "acc-missing",
		CategoryID:  "cat-1",
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestMovementUseCase_ListMovements(t *testing.T) {
	f := newEngineFixture(t)
	f.seedAccount(t, "acc-a", 5000)
	f.seedAccount(t, "acc-b", 5000)

	createMovement(t, f, 100, "acc-a", "")
	createMovement(t, f, 200, "", "acc-b")
	createMovement(t, f, 300, "acc-a", "acc-b")

	all, err := f.uc.ListMovements(context.Background(), usecase.ListMovementsInput{})
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 movements, got %d", len(all))
	}

	byAccount, err := f.uc.ListMovements(context.Background(), usecase.ListMovementsInput{AccountID: "acc-a"})
	if err != nil {
		t.Fatalf("list by account: %v", err)
	}
	if len(byAccount) != 2 {
		t.Errorf("expected 2 movements for acc-a, got %d", len(byAccount))
	}
}
