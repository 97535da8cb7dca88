package domain

import "github.com/shopspring/decimal"

// BalanceCheck is the result of recomputing an account's expected balance
// from its starting balance and the movements that reference it.
type BalanceCheck struct {
	Balanced    bool
	Balance     decimal.Decimal
	Expected    decimal.Decimal
	MovementSum decimal.Decimal
}

// MovementSum returns the net contribution of movements to the account:
// amounts of movements flowing in minus amounts of movements flowing out.
// A movement referencing the account on both sides nets to zero.
func MovementSum(accountID string, movements []*Movement) decimal.Decimal {
	sum := decimal.Zero
	for _, m := range movements {
		if m.AccountInID == accountID {
			sum = sum.Add(m.Amount)
		}

		if m.AccountOutID == accountID {
			sum = sum.Sub(m.Amount)
		}
	}

	return sum
}

// CheckBalance verifies that balance == balance_start + movement sum.
// Pure function with no side effects; an unbalanced result is a data-quality
// signal, not an error.
func CheckBalance(account *Account, movements []*Movement) BalanceCheck {
	sum := MovementSum(account.ID, movements)
	expected := account.BalanceStart.Add(sum)

	return BalanceCheck{
		Balanced:    account.Balance.Equal(expected),
		Balance:     account.Balance,
		Expected:    expected,
		MovementSum: sum,
	}
}
