package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds money and carries the running balance maintained by the
// movement engine. BalanceStart is fixed at creation; Balance and
// BalancePrevious are only ever written by movement mutations and the
// balance repair operations.
type Account struct {
	ID              string
	Code            string
	Name            string
	Currency        string
	BalanceStart    decimal.Decimal
	BalancePrevious decimal.Decimal
	Balance         decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewAccount builds an account with the creation invariant applied:
// the balance equals the starting balance and the previous balance is zero.
func NewAccount(id, code, name, currency string, balanceStart decimal.Decimal, now time.Time) *Account {
	return &Account{
		ID:              id,
		Code:            code,
		Name:            name,
		Currency:        currency,
		BalanceStart:    balanceStart,
		BalancePrevious: decimal.Zero,
		Balance:         balanceStart,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Apply records a balance change: the current balance becomes the previous
// one and delta is added to it.
func (a *Account) Apply(delta decimal.Decimal) {
	a.BalancePrevious = a.Balance
	a.Balance = a.Balance.Add(delta)
}
