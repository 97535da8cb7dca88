package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind classifies a movement by which account references are set.
type MovementKind string

const (
	// KindInflow adds the amount to the in-account.
	KindInflow MovementKind = "inflow"
	// KindOutflow subtracts the amount from the out-account.
	KindOutflow MovementKind = "outflow"
	// KindTransfer adds to the in-account and subtracts from the out-account.
	KindTransfer MovementKind = "transfer"
)

// Movement is a single money movement. AccountInID and AccountOutID are
// optional (empty string means unset), but at least one must be present.
type Movement struct {
	ID           string
	Date         time.Time
	Title        string
	Detail       string
	Amount       decimal.Decimal
	Currency     string
	AccountInID  string
	AccountOutID string
	CategoryID   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Kind derives the movement kind from the populated account references.
// Returns ErrNoAccountSpecified when neither reference is set.
func (m *Movement) Kind() (MovementKind, error) {
	switch {
	case m.AccountInID != "" && m.AccountOutID != "":
		return KindTransfer, nil
	case m.AccountInID != "":
		return KindInflow, nil
	case m.AccountOutID != "":
		return KindOutflow, nil
	default:
		return "", ErrNoAccountSpecified
	}
}

// Validate checks the structural invariants of a movement.
func (m *Movement) Validate() error {
	if m.AccountInID == "" && m.AccountOutID == "" {
		return ErrNoAccountSpecified
	}

	if m.Amount.IsNegative() {
		return ErrNegativeAmount
	}

	if m.CategoryID == "" {
		return ErrNoCategory
	}

	return nil
}

// Snapshot captures the persisted fields the balance engine diffs against
// when a movement is edited.
func (m *Movement) Snapshot() MovementSnapshot {
	return MovementSnapshot{
		Amount:       m.Amount,
		AccountInID:  m.AccountInID,
		AccountOutID: m.AccountOutID,
	}
}

// MovementSnapshot is the last persisted balance-relevant state of a
// movement: the amount and the identities of the two account references.
type MovementSnapshot struct {
	Amount       decimal.Decimal
	AccountInID  string
	AccountOutID string
}
