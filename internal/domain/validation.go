package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountCode = errors.New("invalid account code")
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidTitle       = errors.New("invalid movement title")
	ErrInvalidCurrency    = errors.New("invalid currency tag")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
)

// Validation constants
const (
	MaxAccountCodeLength = 10
	MaxAccountNameLength = 60
	MaxTitleLength       = 60
	MaxDetailLength      = 200
	MaxCurrencyLength    = 3
	MaxAmount            = "9999999999999" // 13 digits, matches the numeric(15,2) columns
)

var accountCodeRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateAccountCode validates the short external identifier of an account.
func ValidateAccountCode(code string) error {
	if code == "" || len(code) > MaxAccountCodeLength {
		return fmt.Errorf("%w: must be 1-%d characters", ErrInvalidAccountCode, MaxAccountCodeLength)
	}

	if !accountCodeRegex.MatchString(code) {
		return fmt.Errorf("%w: %q contains invalid characters", ErrInvalidAccountCode, code)
	}

	return nil
}

// ValidateAccountName validates an account display name.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateTitle validates a movement title.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)

	if title == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidTitle)
	}

	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrInvalidTitle, MaxTitleLength)
	}

	return nil
}

// ValidateCurrency validates a currency tag ("$", "EUR", ...).
func ValidateCurrency(currency string) error {
	currency = strings.TrimSpace(currency)

	if currency == "" || len(currency) > MaxCurrencyLength {
		return fmt.Errorf("%w: must be 1-%d characters", ErrInvalidCurrency, MaxCurrencyLength)
	}

	return nil
}

// ValidateAmount validates a movement amount. The sign of a movement lives
// in its role, never in the amount itself.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidatePagination clamps pagination parameters to sane bounds.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
