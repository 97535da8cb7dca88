package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nando/finper/internal/domain"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Currency        string          `json:"currency"`
	BalanceStart    decimal.Decimal `json:"balance_start"`
	BalancePrevious decimal.Decimal `json:"balance_previous"`
	Balance         decimal.Decimal `json:"balance"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:              a.ID,
		Code:            a.Code,
		Name:            a.Name,
		Currency:        a.Currency,
		BalanceStart:    a.BalanceStart,
		BalancePrevious: a.BalancePrevious,
		Balance:         a.Balance,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// MovementResponse represents a movement in API responses.
type MovementResponse struct {
	ID           string          `json:"id"`
	Date         time.Time       `json:"date"`
	Title        string          `json:"title"`
	Detail       string          `json:"detail,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Kind         string          `json:"kind"`
	AccountInID  string          `json:"account_in_id,omitempty"`
	AccountOutID string          `json:"account_out_id,omitempty"`
	CategoryID   string          `json:"category_id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// MovementFromDomain converts domain movement to response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	kind, _ := m.Kind()

	return &MovementResponse{
		ID:           m.ID,
		Date:         m.Date,
		Title:        m.Title,
		Detail:       m.Detail,
		Amount:       m.Amount,
		Currency:     m.Currency,
		Kind:         string(kind),
		AccountInID:  m.AccountInID,
		AccountOutID: m.AccountOutID,
		CategoryID:   m.CategoryID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// ListMovementsResponse wraps a page of movements.
type ListMovementsResponse struct {
	Movements []*MovementResponse `json:"movements"`
	Total     int64               `json:"total"`
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryFromDomain converts domain category to response.
func CategoryFromDomain(c *domain.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CategoriesFromDomain converts domain categories to responses.
func CategoriesFromDomain(categories []*domain.Category) []*CategoryResponse {
	result := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = CategoryFromDomain(c)
	}
	return result
}

// ListCategoriesResponse wraps a page of categories.
type ListCategoriesResponse struct {
	Categories []*CategoryResponse `json:"categories"`
	Total      int64               `json:"total"`
}

// BalanceCheckResponse reports the verification of one account.
type BalanceCheckResponse struct {
	AccountID   string          `json:"account_id"`
	Balanced    bool            `json:"balanced"`
	Balance     decimal.Decimal `json:"balance"`
	Expected    decimal.Decimal `json:"expected"`
	MovementSum decimal.Decimal `json:"movement_sum"`
}

// BalanceCheckFromDomain converts a domain balance check to a response.
func BalanceCheckFromDomain(accountID string, c *domain.BalanceCheck) *BalanceCheckResponse {
	return &BalanceCheckResponse{
		AccountID:   accountID,
		Balanced:    c.Balanced,
		Balance:     c.Balance,
		Expected:    c.Expected,
		MovementSum: c.MovementSum,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
