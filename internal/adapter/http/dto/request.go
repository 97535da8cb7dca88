package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nando/finper/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Currency     string          `json:"currency"`
	BalanceStart decimal.Decimal `json:"balance_start"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Code:         r.Code,
		Name:         r.Name,
		Currency:     r.Currency,
		BalanceStart: r.BalanceStart,
	}
}

// RenameAccountRequest represents a request to rename an account.
type RenameAccountRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CreateMovementRequest represents a request to create a movement.
type CreateMovementRequest struct {
	Date         *time.Time      `json:"date,omitempty"`
	Title        string          `json:"title"`
	Detail       string          `json:"detail,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency,omitempty"`
	AccountInID  string          `json:"account_in_id,omitempty"`
	AccountOutID string          `json:"account_out_id,omitempty"`
	CategoryID   string          `json:"category_id"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateMovementRequest) ToUseCaseInput() usecase.CreateMovementInput {
	return usecase.CreateMovementInput{
		Date:         r.Date,
		Title:        r.Title,
		Detail:       r.Detail,
		Amount:       r.Amount,
		Currency:     r.Currency,
		AccountInID:  r.AccountInID,
		AccountOutID: r.AccountOutID,
		CategoryID:   r.CategoryID,
	}
}

// UpdateMovementRequest carries the full new state of an edited movement.
type UpdateMovementRequest struct {
	Date         *time.Time      `json:"date,omitempty"`
	Title        string          `json:"title"`
	Detail       string          `json:"detail,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency,omitempty"`
	AccountInID  string          `json:"account_in_id,omitempty"`
	AccountOutID string          `json:"account_out_id,omitempty"`
	CategoryID   string          `json:"category_id"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateMovementRequest) ToUseCaseInput(id string) usecase.UpdateMovementInput {
	return usecase.UpdateMovementInput{
		ID:           id,
		Date:         r.Date,
		Title:        r.Title,
		Detail:       r.Detail,
		Amount:       r.Amount,
		Currency:     r.Currency,
		AccountInID:  r.AccountInID,
		AccountOutID: r.AccountOutID,
		CategoryID:   r.CategoryID,
	}
}

// CreateCategoryRequest represents a request to create a category.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCategoryRequest) ToUseCaseInput() usecase.CreateCategoryInput {
	return usecase.CreateCategoryInput{
		Name:        r.Name,
		Description: r.Description,
	}
}

// UpdateCategoryRequest represents a request to update a category.
type UpdateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
