package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountInUse    = errors.New("account is referenced by movements")
	ErrDuplicateCode   = errors.New("account code already in use")

	// Movement errors
	ErrMovementNotFound   = errors.New("movement not found")
	ErrNoAccountSpecified = errors.New("no account specified")
	ErrNegativeAmount     = errors.New("amount must not be negative")
	ErrNoCategory         = errors.New("category is required")

	// Category errors
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category is referenced by movements")
)
