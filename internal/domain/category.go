package domain

import "time"

// Category groups movements. Every movement references exactly one.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
