package models

import (
	"fmt"
	"time"
)

// QuarterCount is the number of scheduled service visits per branch per contract year.
const QuarterCount = 4

type Customer struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	LogoRef      string    `json:"logo_ref"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Branches     []Branch  `json:"branches"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FindBranch returns the branch with the given id, or nil.
func (c *Customer) FindBranch(id int) *Branch {
	for i := range c.Branches {
		if c.Branches[i].ID == id {
			return &c.Branches[i]
		}
	}
	return nil
}

// Branch is a physical site of a customer; the unit quarterly and breakdown services are tracked at.
type Branch struct {
	ID         int                `json:"id"`
	CustomerID int                `json:"customer_id"`
	Name       string             `json:"name"`
	Quarters   [QuarterCount]bool `json:"quarters"`
	CreatedAt  time.Time          `json:"created_at"`
}

// CompletedQuarters counts the quarters already serviced.
func (b Branch) CompletedQuarters() int {
	n := 0
	for _, done := range b.Quarters {
		if done {
			n++
		}
	}
	return n
}

func (b Branch) Summary() string {
	return fmt.Sprintf("%d / %d quarters completed", b.CompletedQuarters(), QuarterCount)
}

// QuarterStatus is the display status of a single quarter.
func QuarterStatus(done bool) string {
	if done {
		return "Completed"
	}
	return "Pending"
}

// CreateCustomerRequest represents the request body for creating an AMC customer
type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"notblank"`
	LogoRef string `json:"logo_ref"`
}

// UpdateCustomerRequest represents the request body for renaming an AMC customer
type UpdateCustomerRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ConfirmRequest carries the confirmation password for destructive actions
type ConfirmRequest struct {
	Password string `json:"password"`
}

type BranchRequest struct {
	Name string `json:"name" validate:"notblank"`
}
