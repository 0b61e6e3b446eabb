package services

import (
	"context"

	"amc-backend/internal/models"
)

// CustomerStore persists AMC customers. Implemented by the memory and Postgres repositories.
type CustomerStore interface {
	List(ctx context.Context) ([]*models.Customer, error)
	Get(ctx context.Context, id int) (*models.Customer, error)
	Create(ctx context.Context, c *models.Customer) error
	Rename(ctx context.Context, id int, name string) error
	Delete(ctx context.Context, id int) error
}

type BranchStore interface {
	ListByCustomer(ctx context.Context, customerID int) ([]models.Branch, error)
	Get(ctx context.Context, customerID, branchID int) (*models.Branch, error)
	Create(ctx context.Context, b *models.Branch) error
	Rename(ctx context.Context, customerID, branchID int, name string) error
	Delete(ctx context.Context, customerID, branchID int) error
	CompleteQuarter(ctx context.Context, customerID, branchID, quarter int) (*models.Branch, error)
}

type BreakdownStore interface {
	ListByBranch(ctx context.Context, customerID, branchID int) ([]models.BreakdownService, error)
	Append(ctx context.Context, svc *models.BreakdownService) error
}
