package services

import (
	"context"
	"strings"

	"amc-backend/internal/cache"
	"amc-backend/internal/metrics"
	"amc-backend/internal/models"
	"amc-backend/internal/notify"
)

// BranchService manages the branches of one customer.
type BranchService struct {
	Customers CustomerStore
	Repo      BranchStore
	Policy    ConfirmationPolicy
	Notifier  notify.Notifier

	// ConfirmDelete gates DeleteBranch behind the customer confirmation policy.
	ConfirmDelete bool
}

func NewBranchService(customers CustomerStore, repo BranchStore, policy ConfirmationPolicy, notifier notify.Notifier, confirmDelete bool) *BranchService {
	return &BranchService{
		Customers:     customers,
		Repo:          repo,
		Policy:        policy,
		Notifier:      notifier,
		ConfirmDelete: confirmDelete,
	}
}

func (s *BranchService) AddBranch(ctx context.Context, customerID int, req *models.BranchRequest) (*models.Branch, error) {
	if err := validateStruct(req); err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}

	branch := &models.Branch{
		CustomerID: customerID,
		Name:       strings.TrimSpace(req.Name),
	}
	if err := s.Repo.Create(ctx, branch); err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}

	cache.InvalidateCustomerCaches(ctx)
	metrics.BranchMutations.WithLabelValues("create").Inc()
	s.Notifier.Notify(ctx, notify.Success("Branch added", "Branch %q added.", branch.Name))
	return branch, nil
}

func (s *BranchService) GetBranch(ctx context.Context, customerID, branchID int) (*models.Branch, error) {
	return s.Repo.Get(ctx, customerID, branchID)
}

func (s *BranchService) ListBranches(ctx context.Context, customerID int) ([]models.Branch, error) {
	return s.Repo.ListByCustomer(ctx, customerID)
}

func (s *BranchService) RenameBranch(ctx context.Context, customerID, branchID int, req *models.BranchRequest) (*models.Branch, error) {
	if err := validateStruct(req); err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}

	name := strings.TrimSpace(req.Name)
	if err := s.Repo.Rename(ctx, customerID, branchID, name); err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}
	branch, err := s.Repo.Get(ctx, customerID, branchID)
	if err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}

	cache.InvalidateCustomerCaches(ctx)
	metrics.BranchMutations.WithLabelValues("rename").Inc()
	s.Notifier.Notify(ctx, notify.Success("Branch updated", "Branch renamed to %q.", name))
	return branch, nil
}

// DeleteBranch removes the branch and its breakdown log.
func (s *BranchService) DeleteBranch(ctx context.Context, customerID, branchID int, password string) error {
	customer, err := s.Customers.Get(ctx, customerID)
	if err != nil {
		return refuse(ctx, s.Notifier, err)
	}
	branch, err := s.Repo.Get(ctx, customerID, branchID)
	if err != nil {
		return refuse(ctx, s.Notifier, err)
	}
	if s.ConfirmDelete {
		if err := s.Policy.Confirm(ctx, customer, password); err != nil {
			return refuse(ctx, s.Notifier, err)
		}
	}
	if err := s.Repo.Delete(ctx, customerID, branchID); err != nil {
		return refuse(ctx, s.Notifier, err)
	}

	cache.InvalidateCustomerCaches(ctx)
	metrics.BranchMutations.WithLabelValues("delete").Inc()
	s.Notifier.Notify(ctx, notify.Success("Branch deleted", "Branch %q has been deleted.", branch.Name))
	return nil
}
