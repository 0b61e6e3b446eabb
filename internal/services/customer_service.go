package services

import (
	"context"
	"strings"
	"time"

	"amc-backend/internal/auth"
	"amc-backend/internal/cache"
	"amc-backend/internal/metrics"
	"amc-backend/internal/models"
	"amc-backend/internal/notify"
)

const customerListTTL = 5 * time.Minute

// CustomerOptions are the defaults applied to new customers.
type CustomerOptions struct {
	DefaultLogo     string
	DefaultPassword string
}

// CustomerService is the customer directory: the list of AMC customers and the
// operations that add, rename and remove them.
type CustomerService struct {
	Repo     CustomerStore
	Policy   ConfirmationPolicy
	Notifier notify.Notifier
	opts     CustomerOptions
}

func NewCustomerService(repo CustomerStore, policy ConfirmationPolicy, notifier notify.Notifier, opts CustomerOptions) *CustomerService {
	if opts.DefaultLogo == "" {
		opts.DefaultLogo = "/placeholder.svg"
	}
	return &CustomerService{Repo: repo, Policy: policy, Notifier: notifier, opts: opts}
}

func (s *CustomerService) AddCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error) {
	if err := validateStruct(req); err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}

	hash, err := auth.HashPassword(s.opts.DefaultPassword)
	if err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}

	customer := &models.Customer{
		Name:         strings.TrimSpace(req.Name),
		LogoRef:      s.opts.DefaultLogo,
		PasswordHash: hash,
		Branches:     []models.Branch{},
	}
	if logo := strings.TrimSpace(req.LogoRef); logo != "" {
		customer.LogoRef = logo
	}

	if err := s.Repo.Create(ctx, customer); err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}

	cache.InvalidateCustomerCaches(ctx)
	metrics.CustomerMutations.WithLabelValues("create").Inc()
	s.Notifier.Notify(ctx, notify.Success("Customer added", "New customer has been added successfully"))
	return customer, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id int) (*models.Customer, error) {
	return s.Repo.Get(ctx, id)
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	var cached []*models.Customer
	if cache.GetJSON(ctx, cache.CustomerListKey, &cached) {
		return cached, nil
	}

	customers, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []*models.Customer{}
	}
	cache.SetJSON(ctx, cache.CustomerListKey, customers, customerListTTL)
	return customers, nil
}

// RenameCustomer changes the display name once the confirmation policy accepts the
// supplied password. A blank name keeps the current one.
func (s *CustomerService) RenameCustomer(ctx context.Context, id int, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}
	if err := s.Policy.Confirm(ctx, customer, req.Password); err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}

	if name := strings.TrimSpace(req.Name); name != "" && name != customer.Name {
		if err := s.Repo.Rename(ctx, id, name); err != nil {
			return nil, refuse(ctx, s.Notifier, err)
		}
		customer.Name = name
	}

	cache.InvalidateCustomerCaches(ctx)
	metrics.CustomerMutations.WithLabelValues("rename").Inc()
	s.Notifier.Notify(ctx, notify.Success("Customer updated", "Customer details have been updated successfully"))
	return customer, nil
}

// DeleteCustomer removes the customer with all branches and breakdown records.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int, password string) error {
	customer, err := s.Repo.Get(ctx, id)
	if err != nil {
		return refuse(ctx, s.Notifier, err)
	}
	if err := s.Policy.Confirm(ctx, customer, password); err != nil {
		return refuse(ctx, s.Notifier, err)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return refuse(ctx, s.Notifier, err)
	}

	cache.InvalidateCustomerCaches(ctx)
	metrics.CustomerMutations.WithLabelValues("delete").Inc()
	s.Notifier.Notify(ctx, notify.Success("Customer deleted", "Customer %q has been deleted", customer.Name))
	return nil
}
