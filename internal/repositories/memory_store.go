package repositories

import (
	"context"
	"sync"

	"amc-backend/internal/apperr"
	"amc-backend/internal/models"
	"amc-backend/internal/timeutil"
)

type branchKey struct {
	customerID int
	branchID   int
}

// MemoryStore keeps the whole AMC hierarchy in process memory. It is constructed once
// at startup and shared by reference; every read returns a copy so callers can never
// mutate stored state behind the store's back.
type MemoryStore struct {
	mu         sync.RWMutex
	customers  []*models.Customer
	breakdowns map[branchKey][]models.BreakdownService
	now        timeutil.Clock
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		breakdowns: make(map[branchKey][]models.BreakdownService),
		now:        timeutil.Now,
	}
}

// SetClock overrides the timestamp source (tests).
func (s *MemoryStore) SetClock(c timeutil.Clock) {
	s.mu.Lock()
	s.now = c
	s.mu.Unlock()
}

func (s *MemoryStore) Customers() *MemoryCustomers   { return &MemoryCustomers{s} }
func (s *MemoryStore) Branches() *MemoryBranches     { return &MemoryBranches{s} }
func (s *MemoryStore) Breakdowns() *MemoryBreakdowns { return &MemoryBreakdowns{s} }

// Ping lets the health checker treat the memory store like a database.
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) findCustomer(id int) (int, *models.Customer) {
	for i, c := range s.customers {
		if c.ID == id {
			return i, c
		}
	}
	return -1, nil
}

func (s *MemoryStore) findBranch(customerID, branchID int) (*models.Customer, int) {
	_, c := s.findCustomer(customerID)
	if c == nil {
		return nil, -1
	}
	for i := range c.Branches {
		if c.Branches[i].ID == branchID {
			return c, i
		}
	}
	return c, -1
}

func cloneCustomer(c *models.Customer) *models.Customer {
	out := *c
	out.Branches = make([]models.Branch, len(c.Branches))
	copy(out.Branches, c.Branches)
	return &out
}

func errCustomerNotFound(id int) error {
	err := apperr.NotFound("Customer %d not found", id)
	err.Field = apperr.FieldCustomer
	return err
}

func errBranchNotFound(customerID, branchID int) error {
	err := apperr.NotFound("Branch %d of customer %d not found", branchID, customerID)
	err.Field = apperr.FieldBranch
	return err
}

// MemoryCustomers is the customer view of a MemoryStore.
type MemoryCustomers struct{ s *MemoryStore }

func (r *MemoryCustomers) List(ctx context.Context) ([]*models.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		out = append(out, cloneCustomer(c))
	}
	return out, nil
}

func (r *MemoryCustomers) Get(ctx context.Context, id int) (*models.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, c := r.s.findCustomer(id)
	if c == nil {
		return nil, errCustomerNotFound(id)
	}
	return cloneCustomer(c), nil
}

// Create assigns the next id (max existing id + 1) and appends the customer.
func (r *MemoryCustomers) Create(ctx context.Context, c *models.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	maxID := 0
	for _, existing := range r.s.customers {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	now := r.s.now()
	c.ID = maxID + 1
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Branches == nil {
		c.Branches = []models.Branch{}
	}
	for i := range c.Branches {
		c.Branches[i].CustomerID = c.ID
	}
	r.s.customers = append(r.s.customers, cloneCustomer(c))
	return nil
}

func (r *MemoryCustomers) Rename(ctx context.Context, id int, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, c := r.s.findCustomer(id)
	if c == nil {
		return errCustomerNotFound(id)
	}
	c.Name = name
	c.UpdatedAt = r.s.now()
	return nil
}

// Delete removes the customer together with its branches and their breakdown logs.
func (r *MemoryCustomers) Delete(ctx context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx, c := r.s.findCustomer(id)
	if c == nil {
		return errCustomerNotFound(id)
	}
	for _, b := range c.Branches {
		delete(r.s.breakdowns, branchKey{id, b.ID})
	}
	r.s.customers = append(r.s.customers[:idx], r.s.customers[idx+1:]...)
	return nil
}

// MemoryBranches is the branch view of a MemoryStore.
type MemoryBranches struct{ s *MemoryStore }

func (r *MemoryBranches) ListByCustomer(ctx context.Context, customerID int) ([]models.Branch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, c := r.s.findCustomer(customerID)
	if c == nil {
		return nil, errCustomerNotFound(customerID)
	}
	out := make([]models.Branch, len(c.Branches))
	copy(out, c.Branches)
	return out, nil
}

func (r *MemoryBranches) Get(ctx context.Context, customerID, branchID int) (*models.Branch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, idx := r.s.findBranch(customerID, branchID)
	if c == nil {
		return nil, errCustomerNotFound(customerID)
	}
	if idx < 0 {
		return nil, errBranchNotFound(customerID, branchID)
	}
	b := c.Branches[idx]
	return &b, nil
}

// Create assigns max(branch ids of the customer) + 1, or 1 for the first branch.
func (r *MemoryBranches) Create(ctx context.Context, b *models.Branch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, c := r.s.findCustomer(b.CustomerID)
	if c == nil {
		return errCustomerNotFound(b.CustomerID)
	}
	maxID := 0
	for _, existing := range c.Branches {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	b.ID = maxID + 1
	b.CreatedAt = r.s.now()
	c.Branches = append(c.Branches, *b)
	c.UpdatedAt = b.CreatedAt
	return nil
}

func (r *MemoryBranches) Rename(ctx context.Context, customerID, branchID int, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, idx := r.s.findBranch(customerID, branchID)
	if c == nil {
		return errCustomerNotFound(customerID)
	}
	if idx < 0 {
		return errBranchNotFound(customerID, branchID)
	}
	c.Branches[idx].Name = name
	c.UpdatedAt = r.s.now()
	return nil
}

func (r *MemoryBranches) Delete(ctx context.Context, customerID, branchID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, idx := r.s.findBranch(customerID, branchID)
	if c == nil {
		return errCustomerNotFound(customerID)
	}
	if idx < 0 {
		return errBranchNotFound(customerID, branchID)
	}
	c.Branches = append(c.Branches[:idx], c.Branches[idx+1:]...)
	c.UpdatedAt = r.s.now()
	delete(r.s.breakdowns, branchKey{customerID, branchID})
	return nil
}

// CompleteQuarter sets the flag for quarter (0-based). Already-completed quarters stay completed.
func (r *MemoryBranches) CompleteQuarter(ctx context.Context, customerID, branchID, quarter int) (*models.Branch, error) {
	if quarter < 0 || quarter >= models.QuarterCount {
		return nil, apperr.Range("quarter", "Quarter index %d is outside 0-%d", quarter, models.QuarterCount-1)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, idx := r.s.findBranch(customerID, branchID)
	if c == nil {
		return nil, errCustomerNotFound(customerID)
	}
	if idx < 0 {
		return nil, errBranchNotFound(customerID, branchID)
	}
	c.Branches[idx].Quarters[quarter] = true
	b := c.Branches[idx]
	return &b, nil
}

// MemoryBreakdowns is the breakdown-service view of a MemoryStore.
type MemoryBreakdowns struct{ s *MemoryStore }

// ListByBranch returns the branch's breakdown log, newest first.
func (r *MemoryBreakdowns) ListByBranch(ctx context.Context, customerID, branchID int) ([]models.BreakdownService, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	entries := r.s.breakdowns[branchKey{customerID, branchID}]
	out := make([]models.BreakdownService, len(entries))
	copy(out, entries)
	return out, nil
}

func (r *MemoryBreakdowns) Append(ctx context.Context, svc *models.BreakdownService) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, idx := r.s.findBranch(svc.CustomerID, svc.BranchID)
	if c == nil {
		return errCustomerNotFound(svc.CustomerID)
	}
	if idx < 0 {
		return errBranchNotFound(svc.CustomerID, svc.BranchID)
	}
	key := branchKey{svc.CustomerID, svc.BranchID}
	for _, existing := range r.s.breakdowns[key] {
		if existing.ID == svc.ID {
			return apperr.Conflict("Breakdown service %d already recorded for this branch", svc.ID)
		}
	}
	r.s.breakdowns[key] = append([]models.BreakdownService{*svc}, r.s.breakdowns[key]...)
	return nil
}
