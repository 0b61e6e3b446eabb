package navigation

import (
	"context"
	"errors"

	"amc-backend/internal/apperr"
	"amc-backend/internal/models"
	"amc-backend/internal/notify"
)

// Action is a navigation request.
type Action interface {
	isAction()
}

type SelectCustomer struct{ CustomerID int }

type SelectBranch struct{ CustomerID, BranchID int }

// SelectQuarter takes a 0-based quarter index.
type SelectQuarter struct{ CustomerID, BranchID, Quarter int }

type Back struct{}

// Enter is a deep link: straight to a customer, or to one of its branches when BranchID > 0.
type Enter struct{ CustomerID, BranchID int }

// Refresh re-resolves the current focus against the live directory.
type Refresh struct{}

func (SelectCustomer) isAction() {}
func (SelectBranch) isAction()   {}
func (SelectQuarter) isAction()  {}
func (Back) isAction()           {}
func (Enter) isAction()          {}
func (Refresh) isAction()        {}

// Directory is the live customer lookup navigation resolves ids against.
type Directory interface {
	List(ctx context.Context) ([]*models.Customer, error)
	Get(ctx context.Context, id int) (*models.Customer, error)
}

// BreakdownLog lists a branch's breakdown services for the quarter detail view.
type BreakdownLog interface {
	ListByBranch(ctx context.Context, customerID, branchID int) ([]models.BreakdownService, error)
}

type Navigator struct {
	directory  Directory
	breakdowns BreakdownLog
	notifier   notify.Notifier
}

func NewNavigator(directory Directory, breakdowns BreakdownLog, notifier notify.Notifier) *Navigator {
	return &Navigator{directory: directory, breakdowns: breakdowns, notifier: notifier}
}

// Transition computes the focus that follows from applying a to from.
//
// Unknown ids do not produce errors: focus falls back to the nearest level that still
// resolves and a single "not found" notice is emitted. A quarter index outside 0-3
// returns a range error with an "Invalid quarter" notice and leaves focus at from.
func (n *Navigator) Transition(ctx context.Context, from Focus, a Action) (Focus, error) {
	if from == nil {
		from = CustomerList{}
	}

	switch a := a.(type) {
	case SelectCustomer:
		return n.resolve(ctx, from, BranchList{CustomerID: a.CustomerID})
	case SelectBranch:
		return n.resolve(ctx, from, QuarterList{CustomerID: a.CustomerID, BranchID: a.BranchID})
	case SelectQuarter:
		if a.Quarter < 0 || a.Quarter >= models.QuarterCount {
			err := apperr.Range("quarter", "Quarter index %d is outside 0-%d", a.Quarter, models.QuarterCount-1)
			n.notifier.Notify(ctx, notify.Destructive("Invalid quarter", "%s", err.Message))
			return from, err
		}
		return n.resolve(ctx, from, QuarterDetail{CustomerID: a.CustomerID, BranchID: a.BranchID, Quarter: a.Quarter})
	case Enter:
		if a.BranchID > 0 {
			return n.resolve(ctx, from, QuarterList{CustomerID: a.CustomerID, BranchID: a.BranchID})
		}
		return n.resolve(ctx, from, BranchList{CustomerID: a.CustomerID})
	case Back:
		return Up(from), nil
	case Refresh:
		return n.resolve(ctx, from, from)
	default:
		return from, errors.New("unknown navigation action")
	}
}

// resolve checks that every id in target still exists and falls back otherwise.
func (n *Navigator) resolve(ctx context.Context, from, target Focus) (Focus, error) {
	var customerID, branchID int
	switch t := target.(type) {
	case CustomerList:
		return t, nil
	case BranchList:
		customerID = t.CustomerID
	case QuarterList:
		customerID, branchID = t.CustomerID, t.BranchID
	case QuarterDetail:
		customerID, branchID = t.CustomerID, t.BranchID
	}

	customer, err := n.directory.Get(ctx, customerID)
	if errors.Is(err, apperr.ErrNotFound) {
		n.notifier.Notify(ctx, notify.Destructive("Customer not found", "The requested customer could not be found"))
		return CustomerList{}, nil
	}
	if err != nil {
		return from, err
	}

	if branchID > 0 && customer.FindBranch(branchID) == nil {
		n.notifier.Notify(ctx, notify.Destructive("Branch not found", "The requested branch could not be found"))
		return BranchList{CustomerID: customerID}, nil
	}
	return target, nil
}
