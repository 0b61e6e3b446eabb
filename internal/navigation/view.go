package navigation

import (
	"context"
	"fmt"

	"amc-backend/internal/apperr"
	"amc-backend/internal/models"
)

type CustomerCard struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	LogoRef     string `json:"logo_ref"`
	BranchCount int    `json:"branch_count"`
}

type BranchCard struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Completed int    `json:"completed"`
	Summary   string `json:"summary"`
}

type QuarterCard struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Done   bool   `json:"done"`
	Status string `json:"status"`
}

// View is the read model for one focus. Only the parts relevant to the focus are set.
type View struct {
	Focus      Snapshot                  `json:"focus"`
	Customers  []CustomerCard            `json:"customers,omitempty"`
	Customer   *CustomerCard             `json:"customer,omitempty"`
	Branches   []BranchCard              `json:"branches,omitempty"`
	Branch     *BranchCard               `json:"branch,omitempty"`
	Quarters   []QuarterCard             `json:"quarters,omitempty"`
	Quarter    *QuarterCard              `json:"quarter,omitempty"`
	Breakdowns []models.BreakdownService `json:"breakdowns,omitempty"`
}

func customerCard(c *models.Customer) CustomerCard {
	return CustomerCard{ID: c.ID, Name: c.Name, LogoRef: c.LogoRef, BranchCount: len(c.Branches)}
}

func branchCard(b models.Branch) BranchCard {
	return BranchCard{ID: b.ID, Name: b.Name, Completed: b.CompletedQuarters(), Summary: b.Summary()}
}

func quarterCards(b models.Branch) []QuarterCard {
	cards := make([]QuarterCard, models.QuarterCount)
	for i, done := range b.Quarters {
		cards[i] = QuarterCard{
			Index:  i,
			Label:  fmt.Sprintf("Quarter %d", i+1),
			Done:   done,
			Status: models.QuarterStatus(done),
		}
	}
	return cards
}

// View reads everything the focus shows from the live directory, by id.
func (n *Navigator) View(ctx context.Context, f Focus) (*View, error) {
	v := &View{Focus: SnapshotOf(f)}

	if _, ok := f.(CustomerList); ok || f == nil {
		customers, err := n.directory.List(ctx)
		if err != nil {
			return nil, err
		}
		v.Customers = make([]CustomerCard, 0, len(customers))
		for _, c := range customers {
			v.Customers = append(v.Customers, customerCard(c))
		}
		return v, nil
	}

	snap := v.Focus
	customer, err := n.directory.Get(ctx, snap.CustomerID)
	if err != nil {
		return nil, err
	}
	card := customerCard(customer)
	v.Customer = &card

	if snap.Level == LevelBranches {
		v.Branches = make([]BranchCard, 0, len(customer.Branches))
		for _, b := range customer.Branches {
			v.Branches = append(v.Branches, branchCard(b))
		}
		return v, nil
	}

	branch := customer.FindBranch(snap.BranchID)
	if branch == nil {
		nf := apperr.NotFound("Branch %d of customer %d not found", snap.BranchID, snap.CustomerID)
		nf.Field = apperr.FieldBranch
		return nil, nf
	}
	bc := branchCard(*branch)
	v.Branch = &bc
	v.Quarters = quarterCards(*branch)

	if snap.Level == LevelQuarterDetail {
		q := v.Quarters[*snap.Quarter]
		v.Quarter = &q
		entries, err := n.breakdowns.ListByBranch(ctx, snap.CustomerID, snap.BranchID)
		if err != nil {
			return nil, err
		}
		v.Breakdowns = entries
	}
	return v, nil
}
