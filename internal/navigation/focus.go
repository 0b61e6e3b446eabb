// Package navigation models which part of the AMC hierarchy an operator is looking
// at, and how that focus moves.
package navigation

import (
	"fmt"

	"amc-backend/internal/models"
)

// Level names a Focus variant.
type Level string

const (
	LevelCustomers     Level = "customers"
	LevelBranches      Level = "branches"
	LevelQuarters      Level = "quarters"
	LevelQuarterDetail Level = "quarter_detail"
)

// Focus is one of CustomerList, BranchList, QuarterList or QuarterDetail. The set is
// closed: a selected quarter cannot exist without its branch and customer.
type Focus interface {
	Level() Level
	isFocus()
}

type CustomerList struct{}

type BranchList struct {
	CustomerID int
}

type QuarterList struct {
	CustomerID int
	BranchID   int
}

// QuarterDetail holds a 0-based quarter index.
type QuarterDetail struct {
	CustomerID int
	BranchID   int
	Quarter    int
}

func (CustomerList) Level() Level  { return LevelCustomers }
func (BranchList) Level() Level    { return LevelBranches }
func (QuarterList) Level() Level   { return LevelQuarters }
func (QuarterDetail) Level() Level { return LevelQuarterDetail }

func (CustomerList) isFocus()  {}
func (BranchList) isFocus()    {}
func (QuarterList) isFocus()   {}
func (QuarterDetail) isFocus() {}

// Snapshot is the wire and cache form of a Focus.
type Snapshot struct {
	Level      Level `json:"level"`
	CustomerID int   `json:"customer_id,omitempty"`
	BranchID   int   `json:"branch_id,omitempty"`
	Quarter    *int  `json:"quarter,omitempty"`
}

func SnapshotOf(f Focus) Snapshot {
	switch f := f.(type) {
	case BranchList:
		return Snapshot{Level: LevelBranches, CustomerID: f.CustomerID}
	case QuarterList:
		return Snapshot{Level: LevelQuarters, CustomerID: f.CustomerID, BranchID: f.BranchID}
	case QuarterDetail:
		q := f.Quarter
		return Snapshot{Level: LevelQuarterDetail, CustomerID: f.CustomerID, BranchID: f.BranchID, Quarter: &q}
	default:
		return Snapshot{Level: LevelCustomers}
	}
}

// Focus rebuilds the Focus a snapshot describes, rejecting incomplete ones.
func (s Snapshot) Focus() (Focus, error) {
	switch s.Level {
	case LevelCustomers, "":
		return CustomerList{}, nil
	case LevelBranches:
		if s.CustomerID <= 0 {
			return nil, fmt.Errorf("branches focus without customer")
		}
		return BranchList{CustomerID: s.CustomerID}, nil
	case LevelQuarters:
		if s.CustomerID <= 0 || s.BranchID <= 0 {
			return nil, fmt.Errorf("quarters focus without customer and branch")
		}
		return QuarterList{CustomerID: s.CustomerID, BranchID: s.BranchID}, nil
	case LevelQuarterDetail:
		if s.CustomerID <= 0 || s.BranchID <= 0 || s.Quarter == nil {
			return nil, fmt.Errorf("quarter detail focus without customer, branch and quarter")
		}
		if *s.Quarter < 0 || *s.Quarter >= models.QuarterCount {
			return nil, fmt.Errorf("quarter %d out of range", *s.Quarter)
		}
		return QuarterDetail{CustomerID: s.CustomerID, BranchID: s.BranchID, Quarter: *s.Quarter}, nil
	default:
		return nil, fmt.Errorf("unknown focus level %q", s.Level)
	}
}

// Up returns the focus one level above f.
func Up(f Focus) Focus {
	switch f := f.(type) {
	case QuarterDetail:
		return QuarterList{CustomerID: f.CustomerID, BranchID: f.BranchID}
	case QuarterList:
		return BranchList{CustomerID: f.CustomerID}
	default:
		return CustomerList{}
	}
}
