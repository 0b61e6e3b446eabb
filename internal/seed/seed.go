// Package seed loads the sample AMC portfolio used for demos and local development.
package seed

import (
	"context"

	"amc-backend/internal/auth"
	"amc-backend/internal/models"
	"amc-backend/internal/services"

	log "github.com/sirupsen/logrus"
)

type sampleBreakdown struct {
	serviceDate string
	fileName    string
	uploadDate  string
}

type sampleBranch struct {
	name       string
	quarters   [models.QuarterCount]bool
	breakdowns []sampleBreakdown
}

type sampleCustomer struct {
	name     string
	branches []sampleBranch
}

var portfolio = []sampleCustomer{
	{
		name: "ICICI Bank",
		branches: []sampleBranch{
			{name: "Koramangala", breakdowns: []sampleBreakdown{
				{"2024-04-15", "ICICI_Koramangala_breakdown_1.pdf", "2024-04-16"},
			}},
			{name: "MG Road", quarters: [4]bool{true, false, false, false}, breakdowns: []sampleBreakdown{
				{"2024-03-22", "ICICI_MG_Road_breakdown_1.pdf", "2024-03-23"},
			}},
		},
	},
	{
		name: "Federal Bank",
		branches: []sampleBranch{
			{name: "Jayanagar", quarters: [4]bool{true, false, false, false}, breakdowns: []sampleBreakdown{
				{"2024-04-10", "Federal_Jayanagar_breakdown_1.pdf", "2024-04-11"},
			}},
		},
	},
	{
		name: "Indusind Bank",
		branches: []sampleBranch{
			{name: "Indiranagar", quarters: [4]bool{true, true, false, false}},
		},
	},
	{
		name: "Caratlane",
		branches: []sampleBranch{
			{name: "Commercial Street", breakdowns: []sampleBreakdown{
				{"2024-02-05", "Caratlane_Commercial_Street_breakdown_1.pdf", "2024-02-06"},
			}},
		},
	},
}

// Options controls the seeded credentials and logo.
type Options struct {
	Logo     string
	Password string
}

// Load writes the sample portfolio unless the directory already holds customers.
// It returns the number of customers created.
func Load(ctx context.Context, customers services.CustomerStore, branches services.BranchStore,
	breakdowns services.BreakdownStore, opts Options) (int, error) {
	existing, err := customers.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Printf("[Seed] %d customers already present, skipping", len(existing))
		return 0, nil
	}

	hash, err := auth.HashPassword(opts.Password)
	if err != nil {
		return 0, err
	}

	for _, sc := range portfolio {
		c := &models.Customer{Name: sc.name, LogoRef: opts.Logo, PasswordHash: hash}
		if err := customers.Create(ctx, c); err != nil {
			return 0, err
		}
		for _, sb := range sc.branches {
			b := &models.Branch{CustomerID: c.ID, Name: sb.name, Quarters: sb.quarters}
			if err := branches.Create(ctx, b); err != nil {
				return 0, err
			}
			for i, bd := range sb.breakdowns {
				if err := breakdowns.Append(ctx, &models.BreakdownService{
					ID:          i + 1,
					CustomerID:  c.ID,
					BranchID:    b.ID,
					ServiceDate: bd.serviceDate,
					FileName:    bd.fileName,
					UploadDate:  bd.uploadDate,
				}); err != nil {
					return 0, err
				}
			}
		}
	}

	log.Printf("[Seed] Loaded %d sample customers", len(portfolio))
	return len(portfolio), nil
}
