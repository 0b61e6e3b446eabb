//go:build integration

// Run against a throwaway database:
//
//	DB_HOST=localhost DB_USER=amc DB_PASSWORD=amc DB_NAME=amc_test go test -tags integration ./internal/repositories/
//
// The AMC tables are truncated before and after each test.
package repositories_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"amc-backend/internal/apperr"
	"amc-backend/internal/config"
	"amc-backend/internal/database"
	"amc-backend/internal/db"
	"amc-backend/internal/models"
	"amc-backend/internal/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if os.Getenv("DB_HOST") == "" || os.Getenv("DB_NAME") == "" {
		t.Skip("DB_HOST and DB_NAME not set")
	}
	ctx := context.Background()

	cfg, err := config.LoadFile("")
	require.NoError(t, err)
	pool, err := db.Connect(ctx, cfg)
	require.NoError(t, err)

	_, err = database.NewMigrator(pool, "../../migrations").RunMigrations(ctx)
	require.NoError(t, err)
	require.NoError(t, database.Reset(ctx, pool))

	t.Cleanup(func() {
		_ = database.Reset(context.Background(), pool)
		pool.Close()
	})
	return pool
}

func kindField(t *testing.T, err error) (apperr.Kind, string) {
	t.Helper()
	var e *apperr.Error
	require.True(t, errors.As(err, &e), "want *apperr.Error, got %v", err)
	return e.Kind, e.Field
}

func TestPostgresIDAssignment(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	customers := repositories.NewCustomerRepository(pool)
	branches := repositories.NewBranchRepository(pool)

	icici := &models.Customer{Name: "ICICI Bank", LogoRef: "/placeholder.svg"}
	federal := &models.Customer{Name: "Federal Bank", LogoRef: "/placeholder.svg"}
	require.NoError(t, customers.Create(ctx, icici))
	require.NoError(t, customers.Create(ctx, federal))
	assert.Equal(t, 1, icici.ID)
	assert.Equal(t, 2, federal.ID)

	for _, name := range []string{"Koramangala", "MG Road"} {
		require.NoError(t, branches.Create(ctx, &models.Branch{CustomerID: icici.ID, Name: name}))
	}
	jayanagar := &models.Branch{CustomerID: federal.ID, Name: "Jayanagar"}
	require.NoError(t, branches.Create(ctx, jayanagar))
	assert.Equal(t, 1, jayanagar.ID, "branch ids are per customer")

	list, err := branches.ListByCustomer(ctx, icici.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []int{1, 2}, []int{list[0].ID, list[1].ID})

	require.NoError(t, branches.Delete(ctx, icici.ID, 2))
	again := &models.Branch{CustomerID: icici.ID, Name: "Whitefield"}
	require.NoError(t, branches.Create(ctx, again))
	assert.Equal(t, 2, again.ID)

	err = branches.Create(ctx, &models.Branch{CustomerID: 99, Name: "Nowhere"})
	kind, field := kindField(t, err)
	assert.Equal(t, apperr.KindNotFound, kind)
	assert.Equal(t, apperr.FieldCustomer, field)
}

func TestPostgresCompleteQuarter(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	customers := repositories.NewCustomerRepository(pool)
	branches := repositories.NewBranchRepository(pool)

	c := &models.Customer{Name: "Indusind Bank", LogoRef: "/placeholder.svg"}
	require.NoError(t, customers.Create(ctx, c))
	require.NoError(t, branches.Create(ctx, &models.Branch{CustomerID: c.ID, Name: "Indiranagar"}))

	b, err := branches.CompleteQuarter(ctx, c.ID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, [4]bool{true, false, false, false}, b.Quarters)

	b, err = branches.CompleteQuarter(ctx, c.ID, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, [4]bool{true, false, false, true}, b.Quarters)

	b, err = branches.CompleteQuarter(ctx, c.ID, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, [4]bool{true, false, false, true}, b.Quarters)

	_, err = branches.CompleteQuarter(ctx, c.ID, 1, 4)
	assert.ErrorIs(t, err, apperr.ErrRange)

	_, err = branches.CompleteQuarter(ctx, c.ID, 7, 0)
	kind, field := kindField(t, err)
	assert.Equal(t, apperr.KindNotFound, kind)
	assert.Equal(t, apperr.FieldBranch, field)

	_, err = branches.CompleteQuarter(ctx, 42, 1, 0)
	kind, field = kindField(t, err)
	assert.Equal(t, apperr.KindNotFound, kind)
	assert.Equal(t, apperr.FieldCustomer, field)
}

func TestPostgresBreakdownLog(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	customers := repositories.NewCustomerRepository(pool)
	branches := repositories.NewBranchRepository(pool)
	breakdowns := repositories.NewBreakdownServiceRepository(pool)

	c := &models.Customer{Name: "Caratlane", LogoRef: "/placeholder.svg"}
	require.NoError(t, customers.Create(ctx, c))
	require.NoError(t, branches.Create(ctx, &models.Branch{CustomerID: c.ID, Name: "Commercial Street"}))

	record := func(id int) *models.BreakdownService {
		return &models.BreakdownService{
			ID:          id,
			CustomerID:  c.ID,
			BranchID:    1,
			ServiceDate: "2024-04-15",
			FileName:    "Caratlane_Commercial_Street_breakdown_1.pdf",
			UploadDate:  "2024-04-16",
		}
	}
	require.NoError(t, breakdowns.Append(ctx, record(1)))
	require.NoError(t, breakdowns.Append(ctx, record(2)))

	entries, err := breakdowns.ListByBranch(ctx, c.ID, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].ID, "newest first")
	assert.Equal(t, "2024-04-15", entries[1].ServiceDate)

	err = breakdowns.Append(ctx, record(2))
	assert.ErrorIs(t, err, apperr.ErrConflict)

	orphan := record(1)
	orphan.BranchID = 9
	err = breakdowns.Append(ctx, orphan)
	kind, field := kindField(t, err)
	assert.Equal(t, apperr.KindNotFound, kind)
	assert.Equal(t, apperr.FieldBranch, field)

	require.NoError(t, customers.Delete(ctx, c.ID))
	entries, err = breakdowns.ListByBranch(ctx, c.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
