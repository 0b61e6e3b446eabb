package repositories

import (
	"context"
	"errors"
	"fmt"

	"amc-backend/internal/apperr"
	"amc-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BranchRepository struct {
	DB *pgxpool.Pool
}

func NewBranchRepository(db *pgxpool.Pool) *BranchRepository {
	return &BranchRepository{DB: db}
}

const branchColumns = `customer_id, id, name, quarters, created_at`

func scanBranch(row pgx.Row) (models.Branch, error) {
	var (
		b        models.Branch
		quarters []bool
	)
	if err := row.Scan(&b.CustomerID, &b.ID, &b.Name, &quarters, &b.CreatedAt); err != nil {
		return b, err
	}
	if len(quarters) != models.QuarterCount {
		return b, fmt.Errorf("branch %d/%d has %d quarter flags", b.CustomerID, b.ID, len(quarters))
	}
	copy(b.Quarters[:], quarters)
	return b, nil
}

// queryBranches loads branches grouped by customer id, in creation order.
func queryBranches(ctx context.Context, db *pgxpool.Pool, where string, args ...any) (map[int][]models.Branch, error) {
	rows, err := db.Query(ctx,
		`SELECT `+branchColumns+` FROM amc_branches `+where+` ORDER BY customer_id, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int][]models.Branch)
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		out[b.CustomerID] = append(out[b.CustomerID], b)
	}
	return out, rows.Err()
}

func (r *BranchRepository) customerExists(ctx context.Context, q interface {
	QueryRow(context.Context, string, ...any) pgx.Row
}, customerID int) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM amc_customers WHERE id=$1)`, customerID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return errCustomerNotFound(customerID)
	}
	return nil
}

func (r *BranchRepository) ListByCustomer(ctx context.Context, customerID int) ([]models.Branch, error) {
	if err := r.customerExists(ctx, r.DB, customerID); err != nil {
		return nil, err
	}
	grouped, err := queryBranches(ctx, r.DB, `WHERE customer_id=$1`, customerID)
	if err != nil {
		return nil, err
	}
	if grouped[customerID] == nil {
		return []models.Branch{}, nil
	}
	return grouped[customerID], nil
}

func (r *BranchRepository) Get(ctx context.Context, customerID, branchID int) (*models.Branch, error) {
	b, err := scanBranch(r.DB.QueryRow(ctx,
		`SELECT `+branchColumns+` FROM amc_branches WHERE customer_id=$1 AND id=$2`, customerID, branchID))
	if errors.Is(err, pgx.ErrNoRows) {
		if err := r.customerExists(ctx, r.DB, customerID); err != nil {
			return nil, err
		}
		return nil, errBranchNotFound(customerID, branchID)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create assigns id = max(branch id of the customer)+1, or 1.
func (r *BranchRepository) Create(ctx context.Context, b *models.Branch) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Serialises id assignment per customer.
	var locked int
	err = tx.QueryRow(ctx, `SELECT id FROM amc_customers WHERE id=$1 FOR UPDATE`, b.CustomerID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return errCustomerNotFound(b.CustomerID)
	}
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO amc_branches(customer_id, id, name, quarters)
         SELECT $1, COALESCE(MAX(id), 0) + 1, $2, $3 FROM amc_branches WHERE customer_id=$1
         RETURNING id, created_at`,
		b.CustomerID, b.Name, b.Quarters[:],
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `UPDATE amc_customers SET updated_at=CURRENT_TIMESTAMP WHERE id=$1`, b.CustomerID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *BranchRepository) Rename(ctx context.Context, customerID, branchID int, name string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE amc_branches SET name=$1 WHERE customer_id=$2 AND id=$3`, name, customerID, branchID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.missing(ctx, customerID, branchID)
	}
	return nil
}

func (r *BranchRepository) Delete(ctx context.Context, customerID, branchID int) error {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM amc_branches WHERE customer_id=$1 AND id=$2`, customerID, branchID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.missing(ctx, customerID, branchID)
	}
	return nil
}

// CompleteQuarter sets quarters[quarter] (0-based; Postgres arrays are 1-based).
func (r *BranchRepository) CompleteQuarter(ctx context.Context, customerID, branchID, quarter int) (*models.Branch, error) {
	if quarter < 0 || quarter >= models.QuarterCount {
		return nil, apperr.Range("quarter", "Quarter index %d is outside 0-%d", quarter, models.QuarterCount-1)
	}
	b, err := scanBranch(r.DB.QueryRow(ctx,
		`UPDATE amc_branches SET quarters[$3] = TRUE
         WHERE customer_id=$1 AND id=$2
         RETURNING `+branchColumns,
		customerID, branchID, quarter+1))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.missing(ctx, customerID, branchID)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BranchRepository) missing(ctx context.Context, customerID, branchID int) error {
	if err := r.customerExists(ctx, r.DB, customerID); err != nil {
		return err
	}
	return errBranchNotFound(customerID, branchID)
}
