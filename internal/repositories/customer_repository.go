package repositories

import (
	"context"
	"errors"

	"amc-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

// Create assigns id = max(id)+1 under a table lock so concurrent inserts cannot collide.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `LOCK TABLE amc_customers IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO amc_customers(id, name, logo_ref, password_hash)
         SELECT COALESCE(MAX(id), 0) + 1, $1, $2, $3 FROM amc_customers
         RETURNING id, created_at, updated_at`,
		c.Name, c.LogoRef, c.PasswordHash,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return err
	}
	if c.Branches == nil {
		c.Branches = []models.Branch{}
	}
	return tx.Commit(ctx)
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, logo_ref, password_hash, created_at, updated_at
         FROM amc_customers WHERE id=$1`, id)

	var customer models.Customer
	err := row.Scan(&customer.ID, &customer.Name, &customer.LogoRef, &customer.PasswordHash,
		&customer.CreatedAt, &customer.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errCustomerNotFound(id)
	}
	if err != nil {
		return nil, err
	}

	branches, err := queryBranches(ctx, r.DB, `WHERE customer_id=$1`, id)
	if err != nil {
		return nil, err
	}
	customer.Branches = branches[id]
	if customer.Branches == nil {
		customer.Branches = []models.Branch{}
	}
	return &customer, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, logo_ref, password_hash, created_at, updated_at
         FROM amc_customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		var customer models.Customer
		err := rows.Scan(&customer.ID, &customer.Name, &customer.LogoRef, &customer.PasswordHash,
			&customer.CreatedAt, &customer.UpdatedAt)
		if err != nil {
			return nil, err
		}
		customers = append(customers, &customer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	branches, err := queryBranches(ctx, r.DB, "")
	if err != nil {
		return nil, err
	}
	for _, c := range customers {
		c.Branches = branches[c.ID]
		if c.Branches == nil {
			c.Branches = []models.Branch{}
		}
	}
	return customers, nil
}

func (r *CustomerRepository) Rename(ctx context.Context, id int, name string) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE amc_customers SET name=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`, name, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errCustomerNotFound(id)
	}
	return nil
}

// Delete relies on ON DELETE CASCADE to drop branches and breakdown records.
func (r *CustomerRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM amc_customers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errCustomerNotFound(id)
	}
	return nil
}
