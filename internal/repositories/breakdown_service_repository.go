package repositories

import (
	"context"
	"errors"

	"amc-backend/internal/apperr"
	"amc-backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BreakdownServiceRepository struct {
	DB *pgxpool.Pool
}

func NewBreakdownServiceRepository(db *pgxpool.Pool) *BreakdownServiceRepository {
	return &BreakdownServiceRepository{DB: db}
}

// ListByBranch returns the branch's breakdown log, newest first.
func (r *BreakdownServiceRepository) ListByBranch(ctx context.Context, customerID, branchID int) ([]models.BreakdownService, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, customer_id, branch_id, to_char(service_date, 'YYYY-MM-DD'), file_name,
                to_char(upload_date, 'YYYY-MM-DD'), object_key
         FROM amc_breakdown_services
         WHERE customer_id=$1 AND branch_id=$2
         ORDER BY id DESC`, customerID, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := []models.BreakdownService{}
	for rows.Next() {
		var s models.BreakdownService
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.BranchID, &s.ServiceDate, &s.FileName,
			&s.UploadDate, &s.ObjectKey); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *BreakdownServiceRepository) Append(ctx context.Context, svc *models.BreakdownService) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO amc_breakdown_services
            (customer_id, branch_id, id, service_date, file_name, upload_date, object_key)
         VALUES ($1, $2, $3, $4::date, $5, $6::date, $7)`,
		svc.CustomerID, svc.BranchID, svc.ID, svc.ServiceDate, svc.FileName, svc.UploadDate, svc.ObjectKey)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return errBranchNotFound(svc.CustomerID, svc.BranchID)
		case "23505": // unique_violation
			return apperr.Conflict("Breakdown service %d already recorded for this branch", svc.ID)
		}
	}
	return err
}
