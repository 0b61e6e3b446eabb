package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"amc-backend/internal/apperr"
	"amc-backend/internal/cache"
	"amc-backend/internal/metrics"
	"amc-backend/internal/models"
	"amc-backend/internal/notify"
	"amc-backend/internal/timeutil"
	"amc-backend/internal/upload"
)

// QuarterOptions tune the upload side of the tracker.
type QuarterOptions struct {
	UploadTimeout time.Duration
	Clock         timeutil.Clock
}

// QuarterService tracks the four scheduled services of each branch and its log of
// breakdown services.
type QuarterService struct {
	Customers  CustomerStore
	Branches   BranchStore
	Breakdowns BreakdownStore
	Uploader   upload.Uploader
	Notifier   notify.Notifier

	guard   *upload.Guard
	timeout time.Duration
	clock   timeutil.Clock
}

func NewQuarterService(customers CustomerStore, branches BranchStore, breakdowns BreakdownStore,
	uploader upload.Uploader, notifier notify.Notifier, opts QuarterOptions) *QuarterService {
	if opts.Clock == nil {
		opts.Clock = timeutil.Now
	}
	return &QuarterService{
		Customers:  customers,
		Branches:   branches,
		Breakdowns: breakdowns,
		Uploader:   uploader,
		Notifier:   notifier,
		guard:      upload.NewGuard(),
		timeout:    opts.UploadTimeout,
		clock:      opts.Clock,
	}
}

func checkQuarter(quarter int) error {
	if quarter < 0 || quarter >= models.QuarterCount {
		return apperr.Range("quarter", "Quarter index %d is outside 0-%d", quarter, models.QuarterCount-1)
	}
	return nil
}

// MarkQuarterCompleted flags the quarter as serviced. Completing an already
// completed quarter succeeds and changes nothing.
func (s *QuarterService) MarkQuarterCompleted(ctx context.Context, customerID, branchID, quarter int) (*models.Branch, error) {
	if err := checkQuarter(quarter); err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}
	branch, err := s.Branches.CompleteQuarter(ctx, customerID, branchID, quarter)
	if err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}

	cache.InvalidateCustomerCaches(ctx)
	metrics.QuartersCompleted.Inc()
	s.Notifier.Notify(ctx, notify.Success("Quarter marked as completed",
		"Quarter %d has been marked as completed for %s", quarter+1, branch.Name))
	return branch, nil
}

// UploadQuarterlyServiceSheet stores the job sheet for a quarter and, once the upload
// succeeds, marks the quarter completed. A failed upload leaves the quarter untouched.
func (s *QuarterService) UploadQuarterlyServiceSheet(ctx context.Context, customerID, branchID, quarter int,
	serviceDate string, sheet models.ServiceSheet) (*models.QuarterlyUpload, error) {
	if err := checkQuarter(quarter); err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}
	if err := validateStruct(&sheetSubmission{ServiceDate: serviceDate}); err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}
	if _, err := s.Branches.Get(ctx, customerID, branchID); err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}

	release, err := s.guard.TryAcquire(customerID, branchID)
	if err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}
	defer release()

	if sheet.FileName == "" {
		sheet.FileName = fmt.Sprintf("quarter_%d_service_sheet.pdf", quarter+1)
	}
	res, err := upload.Start(ctx, s.Uploader, upload.Request{
		Kind:       upload.KindQuarterly,
		CustomerID: customerID,
		BranchID:   branchID,
		Quarter:    quarter,
		Sheet:      sheet,
	}, s.timeout).Wait()
	if err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}

	branch, err := s.Branches.CompleteQuarter(ctx, customerID, branchID, quarter)
	if err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}

	cache.InvalidateCustomerCaches(ctx)
	metrics.QuartersCompleted.Inc()
	s.Notifier.Notify(ctx, notify.Success("Quarterly service uploaded",
		"Quarter %d service job sheet has been uploaded successfully", quarter+1))

	return &models.QuarterlyUpload{
		CustomerID:  customerID,
		BranchID:    branchID,
		Quarter:     quarter,
		ServiceDate: serviceDate,
		FileName:    sheet.FileName,
		ObjectKey:   res.ObjectKey,
		UploadDate:  timeutil.Today(s.clock()),
		Branch:      *branch,
	}, nil
}

// RecordBreakdownService uploads the job sheet of an unscheduled visit and appends it
// to the branch's breakdown log.
func (s *QuarterService) RecordBreakdownService(ctx context.Context, customerID, branchID int,
	serviceDate string, sheet models.ServiceSheet) (*models.BreakdownService, error) {
	if err := validateStruct(&sheetSubmission{ServiceDate: serviceDate}); err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}
	customer, err := s.Customers.Get(ctx, customerID)
	if err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}
	branch := customer.FindBranch(branchID)
	if branch == nil {
		return nil, refuse(ctx, s.Notifier, (&apperr.Error{
			Kind:    apperr.KindNotFound,
			Field:   apperr.FieldBranch,
			Message: fmt.Sprintf("Branch %d of customer %d not found", branchID, customerID),
		}))
	}

	// Holding the guard serializes id assignment for the branch.
	release, err := s.guard.TryAcquire(customerID, branchID)
	if err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}
	defer release()

	existing, err := s.Breakdowns.ListByBranch(ctx, customerID, branchID)
	if err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}
	id := len(existing) + 1
	fileName := BreakdownFileName(customer.Name, branch.Name, id, sheet.FileName)

	stored := sheet
	stored.FileName = fileName
	res, err := upload.Start(ctx, s.Uploader, upload.Request{
		Kind:       upload.KindBreakdown,
		CustomerID: customerID,
		BranchID:   branchID,
		Sheet:      stored,
	}, s.timeout).Wait()
	if err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}

	record := &models.BreakdownService{
		ID:          id,
		CustomerID:  customerID,
		BranchID:    branchID,
		ServiceDate: serviceDate,
		FileName:    fileName,
		UploadDate:  timeutil.Today(s.clock()),
		ObjectKey:   res.ObjectKey,
	}
	if err := s.Breakdowns.Append(ctx, record); err != nil {
		return nil, refuse(ctx, s.Notifier, err)
	}

	cache.InvalidateCustomerCaches(ctx)
	metrics.BreakdownsRecorded.Inc()
	s.Notifier.Notify(ctx, notify.Success("Breakdown service uploaded",
		"The service job sheet has been uploaded successfully"))
	return record, nil
}

// ListBreakdownServices returns the branch's breakdown log, newest first.
func (s *QuarterService) ListBreakdownServices(ctx context.Context, customerID, branchID int) ([]models.BreakdownService, error) {
	if _, err := s.Branches.Get(ctx, customerID, branchID); err != nil {
		return nil, err
	}
	entries, err := s.Breakdowns.ListByBranch(ctx, customerID, branchID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.BreakdownService{}
	}
	return entries, nil
}

// BreakdownFileName builds "<Customer>_<Branch>_breakdown_<id><ext>" with whitespace
// runs replaced by underscores. ext comes from the uploaded file, ".pdf" if it has none.
func BreakdownFileName(customerName, branchName string, id int, uploaded string) string {
	ext := filepath.Ext(uploaded)
	if ext == "" {
		ext = ".pdf"
	}
	return fmt.Sprintf("%s_%s_breakdown_%d%s", underscore(customerName), underscore(branchName), id, ext)
}

func underscore(s string) string {
	return strings.Join(strings.Fields(s), "_")
}
