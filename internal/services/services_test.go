package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"amc-backend/internal/apperr"
	"amc-backend/internal/models"
	"amc-backend/internal/notify"
	"amc-backend/internal/repositories"
	"amc-backend/internal/timeutil"
	"amc-backend/internal/upload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultPassword = "12345678"

// 2024-04-16 03:30 IST.
var fixedNow = time.Date(2024, 4, 15, 22, 0, 0, 0, time.UTC)

type fixture struct {
	store     *repositories.MemoryStore
	notices   *notify.Recorder
	customers *CustomerService
	branches  *BranchService
	quarters  *QuarterService
}

func newFixture(t *testing.T, uploader upload.Uploader) *fixture {
	t.Helper()
	if uploader == nil {
		uploader = upload.SimulatedUploader{}
	}
	store := repositories.NewMemoryStore()
	rec := &notify.Recorder{}
	policy := PasswordPolicy{}
	f := &fixture{
		store:   store,
		notices: rec,
		customers: NewCustomerService(store.Customers(), policy, rec, CustomerOptions{
			DefaultPassword: defaultPassword,
		}),
		branches: NewBranchService(store.Customers(), store.Branches(), policy, rec, false),
		quarters: NewQuarterService(store.Customers(), store.Branches(), store.Breakdowns(), uploader, rec, QuarterOptions{
			UploadTimeout: time.Second,
			Clock:         timeutil.Fixed(fixedNow),
		}),
	}
	return f
}

func (f *fixture) addCustomer(t *testing.T, name string) *models.Customer {
	t.Helper()
	c, err := f.customers.AddCustomer(context.Background(), &models.CreateCustomerRequest{Name: name})
	require.NoError(t, err)
	return c
}

func (f *fixture) addBranch(t *testing.T, customerID int, name string) *models.Branch {
	t.Helper()
	b, err := f.branches.AddBranch(context.Background(), customerID, &models.BranchRequest{Name: name})
	require.NoError(t, err)
	return b
}

func TestAddCustomer(t *testing.T) {
	f := newFixture(t, nil)
	c := f.addCustomer(t, "  ICICI Bank ")

	assert.Equal(t, 1, c.ID)
	assert.Equal(t, "ICICI Bank", c.Name)
	assert.Equal(t, "/placeholder.svg", c.LogoRef)
	assert.Empty(t, c.Branches)
	assert.NotEqual(t, defaultPassword, c.PasswordHash)

	last, ok := f.notices.Last()
	require.True(t, ok)
	assert.Equal(t, "Customer added", last.Title)
	assert.Equal(t, models.SeveritySuccess, last.Severity)
}

func TestAddCustomer_BlankName(t *testing.T) {
	f := newFixture(t, nil)
	for _, name := range []string{"", "   ", "\t"} {
		_, err := f.customers.AddCustomer(context.Background(), &models.CreateCustomerRequest{Name: name})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}
	list, err := f.customers.ListCustomers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	last, _ := f.notices.Last()
	assert.Equal(t, "Customer name is required", last.Title)
	assert.Equal(t, models.SeverityDestructive, last.Severity)
}

func TestRenameCustomer_PasswordContract(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	c := f.addCustomer(t, "ICICI Bank")

	_, err := f.customers.RenameCustomer(ctx, c.ID, &models.UpdateCustomerRequest{Name: "HDFC Bank", Password: "wrong"})
	assert.ErrorIs(t, err, apperr.ErrAuth)
	got, err := f.customers.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "ICICI Bank", got.Name)
	last, _ := f.notices.Last()
	assert.Equal(t, "Incorrect password", last.Title)

	renamed, err := f.customers.RenameCustomer(ctx, c.ID, &models.UpdateCustomerRequest{Name: "ICICI Bank Ltd", Password: defaultPassword})
	require.NoError(t, err)
	assert.Equal(t, "ICICI Bank Ltd", renamed.Name)
	last, _ = f.notices.Last()
	assert.Equal(t, "Customer updated", last.Title)

	// A blank name keeps the current one.
	kept, err := f.customers.RenameCustomer(ctx, c.ID, &models.UpdateCustomerRequest{Name: " ", Password: defaultPassword})
	require.NoError(t, err)
	assert.Equal(t, "ICICI Bank Ltd", kept.Name)

	_, err = f.customers.RenameCustomer(ctx, 999, &models.UpdateCustomerRequest{Name: "x", Password: defaultPassword})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteCustomer_Cascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	c := f.addCustomer(t, "ICICI Bank")
	b := f.addBranch(t, c.ID, "Koramangala")
	_, err := f.quarters.RecordBreakdownService(ctx, c.ID, b.ID, "2024-04-15", models.ServiceSheet{})
	require.NoError(t, err)

	assert.ErrorIs(t, f.customers.DeleteCustomer(ctx, c.ID, "nope"), apperr.ErrAuth)
	require.NoError(t, f.customers.DeleteCustomer(ctx, c.ID, defaultPassword))

	_, err = f.customers.GetCustomer(ctx, c.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.branches.ListBranches(ctx, c.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	entries, err := f.store.Breakdowns().ListByBranch(ctx, c.ID, b.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	last, _ := f.notices.Last()
	assert.Equal(t, "Customer deleted", last.Title)
}

func TestAddBranch_Scenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	c := f.addCustomer(t, "ICICI Bank")

	b := f.addBranch(t, c.ID, "Koramangala")
	assert.Equal(t, 1, b.ID)
	assert.Equal(t, "Koramangala", b.Name)
	assert.Equal(t, [4]bool{false, false, false, false}, b.Quarters)

	last, _ := f.notices.Last()
	assert.Equal(t, "Branch added", last.Title)
	assert.Equal(t, `Branch "Koramangala" added.`, last.Description)

	updated, err := f.quarters.MarkQuarterCompleted(ctx, c.ID, b.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, [4]bool{true, false, false, false}, updated.Quarters)
	assert.Equal(t, "1 / 4 quarters completed", updated.Summary())
}

func TestAddBranch_Refusals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	c := f.addCustomer(t, "ICICI Bank")
	f.addBranch(t, c.ID, "Koramangala")

	_, err := f.branches.AddBranch(ctx, c.ID, &models.BranchRequest{Name: ""})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	last, _ := f.notices.Last()
	assert.Equal(t, "Branch name required", last.Title)

	branches, err := f.branches.ListBranches(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, branches, 1)

	_, err = f.branches.AddBranch(ctx, 42, &models.BranchRequest{Name: "MG Road"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	last, _ = f.notices.Last()
	assert.Equal(t, "Customer not found", last.Title)
}

func TestRenameAndDeleteBranch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	c := f.addCustomer(t, "ICICI Bank")
	b := f.addBranch(t, c.ID, "Koramangala")

	_, err := f.branches.RenameBranch(ctx, c.ID, b.ID, &models.BranchRequest{Name: " "})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.branches.RenameBranch(ctx, c.ID, 9, &models.BranchRequest{Name: "MG Road"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	last, _ := f.notices.Last()
	assert.Equal(t, "Branch not found", last.Title)

	renamed, err := f.branches.RenameBranch(ctx, c.ID, b.ID, &models.BranchRequest{Name: "Koramangala 5th Block"})
	require.NoError(t, err)
	assert.Equal(t, "Koramangala 5th Block", renamed.Name)

	assert.ErrorIs(t, f.branches.DeleteBranch(ctx, c.ID, 9, ""), apperr.ErrNotFound)
	require.NoError(t, f.branches.DeleteBranch(ctx, c.ID, b.ID, ""))
	last, _ = f.notices.Last()
	assert.Equal(t, "Branch deleted", last.Title)

	branches, err := f.branches.ListBranches(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, branches)
}

func TestDeleteBranch_ConfirmationSwitch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.branches.ConfirmDelete = true
	c := f.addCustomer(t, "Federal Bank")
	b := f.addBranch(t, c.ID, "Jayanagar")

	assert.ErrorIs(t, f.branches.DeleteBranch(ctx, c.ID, b.ID, "wrong"), apperr.ErrAuth)
	_, err := f.branches.GetBranch(ctx, c.ID, b.ID)
	require.NoError(t, err)

	require.NoError(t, f.branches.DeleteBranch(ctx, c.ID, b.ID, defaultPassword))
}

func TestMarkQuarterCompleted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	c := f.addCustomer(t, "ICICI Bank")
	b := f.addBranch(t, c.ID, "Koramangala")

	for i := 0; i < 3; i++ {
		got, err := f.quarters.MarkQuarterCompleted(ctx, c.ID, b.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, [4]bool{false, false, true, false}, got.Quarters)
	}
	last, _ := f.notices.Last()
	assert.Equal(t, "Quarter marked as completed", last.Title)
	assert.Equal(t, "Quarter 3 has been marked as completed for Koramangala", last.Description)

	for _, q := range []int{-1, 4, 10} {
		_, err := f.quarters.MarkQuarterCompleted(ctx, c.ID, b.ID, q)
		assert.ErrorIs(t, err, apperr.ErrRange)
	}
	_, err := f.quarters.MarkQuarterCompleted(ctx, c.ID, 5, 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUploadQuarterlyServiceSheet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	c := f.addCustomer(t, "Indusind Bank")
	b := f.addBranch(t, c.ID, "Indiranagar")

	res, err := f.quarters.UploadQuarterlyServiceSheet(ctx, c.ID, b.ID, 1, "2024-04-10",
		models.ServiceSheet{FileName: "q2.pdf", Content: []byte("%PDF")})
	require.NoError(t, err)
	assert.Equal(t, [4]bool{false, true, false, false}, res.Branch.Quarters)
	assert.Equal(t, "2024-04-16", res.UploadDate)
	assert.Equal(t, "q2.pdf", res.FileName)
	assert.NotEmpty(t, res.ObjectKey)

	last, _ := f.notices.Last()
	assert.Equal(t, "Quarterly service uploaded", last.Title)
	assert.Equal(t, "Quarter 2 service job sheet has been uploaded successfully", last.Description)
}

func TestUploadQuarterlyServiceSheet_Refusals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	c := f.addCustomer(t, "Indusind Bank")
	b := f.addBranch(t, c.ID, "Indiranagar")

	_, err := f.quarters.UploadQuarterlyServiceSheet(ctx, c.ID, b.ID, 4, "2024-04-10", models.ServiceSheet{})
	assert.ErrorIs(t, err, apperr.ErrRange)

	for _, date := range []string{"", "15/04/2024", "2024-02-30"} {
		_, err = f.quarters.UploadQuarterlyServiceSheet(ctx, c.ID, b.ID, 0, date, models.ServiceSheet{})
		assert.ErrorIs(t, err, apperr.ErrValidation, date)
	}

	_, err = f.quarters.UploadQuarterlyServiceSheet(ctx, c.ID, 7, 0, "2024-04-10", models.ServiceSheet{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	got, err := f.branches.GetBranch(ctx, c.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CompletedQuarters())
}

func TestUploadFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, upload.SimulatedUploader{Fail: errors.New("storage offline")})
	c := f.addCustomer(t, "Caratlane")
	b := f.addBranch(t, c.ID, "Commercial Street")

	_, err := f.quarters.UploadQuarterlyServiceSheet(ctx, c.ID, b.ID, 0, "2024-02-05", models.ServiceSheet{FileName: "q1.pdf"})
	assert.ErrorIs(t, err, apperr.ErrUpload)
	_, err = f.quarters.RecordBreakdownService(ctx, c.ID, b.ID, "2024-02-05", models.ServiceSheet{})
	assert.ErrorIs(t, err, apperr.ErrUpload)

	got, err := f.branches.GetBranch(ctx, c.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CompletedQuarters())
	entries, err := f.quarters.ListBreakdownServices(ctx, c.ID, b.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	last, _ := f.notices.Last()
	assert.Equal(t, "Upload failed", last.Title)
	assert.Equal(t, models.SeverityDestructive, last.Severity)
}

func TestUploadTimeout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, upload.SimulatedUploader{Delay: time.Minute})
	f.quarters.timeout = 10 * time.Millisecond
	c := f.addCustomer(t, "Caratlane")
	b := f.addBranch(t, c.ID, "Commercial Street")

	_, err := f.quarters.UploadQuarterlyServiceSheet(ctx, c.ID, b.ID, 0, "2024-02-05", models.ServiceSheet{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 504, apperr.HTTPStatus(err))
}

// gatedUploader blocks every upload until release is closed.
type gatedUploader struct {
	started chan struct{}
	release chan struct{}
}

func (g gatedUploader) Upload(ctx context.Context, req upload.Request) (upload.Result, error) {
	g.started <- struct{}{}
	select {
	case <-g.release:
		return upload.Result{ObjectKey: "gated/" + req.Sheet.FileName}, nil
	case <-ctx.Done():
		return upload.Result{}, ctx.Err()
	}
}

func TestUpload_OneInFlightPerBranch(t *testing.T) {
	ctx := context.Background()
	gate := gatedUploader{started: make(chan struct{}, 1), release: make(chan struct{})}
	f := newFixture(t, gate)
	c := f.addCustomer(t, "ICICI Bank")
	b := f.addBranch(t, c.ID, "Koramangala")

	var (
		wg       sync.WaitGroup
		firstErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = f.quarters.UploadQuarterlyServiceSheet(ctx, c.ID, b.ID, 0, "2024-04-15", models.ServiceSheet{})
	}()
	<-gate.started

	_, err := f.quarters.RecordBreakdownService(ctx, c.ID, b.ID, "2024-04-15", models.ServiceSheet{})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	close(gate.release)
	wg.Wait()
	require.NoError(t, firstErr)

	gate.started = make(chan struct{}, 1)
	f.quarters.Uploader = gate
	_, err = f.quarters.RecordBreakdownService(ctx, c.ID, b.ID, "2024-04-15", models.ServiceSheet{})
	require.NoError(t, err)
}

func TestRecordBreakdownService_Scenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	c := f.addCustomer(t, "ICICI Bank")
	b := f.addBranch(t, c.ID, "Koramangala")

	rec, err := f.quarters.RecordBreakdownService(ctx, c.ID, b.ID, "2024-04-15", models.ServiceSheet{})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.ID)
	assert.Equal(t, "ICICI_Bank_Koramangala_breakdown_1.pdf", rec.FileName)
	assert.True(t, strings.Contains(rec.FileName, "ICICI_Bank") && strings.Contains(rec.FileName, "Koramangala"))
	assert.Equal(t, "2024-04-16", rec.UploadDate)
	assert.Equal(t, "2024-04-15", rec.ServiceDate)

	second, err := f.quarters.RecordBreakdownService(ctx, c.ID, b.ID, "2024-04-20",
		models.ServiceSheet{FileName: "photo.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "ICICI_Bank_Koramangala_breakdown_2.jpg", second.FileName)

	entries, err := f.quarters.ListBreakdownServices(ctx, c.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].ID)
	assert.Equal(t, 1, entries[1].ID)

	last, _ := f.notices.Last()
	assert.Equal(t, "Breakdown service uploaded", last.Title)
}

func TestRecordBreakdownService_Refusals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	c := f.addCustomer(t, "ICICI Bank")
	b := f.addBranch(t, c.ID, "Koramangala")

	_, err := f.quarters.RecordBreakdownService(ctx, c.ID, b.ID, "", models.ServiceSheet{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	last, _ := f.notices.Last()
	assert.Equal(t, "Service date is required", last.Title)

	_, err = f.quarters.RecordBreakdownService(ctx, c.ID, 3, "2024-04-15", models.ServiceSheet{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	last, _ = f.notices.Last()
	assert.Equal(t, "Branch not found", last.Title)

	_, err = f.quarters.RecordBreakdownService(ctx, 99, b.ID, "2024-04-15", models.ServiceSheet{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	entries, err := f.quarters.ListBreakdownServices(ctx, c.ID, b.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBreakdownFileName(t *testing.T) {
	assert.Equal(t, "Federal_Bank_Jayanagar_breakdown_1.pdf", BreakdownFileName("Federal Bank", "Jayanagar", 1, ""))
	assert.Equal(t, "ICICI_Bank_MG_Road_breakdown_3.png", BreakdownFileName("ICICI  Bank", "MG\tRoad", 3, "scan.png"))
}

func TestConfirmationPolicies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	c := f.addCustomer(t, "ICICI Bank")
	stored, err := f.customers.GetCustomer(ctx, c.ID)
	require.NoError(t, err)

	assert.NoError(t, PasswordPolicy{}.Confirm(ctx, stored, defaultPassword))
	assert.ErrorIs(t, PasswordPolicy{}.Confirm(ctx, stored, ""), apperr.ErrAuth)
	assert.ErrorIs(t, PasswordPolicy{}.Confirm(ctx, &models.Customer{}, ""), apperr.ErrAuth)

	shared := SharedSecretPolicy{Secret: "letmein"}
	assert.NoError(t, shared.Confirm(ctx, stored, "letmein"))
	assert.ErrorIs(t, shared.Confirm(ctx, stored, defaultPassword), apperr.ErrAuth)

	assert.NoError(t, NoConfirmation{}.Confirm(ctx, stored, "anything"))

	for mode, want := range map[string]ConfirmationPolicy{
		"":         PasswordPolicy{},
		"password": PasswordPolicy{},
		"none":     NoConfirmation{},
	} {
		got, err := NewConfirmationPolicy(mode, "")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err = NewConfirmationPolicy("shared_secret", "")
	assert.Error(t, err)
	_, err = NewConfirmationPolicy("sometimes", "")
	assert.Error(t, err)
}
