package services

import (
	"bytes"
	"context"
	"testing"

	"amc-backend/internal/models"
	"amc-backend/internal/repositories"
	"amc-backend/internal/timeutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func reportFixture(t *testing.T) *ReportService {
	t.Helper()
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	require.NoError(t, store.Customers().Create(ctx, &models.Customer{Name: "ICICI Bank"}))
	require.NoError(t, store.Customers().Create(ctx, &models.Customer{Name: "Caratlane"}))
	require.NoError(t, store.Branches().Create(ctx, &models.Branch{CustomerID: 1, Name: "Koramangala", Quarters: [4]bool{true, true, false, false}}))
	require.NoError(t, store.Branches().Create(ctx, &models.Branch{CustomerID: 1, Name: "MG Road"}))
	require.NoError(t, store.Breakdowns().Append(ctx, &models.BreakdownService{
		ID: 1, CustomerID: 1, BranchID: 2, ServiceDate: "2024-03-22", FileName: "a.pdf", UploadDate: "2024-03-23",
	}))
	require.NoError(t, store.Breakdowns().Append(ctx, &models.BreakdownService{
		ID: 2, CustomerID: 1, BranchID: 2, ServiceDate: "2024-05-02", FileName: "b.pdf", UploadDate: "2024-05-02",
	}))
	return NewReportService(store.Customers(), store.Breakdowns(), timeutil.Fixed(fixedNow))
}

func TestBuildAMCReport(t *testing.T) {
	r, err := reportFixture(t).BuildAMCReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, r.Customers)
	require.Len(t, r.Rows, 2)
	assert.Equal(t, "Koramangala", r.Rows[0].BranchName)
	assert.Equal(t, 2, r.Rows[0].Completed)
	assert.Equal(t, 2, r.Rows[1].Breakdowns)
	assert.Equal(t, "2024-05-02", r.Rows[1].LastService)
	assert.Equal(t, 2, r.QuartersDone)
	assert.Equal(t, 8, r.QuartersTotal)
	assert.Equal(t, 2, r.BreakdownsTotal)
	assert.InDelta(t, 25.0, r.CompletionPercent(), 0.001)
}

func TestCompletionPercentEmpty(t *testing.T) {
	assert.Zero(t, (&AMCReport{}).CompletionPercent())
}

func TestGenerateAMCReportPDF(t *testing.T) {
	s := reportFixture(t)
	r, err := s.BuildAMCReport(context.Background())
	require.NoError(t, err)

	data, err := s.GenerateAMCReportPDF(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestGenerateAMCReportXLSX(t *testing.T) {
	s := reportFixture(t)
	r, err := s.BuildAMCReport(context.Background())
	require.NoError(t, err)

	data, err := s.GenerateAMCReportXLSX(r)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Customer", rows[0][1])
	assert.Equal(t, "Koramangala", rows[1][3])
	assert.Equal(t, "Completed", rows[1][4])
	assert.Equal(t, "Pending", rows[1][6])
	assert.Equal(t, "2 / 4", rows[1][8])
}
