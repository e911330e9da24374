package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tably/orders-api/internal/apperr"
	"github.com/tably/orders-api/internal/dto"
	"github.com/tably/orders-api/internal/model"
)

type mockReportRepo struct {
	rows  []model.ProductSales
	total int

	gotStart, gotEnd    time.Time
	gotLimit, gotOffset int
}

func (m *mockReportRepo) ProductSales(_ context.Context, _ uuid.UUID, start, end time.Time, limit, offset int) ([]model.ProductSales, int, error) {
	m.gotStart, m.gotEnd = start, end
	m.gotLimit, m.gotOffset = limit, offset
	return m.rows, m.total, nil
}

func fixedNowReportService(repo *mockReportRepo, now time.Time) *ReportService {
	svc := NewReportService(repo, nil, time.Minute)
	svc.now = func() time.Time { return now }
	return svc
}

func TestReportService_DefaultDateRange(t *testing.T) {
	repo := &mockReportRepo{}
	now := time.Date(2025, 3, 18, 15, 4, 5, 0, time.UTC)
	svc := fixedNowReportService(repo, now)

	resp, err := svc.ProductSales(context.Background(), uuid.New(), dto.ReportRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-01", resp.Report.StartDate)
	assert.Equal(t, "2025-03-18", resp.Report.EndDate)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), repo.gotStart)
	assert.Equal(t, time.Date(2025, 3, 18, 23, 59, 59, 0, time.UTC), repo.gotEnd, "end bound covers the whole day")
}

func TestReportService_SortedAggregates(t *testing.T) {
	repo := &mockReportRepo{
		rows: []model.ProductSales{
			{ProductName: "Coffee", TotalQuantity: 2, TotalPrice: decimal.NewFromFloat(7.00)},
			{ProductName: "Bagel", TotalQuantity: 1, TotalPrice: decimal.NewFromFloat(2.00)},
		},
		total: 2,
	}
	svc := fixedNowReportService(repo, time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC))

	resp, err := svc.ProductSales(context.Background(), uuid.New(), dto.ReportRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)

	require.Len(t, resp.Report.Products, 2)
	assert.Equal(t, "Coffee", resp.Report.Products[0].ProductName)
	assert.EqualValues(t, 2, resp.Report.Products[0].TotalQuantity)
	assert.True(t, resp.Report.Products[0].TotalPrice.Equal(decimal.NewFromFloat(7.00)))
	assert.Equal(t, "Bagel", resp.Report.Products[1].ProductName)
	assert.Equal(t, 2, resp.Report.TotalRecords)
	assert.Equal(t, 1, resp.Report.TotalPages)
}

func TestReportService_RoundsTotals(t *testing.T) {
	repo := &mockReportRepo{
		rows:  []model.ProductSales{{ProductName: "Tea", TotalQuantity: 3, TotalPrice: decimal.NewFromFloat(10.005)}},
		total: 1,
	}
	svc := fixedNowReportService(repo, time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC))

	resp, err := svc.ProductSales(context.Background(), uuid.New(), dto.ReportRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, "10.01", resp.Report.Products[0].TotalPrice.String())
}

func TestReportService_InvalidDates(t *testing.T) {
	svc := fixedNowReportService(&mockReportRepo{}, time.Now())

	_, err := svc.ProductSales(context.Background(), uuid.New(), dto.ReportRequest{
		StartDate: "18-03-2025", Page: 1, PageSize: 10,
	})
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.ProductSales(context.Background(), uuid.New(), dto.ReportRequest{
		StartDate: "2025-03-18", EndDate: "2025-03-01", Page: 1, PageSize: 10,
	})
	assert.True(t, apperr.IsValidation(err), "end before start is rejected")
}

func TestReportService_PaginatesGroupedRows(t *testing.T) {
	repo := &mockReportRepo{total: 25}
	svc := fixedNowReportService(repo, time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC))

	resp, err := svc.ProductSales(context.Background(), uuid.New(), dto.ReportRequest{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, repo.gotLimit)
	assert.Equal(t, 20, repo.gotOffset)
	assert.Equal(t, 3, resp.Report.TotalPages)
	assert.Equal(t, 25, resp.Report.TotalRecords)
}
