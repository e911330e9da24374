package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tably/orders-api/internal/apperr"
	"github.com/tably/orders-api/internal/dto"
	"github.com/tably/orders-api/internal/repository"
)

// ReportService builds the product sales report. Cached pages carry a
// per-user version in their key; the order worker bumps the version when a
// new order lands, so stale pages simply stop being addressed.
type ReportService struct {
	reportRepo  repository.ReportRepository
	redisClient *redis.Client
	cacheTTL    time.Duration
	now         func() time.Time
}

func NewReportService(reportRepo repository.ReportRepository, redisClient *redis.Client, cacheTTL time.Duration) *ReportService {
	return &ReportService{reportRepo: reportRepo, redisClient: redisClient, cacheTTL: cacheTTL, now: time.Now}
}

// ReportVersionKey is the redis key holding the report-cache version for a
// user. Shared with the order worker.
func ReportVersionKey(userID uuid.UUID) string {
	return "report_ver:" + userID.String()
}

// ProductSales aggregates the user's line items in the requested date range,
// grouped by product, ordered by quantity sold descending. The range defaults
// to the current month so far.
func (s *ReportService) ProductSales(ctx context.Context, userID uuid.UUID, req dto.ReportRequest) (*dto.SalesReportResponse, error) {
	today := s.now().UTC()

	startStr := req.StartDate
	if startStr == "" {
		startStr = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).Format(dateLayout)
	}
	endStr := req.EndDate
	if endStr == "" {
		endStr = today.Format(dateLayout)
	}

	var details []string
	start, err := parseDate(startStr)
	if err != nil {
		details = append(details, "start_date: must be a date in YYYY-MM-DD format")
	}
	end, err := parseDate(endStr)
	if err != nil {
		details = append(details, "end_date: must be a date in YYYY-MM-DD format")
	}
	if len(details) == 0 && end.Before(start) {
		details = append(details, "end_date: must not be before start_date")
	}
	if len(details) > 0 {
		return nil, apperr.Validation(details...)
	}
	end = endOfDay(end)

	page, pageSize := clampPage(req.Page, req.PageSize)

	cacheKey := s.cacheKey(ctx, userID, startStr, endStr, page, pageSize)
	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.SalesReportResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	sales, total, err := s.reportRepo.ProductSales(ctx, userID, start, end, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperr.Persistence("product sales report", err)
	}

	products := make([]dto.ProductSalesResponse, 0, len(sales))
	for _, row := range sales {
		products = append(products, dto.ProductSalesResponse{
			ProductName:   row.ProductName,
			TotalQuantity: row.TotalQuantity,
			TotalPrice:    row.TotalPrice.Round(2),
		})
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	resp := &dto.SalesReportResponse{Report: dto.SalesReport{
		StartDate:    startStr,
		EndDate:      endStr,
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		TotalRecords: total,
		Products:     products,
	}}

	if s.redisClient != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}
	return resp, nil
}

func (s *ReportService) cacheKey(ctx context.Context, userID uuid.UUID, start, end string, page, pageSize int) string {
	ver := "0"
	if s.redisClient != nil {
		if v, err := s.redisClient.Get(ctx, ReportVersionKey(userID)).Result(); err == nil {
			ver = v
		}
	}
	return fmt.Sprintf("report:%s:%s:%s:%s:%d:%d", userID, ver, start, end, page, pageSize)
}
