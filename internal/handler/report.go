package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tably/orders-api/internal/dto"
	"github.com/tably/orders-api/internal/middleware"
	"github.com/tably/orders-api/internal/service"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) ProductSales(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req dto.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.reportService.ProductSales(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Report not found")
		return
	}

	c.JSON(http.StatusOK, resp)
}
