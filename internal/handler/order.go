package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tably/orders-api/internal/dto"
	"github.com/tably/orders-api/internal/middleware"
	"github.com/tably/orders-api/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order created successfully", "order": order})
}

func (h *OrderHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation error", "details": []string{"order_id: must be a valid UUID"}})
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), orderID, userID)
	if err != nil {
		respondError(c, err, "Order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.orderService.List(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Order not found")
		return
	}

	c.JSON(http.StatusOK, resp)
}
