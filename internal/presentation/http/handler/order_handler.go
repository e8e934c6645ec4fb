package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/evdekor-api/internal/application/service"
	"github.com/sangkips/evdekor-api/internal/domain/enum"
	"github.com/sangkips/evdekor-api/internal/domain/repository"
	"github.com/sangkips/evdekor-api/internal/presentation/http/dto/request"
	"github.com/sangkips/evdekor-api/internal/presentation/http/dto/response"
	"github.com/sangkips/evdekor-api/pkg/apperror"
	"github.com/sangkips/evdekor-api/pkg/money"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List handles listing orders
func (h *OrderHandler) List(c *gin.Context) {
	params := &repository.OrderFilterParams{
		Pagination: pageParams(c),
		Search:     strings.TrimSpace(c.Query("search")),
	}

	if s := c.Query("status"); s != "" {
		status, err := enum.ParseOrderStatus(s)
		if err != nil {
			response.ValidationError(c, []apperror.FieldError{{Field: "status", Message: "unknown status"}})
			return
		}
		params.Status = &status
	}
	if s := c.Query("customer_id"); s != "" {
		customerID, err := uuid.Parse(s)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &customerID
	}

	dates, ok := parseDateRange(c)
	if !ok {
		return
	}
	params.StartDate = dates.From
	params.EndDate = dates.To

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// Create handles creating an order
func (h *OrderHandler) Create(c *gin.Context) {
	var req request.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	draft, errs := req.ToDraft()
	if len(errs) > 0 {
		response.ValidationError(c, errs)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), draft)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// Get handles getting an order by ID
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// Update handles replacing an order's contents
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req request.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	draft, errs := req.ToDraft()
	if len(errs) > 0 {
		response.ValidationError(c, errs)
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), id, draft)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order updated successfully", order)
}

// Delete handles deleting an order
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order deleted successfully", nil)
}

// UpdateStatus handles changing one order's status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req request.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated successfully", order)
}

// BulkUpdateStatus handles changing the status of several orders. It answers
// 207 when some of the orders could not be updated.
func (h *OrderHandler) BulkUpdateStatus(c *gin.Context) {
	var req request.BulkUpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.BulkUpdateOrderStatus(c.Request.Context(), req.IDs, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	if len(result.Failed) > 0 {
		response.Success(c, http.StatusMultiStatus, "Some order statuses could not be updated", result)
		return
	}
	response.OK(c, "Order statuses updated successfully", result)
}

type statusView struct {
	Value       enum.OrderStatus `json:"value"`
	Translation string           `json:"translation"`
}

// Statuses lists every status with its display label
func (h *OrderHandler) Statuses(c *gin.Context) {
	statuses := enum.OrderStatuses()
	views := make([]statusView, len(statuses))
	for i, s := range statuses {
		views[i] = statusView{Value: s, Translation: s.Translation()}
	}
	response.OK(c, "Order statuses retrieved successfully", views)
}

// Totals returns an order's totals in the requested currency
func (h *OrderHandler) Totals(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var currency money.Currency
	if s := c.Query("currency"); s != "" {
		parsed, err := money.ParseCurrency(s)
		if err != nil {
			response.ValidationError(c, []apperror.FieldError{{Field: "currency", Message: "unsupported currency"}})
			return
		}
		currency = parsed
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order totals retrieved successfully", h.orderService.OrderTotalsIn(order, currency))
}
