package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/evdekor-api/internal/application/service"
	"github.com/sangkips/evdekor-api/internal/presentation/http/dto/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler handles dashboard and report requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Dashboard returns the dashboard statistics
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.reportService.GetDashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Dashboard statistics retrieved successfully", stats)
}

// SalesByCustomer returns the top customers
func (h *ReportHandler) SalesByCustomer(c *gin.Context) {
	r, ok := parseDateRange(c)
	if !ok {
		return
	}
	result, err := h.reportService.SalesByCustomer(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Report generated successfully", result)
}

// SalesByProduct returns the top products
func (h *ReportHandler) SalesByProduct(c *gin.Context) {
	r, ok := parseDateRange(c)
	if !ok {
		return
	}
	result, err := h.reportService.SalesByProduct(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Report generated successfully", result)
}

// SalesByStatus returns order counts per status
func (h *ReportHandler) SalesByStatus(c *gin.Context) {
	r, ok := parseDateRange(c)
	if !ok {
		return
	}
	result, err := h.reportService.SalesByStatus(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Report generated successfully", result)
}

// MonthlySales returns completed sales per month
func (h *ReportHandler) MonthlySales(c *gin.Context) {
	r, ok := parseDateRange(c)
	if !ok {
		return
	}
	result, err := h.reportService.MonthlySales(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Report generated successfully", result)
}

// ExportOrders streams the orders in the range as an xlsx download
func (h *ReportHandler) ExportOrders(c *gin.Context) {
	r, ok := parseDateRange(c)
	if !ok {
		return
	}

	// buffered so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := h.reportService.ExportOrders(c.Request.Context(), r, &buf); err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("siparisler-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
