package delivery

import (
	"bytes"
	"net/http"
	"strconv"

	"pos_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const csvContentType = "text/csv; charset=utf-8"

// ReportHandler serves reports, CSV exports and the admin maintenance routes.
type ReportHandler struct {
	reports     usecase.ReportUseCase
	maintenance usecase.MaintenanceUseCase
	log         *logrus.Logger
}

func NewReportHandler(reports usecase.ReportUseCase, maintenance usecase.MaintenanceUseCase, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{
		reports:     reports,
		maintenance: maintenance,
		log:         logger,
	}
}

func (h *ReportHandler) RegisterRoutes(router gin.IRouter) {
	reports := router.Group("/reports")
	{
		reports.GET("/summary", h.SalesSummary)
		reports.GET("/low-stock", h.LowStock)
	}
	export := router.Group("/export")
	{
		export.GET("/products.csv", h.ExportProducts)
		export.GET("/sales.csv", h.ExportSales)
	}
	admin := router.Group("/admin")
	{
		admin.POST("/backup", h.Backup)
		admin.POST("/reset", h.Reset)
	}
}

func (h *ReportHandler) SalesSummary(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Sales summary computed", h.reports.SalesSummary())
}

func (h *ReportHandler) LowStock(c *gin.Context) {
	threshold := h.reports.DefaultLowStockThreshold()
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.log.Warnf("Invalid threshold parameter: %s", raw)
			ErrorResponse(c, http.StatusBadRequest, "Invalid threshold format")
			return
		}
		threshold = parsed
	}

	products, err := h.reports.LowStock(threshold)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to compute low stock: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Low stock products retrieved", products)
}

func (h *ReportHandler) ExportProducts(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.reports.ExportProductsCSV(&buf); err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to export products: "+err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="products.csv"`)
	c.Data(http.StatusOK, csvContentType, buf.Bytes())
}

func (h *ReportHandler) ExportSales(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.reports.ExportSalesCSV(&buf); err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to export sales: "+err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="sales.csv"`)
	c.Data(http.StatusOK, csvContentType, buf.Bytes())
}

func (h *ReportHandler) Backup(c *gin.Context) {
	path, err := h.maintenance.Backup(c.Request.Context(), "")
	if err != nil {
		h.log.Errorf("Backup request failed: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to write backup: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusCreated, "Backup written", gin.H{"path": path})
}

// Reset needs ?confirm=true; it wipes every collection.
func (h *ReportHandler) Reset(c *gin.Context) {
	if confirmed, _ := strconv.ParseBool(c.Query("confirm")); !confirmed {
		ErrorResponse(c, http.StatusBadRequest, "Reset requires confirm=true")
		return
	}
	if err := h.maintenance.Reset(c.Request.Context()); err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to reset database: "+err.Error())
		return
	}
	h.log.Warn("Database reset through admin API")
	SuccessResponse(c, http.StatusOK, "Database reset", nil)
}
