package delivery

import (
	"net/http"
	"strconv"

	"pos_service/internal/domain"
	"pos_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SaleHandler struct {
	useCase usecase.SaleUseCase
	reports usecase.ReportUseCase
	log     *logrus.Logger
}

func NewSaleHandler(uc usecase.SaleUseCase, reports usecase.ReportUseCase, logger *logrus.Logger) *SaleHandler {
	return &SaleHandler{
		useCase: uc,
		reports: reports,
		log:     logger,
	}
}

func (h *SaleHandler) RegisterRoutes(router gin.IRouter) {
	sales := router.Group("/sales")
	{
		sales.POST("", h.RecordSale)
		sales.GET("", h.ListSales)
		sales.GET("/:id", h.GetSaleByID)
	}
}

type recordSaleRequest struct {
	Items []domain.SaleLine `json:"items"`
}

func (h *SaleHandler) RecordSale(c *gin.Context) {
	var req recordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for record sale: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sale, err := h.useCase.RecordSale(c.Request.Context(), req.Items)
	if err != nil {
		h.log.Warnf("Failed to record sale with %d items: %v", len(req.Items), err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to record sale: "+err.Error())
		return
	}

	h.log.Infof("Sale recorded successfully: ID %s, Total %s", sale.ID, sale.Total.StringFixed(2))
	SuccessResponse(c, http.StatusCreated, "Sale recorded successfully", sale)
}

// ListSales returns sales in stored order. With q or newest=true it runs the
// sales search instead.
func (h *SaleHandler) ListSales(c *gin.Context) {
	query := c.Query("q")
	newestFirst, _ := strconv.ParseBool(c.DefaultQuery("newest", "false"))
	if query == "" && !newestFirst {
		SuccessResponse(c, http.StatusOK, "Sales retrieved successfully", h.useCase.ListSales())
		return
	}
	SuccessResponse(c, http.StatusOK, "Sales retrieved successfully", h.reports.SearchSales(query, newestFirst))
}

func (h *SaleHandler) GetSaleByID(c *gin.Context) {
	id := c.Param("id")

	sale, err := h.useCase.GetSale(id)
	if err != nil {
		h.log.Warnf("Failed to get sale by ID %s: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve sale: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Sale retrieved successfully", sale)
}
