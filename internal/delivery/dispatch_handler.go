package delivery

import (
	"encoding/json"
	"net/http"

	"pos_service/internal/dispatcher"
	"pos_service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DispatchHandler exposes the named operations over HTTP. The request body is
// the operation's arguments; the response is the dispatcher result as is.
type DispatchHandler struct {
	dispatcher *dispatcher.Dispatcher
	log        *logrus.Logger
}

func NewDispatchHandler(d *dispatcher.Dispatcher, logger *logrus.Logger) *DispatchHandler {
	return &DispatchHandler{
		dispatcher: d,
		log:        logger,
	}
}

func (h *DispatchHandler) RegisterRoutes(router gin.IRouter) {
	rpc := router.Group("/rpc")
	{
		rpc.GET("", h.ListOperations)
		rpc.POST("/:operation", h.Invoke)
	}
}

func (h *DispatchHandler) ListOperations(c *gin.Context) {
	c.JSON(http.StatusOK, dispatcher.Result{OK: true, Value: h.dispatcher.Operations()})
}

func (h *DispatchHandler) Invoke(c *gin.Context) {
	operation := c.Param("operation")

	body, err := c.GetRawData()
	if err != nil {
		h.log.Errorf("Failed to read body for operation %s: %v", operation, err)
		c.JSON(http.StatusBadRequest, dispatcher.Result{ErrorKind: domain.KindInvalidRequest, Message: "could not read request body"})
		return
	}

	var args interface{}
	if len(body) > 0 {
		if !json.Valid(body) {
			c.JSON(http.StatusBadRequest, dispatcher.Result{ErrorKind: domain.KindInvalidRequest, Message: "request body is not valid JSON"})
			return
		}
		args = json.RawMessage(body)
	}

	result := h.dispatcher.Dispatch(c.Request.Context(), operation, args)
	c.JSON(statusForKind(result.ErrorKind), result)
}
