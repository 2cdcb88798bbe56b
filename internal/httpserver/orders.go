package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"construapp/internal/order"
)

type submitOrderRequest struct {
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	IdempotencyKey string `json:"idempotencyKey"`
}

// submitOrder validates the delivery fields and writes the order. On success
// the cart is deliberately left intact; the client clears it with
// POST /cart/reset when the user returns to the catalog.
func (h *handlers) submitOrder(c *gin.Context) {
	if h.deps.Orders == nil {
		notifyError(c, http.StatusServiceUnavailable, "store unavailable, orders are disabled")
		return
	}

	var req submitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		notifyError(c, http.StatusBadRequest, "invalid order payload")
		return
	}

	sessionID := c.GetString(sessionIDKey)
	res, err := h.deps.Orders.Submit(c.Request.Context(), order.SubmitInput{
		SessionID:      sessionID,
		Address:        req.Address,
		Phone:          req.Phone,
		Cart:           h.deps.Carts.Get(sessionID),
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	status := http.StatusCreated
	note := successNote("order placed")
	if res.Duplicate {
		status = http.StatusOK
		note = successNote("order already placed")
	}
	c.JSON(status, gin.H{"notification": note, "order": res.Order})
}

func (h *handlers) listOrders(c *gin.Context) {
	if h.deps.Orders == nil {
		notifyError(c, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	orders, err := h.deps.Orders.ListForCustomer(c.Request.Context(), c.GetString(sessionIDKey))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

func (h *handlers) getOrder(c *gin.Context) {
	if h.deps.Orders == nil {
		notifyError(c, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	o, err := h.deps.Orders.Get(c.Request.Context(), c.GetString(sessionIDKey), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
