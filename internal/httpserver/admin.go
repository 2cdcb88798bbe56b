package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"construapp/internal/admin"
)

type adminLoginRequest struct {
	PIN string `json:"pin"`
}

func (h *handlers) adminLogin(c *gin.Context) {
	if h.deps.Admin == nil {
		notifyError(c, http.StatusServiceUnavailable, "store unavailable, admin is disabled")
		return
	}

	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		notifyError(c, http.StatusBadRequest, "pin required")
		return
	}

	token, err := h.deps.Admin.Login(req.PIN)
	if err != nil {
		if errors.Is(err, admin.ErrIncorrectPIN) {
			notifyError(c, http.StatusUnauthorized, "Incorrect PIN")
			return
		}
		notifyError(c, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notification": successNote("Admin mode enabled"),
		"token":        token,
	})
}

func (h *handlers) adminLogout(c *gin.Context) {
	h.deps.Admin.Logout(c.GetString("adminToken"))
	c.Status(http.StatusNoContent)
}

type setPriceRequest struct {
	// Price is the raw editor input; the service parses and validates it.
	Price string `json:"price"`
}

// setPrice merge-writes only the price field of the product document.
// Invalid input is rejected instead of being coerced to zero.
func (h *handlers) setPrice(c *gin.Context) {
	var req setPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		notifyError(c, http.StatusBadRequest, "price required")
		return
	}

	id := c.Param("id")
	cents, err := h.deps.Admin.SetPrice(c.Request.Context(), id, req.Price)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notification": successNote("price updated"),
		"id":           id,
		"priceCents":   cents,
	})
}
