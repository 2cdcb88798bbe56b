package httpserver

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"construapp/internal/domain"
)

type handlers struct {
	deps   Deps
	logger *log.Logger
}

type cartView struct {
	SessionID  string            `json:"sessionId"`
	Lines      []domain.CartLine `json:"lines"`
	TotalCents int64             `json:"totalCents"`
	ItemCount  int               `json:"itemCount"`
}

func (h *handlers) cartView(sessionID string) cartView {
	cart := h.deps.Carts.Get(sessionID)
	return cartView{
		SessionID:  sessionID,
		Lines:      cart.Lines,
		TotalCents: cart.TotalCents(),
		ItemCount:  cart.ItemCount(),
	}
}

func (h *handlers) createSession(c *gin.Context) {
	sessionID, token, err := h.deps.Sessions.Issue()
	if err != nil {
		notifyError(c, http.StatusInternalServerError, "could not start session")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sessionId": sessionID, "token": token})
}

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cartView(c.GetString(sessionIDKey)))
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// addCartItem adds one unit of the product to the cart, snapshotting its
// current price. Repeated adds of the same product increment the one line.
func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		notifyError(c, http.StatusBadRequest, "productId required")
		return
	}

	product, ok := h.deps.Mirror.Get(req.ProductID)
	if !ok {
		notifyError(c, http.StatusNotFound, "product not found")
		return
	}

	sessionID := c.GetString(sessionIDKey)
	h.deps.Carts.Add(sessionID, *product)

	c.JSON(http.StatusOK, gin.H{
		"notification": successNote(fmt.Sprintf("%s added to cart", product.Name)),
		"cart":         h.cartView(sessionID),
	})
}

type changeQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func (h *handlers) changeCartItem(c *gin.Context) {
	var req changeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		notifyError(c, http.StatusBadRequest, "delta required")
		return
	}

	sessionID := c.GetString(sessionIDKey)
	if _, err := h.deps.Carts.ChangeQuantity(sessionID, c.Param("id"), req.Delta); err != nil {
		notifyError(c, http.StatusNotFound, "item not in cart")
		return
	}
	c.JSON(http.StatusOK, h.cartView(sessionID))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	sessionID := c.GetString(sessionIDKey)
	h.deps.Carts.Remove(sessionID, c.Param("id"))
	c.JSON(http.StatusOK, h.cartView(sessionID))
}

// resetCart empties the cart. This is the explicit "back to catalog" action
// after an order confirmation; submitting an order does not clear the cart.
func (h *handlers) resetCart(c *gin.Context) {
	sessionID := c.GetString(sessionIDKey)
	h.deps.Carts.Reset(sessionID)
	c.JSON(http.StatusOK, h.cartView(sessionID))
}
