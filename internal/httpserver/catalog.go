package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"construapp/internal/catalog"
	"construapp/internal/domain"
)

// listCatalog returns the current mirror snapshot, optionally filtered by a
// case-insensitive name match (the storefront search box).
func (h *handlers) listCatalog(c *gin.Context) {
	products := h.deps.Mirror.Snapshot()

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		filtered := make([]domain.Product, 0, len(products))
		needle := strings.ToLower(q)
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Name), needle) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, ok := h.deps.Mirror.Get(c.Param("id"))
	if !ok {
		notifyError(c, http.StatusNotFound, "product not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) catalogStatus(c *gin.Context) {
	if h.deps.Sync == nil {
		c.JSON(http.StatusOK, catalog.Status{Connected: false, LastError: "store unavailable, serving fallback catalog"})
		return
	}
	c.JSON(http.StatusOK, h.deps.Sync.Status())
}

// streamCatalog pushes full catalog snapshots over Server-Sent Events. The
// client receives the current snapshot immediately and a fresh one on every
// change; intermediate snapshots may be coalesced.
func (h *handlers) streamCatalog(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)

	if err := sendSnapshot(c, h.deps.Mirror.Snapshot()); err != nil {
		return
	}

	updates, cancel := h.deps.Mirror.Subscribe()
	defer cancel()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := sendSnapshot(c, snap); err != nil {
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

func sendSnapshot(c *gin.Context, products []domain.Product) error {
	data, err := json.Marshal(gin.H{"products": products, "count": len(products)})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.Writer, "event: snapshot\ndata: %s\n\n", data); err != nil {
		return err
	}
	c.Writer.Flush()
	return nil
}
