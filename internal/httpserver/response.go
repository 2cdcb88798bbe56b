package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"construapp/internal/domain"
)

// notification mirrors the storefront's single transient message slot: one
// message plus a success/error kind.
type notification struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

func successNote(message string) notification {
	return notification{Message: message, Kind: "success"}
}

func errorNote(message string) notification {
	return notification{Message: message, Kind: "error"}
}

func notifyError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"notification": errorNote(message)})
}

// writeServiceError maps service errors onto HTTP statuses: validation
// failures are the caller's fault, a missing entity is 404, anything else is
// a retryable store failure.
func writeServiceError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		notifyError(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, domain.ErrNotFound):
		notifyError(c, http.StatusNotFound, "not found")
	default:
		notifyError(c, http.StatusBadGateway, "store write failed, try again")
	}
}
