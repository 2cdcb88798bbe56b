package httpserver

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"construapp/internal/admin"
	"construapp/internal/session"
)

const sessionIDKey = "sessionID"

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	router.POST("/session", h.createSession)

	router.GET("/catalog", h.listCatalog)
	router.GET("/catalog/stream", h.streamCatalog)
	router.GET("/catalog/status", h.catalogStatus)
	router.GET("/catalog/:id", h.getProduct)

	authed := router.Group("/", sessionMiddleware(deps.Sessions))
	authed.GET("/cart", h.getCart)
	authed.POST("/cart/items", h.addCartItem)
	authed.PATCH("/cart/items/:id", h.changeCartItem)
	authed.DELETE("/cart/items/:id", h.removeCartItem)
	authed.POST("/cart/reset", h.resetCart)
	authed.POST("/orders", h.submitOrder)
	authed.GET("/orders", h.listOrders)
	authed.GET("/orders/:id", h.getOrder)

	router.POST("/admin/login", h.adminLogin)
	adm := router.Group("/admin", adminMiddleware(deps.Admin))
	adm.POST("/logout", h.adminLogout)
	adm.PUT("/products/:id/price", h.setPrice)

	return router
}

// sessionMiddleware resolves the bearer token to a session id.
func sessionMiddleware(sessions *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			notifyError(c, http.StatusUnauthorized, "session required")
			c.Abort()
			return
		}
		sessionID, err := sessions.Lookup(token)
		if err != nil {
			notifyError(c, http.StatusUnauthorized, "session expired")
			c.Abort()
			return
		}
		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// adminMiddleware validates the admin token issued by Login.
func adminMiddleware(adm *admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adm == nil {
			notifyError(c, http.StatusServiceUnavailable, "admin unavailable")
			c.Abort()
			return
		}
		token := bearerToken(c)
		if token == "" || adm.Authorize(token) != nil {
			notifyError(c, http.StatusUnauthorized, "admin access required")
			c.Abort()
			return
		}
		c.Set("adminToken", token)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
