package httpserver

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	customersvc "storefront/internal/service/customer"
)

// deviceCookie carries the opaque owner key the cart identity store is
// namespaced by. The browser keeps it for a year; the suffix versions the
// layout the same way the stored cart-id key is versioned.
const deviceCookie = "storefront_device_v1"

const deviceKeyCtx = "deviceKey"

type catalogService interface {
	Products(ctx context.Context) ([]domain.Product, error)
	ProductByHandle(ctx context.Context, handle string) (*domain.Product, error)
	Collections(ctx context.Context) ([]domain.Collection, error)
	Shop(ctx context.Context) (*domain.Shop, error)
	Pages(ctx context.Context) ([]domain.Page, error)
	Policies(ctx context.Context) (*domain.Policies, error)
}

type customerService interface {
	Register(ctx context.Context, in customersvc.RegisterInput) (*domain.Customer, string, error)
	Login(ctx context.Context, email, password string) (*domain.Customer, string, error)
	Logout(ctx context.Context, token string) error
	BySession(ctx context.Context, token string) (*domain.Customer, error)
	SessionTTL() time.Duration
}

type pushService interface {
	Register(ctx context.Context, token string, email *string) error
}

// Deps carries the services the router exposes.
type Deps struct {
	Carts          *cartsvc.Registry
	CatalogSvc     catalogService
	CustomerSvc    customerService
	PushSvc        pushService
	AllowedOrigins []string
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *logrus.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	api.Use(deviceKeyMiddleware())

	carts := &cartHandlers{registry: deps.Carts, logger: logger}
	api.GET("/cart", carts.get)
	api.POST("/cart/refresh", carts.refresh)
	api.POST("/cart/lines", carts.addLine)
	api.PATCH("/cart/lines/:lineID", carts.updateLine)
	api.DELETE("/cart/lines/:lineID", carts.removeLine)
	api.DELETE("/cart", carts.clear)

	auth := &authHandlers{svc: deps.CustomerSvc, logger: logger}
	api.POST("/auth/register", auth.register)
	api.POST("/auth/login", auth.login)
	api.POST("/auth/logout", auth.logout)
	api.GET("/auth/me", auth.me)

	catalog := &catalogHandlers{svc: deps.CatalogSvc}
	api.GET("/products", catalog.products)
	api.GET("/products/:handle", catalog.productByHandle)
	api.GET("/collections", catalog.collections)
	api.GET("/shop", catalog.shop)
	api.GET("/pages", catalog.pages)
	api.GET("/policies", catalog.policies)

	pushH := &pushHandlers{svc: deps.PushSvc, logger: logger}
	api.POST("/push/register", pushH.register)

	return router
}

// deviceKeyMiddleware assigns every browser a stable owner key used to
// namespace its persisted cart identifier.
func deviceKeyMiddleware() gin.HandlerFunc {
	const maxAge = 365 * 24 * time.Hour
	return func(c *gin.Context) {
		key, err := c.Cookie(deviceCookie)
		if err != nil || key == "" {
			key = uuid.NewString()
			c.SetCookie(deviceCookie, key, int(maxAge.Seconds()), "/", "", false, true)
		}
		c.Set(deviceKeyCtx, key)
		c.Next()
	}
}

func deviceKey(c *gin.Context) string {
	return c.GetString(deviceKeyCtx)
}
