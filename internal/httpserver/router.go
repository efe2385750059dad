package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps are the collaborators the route handlers need.
type Deps struct {
	OrderSvc   orderService
	ProductSvc productService
	Bkash      bkashGateway
	Stripe     stripeGateway
	Tokens     tokenVerifier
}

// Options carries routing configuration that is not a collaborator.
type Options struct {
	FrontendURL     string
	BkashSuccessURL string
	BkashFailureURL string
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, opts Options) *gin.Engine {
	registerValidations()

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if opts.FrontendURL != "" {
		corsCfg.AllowOrigins = []string{opts.FrontendURL}
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	bkashRoutes := router.Group("/api/bkash")
	{
		bkashRoutes.POST("/create", createBkashPayment(deps.Bkash))
		bkashRoutes.GET("/callback", bkashCallback(deps.Bkash, opts.BkashSuccessURL, opts.BkashFailureURL))
	}

	stripeRoutes := router.Group("/api/stripe")
	{
		stripeRoutes.GET("/test", testStripeConnection(deps.Stripe))
		stripeRoutes.POST("/create", createStripeSession(deps.Stripe))
		stripeRoutes.GET("/verify", verifyStripeSession(deps.Stripe))
		stripeRoutes.POST("/webhook", stripeWebhook(deps.Stripe, logger))
	}

	products := router.Group("/api/v1/product")
	{
		products.GET("/list", listProducts(deps.ProductSvc))
		products.GET("/search/:keyword", searchProducts(deps.ProductSvc))
		products.GET("/get-product/:slug", getProduct(deps.ProductSvc))

		signedIn := products.Group("", requireSignIn(deps.Tokens))
		signedIn.POST("/confirm-order", confirmOrder(deps.OrderSvc))
		signedIn.POST("/create-order", createOrder(deps.OrderSvc))
		signedIn.GET("/orders", listOrders(deps.OrderSvc))
		signedIn.GET("/order/:id", getOrder(deps.OrderSvc))
	}

	return router
}
