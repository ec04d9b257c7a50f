package router

import (
	"github.com/gin-gonic/gin"

	"finbook/internal/domain"
	"finbook/internal/handler"
	"finbook/internal/middleware"
	"finbook/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	corsOrigins []string,
	authH *handler.AuthHandler,
	clientH *handler.ClientHandler,
	profileH *handler.ProfileHandler,
	invoiceH *handler.InvoiceHandler,
	quotationH *handler.QuotationHandler,
	paymentH *handler.PaymentHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/register", authH.Register)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Client routes
	clients := protected.Group("/clients")
	clients.POST("", clientH.Create)
	clients.GET("", clientH.List)
	clients.GET("/:id", clientH.GetByID)
	clients.PUT("/:id", clientH.Update)
	clients.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), clientH.Delete)

	// Company profile
	protected.GET("/profile", profileH.Get)
	protected.PUT("/profile", middleware.RequireRole(domain.RoleAdmin), profileH.Save)

	// Invoice routes
	invoices := protected.Group("/invoices")
	invoices.POST("", invoiceH.Create)
	invoices.GET("", invoiceH.List)
	invoices.GET("/:id", invoiceH.GetByID)
	invoices.PUT("/:id", invoiceH.Update)
	invoices.POST("/:id/send", invoiceH.Send)
	invoices.POST("/mark-overdue", invoiceH.MarkOverdue)
	invoices.DELETE("/:id", invoiceH.Delete)
	invoices.POST("/:id/payments", paymentH.Record)
	invoices.GET("/:id/payments", paymentH.ListByInvoice)

	// Quotation routes
	quotations := protected.Group("/quotations")
	quotations.POST("", quotationH.Create)
	quotations.GET("", quotationH.List)
	quotations.GET("/:id", quotationH.GetByID)
	quotations.POST("/:id/send", quotationH.Send)
	quotations.POST("/:id/accept", quotationH.Accept)
	quotations.POST("/:id/decline", quotationH.Decline)
	quotations.POST("/:id/convert", quotationH.Convert)
	quotations.DELETE("/:id", quotationH.Delete)

	// Payment receipt routes
	payments := protected.Group("/payments")
	payments.POST("/:id/receipt", paymentH.AttachReceipt)
	payments.GET("/:id/receipt", paymentH.GetReceiptURL)

	// Register exports
	exports := protected.Group("/exports")
	exports.GET("/invoices.csv", exportH.InvoicesCSV)
	exports.GET("/invoices.xlsx", exportH.InvoicesXLSX)

	return r
}
