package main

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"finbook/internal/config"
	"finbook/internal/email/noop"
	"finbook/internal/email/ses"
	"finbook/internal/handler"
	"finbook/internal/port"
	"finbook/internal/repository/postgres"
	"finbook/internal/router"
	"finbook/internal/service"
	s3storage "finbook/internal/storage/s3"
	"finbook/internal/tax"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	txRunner := postgres.NewTxRunner(db)
	userRepo := postgres.NewUserRepo(db)
	clientRepo := postgres.NewClientRepo(db)
	profileRepo := postgres.NewCompanyProfileRepo(db)
	seqRepo := postgres.NewSequenceRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	quotationRepo := postgres.NewQuotationRepo(db)
	paymentRepo := postgres.NewPaymentRepo(db)

	// Initialize storage
	storage, err := s3storage.NewS3Storage(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 storage: %w", err)
	}

	// Initialize email sender
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	classifier := tax.NewClassifier(cfg.Tax.HomeCountry, decimal.NewFromFloat(cfg.Tax.CombinedRate))

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	clientSvc := service.NewClientService(clientRepo)
	profileSvc := service.NewProfileService(profileRepo)
	invoiceSvc := service.NewInvoiceService(txRunner, invoiceRepo, clientRepo, profileRepo, seqRepo, emailSender, classifier, cfg.Numbering)
	quotationSvc := service.NewQuotationService(txRunner, quotationRepo, invoiceRepo, clientRepo, profileRepo, seqRepo, classifier, cfg.Numbering)
	paymentSvc := service.NewPaymentService(txRunner, paymentRepo, invoiceRepo, storage, cfg.S3)
	exportSvc := service.NewExportService(invoiceRepo, clientRepo)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	clientH := handler.NewClientHandler(clientSvc)
	profileH := handler.NewProfileHandler(profileSvc)
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	quotationH := handler.NewQuotationHandler(quotationSvc)
	paymentH := handler.NewPaymentHandler(paymentSvc, cfg.S3.MaxFileSizeMB)
	exportH := handler.NewExportHandler(exportSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins,
		authH, clientH, profileH, invoiceH, quotationH, paymentH, exportH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
