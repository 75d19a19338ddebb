package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"snow-backend/auditlog"
	"snow-backend/config"
	"snow-backend/database"
	"snow-backend/handlers"
	"snow-backend/mailer"
	"snow-backend/middleware"
	"snow-backend/notify"
	"snow-backend/paystack"
	"snow-backend/verify"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	cfg := config.Load()
	logger := log.New(os.Stdout, "[paystack-backend] ", log.LstdFlags)

	db, err := database.Connect(cfg.DBPath)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	svc := verify.NewService(verify.Deps{
		Config:     cfg,
		Gateway:    paystack.NewClient(cfg.PaystackSecretKey, cfg.PaystackBaseURL),
		DB:         db,
		Mailer:     mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.FromEmail),
		Notifier:   notify.New(cfg.NotifyWebhookURL),
		SuccessLog: auditlog.New(cfg.SuccessLogPath),
		FailureLog: auditlog.New(cfg.FailureLogPath),
		EmailLog:   auditlog.New(cfg.SentEmailLogPath),
		Logger:     logger,
	})

	h := handlers.New(svc, db, cfg)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))
	r.Use(middleware.RequestID())

	// Public routes (the storefront calls these directly)
	r.GET("/", h.Health)
	r.POST("/verify-paystack", h.VerifyPaystack)
	r.POST("/report-failed-verification", h.ReportFailedVerification)
	r.POST("/login", h.Login)
	r.POST("/register", h.Register)
	r.POST("/setup-admin", h.SetupAdmin)

	// Protected routes
	api := r.Group("/api")
	api.Use(middleware.JwtAuthMiddleware())
	{
		api.POST("/verify-payment", h.VerifyPaymentRPC)

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/verifications", h.ListVerifications)
			admin.GET("/tracking/:reference", h.GetTrackingBatch)
			admin.GET("/export", h.ExportVerifications)
		}
	}

	logger.Printf("listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
