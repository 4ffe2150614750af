package routes

import (
	"os"
	"path/filepath"
	"strconv"

	visitorController "visitor-pass/controllers/visitor"
	"visitor-pass/logger"
	"visitor-pass/middleware"
	"visitor-pass/services/mailer"
	"visitor-pass/services/pass"
	"visitor-pass/services/passpdf"
	"visitor-pass/services/visitorstore"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	assetDir := os.Getenv("ASSET_DIR")
	if assetDir == "" {
		assetDir = "assets"
	}

	smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	retentionDays, _ := strconv.Atoi(os.Getenv("RETENTION_DAYS"))

	store := visitorstore.NewGormStore(db)
	renderer := passpdf.New(passpdf.Config{
		OrgName:        os.Getenv("ORG_NAME"),
		BackgroundPath: filepath.Join(assetDir, "background.png"),
		LogoPath:       filepath.Join(assetDir, "trf.png"),
	})
	smtpMailer := mailer.New(mailer.Config{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     smtpPort,
		Username: os.Getenv("EMAIL_USER"),
		Password: os.Getenv("EMAIL_PASS"),
	})
	passService := pass.New(store, smtpMailer, renderer, pass.Config{
		BaseURL:       os.Getenv("BASE_URL"),
		RetentionDays: retentionDays,
	})
	vc := visitorController.NewVisitorController(passService)

	asyncLogger := logger.NewAsyncLogger(db)
	go asyncLogger.ProcessLog()
	app.Use(middleware.RequestLogger(asyncLogger))

	RegisterAPI(app, vc)
}

// RegisterAPI wires the visitor pass endpoints onto the given router.
// Split out from SetupRoutes so tests can mount the API without a database.
func RegisterAPI(app fiber.Router, vc *visitorController.VisitorController) {
	api := app.Group("/api")

	api.Post("/request-pass", vc.RequestPass)
	api.Get("/approve/:id", vc.Approve)
	api.Get("/reject/:id", vc.Reject)
	api.Get("/download-pass/:id", vc.DownloadPass)
	api.Get("/visitors", vc.ListVisitors)
	api.Delete("/cleanup-old-visitors", vc.CleanupOldVisitors)
}
