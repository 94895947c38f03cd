package router

import (
	"log"
	"time"

	"xpense/internal/config"
	"xpense/internal/forecast"
	"xpense/internal/handler"
	"xpense/internal/middleware"
	"xpense/internal/service"
	"xpense/internal/session"
	"xpense/web"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine: pages, static assets and the JSON API.
func SetupRouter(cfg *config.Config, db *gorm.DB, logger *log.Logger) (*gin.Engine, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	if logger == nil {
		logger = log.Default()
	}

	r := gin.New()
	r.Use(gin.RecoveryWithWriter(logger.Writer()), middleware.AccessLog(logger))

	// templates and static files are embedded in the binary
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", web.Static())

	jwtSecret := cfg.JWT.Secret

	authSvc := service.NewAuthService(db, cfg.Security.BcryptCost, time.Duration(cfg.JWT.ExpireHours)*time.Hour)
	entrySvc := service.NewEntryService(db)
	accountSvc := service.NewAccountService(db)
	backupSvc := service.NewBackupService(db, cfg.Security.EncryptionKey, cfg.Backup.Dir)

	// ====== pages ======
	pages := handler.NewPageHandler(authSvc, jwtSecret)
	r.GET("/", pages.Index)

	loggedIn := r.Group("")
	loggedIn.Use(middleware.AuthMiddleware(jwtSecret, authSvc, "/"))
	for _, p := range []session.Page{session.Home, session.Dashboard, session.History, session.Account} {
		loggedIn.GET("/"+string(p), pages.Show(p))
	}

	// ====== API ======
	api := r.Group("/api")

	// login / register need no session but are throttled per IP
	limiter := middleware.NewRateLimiter(cfg.Security.LoginRatePerMinute, cfg.Security.LoginBurst)
	authHandler := handler.NewAuthHandler(authSvc, jwtSecret, cfg.JWT.Issuer, cfg.JWT.ExpireHours)
	api.POST("/auth/register", limiter.Middleware(), authHandler.Register)
	api.POST("/auth/login", limiter.Middleware(), authHandler.Login)
	api.GET("/categories", handler.ListCategories)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret, authSvc, ""))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/me", handler.GetMe)

	entryHandler := handler.NewEntryHandler(entrySvc, cfg.App.UploadMaxBytes)
	protected.POST("/entries", entryHandler.CreateEntry)
	protected.GET("/entries", entryHandler.ListEntries)
	protected.GET("/entries/:id", entryHandler.GetEntry)
	protected.PUT("/entries/:id", entryHandler.UpdateEntry)
	protected.DELETE("/entries/:id", entryHandler.DeleteEntry)
	protected.GET("/entries/:id/receipt", entryHandler.GetReceipt)

	dashboardHandler := handler.NewDashboardHandler(entrySvc, forecast.Additive{}, cfg.App.DefaultHorizon)
	protected.GET("/dashboard", dashboardHandler.GetSummary)
	protected.POST("/forecast", dashboardHandler.Forecast)

	accountHandler := handler.NewAccountHandler(accountSvc, entrySvc, cfg.App.UploadMaxBytes)
	protected.GET("/account", accountHandler.GetAccount)
	protected.PUT("/account/emergency-rate", accountHandler.UpdateEmergencyRate)
	protected.POST("/account/profile-picture", accountHandler.UploadProfilePicture)
	protected.GET("/account/profile-picture", accountHandler.GetProfilePicture)

	backupHandler := handler.NewBackupHandler(backupSvc)
	protected.POST("/backups", backupHandler.CreateBackup)
	protected.GET("/backups", backupHandler.ListBackups)
	protected.GET("/backups/:id/download", backupHandler.DownloadBackup)
	protected.POST("/backups/:id/restore", backupHandler.RestoreBackup)
	protected.DELETE("/backups/:id", backupHandler.DeleteBackup)

	importExportHandler := handler.NewImportExportHandler(entrySvc, cfg.App.UploadMaxBytes)
	protected.GET("/export/csv", importExportHandler.ExportCSV)
	protected.GET("/export/xlsx", importExportHandler.ExportXLSX)
	protected.POST("/import/csv", importExportHandler.ImportCSV)

	return r, nil
}
