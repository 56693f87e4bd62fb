package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"estate-reconciliation-backend/internal/config"
	handler "estate-reconciliation-backend/internal/handlers"
	"estate-reconciliation-backend/internal/middleware"
	"estate-reconciliation-backend/internal/repository"
	"estate-reconciliation-backend/internal/services/matching"
	service "estate-reconciliation-backend/internal/services/reconciliation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	store := repository.NewStore(db)
	reconService := service.NewReconciliationService(store, matching.Config{
		WindowDays: cfg.MatchWindowDays,
		Threshold:  cfg.AutoMatchThreshold,
	})
	Mount(r, handler.NewReconciliationHandler(reconService), cfg.APIToken)
}

// Mount attaches the API routes for h under /api.
func Mount(r *gin.Engine, h *handler.ReconciliationHandler, apiToken string) {
	api := r.Group("/api")
	api.Use(middleware.Authenticate(apiToken), middleware.Operator())

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	accounts := api.Group("/accounts")
	accounts.GET("", h.ListAccounts)
	accounts.POST("", h.CreateAccount)

	recon := api.Group("/reconciliation")
	recon.GET("", h.GetRows)
	recon.POST("/auto", h.AutoReconcile)
	recon.POST("/manual", h.ManualReconcile)
	recon.DELETE("/:id", h.Unreconcile)

	statements := api.Group("/bank-statements")
	{
		statements.POST("/upload", h.Upload)
		statements.GET("/imports/:importId", h.GetImportProgress)
		statements.GET("/:id/history", h.GetHistory)
	}

	api.POST("/receipts", h.CreateReceipt)
	api.POST("/expenditures", h.CreateExpenditure)
}
