package controllers

import (
	"net/http"

	"resto-api/logger"
	"resto-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PromotionController struct {
	promotions services.PromotionService
	log        *logger.Logger
}

func NewPromotionController(promotions services.PromotionService, log *logger.Logger) *PromotionController {
	return &PromotionController{promotions: promotions, log: log}
}

// GET /promotions
func (ctl *PromotionController) GetActivePromotions(c *gin.Context) {
	promos, err := ctl.promotions.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, ctl.log, "list_promotions_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": promos})
}

type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// GET /health
func (ctl *HealthController) Health(c *gin.Context) {
	sqlDB, err := ctl.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
