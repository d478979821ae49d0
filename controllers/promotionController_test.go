package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"resto-api/logger"
	"resto-api/models"
	"resto-api/services"
)

type fakePromotions struct {
	services.PromotionService
	active []models.Promotion
}

func (f *fakePromotions) ListActive(ctx context.Context) ([]models.Promotion, error) {
	return f.active, nil
}

func TestGetActivePromotions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctl := NewPromotionController(&fakePromotions{active: []models.Promotion{
		{ID: 1, Name: "10% over 100k", Category: models.CategoryDiscount},
	}}, logger.Discard())

	r := gin.New()
	r.GET("/promotions", ctl.GetActivePromotions)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/promotions", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Promotion `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, models.CategoryDiscount, resp.Data[0].Category)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/health", NewHealthController(db).Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
