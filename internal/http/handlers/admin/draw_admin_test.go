package admin

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/staylucky/internal/models"
	"github.com/staylucky/internal/provider"
	"github.com/staylucky/internal/repository"
	"github.com/staylucky/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupDrawAdminTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:draw_admin_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Entrant{}, &models.DrawRecord{}, &models.Promotion{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	drawService := service.NewDrawService(
		repository.NewEntrantRepository(db),
		repository.NewDrawRepository(db),
		repository.NewPromotionRepository(db),
		nil,
	)
	h := New(&provider.Container{DrawService: drawService})

	r := gin.New()
	r.GET("/api/v1/admin/draws/export", h.ExportDrawCandidates)
	return r, db
}

func TestExportDrawCandidatesBindsQueryCriteria(t *testing.T) {
	r, db := setupDrawAdminTest(t)

	matched := &models.Entrant{Email: "matched@example.com", Confirmed: true, Stars: 2, CountryCode: "US"}
	if err := db.Create(matched).Error; err != nil {
		t.Fatalf("create entrant failed: %v", err)
	}
	excluded := &models.Entrant{Email: "excluded@example.com", Confirmed: false, CountryCode: "US"}
	if err := db.Create(excluded).Error; err != nil {
		t.Fatalf("create entrant failed: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/draws/export?confirmed=true&min_stars=1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if contentType := w.Header().Get("Content-Type"); !strings.HasPrefix(contentType, "text/csv") {
		t.Fatalf("expected text/csv content type, got %s", contentType)
	}
	if disposition := w.Header().Get("Content-Disposition"); !strings.Contains(disposition, "attachment") {
		t.Fatalf("expected attachment disposition, got %s", disposition)
	}

	body := w.Body.String()
	if !strings.Contains(body, "matched@example.com") {
		t.Fatalf("expected matched entrant in csv, got %s", body)
	}
	if strings.Contains(body, "excluded@example.com") {
		t.Fatalf("unconfirmed entrant must not be exported, got %s", body)
	}
}

func TestExportDrawCandidatesRejectsInvalidQueryCriteria(t *testing.T) {
	r, _ := setupDrawAdminTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/draws/export?min_stars=-1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"status_code":400`) {
		t.Fatalf("expected business code 400 for invalid criteria, got %s", body)
	}
}
