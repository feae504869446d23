package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/staylucky/internal/config"
	"github.com/staylucky/internal/constants"
	"github.com/staylucky/internal/models"
	"github.com/staylucky/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupEntrantServiceTest(t *testing.T) (*EntrantService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:entrant_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Entrant{}, &models.Vendor{}, &models.VendorClick{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Site.BaseURL = "https://staylucky.example"
	cfg.Giveaway.ConfirmTokenSecret = "test-confirm-secret"
	cfg.Giveaway.ConfirmExpireHours = 1
	cfg.Vendor.AttributionWindowDays = 30

	svc := NewEntrantService(cfg, repository.NewEntrantRepository(db), repository.NewVendorRepository(db), nil)
	return svc, db
}

func TestSignupNormalizesEmailAndRejectsDuplicates(t *testing.T) {
	svc, _ := setupEntrantServiceTest(t)

	entrant, err := svc.Signup(SignupInput{Email: "  Guest@Example.COM ", Name: " Guest ", CountryCode: "us"}, "203.0.113.5")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if entrant.Email != "guest@example.com" {
		t.Fatalf("expected lowercase email, got %s", entrant.Email)
	}
	if entrant.CountryCode != "US" {
		t.Fatalf("expected uppercase country code, got %s", entrant.CountryCode)
	}
	if entrant.Confirmed {
		t.Fatalf("new entrant must start unconfirmed")
	}

	if _, err := svc.Signup(SignupInput{Email: "GUEST@example.com"}, "203.0.113.5"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken for duplicate, got %v", err)
	}
	if _, err := svc.Signup(SignupInput{Email: "not-an-email"}, "203.0.113.5"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestSignupCapturesUTMFields(t *testing.T) {
	svc, _ := setupEntrantServiceTest(t)

	entrant, err := svc.Signup(SignupInput{
		Email:       "utm@example.com",
		UTMSource:   "newsletter",
		UTMMedium:   "email",
		UTMCampaign: "spring",
	}, "203.0.113.6")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if entrant.UTMSource != "newsletter" || entrant.UTMMedium != "email" || entrant.UTMCampaign != "spring" {
		t.Fatalf("utm fields not captured: %+v", entrant)
	}
}

func TestSignupAttributesLastClickedVendor(t *testing.T) {
	svc, db := setupEntrantServiceTest(t)

	vendorOld := &models.Vendor{Code: "OLD", Name: "Old Partner", Status: constants.VendorStatusActive}
	vendorNew := &models.Vendor{Code: "NEW", Name: "New Partner", Status: constants.VendorStatusActive}
	if err := db.Create(vendorOld).Error; err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	if err := db.Create(vendorNew).Error; err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}

	clientIP := "198.51.100.7"
	ipHash := HashClientIP(clientIP)
	now := time.Now()
	clicks := []models.VendorClick{
		{VendorID: vendorOld.ID, IPHash: ipHash, CreatedAt: now.Add(-2 * time.Hour)},
		{VendorID: vendorNew.ID, IPHash: ipHash, CreatedAt: now.Add(-1 * time.Hour)},
	}
	for i := range clicks {
		if err := db.Create(&clicks[i]).Error; err != nil {
			t.Fatalf("create click failed: %v", err)
		}
	}

	entrant, err := svc.Signup(SignupInput{Email: "attributed@example.com"}, clientIP)
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if entrant.VendorID == nil || *entrant.VendorID != vendorNew.ID {
		t.Fatalf("expected last-click attribution to vendor %d, got %+v", vendorNew.ID, entrant.VendorID)
	}

	// 无点击的访客不做归因
	unattributed, err := svc.Signup(SignupInput{Email: "direct@example.com"}, "198.51.100.99")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if unattributed.VendorID != nil {
		t.Fatalf("expected no attribution for fresh visitor, got %+v", unattributed.VendorID)
	}
}

func TestConfirmTokenRoundTrip(t *testing.T) {
	svc, _ := setupEntrantServiceTest(t)

	entrant, err := svc.Signup(SignupInput{Email: "confirm@example.com"}, "203.0.113.8")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	token := svc.BuildConfirmToken(entrant)
	confirmed, err := svc.Confirm(token)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if !confirmed.Confirmed || confirmed.ConfirmedAt == nil {
		t.Fatalf("expected confirmed entrant, got %+v", confirmed)
	}

	// 重复确认为无操作
	firstConfirmedAt := *confirmed.ConfirmedAt
	again, err := svc.Confirm(token)
	if err != nil {
		t.Fatalf("second confirm failed: %v", err)
	}
	if again.ConfirmedAt == nil || !again.ConfirmedAt.Equal(firstConfirmedAt) {
		t.Fatalf("repeated confirm must not change confirmed_at")
	}
}

func TestConfirmRejectsTamperedToken(t *testing.T) {
	svc, _ := setupEntrantServiceTest(t)

	entrant, err := svc.Signup(SignupInput{Email: "tamper@example.com"}, "203.0.113.9")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	token := svc.BuildConfirmToken(entrant)
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token format: %s", token)
	}

	cases := []string{
		"",
		"garbage",
		parts[0] + "." + parts[1] + ".invalid-signature",
		"999999." + parts[1] + "." + parts[2],
		parts[0] + ".1." + parts[2], // 过期时间被篡改，签名失效
	}
	for i, tampered := range cases {
		if _, err := svc.Confirm(tampered); !errors.Is(err, ErrConfirmTokenInvalid) {
			t.Fatalf("case %d: expected ErrConfirmTokenInvalid, got %v", i, err)
		}
	}
}

func TestEntrantBatchUpdate(t *testing.T) {
	svc, _ := setupEntrantServiceTest(t)

	first, err := svc.Signup(SignupInput{Email: "batch-a@example.com"}, "203.0.113.10")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	second, err := svc.Signup(SignupInput{Email: "batch-b@example.com"}, "203.0.113.11")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	confirmed := true
	affected, err := svc.BatchUpdate([]uint{first.ID, second.ID}, &confirmed, nil)
	if err != nil {
		t.Fatalf("batch update failed: %v", err)
	}
	if affected != 2 {
		t.Fatalf("expected 2 rows affected, got %d", affected)
	}

	for _, id := range []uint{first.ID, second.ID} {
		entrant, err := svc.Get(id)
		if err != nil {
			t.Fatalf("get entrant failed: %v", err)
		}
		if !entrant.Confirmed {
			t.Fatalf("expected entrant %d confirmed after batch update", id)
		}
	}

	// 无字段时不触发任何更新
	affected, err = svc.BatchUpdate([]uint{first.ID}, nil, nil)
	if err != nil {
		t.Fatalf("empty batch update failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected no rows affected, got %d", affected)
	}
}

func TestEntrantUpdateRejectsNegativeStars(t *testing.T) {
	svc, _ := setupEntrantServiceTest(t)

	entrant, err := svc.Signup(SignupInput{Email: "stars@example.com"}, "203.0.113.12")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	negative := -1
	if _, err := svc.Update(entrant.ID, EntrantUpdateInput{Stars: &negative}); !errors.Is(err, ErrDrawCriteriaInvalid) {
		t.Fatalf("expected invalid stars error, got %v", err)
	}

	valid := 4
	updated, err := svc.Update(entrant.ID, EntrantUpdateInput{Stars: &valid})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Stars != 4 {
		t.Fatalf("expected 4 stars, got %d", updated.Stars)
	}
}
