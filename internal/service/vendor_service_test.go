package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/staylucky/internal/config"
	"github.com/staylucky/internal/constants"
	"github.com/staylucky/internal/models"
	"github.com/staylucky/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupVendorServiceTest(t *testing.T) (*VendorService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:vendor_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Vendor{}, &models.VendorClick{}, &models.CommissionRecord{}, &models.Entrant{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Vendor.ClickDedupeMinutes = 10
	cfg.Vendor.CommissionHoldDays = 7

	return NewVendorService(cfg, repository.NewVendorRepository(db)), db
}

func createVendorTestVendor(t *testing.T, svc *VendorService, code string) *models.Vendor {
	t.Helper()
	vendor, err := svc.Create(VendorInput{Code: code, Name: "Partner " + code, TargetURL: "https://partner.example/" + code})
	if err != nil {
		t.Fatalf("create vendor failed: %v", err)
	}
	return vendor
}

func createVendorTestCommission(t *testing.T, db *gorm.DB, vendorID uint, amount float64, status string) *models.CommissionRecord {
	t.Helper()
	record := &models.CommissionRecord{
		VendorID: vendorID,
		Source:   constants.CommissionSourceManual,
		Amount:   models.NewMoneyFromDecimal(decimal.NewFromFloat(amount)),
		Status:   status,
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	return record
}

func TestVendorCreateRejectsDuplicateCode(t *testing.T) {
	svc, _ := setupVendorServiceTest(t)

	vendor := createVendorTestVendor(t, svc, "blog")
	if vendor.Code != "BLOG" {
		t.Fatalf("expected uppercase code, got %s", vendor.Code)
	}
	if vendor.Status != constants.VendorStatusActive {
		t.Fatalf("expected default active status, got %s", vendor.Status)
	}

	if _, err := svc.Create(VendorInput{Code: "BLOG", Name: "Other"}); !errors.Is(err, ErrVendorCodeTaken) {
		t.Fatalf("expected ErrVendorCodeTaken, got %v", err)
	}
}

func TestTrackClickDeduplicatesWithinWindow(t *testing.T) {
	svc, db := setupVendorServiceTest(t)
	vendor := createVendorTestVendor(t, svc, "cabins")

	for i := 0; i < 3; i++ {
		got, err := svc.TrackClick(vendor.Code, "192.0.2.10", "agent", "https://ref.example")
		if err != nil {
			t.Fatalf("track click %d failed: %v", i, err)
		}
		if got.ID != vendor.ID {
			t.Fatalf("expected vendor %d, got %d", vendor.ID, got.ID)
		}
	}

	var count int64
	if err := db.Model(&models.VendorClick{}).Where("vendor_id = ?", vendor.ID).Count(&count).Error; err != nil {
		t.Fatalf("count clicks failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 deduplicated click, got %d", count)
	}

	// 不同访客仍然正常落库
	if _, err := svc.TrackClick(vendor.Code, "192.0.2.11", "agent", ""); err != nil {
		t.Fatalf("track click failed: %v", err)
	}
	if err := db.Model(&models.VendorClick{}).Where("vendor_id = ?", vendor.ID).Count(&count).Error; err != nil {
		t.Fatalf("count clicks failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 clicks after second visitor, got %d", count)
	}
}

func TestTrackClickRejectsUnknownOrDisabledVendor(t *testing.T) {
	svc, db := setupVendorServiceTest(t)
	vendor := createVendorTestVendor(t, svc, "paused")

	if _, err := svc.TrackClick("MISSING", "192.0.2.12", "", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown code, got %v", err)
	}

	if err := db.Model(&models.Vendor{}).Where("id = ?", vendor.ID).Update("status", constants.VendorStatusDisabled).Error; err != nil {
		t.Fatalf("disable vendor failed: %v", err)
	}
	if _, err := svc.TrackClick(vendor.Code, "192.0.2.12", "", ""); !errors.Is(err, ErrVendorDisabled) {
		t.Fatalf("expected ErrVendorDisabled, got %v", err)
	}
}

func TestAggregateCommissionsSumsAllStatuses(t *testing.T) {
	svc, db := setupVendorServiceTest(t)
	vendor := createVendorTestVendor(t, svc, "summary")

	for i := 0; i < 10; i++ {
		createVendorTestCommission(t, db, vendor.ID, 1, constants.CommissionStatusPaid)
	}
	for i := 0; i < 5; i++ {
		createVendorTestCommission(t, db, vendor.ID, 1, constants.CommissionStatusPending)
	}

	summary, err := svc.AggregateCommissions(vendor.ID)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if summary.TotalEarned.String() != "15.00" {
		t.Fatalf("expected total earned 15.00, got %s", summary.TotalEarned.String())
	}
	if summary.TotalPaid.String() != "10.00" {
		t.Fatalf("expected total paid 10.00, got %s", summary.TotalPaid.String())
	}
	if summary.TotalPending.String() != "5.00" {
		t.Fatalf("expected total pending 5.00, got %s", summary.TotalPending.String())
	}
	if summary.TotalTransactions != 15 {
		t.Fatalf("expected 15 transactions, got %d", summary.TotalTransactions)
	}
}

func TestCreateCommissionAppliesHoldPeriod(t *testing.T) {
	svc, _ := setupVendorServiceTest(t)
	vendor := createVendorTestVendor(t, svc, "hold")

	commission, err := svc.CreateCommission(CommissionCreateInput{
		VendorID: vendor.ID,
		Amount:   models.NewMoneyFromDecimal(decimal.NewFromFloat(12.5)),
	})
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	if commission.Status != constants.CommissionStatusPending {
		t.Fatalf("expected pending status, got %s", commission.Status)
	}
	if commission.ConfirmAt == nil {
		t.Fatalf("expected confirm_at to be set")
	}
	earliest := time.Now().AddDate(0, 0, 6)
	if commission.ConfirmAt.Before(earliest) {
		t.Fatalf("expected confirm_at after hold period, got %v", commission.ConfirmAt)
	}

	if _, err := svc.CreateCommission(CommissionCreateInput{
		VendorID: vendor.ID,
		Amount:   models.NewMoneyFromDecimal(decimal.NewFromFloat(-1)),
	}); !errors.Is(err, ErrCommissionAmountInvalid) {
		t.Fatalf("expected ErrCommissionAmountInvalid, got %v", err)
	}
}

func TestUpdateCommissionStatusTransitions(t *testing.T) {
	svc, db := setupVendorServiceTest(t)
	vendor := createVendorTestVendor(t, svc, "status")

	pending := createVendorTestCommission(t, db, vendor.ID, 3, constants.CommissionStatusPending)
	paid, err := svc.UpdateCommissionStatus(pending.ID, constants.CommissionStatusPaid)
	if err != nil {
		t.Fatalf("pending -> paid failed: %v", err)
	}
	if paid.PaidAt == nil {
		t.Fatalf("expected paid_at to be set")
	}

	if _, err := svc.UpdateCommissionStatus(paid.ID, constants.CommissionStatusCancelled); !errors.Is(err, ErrCommissionStatusInvalid) {
		t.Fatalf("paid -> cancelled must be rejected, got %v", err)
	}

	cancellable := createVendorTestCommission(t, db, vendor.ID, 3, constants.CommissionStatusPending)
	if _, err := svc.UpdateCommissionStatus(cancellable.ID, constants.CommissionStatusCancelled); err != nil {
		t.Fatalf("pending -> cancelled failed: %v", err)
	}

	if _, err := svc.UpdateCommissionStatus(pending.ID, "unknown"); !errors.Is(err, ErrCommissionStatusInvalid) {
		t.Fatalf("expected ErrCommissionStatusInvalid for unknown status, got %v", err)
	}
}

func TestConfirmDueCommissions(t *testing.T) {
	svc, db := setupVendorServiceTest(t)
	vendor := createVendorTestVendor(t, svc, "due")

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)
	due := createVendorTestCommission(t, db, vendor.ID, 2, constants.CommissionStatusPending)
	notDue := createVendorTestCommission(t, db, vendor.ID, 2, constants.CommissionStatusPending)
	if err := db.Model(due).Update("confirm_at", past).Error; err != nil {
		t.Fatalf("set confirm_at failed: %v", err)
	}
	if err := db.Model(notDue).Update("confirm_at", future).Error; err != nil {
		t.Fatalf("set confirm_at failed: %v", err)
	}

	affected, err := svc.ConfirmDueCommissions()
	if err != nil {
		t.Fatalf("confirm due failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 confirmed commission, got %d", affected)
	}

	var reloaded models.CommissionRecord
	if err := db.First(&reloaded, due.ID).Error; err != nil {
		t.Fatalf("reload commission failed: %v", err)
	}
	if reloaded.Status != constants.CommissionStatusConfirmed {
		t.Fatalf("expected confirmed status, got %s", reloaded.Status)
	}
	var stillPending models.CommissionRecord
	if err := db.First(&stillPending, notDue.ID).Error; err != nil {
		t.Fatalf("reload commission failed: %v", err)
	}
	if stillPending.Status != constants.CommissionStatusPending {
		t.Fatalf("commission with future confirm_at must stay pending, got %s", stillPending.Status)
	}
}
