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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupInvoiceServiceTest(t *testing.T) (*InvoiceService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:invoice_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Invoice{}, &models.InvoiceItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Site.Currency = "USD"

	return NewInvoiceService(cfg, repository.NewInvoiceRepository(db), repository.NewProductRepository(db)), db
}

func createInvoiceTestProduct(t *testing.T, db *gorm.DB, slug string, price float64, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:     slug,
		Name:     "Product " + slug,
		Price:    models.NewMoneyFromDecimal(decimal.NewFromFloat(price)),
		IsActive: active,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestInvoiceCreateSnapshotsProductsAndTotals(t *testing.T) {
	svc, db := setupInvoiceServiceTest(t)
	giftCard := createInvoiceTestProduct(t, db, "gift-card", 100, true)
	guidebook := createInvoiceTestProduct(t, db, "guidebook", 24.99, true)

	invoice, err := svc.Create(InvoiceCreateInput{
		Email: "Buyer@Example.com",
		Items: []InvoiceItemInput{
			{ProductID: giftCard.ID, Quantity: 2},
			{ProductID: guidebook.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create invoice failed: %v", err)
	}

	if !strings.HasPrefix(invoice.InvoiceNo, "INV") {
		t.Fatalf("unexpected invoice number: %s", invoice.InvoiceNo)
	}
	if invoice.Email != "buyer@example.com" {
		t.Fatalf("expected lowercase email, got %s", invoice.Email)
	}
	if invoice.Status != constants.InvoiceStatusDraft {
		t.Fatalf("expected draft status, got %s", invoice.Status)
	}
	if invoice.TotalAmount.String() != "224.99" {
		t.Fatalf("expected total 224.99, got %s", invoice.TotalAmount.String())
	}
	if len(invoice.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(invoice.Items))
	}
	if invoice.Items[0].ProductName != giftCard.Name || invoice.Items[0].Subtotal.String() != "200.00" {
		t.Fatalf("unexpected first item snapshot: %+v", invoice.Items[0])
	}

	// 快照与后续改价无关
	if err := db.Model(giftCard).Update("price", models.NewMoneyFromDecimal(decimal.NewFromFloat(999))).Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}
	reloaded, err := svc.GetByInvoiceNo(invoice.InvoiceNo)
	if err != nil {
		t.Fatalf("get invoice failed: %v", err)
	}
	if reloaded.TotalAmount.String() != "224.99" {
		t.Fatalf("invoice total must not change after price update, got %s", reloaded.TotalAmount.String())
	}
}

func TestInvoiceCreateValidation(t *testing.T) {
	svc, db := setupInvoiceServiceTest(t)
	active := createInvoiceTestProduct(t, db, "active", 10, true)
	inactive := createInvoiceTestProduct(t, db, "inactive", 10, false)

	cases := []struct {
		name  string
		input InvoiceCreateInput
		want  error
	}{
		{"invalid email", InvoiceCreateInput{Email: "nope", Items: []InvoiceItemInput{{ProductID: active.ID, Quantity: 1}}}, ErrInvalidEmail},
		{"no items", InvoiceCreateInput{Email: "a@example.com"}, ErrInvoiceEmpty},
		{"zero quantity", InvoiceCreateInput{Email: "a@example.com", Items: []InvoiceItemInput{{ProductID: active.ID, Quantity: 0}}}, ErrInvoiceEmpty},
		{"missing product", InvoiceCreateInput{Email: "a@example.com", Items: []InvoiceItemInput{{ProductID: 9999, Quantity: 1}}}, ErrNotFound},
		{"inactive product", InvoiceCreateInput{Email: "a@example.com", Items: []InvoiceItemInput{{ProductID: inactive.ID, Quantity: 1}}}, ErrProductInactive},
	}
	for _, tc := range cases {
		if _, err := svc.Create(tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestInvoiceStatusTransitions(t *testing.T) {
	svc, db := setupInvoiceServiceTest(t)
	product := createInvoiceTestProduct(t, db, "flow", 5, true)

	invoice, err := svc.Create(InvoiceCreateInput{
		Email: "flow@example.com",
		Items: []InvoiceItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create invoice failed: %v", err)
	}

	// draft → paid 不允许
	if _, err := svc.UpdateStatus(invoice.ID, constants.InvoiceStatusPaid); !errors.Is(err, ErrInvoiceStatusInvalid) {
		t.Fatalf("draft -> paid must be rejected, got %v", err)
	}

	issued, err := svc.UpdateStatus(invoice.ID, constants.InvoiceStatusIssued)
	if err != nil {
		t.Fatalf("draft -> issued failed: %v", err)
	}
	if issued.IssuedAt == nil {
		t.Fatalf("expected issued_at to be set")
	}

	paid, err := svc.UpdateStatus(invoice.ID, constants.InvoiceStatusPaid)
	if err != nil {
		t.Fatalf("issued -> paid failed: %v", err)
	}
	if paid.PaidAt == nil {
		t.Fatalf("expected paid_at to be set")
	}

	if _, err := svc.UpdateStatus(invoice.ID, constants.InvoiceStatusVoid); !errors.Is(err, ErrInvoiceStatusInvalid) {
		t.Fatalf("paid -> void must be rejected, got %v", err)
	}

	voidable, err := svc.Create(InvoiceCreateInput{
		Email: "void@example.com",
		Items: []InvoiceItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create invoice failed: %v", err)
	}
	if _, err := svc.UpdateStatus(voidable.ID, constants.InvoiceStatusVoid); err != nil {
		t.Fatalf("draft -> void failed: %v", err)
	}
}
