package service

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/staylucky/internal/config"
	"github.com/staylucky/internal/constants"
	"github.com/staylucky/internal/logger"
	"github.com/staylucky/internal/models"
	"github.com/staylucky/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceItemInput 账单明细输入
type InvoiceItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// InvoiceCreateInput 账单创建输入
type InvoiceCreateInput struct {
	Email string             `json:"email"`
	Items []InvoiceItemInput `json:"items"`
}

// InvoiceService 账单业务服务
type InvoiceService struct {
	cfg         *config.Config
	invoiceRepo repository.InvoiceRepository
	productRepo repository.ProductRepository
}

// NewInvoiceService 创建账单服务
func NewInvoiceService(cfg *config.Config, invoiceRepo repository.InvoiceRepository, productRepo repository.ProductRepository) *InvoiceService {
	return &InvoiceService{
		cfg:         cfg,
		invoiceRepo: invoiceRepo,
		productRepo: productRepo,
	}
}

// Create 创建账单草稿（按商品当前价格生成快照，decimal 汇总）
func (s *InvoiceService) Create(input InvoiceCreateInput) (*models.Invoice, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(input.Items) == 0 {
		return nil, ErrInvoiceEmpty
	}

	currency := strings.TrimSpace(s.cfg.Site.Currency)
	if currency == "" {
		currency = constants.SiteCurrencyDefault
	}

	items := make([]models.InvoiceItem, 0, len(input.Items))
	total := decimal.Zero
	for _, itemInput := range input.Items {
		if itemInput.Quantity <= 0 {
			return nil, ErrInvoiceEmpty
		}
		product, err := s.productRepo.GetByID(itemInput.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrNotFound
		}
		if !product.IsActive {
			return nil, ErrProductInactive
		}

		subtotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(itemInput.Quantity)))
		items = append(items, models.InvoiceItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    itemInput.Quantity,
			Subtotal:    models.NewMoneyFromDecimal(subtotal),
		})
		total = total.Add(subtotal)
	}

	invoice := &models.Invoice{
		InvoiceNo:   buildInvoiceNo(),
		Email:       email,
		Currency:    currency,
		TotalAmount: models.NewMoneyFromDecimal(total),
		Status:      constants.InvoiceStatusDraft,
		Items:       items,
	}
	if err := s.invoiceRepo.Create(invoice); err != nil {
		return nil, err
	}

	logger.Infow("invoice_created", "invoice_no", invoice.InvoiceNo, "total", invoice.TotalAmount.String())
	return invoice, nil
}

// Get 获取账单
func (s *InvoiceService) Get(id uint) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, ErrNotFound
	}
	return invoice, nil
}

// GetByInvoiceNo 按账单号获取账单
func (s *InvoiceService) GetByInvoiceNo(invoiceNo string) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByInvoiceNo(invoiceNo)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, ErrNotFound
	}
	return invoice, nil
}

// List 查询账单列表
func (s *InvoiceService) List(filter repository.InvoiceListFilter) ([]models.Invoice, int64, error) {
	return s.invoiceRepo.List(filter)
}

// UpdateStatus 管理端流转账单状态
// 允许的流转：draft → issued/void，issued → paid/void。
func (s *InvoiceService) UpdateStatus(id uint, status string) (*models.Invoice, error) {
	invoice, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	target := strings.TrimSpace(status)
	now := time.Now()
	switch target {
	case constants.InvoiceStatusIssued:
		if invoice.Status != constants.InvoiceStatusDraft {
			return nil, ErrInvoiceStatusInvalid
		}
		invoice.IssuedAt = &now
	case constants.InvoiceStatusPaid:
		if invoice.Status != constants.InvoiceStatusIssued {
			return nil, ErrInvoiceStatusInvalid
		}
		invoice.PaidAt = &now
	case constants.InvoiceStatusVoid:
		if invoice.Status != constants.InvoiceStatusDraft && invoice.Status != constants.InvoiceStatusIssued {
			return nil, ErrInvoiceStatusInvalid
		}
	default:
		return nil, ErrInvoiceStatusInvalid
	}

	invoice.Status = target
	if err := s.invoiceRepo.Update(invoice); err != nil {
		return nil, err
	}
	logger.Infow("invoice_status_updated", "invoice_no", invoice.InvoiceNo, "status", target)
	return invoice, nil
}

func buildInvoiceNo() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("INV%s%s", time.Now().Format("20060102150405"), suffix)
}
