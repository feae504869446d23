package repository

import (
	"errors"
	"strings"

	"github.com/staylucky/internal/models"

	"gorm.io/gorm"
)

// InvoiceRepository 账单数据访问接口
type InvoiceRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) InvoiceRepository

	Create(invoice *models.Invoice) error
	GetByID(id uint) (*models.Invoice, error)
	GetByInvoiceNo(invoiceNo string) (*models.Invoice, error)
	Update(invoice *models.Invoice) error
	List(filter InvoiceListFilter) ([]models.Invoice, int64, error)
	Count() (int64, error)
}

// GormInvoiceRepository GORM 实现
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository 创建账单仓库
func NewInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInvoiceRepository) WithTx(tx *gorm.DB) InvoiceRepository {
	if tx == nil {
		return r
	}
	return &GormInvoiceRepository{db: tx}
}

// Transaction 执行事务
func (r *GormInvoiceRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建账单（级联写入明细）
func (r *GormInvoiceRepository) Create(invoice *models.Invoice) error {
	return r.db.Create(invoice).Error
}

// GetByID 根据 ID 获取账单
func (r *GormInvoiceRepository) GetByID(id uint) (*models.Invoice, error) {
	if id == 0 {
		return nil, nil
	}
	var invoice models.Invoice
	if err := r.db.Preload("Items").First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// GetByInvoiceNo 根据账单号获取账单
func (r *GormInvoiceRepository) GetByInvoiceNo(invoiceNo string) (*models.Invoice, error) {
	normalized := strings.TrimSpace(invoiceNo)
	if normalized == "" {
		return nil, nil
	}
	var invoice models.Invoice
	if err := r.db.Preload("Items").Where("invoice_no = ?", normalized).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// Update 更新账单
func (r *GormInvoiceRepository) Update(invoice *models.Invoice) error {
	return r.db.Save(invoice).Error
}

// List 查询账单列表
func (r *GormInvoiceRepository) List(filter InvoiceListFilter) ([]models.Invoice, int64, error) {
	query := r.db.Model(&models.Invoice{})
	if email := strings.ToLower(strings.TrimSpace(filter.Email)); email != "" {
		query = query.Where("email = ?", email)
	}
	if invoiceNo := strings.TrimSpace(filter.InvoiceNo); invoiceNo != "" {
		query = query.Where("invoice_no = ?", invoiceNo)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	invoices := make([]models.Invoice, 0)
	if err := applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize).
		Preload("Items").
		Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// Count 统计账单数量
func (r *GormInvoiceRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Invoice{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
