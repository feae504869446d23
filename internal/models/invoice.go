package models

import (
	"time"

	"gorm.io/gorm"
)

// Invoice 账单表
type Invoice struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                  // 主键
	InvoiceNo   string         `gorm:"uniqueIndex;not null" json:"invoice_no"`                // 账单号
	Email       string         `gorm:"not null;index" json:"email"`                           // 客户邮箱
	Currency    string         `gorm:"type:varchar(8);not null" json:"currency"`              // 币种
	TotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 总金额
	Status      string         `gorm:"type:varchar(32);not null;index" json:"status"`         // 账单状态
	IssuedAt    *time.Time     `json:"issued_at,omitempty"`                                   // 开具时间
	PaidAt      *time.Time     `json:"paid_at,omitempty"`                                     // 支付时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                            // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                        // 软删除时间

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"` // 账单明细
}

// TableName 指定表名
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem 账单明细表
type InvoiceItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                  // 主键
	InvoiceID   uint      `gorm:"not null;index" json:"invoice_id"`                      // 账单ID
	ProductID   uint      `gorm:"not null;index" json:"product_id"`                      // 商品ID
	ProductName string    `gorm:"type:varchar(200);not null" json:"product_name"`        // 商品名称快照
	UnitPrice   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单价快照
	Quantity    int       `gorm:"not null;default:1" json:"quantity"`                    // 数量
	Subtotal    Money     `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"` // 小计
	CreatedAt   time.Time `json:"created_at"`                                            // 创建时间

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 商品
}

// TableName 指定表名
func (InvoiceItem) TableName() string {
	return "invoice_items"
}
