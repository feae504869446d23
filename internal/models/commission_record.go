package models

import (
	"time"

	"gorm.io/gorm"
)

// CommissionRecord 渠道商佣金记录表
type CommissionRecord struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                    // 主键
	VendorID    uint           `gorm:"not null;index" json:"vendor_id"`                         // 渠道商ID
	EntrantID   *uint          `gorm:"index" json:"entrant_id,omitempty"`                       // 关联报名用户ID（转化归因）
	Source      string         `gorm:"type:varchar(32);not null;index" json:"source"`           // 佣金来源（conversion/manual）
	Amount      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`     // 佣金金额
	Status      string         `gorm:"type:varchar(32);not null;index" json:"status"`           // 佣金状态
	Description string         `gorm:"type:varchar(255)" json:"description"`                    // 佣金说明
	ConfirmAt   *time.Time     `gorm:"index" json:"confirm_at,omitempty"`                       // 冻结期到期时间
	PaidAt      *time.Time     `json:"paid_at,omitempty"`                                       // 支付时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间

	Vendor  Vendor   `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`   // 渠道商
	Entrant *Entrant `gorm:"foreignKey:EntrantID" json:"entrant,omitempty"` // 关联报名用户
}

// TableName 指定表名
func (CommissionRecord) TableName() string {
	return "commission_records"
}
