package models

import (
	"time"

	"gorm.io/gorm"
)

// Vendor 渠道商（民宿/联盟推广方）表
type Vendor struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                        // 主键
	Code          string         `gorm:"uniqueIndex;not null" json:"code"`                            // 推广码（用于 /r/:code 链接）
	Name          string         `gorm:"type:varchar(200);not null" json:"name"`                      // 渠道商名称
	ContactEmail  string         `gorm:"type:varchar(255)" json:"contact_email"`                      // 联系邮箱
	Website       string         `gorm:"type:varchar(500)" json:"website"`                            // 官网地址
	TargetURL     string         `gorm:"type:varchar(500)" json:"target_url"`                         // 点击跳转目标地址
	RatePercent   Money          `gorm:"type:decimal(10,2);not null;default:0" json:"rate_percent"`   // 默认佣金比例（百分比）
	Status        string         `gorm:"type:varchar(32);not null;index" json:"status"`               // 渠道商状态
	Notes         string         `gorm:"type:text" json:"notes"`                                      // 备注
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                  // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (Vendor) TableName() string {
	return "vendors"
}
