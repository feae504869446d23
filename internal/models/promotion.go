package models

import (
	"time"

	"gorm.io/gorm"
)

// Promotion 抽奖活动表
type Promotion struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                 // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`                     // 唯一标识
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`              // 活动标题
	Description string         `gorm:"type:text" json:"description"`                         // 活动描述
	PrizeName   string         `gorm:"type:varchar(200)" json:"prize_name"`                  // 奖品名称
	PrizeValue  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"prize_value"` // 奖品价值
	Status      string         `gorm:"type:varchar(32);not null;index" json:"status"`        // 活动状态
	StartAt     *time.Time     `gorm:"index" json:"start_at,omitempty"`                      // 开始时间
	EndAt       *time.Time     `gorm:"index" json:"end_at,omitempty"`                        // 结束时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                           // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间
}

// TableName 指定表名
func (Promotion) TableName() string {
	return "promotions"
}
