package models

import "time"

// DrawRecord 开奖记录表（只追加，不提供更新与删除）
type DrawRecord struct {
	ID            uint      `gorm:"primarykey" json:"id"`                        // 主键
	PromotionID   *uint     `gorm:"index" json:"promotion_id,omitempty"`         // 关联活动ID
	CriteriaJSON  JSON      `gorm:"type:json;not null" json:"criteria"`          // 开奖筛选条件快照
	WinnerID      uint      `gorm:"not null;index" json:"winner_id"`             // 中奖用户ID
	WinnerEmail   string    `gorm:"not null" json:"winner_email"`                // 中奖用户邮箱（冗余快照）
	EligibleCount int64     `gorm:"not null" json:"eligible_count"`              // 当次符合条件人数
	OperatorID    *uint     `gorm:"index" json:"operator_id,omitempty"`          // 操作管理员ID
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                     // 开奖时间

	Promotion *Promotion `gorm:"foreignKey:PromotionID" json:"promotion,omitempty"` // 关联活动
}

// TableName 指定表名
func (DrawRecord) TableName() string {
	return "draw_records"
}
