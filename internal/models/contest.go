package models

import (
	"time"

	"gorm.io/gorm"
)

// Contest 摄影比赛表
type Contest struct {
	ID          uint           `gorm:"primarykey" json:"id"`                          // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`              // 唯一标识
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`       // 比赛标题
	Description string         `gorm:"type:text" json:"description"`                  // 比赛描述
	Hashtag     string         `gorm:"type:varchar(100);index" json:"hashtag"`        // Instagram 话题标签
	Status      string         `gorm:"type:varchar(32);not null;index" json:"status"` // 比赛状态
	StartAt     *time.Time     `json:"start_at,omitempty"`                            // 开始时间
	EndAt       *time.Time     `json:"end_at,omitempty"`                              // 结束时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                    // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间
}

// TableName 指定表名
func (Contest) TableName() string {
	return "contests"
}
