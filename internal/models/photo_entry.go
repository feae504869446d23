package models

import (
	"time"

	"gorm.io/gorm"
)

// PhotoEntry 参赛照片表
type PhotoEntry struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                                      // 主键
	ContestID     uint           `gorm:"not null;index;index:idx_photo_entry_media,unique" json:"contest_id"`       // 比赛ID
	EntrantID     *uint          `gorm:"index" json:"entrant_id,omitempty"`                                         // 关联报名用户ID
	InstagramID   string         `gorm:"type:varchar(64);index:idx_photo_entry_media,unique" json:"instagram_id"`   // Instagram 媒体ID（同比赛内去重）
	Username      string         `gorm:"type:varchar(100)" json:"username"`                                         // 发布者用户名
	MediaURL      string         `gorm:"type:varchar(500);not null" json:"media_url"`                               // 图片地址
	Permalink     string         `gorm:"type:varchar(500)" json:"permalink"`                                        // 原帖链接
	Caption       string         `gorm:"type:text" json:"caption"`                                                  // 配文
	Status        string         `gorm:"type:varchar(32);not null;index" json:"status"`                             // 审核状态
	PostedAt      *time.Time     `gorm:"index" json:"posted_at,omitempty"`                                          // 发布时间
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                                   // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                                // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                                            // 软删除时间

	Contest Contest  `gorm:"foreignKey:ContestID" json:"contest,omitempty"` // 比赛
	Entrant *Entrant `gorm:"foreignKey:EntrantID" json:"entrant,omitempty"` // 报名用户
}

// TableName 指定表名
func (PhotoEntry) TableName() string {
	return "photo_entries"
}
