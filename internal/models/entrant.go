package models

import (
	"time"

	"gorm.io/gorm"
)

// Entrant 抽奖报名用户表
type Entrant struct {
	ID             uint           `gorm:"primarykey" json:"id"`                            // 主键
	Email          string         `gorm:"uniqueIndex;not null" json:"email"`               // 邮箱（统一小写存储）
	Name           string         `gorm:"type:varchar(120)" json:"name"`                   // 昵称
	Confirmed      bool           `gorm:"not null;default:false;index" json:"confirmed"`   // 邮箱是否已确认
	Stars          int            `gorm:"not null;default:0;index" json:"stars"`           // 奖励星数（参与任务累积）
	IsReturning    bool           `gorm:"not null;default:false;index" json:"is_returning"` // 是否回访用户
	CountryCode    string         `gorm:"type:varchar(2);index" json:"country_code"`       // 国家代码（统一大写存储）
	UTMSource      string         `gorm:"type:varchar(100);index" json:"utm_source"`       // 来源渠道
	UTMMedium      string         `gorm:"type:varchar(100)" json:"utm_medium"`             // 来源媒介
	UTMCampaign    string         `gorm:"type:varchar(100)" json:"utm_campaign"`           // 来源活动
	VendorID       *uint          `gorm:"index" json:"vendor_id,omitempty"`                // 归因渠道商ID（末次点击归因）
	SignupIP       string         `gorm:"type:varchar(64)" json:"-"`                       // 报名IP
	ConfirmedAt    *time.Time     `json:"confirmed_at,omitempty"`                          // 确认时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                         // 创建时间（报名时间）
	UpdatedAt      time.Time      `json:"updated_at"`                                      // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                  // 软删除时间

	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"` // 归因渠道商
}

// TableName 指定表名
func (Entrant) TableName() string {
	return "entrants"
}
