package models

import "time"

// VendorClick 渠道商推广点击记录表
type VendorClick struct {
	ID        uint      `gorm:"primarykey" json:"id"`               // 主键
	VendorID  uint      `gorm:"not null;index" json:"vendor_id"`    // 渠道商ID
	IPHash    string    `gorm:"type:varchar(64);index" json:"-"`    // 访客IP哈希（去重用）
	UserAgent string    `gorm:"type:varchar(500)" json:"-"`         // 访客UA
	Referer   string    `gorm:"type:varchar(500)" json:"referer"`   // 来源页
	CreatedAt time.Time `gorm:"index" json:"created_at"`            // 点击时间

	Vendor Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"` // 渠道商
}

// TableName 指定表名
func (VendorClick) TableName() string {
	return "vendor_clicks"
}
