package constants

// 活动状态常量
const (
	PromotionStatusDraft  = "draft"
	PromotionStatusActive = "active"
	PromotionStatusClosed = "closed"
)

// 渠道商状态常量
const (
	VendorStatusActive   = "active"
	VendorStatusDisabled = "disabled"
)

// 佣金状态常量
const (
	CommissionStatusPending   = "pending"
	CommissionStatusConfirmed = "confirmed"
	CommissionStatusPaid      = "paid"
	CommissionStatusCancelled = "cancelled"
)

// 佣金来源常量
const (
	CommissionSourceConversion = "conversion"
	CommissionSourceManual     = "manual"
)

// 摄影比赛状态常量
const (
	ContestStatusDraft  = "draft"
	ContestStatusActive = "active"
	ContestStatusClosed = "closed"
)

// 参赛照片状态常量
const (
	PhotoEntryStatusPending  = "pending"
	PhotoEntryStatusApproved = "approved"
	PhotoEntryStatusRejected = "rejected"
)

// 账单状态常量
const (
	InvoiceStatusDraft  = "draft"
	InvoiceStatusIssued = "issued"
	InvoiceStatusPaid   = "paid"
	InvoiceStatusVoid   = "void"
)

// 队列常量
const (
	QueueDefault             = "default"
	TaskEntrantConfirmEmail  = "entrant:confirm_email"
	TaskDrawWinnerEmail      = "draw:winner_email"
	TaskContestInstagramSync = "contest:instagram_sync"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "sl"
)

// 设置键常量
const (
	SettingKeySiteConfig = "site_config"
	SettingKeySMTPConfig = "smtp_config"
)

// 币种常量
const (
	SiteCurrencyDefault = "USD"
)

// 导出格式常量
const (
	ExportFormatCSV = "csv"
)
