package repository

import "time"

// EntrantListFilter 查询报名用户列表的过滤条件
type EntrantListFilter struct {
	Page        int
	PageSize    int
	Search      string
	Confirmed   *bool
	IsReturning *bool
	CountryCode string
	VendorID    uint
	MinStars    int
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// EntrantEligibilityFilter 开奖资格筛选条件（全部条件 AND 组合）
type EntrantEligibilityFilter struct {
	Confirmed   *bool      // 非空时要求精确匹配
	MinStars    int        // 大于 0 时要求 stars >= MinStars
	Returning   bool       // 仅为 true 时要求 is_returning = true
	CountryCode string     // 非空时精确匹配（大写）
	CreatedFrom *time.Time // 报名时间下界（含）
	CreatedTo   *time.Time // 报名时间上界（含）
	Limit       int        // 大于 0 时限制返回条数（不影响计数）
}

// DrawRecordListFilter 查询开奖记录列表的过滤条件
type DrawRecordListFilter struct {
	Page        int
	PageSize    int
	PromotionID uint
	WinnerID    uint
}

// VendorListFilter 查询渠道商列表的过滤条件
type VendorListFilter struct {
	Page     int
	PageSize int
	Search   string
	Status   string
}

// CommissionListFilter 查询佣金记录列表的过滤条件
type CommissionListFilter struct {
	Page        int
	PageSize    int
	VendorID    uint
	Status      string
	Source      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ContestListFilter 查询摄影比赛列表的过滤条件
type ContestListFilter struct {
	Page     int
	PageSize int
	Search   string
	Status   string
}

// PhotoEntryListFilter 查询参赛照片列表的过滤条件
type PhotoEntryListFilter struct {
	Page      int
	PageSize  int
	ContestID uint
	Status    string
	Username  string
}

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}

// InvoiceListFilter 查询账单列表的过滤条件
type InvoiceListFilter struct {
	Page        int
	PageSize    int
	Email       string
	InvoiceNo   string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
