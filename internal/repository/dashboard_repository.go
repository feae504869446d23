package repository

import (
	"fmt"
	"time"

	"github.com/staylucky/internal/constants"
	"github.com/staylucky/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetSignupTrends(startAt, endAt time.Time) ([]DashboardSignupTrendRow, error)
	GetTopVendors(startAt, endAt time.Time, limit int) ([]DashboardVendorRankingRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	EntrantsTotal      int64
	ConfirmedEntrants  int64
	NewEntrants        int64
	DrawsTotal         int64
	ActiveVendors      int64
	ClicksTotal        int64
	PendingCommissions int64
	ApprovedPhotos     int64
	InvoicesTotal      int64
}

// DashboardSignupTrendRow 报名趋势统计
type DashboardSignupTrendRow struct {
	Day       string
	Signups   int64
	Confirmed int64
}

// DashboardVendorRankingRow 渠道商排行原始行
type DashboardVendorRankingRow struct {
	VendorID      uint
	VendorName    string
	VendorCode    string
	ClickCount    int64
	SignupCount   int64
	PendingAmount float64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	if err := r.db.Model(&models.Entrant{}).Count(&result.EntrantsTotal).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Entrant{}).
		Where("confirmed = ?", true).
		Count(&result.ConfirmedEntrants).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Entrant{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.NewEntrants).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.DrawRecord{}).Count(&result.DrawsTotal).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Vendor{}).
		Where("status = ?", constants.VendorStatusActive).
		Count(&result.ActiveVendors).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.VendorClick{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.ClicksTotal).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.CommissionRecord{}).
		Where("status = ?", constants.CommissionStatusPending).
		Count(&result.PendingCommissions).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.PhotoEntry{}).
		Where("status = ?", constants.PhotoEntryStatusApproved).
		Count(&result.ApprovedPhotos).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Invoice{}).Count(&result.InvoicesTotal).Error; err != nil {
		return result, err
	}

	return result, nil
}

// GetSignupTrends 获取报名趋势
func (r *GormDashboardRepository) GetSignupTrends(startAt, endAt time.Time) ([]DashboardSignupTrendRow, error) {
	type totalRow struct {
		Day   string
		Total int64
	}

	dayExpr := "CAST(date(created_at) AS TEXT)"

	var totals []totalRow
	if err := r.db.Model(&models.Entrant{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as total", dayExpr)).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group(dayExpr).
		Order("day asc").
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	var confirmed []totalRow
	if err := r.db.Model(&models.Entrant{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as total", dayExpr)).
		Where("created_at >= ? AND created_at < ? AND confirmed = ?", startAt, endAt, true).
		Group(dayExpr).
		Order("day asc").
		Scan(&confirmed).Error; err != nil {
		return nil, err
	}

	confirmedMap := make(map[string]int64, len(confirmed))
	for _, item := range confirmed {
		confirmedMap[item.Day] = item.Total
	}

	result := make([]DashboardSignupTrendRow, 0, len(totals))
	for _, item := range totals {
		result = append(result, DashboardSignupTrendRow{
			Day:       item.Day,
			Signups:   item.Total,
			Confirmed: confirmedMap[item.Day],
		})
	}
	return result, nil
}

// GetTopVendors 获取渠道商排行榜
func (r *GormDashboardRepository) GetTopVendors(startAt, endAt time.Time, limit int) ([]DashboardVendorRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]DashboardVendorRankingRow, 0)
	if err := r.db.Model(&models.VendorClick{}).
		Select(`
			vendor_clicks.vendor_id as vendor_id,
			COALESCE(vendors.name, '') as vendor_name,
			COALESCE(vendors.code, '') as vendor_code,
			COUNT(*) as click_count
		`).
		Joins("LEFT JOIN vendors ON vendors.id = vendor_clicks.vendor_id").
		Where("vendor_clicks.created_at >= ? AND vendor_clicks.created_at < ?", startAt, endAt).
		Group("vendor_clicks.vendor_id, vendors.name, vendors.code").
		Order("click_count DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for i := range rows {
		if err := r.db.Model(&models.Entrant{}).
			Where("vendor_id = ? AND created_at >= ? AND created_at < ?", rows[i].VendorID, startAt, endAt).
			Count(&rows[i].SignupCount).Error; err != nil {
			return nil, err
		}
		if err := r.db.Model(&models.CommissionRecord{}).
			Where("vendor_id = ? AND status = ?", rows[i].VendorID, constants.CommissionStatusPending).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&rows[i].PendingAmount).Error; err != nil {
			return nil, err
		}
	}

	return rows, nil
}
