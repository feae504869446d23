package service

import (
	"time"

	"github.com/staylucky/internal/models"
	"github.com/staylucky/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	dashboardDefaultDays     = 7
	dashboardMaxDays         = 90
	dashboardTopVendorsLimit = 5
)

// DashboardOverview 仪表盘总览
type DashboardOverview struct {
	EntrantsTotal      int64 `json:"entrants_total"`
	ConfirmedEntrants  int64 `json:"confirmed_entrants"`
	NewEntrants        int64 `json:"new_entrants"`
	DrawsTotal         int64 `json:"draws_total"`
	ActiveVendors      int64 `json:"active_vendors"`
	ClicksTotal        int64 `json:"clicks_total"`
	PendingCommissions int64 `json:"pending_commissions"`
	ApprovedPhotos     int64 `json:"approved_photos"`
	InvoicesTotal      int64 `json:"invoices_total"`
}

// DashboardSignupTrend 报名趋势单日数据
type DashboardSignupTrend struct {
	Day       string `json:"day"`
	Signups   int64  `json:"signups"`
	Confirmed int64  `json:"confirmed"`
}

// DashboardVendorRanking 渠道商排行项
type DashboardVendorRanking struct {
	VendorID      uint         `json:"vendor_id"`
	VendorName    string       `json:"vendor_name"`
	VendorCode    string       `json:"vendor_code"`
	ClickCount    int64        `json:"click_count"`
	SignupCount   int64        `json:"signup_count"`
	PendingAmount models.Money `json:"pending_amount"`
}

// DashboardService 仪表盘业务服务
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(dashboardRepo repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

// Overview 获取最近 days 天的总览统计
func (s *DashboardService) Overview(days int) (*DashboardOverview, error) {
	startAt, endAt := dashboardRange(days)
	row, err := s.dashboardRepo.GetOverview(startAt, endAt)
	if err != nil {
		return nil, err
	}
	return &DashboardOverview{
		EntrantsTotal:      row.EntrantsTotal,
		ConfirmedEntrants:  row.ConfirmedEntrants,
		NewEntrants:        row.NewEntrants,
		DrawsTotal:         row.DrawsTotal,
		ActiveVendors:      row.ActiveVendors,
		ClicksTotal:        row.ClicksTotal,
		PendingCommissions: row.PendingCommissions,
		ApprovedPhotos:     row.ApprovedPhotos,
		InvoicesTotal:      row.InvoicesTotal,
	}, nil
}

// SignupTrends 获取最近 days 天的报名趋势
func (s *DashboardService) SignupTrends(days int) ([]DashboardSignupTrend, error) {
	startAt, endAt := dashboardRange(days)
	rows, err := s.dashboardRepo.GetSignupTrends(startAt, endAt)
	if err != nil {
		return nil, err
	}
	trends := make([]DashboardSignupTrend, 0, len(rows))
	for _, row := range rows {
		trends = append(trends, DashboardSignupTrend{
			Day:       row.Day,
			Signups:   row.Signups,
			Confirmed: row.Confirmed,
		})
	}
	return trends, nil
}

// TopVendors 获取最近 days 天的渠道商点击排行
func (s *DashboardService) TopVendors(days int) ([]DashboardVendorRanking, error) {
	startAt, endAt := dashboardRange(days)
	rows, err := s.dashboardRepo.GetTopVendors(startAt, endAt, dashboardTopVendorsLimit)
	if err != nil {
		return nil, err
	}
	rankings := make([]DashboardVendorRanking, 0, len(rows))
	for _, row := range rows {
		rankings = append(rankings, DashboardVendorRanking{
			VendorID:      row.VendorID,
			VendorName:    row.VendorName,
			VendorCode:    row.VendorCode,
			ClickCount:    row.ClickCount,
			SignupCount:   row.SignupCount,
			PendingAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(row.PendingAmount)),
		})
	}
	return rankings, nil
}

func dashboardRange(days int) (time.Time, time.Time) {
	if days <= 0 {
		days = dashboardDefaultDays
	}
	if days > dashboardMaxDays {
		days = dashboardMaxDays
	}
	now := time.Now()
	endAt := now.Add(time.Minute)
	startAt := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(days - 1))
	return startAt, endAt
}
