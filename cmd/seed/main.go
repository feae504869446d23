package main

import (
	"fmt"
	"time"

	"github.com/staylucky/internal/config"
	"github.com/staylucky/internal/constants"
	"github.com/staylucky/internal/logger"
	"github.com/staylucky/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	now := time.Now()

	// 抽奖活动
	start := now.AddDate(0, 0, -14)
	end := now.AddDate(0, 1, 0)
	promotions := []models.Promotion{
		{
			Slug:        "lakeside-cabin-week",
			Title:       "Win a Week at the Lakeside Cabin",
			Description: "Sign up and confirm your email for a chance to win a 7-night stay at our lakeside cabin in the Smoky Mountains.",
			PrizeName:   "7-night Lakeside Cabin Stay",
			PrizeValue:  models.NewMoneyFromDecimal(decimal.NewFromFloat(2450)),
			Status:      constants.PromotionStatusActive,
			StartAt:     &start,
			EndAt:       &end,
		},
		{
			Slug:        "winter-chalet-escape",
			Title:       "Winter Chalet Escape",
			Description: "A long-weekend escape to a ski-in chalet, drawn at the end of the season.",
			PrizeName:   "3-night Ski Chalet Stay",
			PrizeValue:  models.NewMoneyFromDecimal(decimal.NewFromFloat(1280)),
			Status:      constants.PromotionStatusDraft,
		},
	}
	for _, promo := range promotions {
		var existing models.Promotion
		if err := models.DB.Where("slug = ?", promo.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&promo).Error; err != nil {
				stdLog.Printf("Failed to create promotion %s: %v", promo.Slug, err)
			} else {
				stdLog.Printf("Created promotion: %s", promo.Slug)
			}
		} else {
			stdLog.Printf("Promotion already exists: %s", promo.Slug)
		}
	}

	// 渠道商
	vendors := []models.Vendor{
		{
			Code:         "mountainblog",
			Name:         "Mountain Travel Blog",
			ContactEmail: "partners@mountaintravel.example",
			Website:      "https://mountaintravel.example",
			TargetURL:    "https://staylucky.example/?ref=mountainblog",
			RatePercent:  models.NewMoneyFromDecimal(decimal.NewFromFloat(8)),
			Status:       constants.VendorStatusActive,
		},
		{
			Code:         "cabinfinder",
			Name:         "Cabin Finder Newsletter",
			ContactEmail: "hello@cabinfinder.example",
			Website:      "https://cabinfinder.example",
			TargetURL:    "https://staylucky.example/?ref=cabinfinder",
			RatePercent:  models.NewMoneyFromDecimal(decimal.NewFromFloat(10)),
			Status:       constants.VendorStatusActive,
		},
	}
	for _, vendor := range vendors {
		var existing models.Vendor
		if err := models.DB.Where("code = ?", vendor.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&vendor).Error; err != nil {
				stdLog.Printf("Failed to create vendor %s: %v", vendor.Code, err)
			} else {
				stdLog.Printf("Created vendor: %s", vendor.Code)
			}
		} else {
			stdLog.Printf("Vendor already exists: %s", vendor.Code)
		}
	}

	// 照片比赛
	contestStart := now.AddDate(0, 0, -7)
	contestEnd := now.AddDate(0, 0, 21)
	contests := []models.Contest{
		{
			Slug:        "best-cabin-view",
			Title:       "Best Cabin View Photo Contest",
			Description: "Share your best view from one of our cabins with the contest hashtag.",
			Hashtag:     "#stayluckyview",
			Status:      constants.ContestStatusActive,
			StartAt:     &contestStart,
			EndAt:       &contestEnd,
		},
	}
	for _, contest := range contests {
		var existing models.Contest
		if err := models.DB.Where("slug = ?", contest.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&contest).Error; err != nil {
				stdLog.Printf("Failed to create contest %s: %v", contest.Slug, err)
			} else {
				stdLog.Printf("Created contest: %s", contest.Slug)
			}
		} else {
			stdLog.Printf("Contest already exists: %s", contest.Slug)
		}
	}

	// 商品
	products := []models.Product{
		{
			Slug:        "cabin-gift-card-100",
			Name:        "Cabin Stay Gift Card ($100)",
			Description: "A $100 gift card redeemable against any cabin booking.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(100)),
			Images:      models.StringArray([]string{"https://images.unsplash.com/photo-1449158743715-0a90ebb6d2d8?w=800"}),
			Stock:       500,
			IsActive:    true,
			SortOrder:   1,
		},
		{
			Slug:        "smoky-mountains-guidebook",
			Name:        "Smoky Mountains Trail Guidebook",
			Description: "A printed guide to the best trails within an hour of our cabins.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(24.99)),
			Images:      models.StringArray([]string{"https://images.unsplash.com/photo-1501555088652-021faa106b9b?w=800"}),
			Stock:       120,
			IsActive:    true,
			SortOrder:   2,
		},
		{
			Slug:        "firewood-bundle",
			Name:        "Firewood Bundle Add-on",
			Description: "Seasoned firewood delivered to your cabin before check-in.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(35)),
			Stock:       0,
			IsActive:    false,
			SortOrder:   3,
		},
	}
	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	// 示例报名者（仅用于本地演示）
	var vendor models.Vendor
	_ = models.DB.Where("code = ?", "mountainblog").First(&vendor).Error
	entrants := []models.Entrant{
		{Email: "alice@example.com", Name: "Alice", Confirmed: true, Stars: 3, CountryCode: "US", UTMSource: "newsletter"},
		{Email: "bob@example.com", Name: "Bob", Confirmed: true, Stars: 1, IsReturning: true, CountryCode: "CA", UTMSource: "instagram"},
		{Email: "carol@example.com", Name: "Carol", Confirmed: false, CountryCode: "GB"},
	}
	if vendor.ID != 0 {
		entrants[0].VendorID = &vendor.ID
	}
	for _, entrant := range entrants {
		var existing models.Entrant
		if err := models.DB.Where("email = ?", entrant.Email).First(&existing).Error; err != nil {
			if entrant.Confirmed {
				confirmedAt := now.AddDate(0, 0, -3)
				entrant.ConfirmedAt = &confirmedAt
			}
			if err := models.DB.Create(&entrant).Error; err != nil {
				stdLog.Printf("Failed to create entrant %s: %v", entrant.Email, err)
			} else {
				stdLog.Printf("Created entrant: %s", entrant.Email)
			}
		} else {
			stdLog.Printf("Entrant already exists: %s", entrant.Email)
		}
	}

	fmt.Println("Seed data loaded.")
}
