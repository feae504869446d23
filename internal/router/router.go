package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/staylucky/internal/authz"
	"github.com/staylucky/internal/cache"
	"github.com/staylucky/internal/config"
	adminhandlers "github.com/staylucky/internal/http/handlers/admin"
	publichandlers "github.com/staylucky/internal/http/handlers/public"
	"github.com/staylucky/internal/http/response"
	"github.com/staylucky/internal/logger"
	"github.com/staylucky/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "sl"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}
	signupRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:signup", redisPrefix),
		WindowSeconds: cfg.Security.SignupRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.SignupRateLimit.MaxAttempts,
		Message:       "too many signup attempts",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 渠道商推广短链（根路径，便于放进广告位）
	r.GET("/r/:code", publicHandler.ReferralRedirect)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/contests/:slug/gallery", publicHandler.GetContestGallery)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		// 报名接口
		apiV1.POST("/signup", RateLimitMiddleware(redisClient, signupRule, KeyByIPAndJSONField("email")), publicHandler.Signup)
		apiV1.GET("/confirm", publicHandler.ConfirmSignup)

		// 游客接口
		guest := apiV1.Group("/guest")
		{
			guest.POST("/invoices", publicHandler.CreateInvoice)
			guest.GET("/invoices/by-no/:invoice_no", publicHandler.GetInvoiceByNo)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				// 仪表盘
				authorized.GET("/dashboard/overview", adminHandler.GetDashboardOverview)
				authorized.GET("/dashboard/trends", adminHandler.GetDashboardTrends)
				authorized.GET("/dashboard/top-vendors", adminHandler.GetDashboardTopVendors)

				// 报名者管理
				authorized.GET("/entrants", adminHandler.GetEntrants)
				authorized.GET("/entrants/export", adminHandler.ExportEntrants)
				authorized.GET("/entrants/:id", adminHandler.GetEntrant)
				authorized.PUT("/entrants/:id", adminHandler.UpdateEntrant)
				authorized.PATCH("/entrants/batch", adminHandler.BatchUpdateEntrants)

				// 抽奖
				authorized.POST("/draws/simulate", adminHandler.SimulateDraw)
				authorized.POST("/draws/commit", adminHandler.CommitDraw)
				authorized.GET("/draws/export", adminHandler.ExportDrawCandidates)
				authorized.GET("/draws", adminHandler.GetDrawHistory)
				authorized.GET("/draws/:id", adminHandler.GetDrawRecord)

				// 活动管理
				authorized.GET("/promotions", adminHandler.GetPromotions)
				authorized.GET("/promotions/:id", adminHandler.GetPromotion)
				authorized.POST("/promotions", adminHandler.CreatePromotion)
				authorized.PUT("/promotions/:id", adminHandler.UpdatePromotion)
				authorized.DELETE("/promotions/:id", adminHandler.DeletePromotion)

				// 渠道商与佣金
				authorized.GET("/vendors", adminHandler.GetVendors)
				authorized.GET("/vendors/:id", adminHandler.GetVendor)
				authorized.POST("/vendors", adminHandler.CreateVendor)
				authorized.PUT("/vendors/:id", adminHandler.UpdateVendor)
				authorized.DELETE("/vendors/:id", adminHandler.DeleteVendor)
				authorized.GET("/vendors/:id/summary", adminHandler.GetVendorSummary)
				authorized.GET("/commissions", adminHandler.GetCommissions)
				authorized.POST("/commissions", adminHandler.CreateCommission)
				authorized.PATCH("/commissions/:id/status", adminHandler.UpdateCommissionStatus)

				// 照片比赛
				authorized.GET("/contests", adminHandler.GetContests)
				authorized.GET("/contests/:id", adminHandler.GetContest)
				authorized.POST("/contests", adminHandler.CreateContest)
				authorized.PUT("/contests/:id", adminHandler.UpdateContest)
				authorized.DELETE("/contests/:id", adminHandler.DeleteContest)
				authorized.GET("/contests/:id/entries", adminHandler.GetContestEntries)
				authorized.POST("/contests/:id/sync", adminHandler.SyncContestInstagram)
				authorized.PATCH("/photo-entries/:id/review", adminHandler.ReviewPhotoEntry)

				// 商品管理
				authorized.GET("/products", adminHandler.GetAdminProducts)
				authorized.GET("/products/:id", adminHandler.GetAdminProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)

				// 账单管理
				authorized.GET("/invoices", adminHandler.GetInvoices)
				authorized.GET("/invoices/:id", adminHandler.GetInvoice)
				authorized.PATCH("/invoices/:id/status", adminHandler.UpdateInvoiceStatus)

				// 设置管理
				authorized.GET("/settings", adminHandler.GetSettings)
				authorized.PUT("/settings", adminHandler.UpdateSettings)
				authorized.GET("/settings/smtp", adminHandler.GetSMTPSettings)
				authorized.PUT("/settings/smtp", adminHandler.UpdateSMTPSettings)
				authorized.POST("/settings/smtp/test", adminHandler.TestSMTPSettings)
				authorized.PUT("/password", adminHandler.UpdateAdminPassword) // 修改密码

				// 权限管理
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
