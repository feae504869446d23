package provider

import (
	"github.com/staylucky/internal/authz"
	"github.com/staylucky/internal/cache"
	"github.com/staylucky/internal/config"
	"github.com/staylucky/internal/instagram"
	"github.com/staylucky/internal/logger"
	"github.com/staylucky/internal/models"
	"github.com/staylucky/internal/queue"
	"github.com/staylucky/internal/repository"
	"github.com/staylucky/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo     repository.AdminRepository
	SettingRepo   repository.SettingRepository
	EntrantRepo   repository.EntrantRepository
	DrawRepo      repository.DrawRepository
	VendorRepo    repository.VendorRepository
	ContestRepo   repository.ContestRepository
	ProductRepo   repository.ProductRepository
	InvoiceRepo   repository.InvoiceRepository
	PromotionRepo repository.PromotionRepository
	DashboardRepo repository.DashboardRepository

	// Services
	AuthzService     *authz.Service
	AuthService      *service.AuthService
	EmailService     *service.EmailService
	CaptchaService   *service.CaptchaService
	SettingService   *service.SettingService
	EntrantService   *service.EntrantService
	DrawService      *service.DrawService
	VendorService    *service.VendorService
	ContestService   *service.ContestService
	ProductService   *service.ProductService
	InvoiceService   *service.InvoiceService
	PromotionService *service.PromotionService
	DashboardService *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.EntrantRepo = repository.NewEntrantRepository(db)
	c.DrawRepo = repository.NewDrawRepository(db)
	c.VendorRepo = repository.NewVendorRepository(db)
	c.ContestRepo = repository.NewContestRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.InvoiceRepo = repository.NewInvoiceRepository(db)
	c.PromotionRepo = repository.NewPromotionRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.SettingService = service.NewSettingService(c.SettingRepo)
	smtpSetting, err := c.SettingService.GetSMTPSetting(c.Config.Email)
	if err != nil {
		logger.Warnw("provider_load_smtp_setting_failed", "error", err)
	} else {
		c.Config.Email = *smtpSetting.ToEmailConfig()
	}

	igClient := instagram.NewClient(c.Config.Instagram)

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.EntrantService = service.NewEntrantService(c.Config, c.EntrantRepo, c.VendorRepo, c.QueueClient)
	c.DrawService = service.NewDrawService(c.EntrantRepo, c.DrawRepo, c.PromotionRepo, c.QueueClient)
	c.VendorService = service.NewVendorService(c.Config, c.VendorRepo)
	c.ContestService = service.NewContestService(c.ContestRepo, igClient, c.QueueClient)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.InvoiceService = service.NewInvoiceService(c.Config, c.InvoiceRepo, c.ProductRepo)
	c.PromotionService = service.NewPromotionService(c.PromotionRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}
