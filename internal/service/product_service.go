package service

import (
	"strings"

	"github.com/staylucky/internal/models"
	"github.com/staylucky/internal/repository"
)

// ProductInput 商品创建/更新输入
type ProductInput struct {
	Slug        string             `json:"slug"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       models.Money       `json:"price"`
	Images      models.StringArray `json:"images"`
	Stock       int                `json:"stock"`
	IsActive    *bool              `json:"is_active"`
	SortOrder   int                `json:"sort_order"`
}

// ProductService 商品业务服务
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	slug := strings.TrimSpace(input.Slug)
	existing, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrProductSlugTaken
	}

	product := &models.Product{
		Slug:        slug,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Images:      input.Images,
		Stock:       input.Stock,
		IsActive:    true,
		SortOrder:   input.SortOrder,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Get 获取商品
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if slug := strings.TrimSpace(input.Slug); slug != "" && slug != product.Slug {
		existing, err := s.productRepo.GetBySlug(slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, ErrProductSlugTaken
		}
		product.Slug = slug
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		product.Name = name
	}
	product.Description = input.Description
	product.Price = input.Price
	if input.Images != nil {
		product.Images = input.Images
	}
	product.Stock = input.Stock
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	product.SortOrder = input.SortOrder

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品
func (s *ProductService) Delete(id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}
	return s.productRepo.Delete(id)
}

// List 查询商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}
