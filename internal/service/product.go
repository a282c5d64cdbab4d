package service

import (
	"context"
	"errors"
	"fmt"

	"wompi-checkout-api/internal/apperr"
	"wompi-checkout-api/internal/dto"
	"wompi-checkout-api/internal/model"
	"wompi-checkout-api/internal/repository"

	"gorm.io/gorm"
)

type ProductService interface {
	List(ctx context.Context) ([]*dto.ProductResponse, error)
	Get(ctx context.Context, productID string) (*dto.ProductResponse, error)
}

type productServiceImpl struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productServiceImpl{
		productRepo: productRepo,
	}
}

func (s *productServiceImpl) List(ctx context.Context) ([]*dto.ProductResponse, error) {
	products, err := s.productRepo.FindAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available products: %w", err)
	}

	response := make([]*dto.ProductResponse, len(products))
	for i, product := range products {
		response[i] = toProductResponse(product)
	}

	return response, nil
}

func (s *productServiceImpl) Get(ctx context.Context, productID string) (*dto.ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product not found: %s", productID)
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}

	return toProductResponse(product), nil
}

func toProductResponse(product *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		ImageURL:    product.ImageURL,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
