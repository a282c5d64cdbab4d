package repository

import (
	"context"

	"wompi-checkout-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	Seed(ctx context.Context) error
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	FindAvailable(ctx context.Context) ([]*model.Product, error)
	// DecrementStock atomically takes quantity units off the shelf. Returns
	// false when remaining stock was insufficient (zero rows affected).
	DecrementStock(ctx context.Context, tx *gorm.DB, productID string, quantity int) (bool, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Seed(ctx context.Context) error {
	products := []model.Product{
		{
			ID:          "prod-iphone-14-pro",
			Name:        "iPhone 14 Pro",
			Description: "Latest Apple smartphone with A16 Bionic chip, 48MP camera system, Dynamic Island, and all-day battery life. Available in Space Black.",
			Price:       4500000,
			Stock:       15,
			ImageURL:    "https://images.unsplash.com/photo-1678652197831-2d180705cd2c?w=800",
		},
		{
			ID:          "prod-macbook-pro-14",
			Name:        "MacBook Pro 14\"",
			Description: "Professional laptop with M3 Pro chip, 18GB RAM, 512GB SSD. Perfect for developers and creative professionals.",
			Price:       8500000,
			Stock:       10,
			ImageURL:    "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=800",
		},
		{
			ID:          "prod-airpods-pro-2",
			Name:        "AirPods Pro 2",
			Description: "Active Noise Cancellation, Adaptive Transparency, Personalized Spatial Audio with dynamic head tracking.",
			Price:       950000,
			Stock:       50,
			ImageURL:    "https://images.unsplash.com/photo-1600294037681-c80b4cb5b434?w=800",
		},
		{
			ID:          "prod-watch-ultra-2",
			Name:        "Apple Watch Ultra 2",
			Description: "The most rugged and capable Apple Watch. 49mm titanium case, precision dual-frequency GPS, up to 36 hours battery.",
			Price:       3200000,
			Stock:       20,
			ImageURL:    "https://images.unsplash.com/photo-1434493789847-2f02dc6ca35d?w=800",
		},
		{
			ID:          "prod-ipad-pro-12",
			Name:        "iPad Pro 12.9\"",
			Description: "M2 chip, Liquid Retina XDR display, 256GB storage. Transform your workflow with the power of a laptop in a tablet.",
			Price:       5200000,
			Stock:       12,
			ImageURL:    "https://images.unsplash.com/photo-1544244015-0df4b3ffc6b0?w=800",
		},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindAvailable(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("stock > 0").
		Order("name").
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) DecrementStock(ctx context.Context, tx *gorm.DB, productID string, quantity int) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
