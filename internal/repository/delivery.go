package repository

import (
	"context"

	"wompi-checkout-api/internal/model"

	"gorm.io/gorm"
)

type DeliveryRepository interface {
	Create(ctx context.Context, tx *gorm.DB, delivery *model.Delivery) error
	FindByTransactionID(ctx context.Context, transactionID string) (*model.Delivery, error)
}

type deliveryRepoImpl struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepoImpl{
		db: db,
	}
}

func (r *deliveryRepoImpl) Create(ctx context.Context, tx *gorm.DB, delivery *model.Delivery) error {
	return tx.WithContext(ctx).Create(delivery).Error
}

func (r *deliveryRepoImpl) FindByTransactionID(ctx context.Context, transactionID string) (*model.Delivery, error) {
	var delivery model.Delivery
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&delivery).Error

	if err != nil {
		return nil, err
	}

	return &delivery, nil
}
