package repository

import (
	"context"
	"time"

	"wompi-checkout-api/internal/model"

	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, transaction *model.Transaction) error
	FindByID(ctx context.Context, transactionID string) (*model.Transaction, error)
	FindByWompiID(ctx context.Context, wompiTransactionID string) (*model.Transaction, error)
	FindByReference(ctx context.Context, reference string) (*model.Transaction, error)
	FindAll(ctx context.Context) ([]*model.Transaction, error)
	Update(ctx context.Context, tx *gorm.DB, transaction *model.Transaction) error
	// UpdateStatus moves a PENDING transaction to a terminal status. Returns
	// false when the row was no longer PENDING (zero rows affected).
	UpdateStatus(ctx context.Context, tx *gorm.DB, transactionID string, status model.TransactionStatus) (bool, error)
}

type transactionRepoImpl struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepoImpl{
		db: db,
	}
}

func (r *transactionRepoImpl) Create(ctx context.Context, tx *gorm.DB, transaction *model.Transaction) error {
	return tx.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepoImpl) FindByID(ctx context.Context, transactionID string) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).
		Where("id = ?", transactionID).
		First(&transaction).Error

	if err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (r *transactionRepoImpl) FindByWompiID(ctx context.Context, wompiTransactionID string) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).
		Where("wompi_transaction_id = ?", wompiTransactionID).
		First(&transaction).Error

	if err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (r *transactionRepoImpl) FindByReference(ctx context.Context, reference string) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).
		Where("wompi_reference = ?", reference).
		First(&transaction).Error

	if err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (r *transactionRepoImpl) FindAll(ctx context.Context) ([]*model.Transaction, error) {
	var transactions []*model.Transaction
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&transactions).Error

	if err != nil {
		return nil, err
	}

	return transactions, nil
}

func (r *transactionRepoImpl) Update(ctx context.Context, tx *gorm.DB, transaction *model.Transaction) error {
	return tx.WithContext(ctx).Save(transaction).Error
}

func (r *transactionRepoImpl) UpdateStatus(ctx context.Context, tx *gorm.DB, transactionID string, status model.TransactionStatus) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ? AND status = ?", transactionID, model.TransactionPending).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
