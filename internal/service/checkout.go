package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wompi-checkout-api/internal/apperr"
	"wompi-checkout-api/internal/client"
	"wompi-checkout-api/internal/dto"
	"wompi-checkout-api/internal/model"
	"wompi-checkout-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// Fixed surcharge per transaction, COP.
	baseFee int64 = 2000
	// Delivery surcharge per unit, COP.
	deliveryFeePerUnit int64 = 5000

	currency = "COP"
)

type CheckoutService interface {
	CreateTransaction(ctx context.Context, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	GetTransaction(ctx context.Context, transactionID string) (*dto.TransactionResponse, error)
	ListTransactions(ctx context.Context) ([]*dto.TransactionResponse, error)
	ProcessPayment(ctx context.Context, transactionID string, req *dto.ProcessPaymentRequest) (*dto.TransactionResponse, error)
	HandleWebhook(ctx context.Context, body []byte) error
}

type checkoutServiceImpl struct {
	db               *gorm.DB
	wompiClient      client.WompiClient
	fallbackPhone    string
	transactionRepo  repository.TransactionRepository
	productRepo      repository.ProductRepository
	customerRepo     repository.CustomerRepository
	deliveryRepo     repository.DeliveryRepository
	webhookEventRepo repository.WebhookEventRepository
	logger           *zap.Logger
}

func NewCheckoutService(
	db *gorm.DB,
	wompiClient client.WompiClient,
	fallbackPhone string,
	transactionRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	deliveryRepo repository.DeliveryRepository,
	webhookEventRepo repository.WebhookEventRepository,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		db:               db,
		wompiClient:      wompiClient,
		fallbackPhone:    fallbackPhone,
		transactionRepo:  transactionRepo,
		productRepo:      productRepo,
		customerRepo:     customerRepo,
		deliveryRepo:     deliveryRepo,
		webhookEventRepo: webhookEventRepo,
		logger:           logger,
	}
}

// newTransactionNumber builds the human-readable identifier, distinct from
// Wompi's transaction id. The random suffix keeps concurrent creations in
// the same millisecond from colliding.
func newTransactionNumber() string {
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

func (s *checkoutServiceImpl) CreateTransaction(ctx context.Context, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if req.Quantity < 1 {
		return nil, apperr.Validation("quantity must be at least 1")
	}
	if req.DeliveryInfo.Address == "" || req.DeliveryInfo.City == "" {
		return nil, apperr.Validation("delivery address and city are required")
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product not found: %s", req.ProductID)
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}

	if !product.HasStock(req.Quantity) {
		return nil, apperr.InsufficientStock("insufficient stock: available %d, requested %d", product.Stock, req.Quantity)
	}

	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("customer not found: %s", req.CustomerID)
	}
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}

	productAmount := product.Price * int64(req.Quantity)
	deliveryFee := deliveryFeePerUnit * int64(req.Quantity)

	transaction := &model.Transaction{
		TransactionNumber: newTransactionNumber(),
		CustomerID:        customer.ID,
		ProductID:         product.ID,
		Quantity:          req.Quantity,
		ProductAmount:     productAmount,
		BaseFee:           baseFee,
		DeliveryFee:       deliveryFee,
		TotalAmount:       productAmount + baseFee + deliveryFee,
		Status:            model.TransactionPending,
	}

	delivery := &model.Delivery{
		Address:        req.DeliveryInfo.Address,
		City:           req.DeliveryInfo.City,
		Department:     req.DeliveryInfo.Department,
		PostalCode:     req.DeliveryInfo.PostalCode,
		DeliveryStatus: model.DeliveryPending,
	}

	// Stock is not touched here; it is only decremented once a payment
	// is approved.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.transactionRepo.Create(ctx, tx, transaction); err != nil {
			return fmt.Errorf("store transaction: %w", err)
		}

		delivery.TransactionID = transaction.ID
		if err := s.deliveryRepo.Create(ctx, tx, delivery); err != nil {
			return fmt.Errorf("store delivery: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transaction created",
		zap.String("transaction_id", transaction.ID),
		zap.String("transaction_number", transaction.TransactionNumber),
		zap.Int64("total_amount", transaction.TotalAmount),
	)

	response := toTransactionResponse(transaction)
	response.Product = &dto.ProductSummary{ID: product.ID, Name: product.Name, Price: product.Price}
	response.Customer = &dto.CustomerSummary{ID: customer.ID, Name: customer.Name, Email: customer.Email}
	response.Delivery = &dto.DeliverySummary{
		ID:             delivery.ID,
		Address:        delivery.Address,
		City:           delivery.City,
		DeliveryStatus: string(delivery.DeliveryStatus),
	}

	return response, nil
}

func (s *checkoutServiceImpl) GetTransaction(ctx context.Context, transactionID string) (*dto.TransactionResponse, error) {
	transaction, err := s.transactionRepo.FindByID(ctx, transactionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("transaction not found: %s", transactionID)
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}

	s.refreshStatus(ctx, transaction)

	return toTransactionResponse(transaction), nil
}

// refreshStatus reconciles a PENDING transaction with the gateway. Gateway
// failures are logged and swallowed; the stored status stands as a
// best-effort fallback.
func (s *checkoutServiceImpl) refreshStatus(ctx context.Context, transaction *model.Transaction) {
	if !transaction.CanBeProcessed() || transaction.WompiTransactionID == "" {
		return
	}

	remote, err := s.wompiClient.GetTransaction(ctx, transaction.WompiTransactionID)
	if err != nil {
		s.logger.Warn("gateway status refresh failed",
			zap.String("transaction_id", transaction.ID),
			zap.Error(err),
		)
		return
	}

	status := toTransactionStatus(remote.Status)
	if status == model.TransactionPending {
		return
	}

	updated, err := s.transactionRepo.UpdateStatus(ctx, s.db, transaction.ID, status)
	if err != nil {
		s.logger.Warn("persist refreshed status failed",
			zap.String("transaction_id", transaction.ID),
			zap.Error(err),
		)
		return
	}
	if updated {
		transaction.Status = status
	}
}

func (s *checkoutServiceImpl) ListTransactions(ctx context.Context) ([]*dto.TransactionResponse, error) {
	transactions, err := s.transactionRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	response := make([]*dto.TransactionResponse, len(transactions))
	for i, transaction := range transactions {
		response[i] = toTransactionResponse(transaction)
	}

	return response, nil
}

func (s *checkoutServiceImpl) ProcessPayment(ctx context.Context, transactionID string, req *dto.ProcessPaymentRequest) (*dto.TransactionResponse, error) {
	if req.CardToken == "" || req.AcceptanceToken == "" {
		return nil, apperr.Validation("card token and acceptance token are required")
	}

	transaction, err := s.transactionRepo.FindByID(ctx, transactionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("transaction not found: %s", transactionID)
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}

	if !transaction.CanBeProcessed() {
		return nil, apperr.InvalidState("transaction cannot be processed, current status: %s", transaction.Status)
	}

	// Time has passed since creation; the stock could be gone by now.
	product, err := s.productRepo.FindByID(ctx, transaction.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product not found: %s", transaction.ProductID)
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if !product.HasStock(transaction.Quantity) {
		return nil, apperr.InsufficientStock("insufficient stock to complete payment: available %d, requested %d", product.Stock, transaction.Quantity)
	}

	customer, err := s.customerRepo.FindByID(ctx, transaction.CustomerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("customer not found: %s", transaction.CustomerID)
	}
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}

	// Wompi rejects reused references, so every attempt gets a fresh one.
	reference := fmt.Sprintf("%s-%d", transaction.TransactionNumber, time.Now().UnixMilli())

	phone := customer.Phone
	if phone == "" {
		phone = s.fallbackPhone
	}

	s.logger.Info("creating gateway transaction",
		zap.String("transaction_id", transaction.ID),
		zap.String("reference", reference),
		zap.Int64("amount", transaction.TotalAmount),
	)

	remote, err := s.wompiClient.CreateTransaction(ctx, &client.WompiTransactionRequest{
		AmountInCents: transaction.TotalAmount * 100,
		Currency:      currency,
		CustomerEmail: req.CustomerEmail,
		PaymentMethod: client.PaymentMethod{
			Type:         "CARD",
			Token:        req.CardToken,
			Installments: 1,
		},
		Reference:       reference,
		AcceptanceToken: req.AcceptanceToken,
		CustomerData: &client.CustomerData{
			PhoneNumber: phone,
			FullName:    customer.Name,
		},
	})
	if err != nil {
		return nil, apperr.Gateway(err, "gateway payment failed")
	}

	status := toTransactionStatus(remote.Status)
	transaction.ApplyGatewayResult(status, remote.ID, reference, remote.PaymentMethodType)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.transactionRepo.Update(ctx, tx, transaction); err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}

		if status == model.TransactionApproved {
			ok, err := s.productRepo.DecrementStock(ctx, tx, transaction.ProductID, transaction.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if !ok {
				// Payment already captured remotely; nothing to compensate
				// with, so record the oversell and move on.
				s.logger.Error("stock decrement found insufficient stock after approved payment",
					zap.String("transaction_id", transaction.ID),
					zap.String("product_id", transaction.ProductID),
				)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment processed",
		zap.String("transaction_id", transaction.ID),
		zap.String("wompi_transaction_id", remote.ID),
		zap.String("status", string(status)),
	)

	return toTransactionResponse(transaction), nil
}

type wompiEvent struct {
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	Signature struct {
		Checksum string `json:"checksum"`
	} `json:"signature"`
}

type wompiEventData struct {
	Transaction struct {
		ID        string `json:"id"`
		Status    string `json:"status"`
		Reference string `json:"reference"`
	} `json:"transaction"`
}

// HandleWebhook applies gateway-pushed status updates. Events are
// deduplicated, and a transaction that already left PENDING is never
// touched again.
func (s *checkoutServiceImpl) HandleWebhook(ctx context.Context, body []byte) error {
	var event wompiEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return apperr.Validation("malformed webhook payload")
	}

	if !s.wompiClient.VerifyWebhookSignature(event.Data, event.Signature.Checksum) {
		return apperr.Validation("webhook signature mismatch")
	}

	var data wompiEventData
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return apperr.Validation("malformed webhook event data")
	}

	eventID := fmt.Sprintf("%s-%d", data.Transaction.ID, event.Timestamp)
	seen, err := s.webhookEventRepo.Exists(ctx, eventID)
	if err != nil {
		return fmt.Errorf("check webhook event: %w", err)
	}
	if seen {
		return nil
	}

	if event.Event == "transaction.updated" {
		if err := s.applyRemoteStatus(ctx, &data); err != nil {
			return err
		}
	}

	if err := s.webhookEventRepo.MarkProcessed(ctx, eventID, event.Event); err != nil {
		return fmt.Errorf("mark webhook event processed: %w", err)
	}

	return nil
}

func (s *checkoutServiceImpl) applyRemoteStatus(ctx context.Context, data *wompiEventData) error {
	status := toTransactionStatus(data.Transaction.Status)
	if status == model.TransactionPending {
		return nil
	}

	transaction, err := s.transactionRepo.FindByWompiID(ctx, data.Transaction.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) && data.Transaction.Reference != "" {
		transaction, err = s.transactionRepo.FindByReference(ctx, data.Transaction.Reference)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("webhook for unknown transaction",
			zap.String("wompi_transaction_id", data.Transaction.ID),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("find transaction for webhook: %w", err)
	}

	if !transaction.CanBeProcessed() {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updated, err := s.transactionRepo.UpdateStatus(ctx, tx, transaction.ID, status)
		if err != nil {
			return fmt.Errorf("update transaction status: %w", err)
		}

		if updated && status == model.TransactionApproved {
			ok, err := s.productRepo.DecrementStock(ctx, tx, transaction.ProductID, transaction.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if !ok {
				s.logger.Error("stock decrement found insufficient stock after approved payment",
					zap.String("transaction_id", transaction.ID),
					zap.String("product_id", transaction.ProductID),
				)
			}
		}
		return nil
	})
}

func toTransactionStatus(remote string) model.TransactionStatus {
	switch remote {
	case "APPROVED":
		return model.TransactionApproved
	case "DECLINED":
		return model.TransactionDeclined
	case "PENDING":
		return model.TransactionPending
	default:
		return model.TransactionError
	}
}

func toTransactionResponse(transaction *model.Transaction) *dto.TransactionResponse {
	return &dto.TransactionResponse{
		ID:                transaction.ID,
		TransactionNumber: transaction.TransactionNumber,
		Status:            string(transaction.Status),
		TotalAmount:       transaction.TotalAmount,
		Breakdown: dto.AmountBreakdown{
			ProductAmount: transaction.ProductAmount,
			BaseFee:       transaction.BaseFee,
			DeliveryFee:   transaction.DeliveryFee,
		},
		PaymentMethod: transaction.PaymentMethod,
		CreatedAt:     transaction.CreatedAt,
	}
}
