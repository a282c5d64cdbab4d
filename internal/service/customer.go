package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"wompi-checkout-api/internal/apperr"
	"wompi-checkout-api/internal/dto"
	"wompi-checkout-api/internal/model"
	"wompi-checkout-api/internal/repository"

	"gorm.io/gorm"
)

type CustomerService interface {
	// Create registers a customer, or returns the existing one when the
	// email is already known. The bool is true when a new row was created.
	Create(ctx context.Context, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, bool, error)
	Get(ctx context.Context, customerID string) (*dto.CustomerResponse, error)
}

type customerServiceImpl struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerServiceImpl{
		customerRepo: customerRepo,
	}
}

func (s *customerServiceImpl) Create(ctx context.Context, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, bool, error) {
	if req.Name == "" {
		return nil, false, apperr.Validation("customer name is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, false, apperr.Validation("invalid email address: %s", req.Email)
	}

	existing, err := s.customerRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, false, fmt.Errorf("find customer by email: %w", err)
	}
	if existing != nil {
		return toCustomerResponse(existing), false, nil
	}

	customer := &model.Customer{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, false, fmt.Errorf("create customer: %w", err)
	}

	return toCustomerResponse(customer), true, nil
}

func (s *customerServiceImpl) Get(ctx context.Context, customerID string) (*dto.CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("customer not found: %s", customerID)
	}
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}

	return toCustomerResponse(customer), nil
}

func toCustomerResponse(customer *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		Phone:     customer.Phone,
		CreatedAt: customer.CreatedAt,
	}
}
