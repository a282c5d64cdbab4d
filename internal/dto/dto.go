package dto

import "time"

type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type DeliveryInfo struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	Department string `json:"department,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

type CreateTransactionRequest struct {
	CustomerID   string       `json:"customer_id"`
	ProductID    string       `json:"product_id"`
	Quantity     int          `json:"quantity"`
	DeliveryInfo DeliveryInfo `json:"delivery_info"`
}

type AmountBreakdown struct {
	ProductAmount int64 `json:"product_amount"`
	BaseFee       int64 `json:"base_fee"`
	DeliveryFee   int64 `json:"delivery_fee"`
}

type ProductSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type CustomerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type DeliverySummary struct {
	ID             string `json:"id"`
	Address        string `json:"address"`
	City           string `json:"city"`
	DeliveryStatus string `json:"delivery_status"`
}

type TransactionResponse struct {
	ID                string           `json:"id"`
	TransactionNumber string           `json:"transaction_number"`
	Status            string           `json:"status"`
	TotalAmount       int64            `json:"total_amount"`
	Breakdown         AmountBreakdown  `json:"breakdown"`
	PaymentMethod     string           `json:"payment_method,omitempty"`
	Product           *ProductSummary  `json:"product,omitempty"`
	Customer          *CustomerSummary `json:"customer,omitempty"`
	Delivery          *DeliverySummary `json:"delivery,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

type ProcessPaymentRequest struct {
	CardToken       string `json:"card_token"`
	CustomerEmail   string `json:"customer_email"`
	AcceptanceToken string `json:"acceptance_token"`
}

type TokenizeCardRequest struct {
	Number     string `json:"number"`
	CVC        string `json:"cvc"`
	ExpMonth   string `json:"exp_month"`
	ExpYear    string `json:"exp_year"`
	CardHolder string `json:"card_holder"`
}

type TokenizeCardResponse struct {
	Token    string `json:"token"`
	Brand    string `json:"brand"`
	LastFour string `json:"last_four"`
}

type PaymentConfigResponse struct {
	PublicKey       string `json:"public_key"`
	AcceptanceToken string `json:"acceptance_token"`
	Currency        string `json:"currency"`
}
