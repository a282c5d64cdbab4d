package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "PENDING"
	TransactionApproved TransactionStatus = "APPROVED"
	TransactionDeclined TransactionStatus = "DECLINED"
	TransactionError    TransactionStatus = "ERROR"
)

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryCancelled DeliveryStatus = "CANCELLED"
)

type Product struct {
	ID          string `gorm:"primaryKey;size:36;not null"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	Price       int64  `gorm:"not null"` // COP, whole pesos
	Stock       int    `gorm:"not null"`
	ImageURL    string `gorm:"size:512"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Product) HasStock(quantity int) bool {
	return p.Stock >= quantity
}

type Customer struct {
	ID        string `gorm:"primaryKey;size:36;not null"`
	Name      string `gorm:"size:255;not null"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	Phone     string `gorm:"size:32"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Transaction struct {
	ID                 string            `gorm:"primaryKey;size:36;not null"`
	TransactionNumber  string            `gorm:"size:64;uniqueIndex;not null"`
	CustomerID         string            `gorm:"size:36;index;not null"`
	ProductID          string            `gorm:"size:36;index;not null"`
	Quantity           int               `gorm:"not null"`
	ProductAmount      int64             `gorm:"not null"`
	BaseFee            int64             `gorm:"not null"`
	DeliveryFee        int64             `gorm:"not null"`
	TotalAmount        int64             `gorm:"not null"`
	Status             TransactionStatus `gorm:"size:16;index;not null"`
	WompiTransactionID string            `gorm:"size:64;index"`
	WompiReference     string            `gorm:"size:128"`
	PaymentMethod      string            `gorm:"size:32"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// CanBeProcessed reports whether a payment attempt is still allowed.
// PENDING is the only non-terminal status.
func (t *Transaction) CanBeProcessed() bool {
	return t.Status == TransactionPending
}

func (t *Transaction) ApplyGatewayResult(status TransactionStatus, wompiID, reference, paymentMethod string) {
	t.Status = status
	if wompiID != "" {
		t.WompiTransactionID = wompiID
	}
	t.WompiReference = reference
	t.PaymentMethod = paymentMethod
}

type Delivery struct {
	ID             string         `gorm:"primaryKey;size:36;not null"`
	TransactionID  string         `gorm:"size:36;uniqueIndex;not null"`
	Address        string         `gorm:"size:255;not null"`
	City           string         `gorm:"size:128;not null"`
	Department     string         `gorm:"size:128"`
	PostalCode     string         `gorm:"size:16"`
	DeliveryStatus DeliveryStatus `gorm:"size:16;not null"`
	DeliveryNotes  string         `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (d *Delivery) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
