package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanBeProcessed(t *testing.T) {
	tx := &Transaction{Status: TransactionPending}
	assert.True(t, tx.CanBeProcessed())

	for _, status := range []TransactionStatus{TransactionApproved, TransactionDeclined, TransactionError} {
		tx.Status = status
		assert.False(t, tx.CanBeProcessed(), "status %s must be terminal", status)
	}
}

func TestHasStock(t *testing.T) {
	p := &Product{Stock: 15}

	assert.True(t, p.HasStock(1))
	assert.True(t, p.HasStock(15))
	assert.False(t, p.HasStock(16))
	assert.False(t, p.HasStock(20))
}

func TestApplyGatewayResult(t *testing.T) {
	tx := &Transaction{Status: TransactionPending}

	tx.ApplyGatewayResult(TransactionApproved, "wompi-123", "TXN-1-abcd-99", "CARD")

	assert.Equal(t, TransactionApproved, tx.Status)
	assert.Equal(t, "wompi-123", tx.WompiTransactionID)
	assert.Equal(t, "TXN-1-abcd-99", tx.WompiReference)
	assert.Equal(t, "CARD", tx.PaymentMethod)
}

func TestApplyGatewayResultKeepsExistingWompiID(t *testing.T) {
	tx := &Transaction{Status: TransactionPending, WompiTransactionID: "wompi-123"}

	tx.ApplyGatewayResult(TransactionDeclined, "", "ref", "CARD")

	assert.Equal(t, "wompi-123", tx.WompiTransactionID)
	assert.Equal(t, TransactionDeclined, tx.Status)
}
