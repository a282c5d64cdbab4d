package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wompi-checkout-api/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWompiConfig(baseURL string) *config.Wompi {
	return &config.Wompi{
		BaseApiURL:    baseURL,
		PublicKey:     "pub_test_key",
		PrivateKey:    "prv_test_key",
		IntegrityKey:  "test_integrity_key",
		EventsKey:     "test_events_key",
		FallbackPhone: "+573000000000",
	}
}

func TestIntegritySignature(t *testing.T) {
	c := NewWompiClient(testWompiConfig("http://unused"))

	// sha256("TXN-ref-1" + "450700000" + "COP" + "test_integrity_key")
	got := c.IntegritySignature("TXN-ref-1", 450700000, "COP")
	assert.Equal(t, "53ac4eb8d10a975aa65a7aa02e93747cdca19e4e605fc80f77e7a3433bf05dc7", got)
}

func TestVerifyWebhookSignature(t *testing.T) {
	c := NewWompiClient(testWompiConfig("http://unused"))

	data := []byte(`{"transaction":{"id":"wompi-1","status":"APPROVED","reference":"ref-1"}}`)
	checksum := "ab1b201536582eeccb7063e640221db309ba0c4d564fd9911932551a3eb9eb88"

	assert.True(t, c.VerifyWebhookSignature(data, checksum))
	// case-insensitive checksum
	assert.True(t, c.VerifyWebhookSignature(data, "AB1B201536582EECCB7063E640221DB309BA0C4D564FD9911932551A3EB9EB88"))

	assert.False(t, c.VerifyWebhookSignature(data, "deadbeef"))
	assert.False(t, c.VerifyWebhookSignature([]byte(`{"tampered":true}`), checksum))
}

func TestCreateTransaction(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transactions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{
			"id":"wompi-abc-123",
			"status":"APPROVED",
			"reference":"TXN-ref-1",
			"amount_in_cents":450700000,
			"currency":"COP",
			"created_at":"2024-01-01T00:00:00Z",
			"payment_method":{"type":"CARD"}
		}}`))
	}))
	defer srv.Close()

	c := NewWompiClient(testWompiConfig(srv.URL))

	tx, err := c.CreateTransaction(context.Background(), &WompiTransactionRequest{
		AmountInCents: 450700000,
		Currency:      "COP",
		CustomerEmail: "buyer@example.com",
		PaymentMethod: PaymentMethod{Type: "CARD", Token: "tok_test", Installments: 1},
		Reference:     "TXN-ref-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "wompi-abc-123", tx.ID)
	assert.Equal(t, "APPROVED", tx.Status)
	assert.Equal(t, "CARD", tx.PaymentMethodType)
	assert.Equal(t, int64(450700000), tx.AmountInCents)

	assert.Equal(t, "Bearer prv_test_key", gotAuth)
	// signature is filled in before sending
	assert.Equal(t,
		"53ac4eb8d10a975aa65a7aa02e93747cdca19e4e605fc80f77e7a3433bf05dc7",
		gotBody["signature"])
}

func TestCreateTransactionValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{
			"type":"INPUT_VALIDATION_ERROR",
			"messages":{"reference":["La referencia ya ha sido usada"]}
		}}`))
	}))
	defer srv.Close()

	c := NewWompiClient(testWompiConfig(srv.URL))

	_, err := c.CreateTransaction(context.Background(), &WompiTransactionRequest{
		Reference: "TXN-ref-1",
		Currency:  "COP",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INPUT_VALIDATION_ERROR")
	assert.Contains(t, err.Error(), "reference")
}

func TestGetTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transactions/wompi-abc-123", r.URL.Path)
		require.Equal(t, "Bearer prv_test_key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{
			"id":"wompi-abc-123",
			"status":"DECLINED",
			"reference":"TXN-ref-1",
			"payment_method":{"type":"CARD"}
		}}`))
	}))
	defer srv.Close()

	c := NewWompiClient(testWompiConfig(srv.URL))

	tx, err := c.GetTransaction(context.Background(), "wompi-abc-123")
	require.NoError(t, err)
	assert.Equal(t, "DECLINED", tx.Status)
}

func TestTokenizeCard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tokens/cards", r.URL.Path)
		// tokenization authenticates with the public key
		require.Equal(t, "Bearer pub_test_key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{
			"id":"tok_test_12345",
			"brand":"VISA",
			"last_four":"4242",
			"exp_month":"12",
			"exp_year":"29"
		}}`))
	}))
	defer srv.Close()

	c := NewWompiClient(testWompiConfig(srv.URL))

	token, err := c.TokenizeCard(context.Background(), &CardData{
		Number: "4242424242424242", CVC: "123", ExpMonth: "12", ExpYear: "29", CardHolder: "TEST USER",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok_test_12345", token.ID)
	assert.Equal(t, "VISA", token.Brand)
	assert.Equal(t, "4242", token.LastFour)
}

func TestGetAcceptanceToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/merchants/pub_test_key", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"presigned_acceptance":{"acceptance_token":"eyJhbGciOi.accept"}}}`))
	}))
	defer srv.Close()

	c := NewWompiClient(testWompiConfig(srv.URL))

	token, err := c.GetAcceptanceToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOi.accept", token)
}
