package client

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wompi-checkout-api/internal/config"
)

// WompiClient is the boundary to the Wompi payment gateway. It is not a
// gateway implementation: tokenization and charging happen remotely.
type WompiClient interface {
	CreateTransaction(ctx context.Context, req *WompiTransactionRequest) (*WompiTransaction, error)
	GetTransaction(ctx context.Context, wompiTransactionID string) (*WompiTransaction, error)
	TokenizeCard(ctx context.Context, card *CardData) (*CardToken, error)
	GetAcceptanceToken(ctx context.Context) (string, error)
	VerifyWebhookSignature(data []byte, checksum string) bool
	IntegritySignature(reference string, amountInCents int64, currency string) string
}

type PaymentMethod struct {
	Type         string `json:"type"`
	Token        string `json:"token"`
	Installments int    `json:"installments"`
}

type CustomerData struct {
	PhoneNumber string `json:"phone_number"`
	FullName    string `json:"full_name"`
}

type WompiTransactionRequest struct {
	AmountInCents   int64         `json:"amount_in_cents"`
	Currency        string        `json:"currency"`
	CustomerEmail   string        `json:"customer_email"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	Reference       string        `json:"reference"`
	AcceptanceToken string        `json:"acceptance_token,omitempty"`
	CustomerData    *CustomerData `json:"customer_data,omitempty"`
	Signature       string        `json:"signature"`
}

type WompiTransaction struct {
	ID                string
	Status            string
	Reference         string
	AmountInCents     int64
	Currency          string
	PaymentMethodType string
	CreatedAt         string
}

type CardData struct {
	Number     string `json:"number"`
	CVC        string `json:"cvc"`
	ExpMonth   string `json:"exp_month"`
	ExpYear    string `json:"exp_year"`
	CardHolder string `json:"card_holder"`
}

type CardToken struct {
	ID       string `json:"id"`
	Brand    string `json:"brand"`
	LastFour string `json:"last_four"`
	ExpMonth string `json:"exp_month"`
	ExpYear  string `json:"exp_year"`
}

type wompiTransactionData struct {
	ID            string `json:"id"`
	CreatedAt     string `json:"created_at"`
	AmountInCents int64  `json:"amount_in_cents"`
	Reference     string `json:"reference"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	PaymentMethod struct {
		Type string `json:"type"`
	} `json:"payment_method"`
}

type wompiTransactionResponse struct {
	Data wompiTransactionData `json:"data"`
}

type wompiErrorResponse struct {
	Error struct {
		Type     string              `json:"type"`
		Reason   string              `json:"reason"`
		Messages map[string][]string `json:"messages"`
	} `json:"error"`
}

type wompiClientImpl struct {
	httpClient   *http.Client
	baseApiURL   string
	publicKey    string
	privateKey   string
	integrityKey string
	eventsKey    string
}

func NewWompiClient(wompiCfg *config.Wompi) WompiClient {
	return &wompiClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:   wompiCfg.BaseApiURL,
		publicKey:    wompiCfg.PublicKey,
		privateKey:   wompiCfg.PrivateKey,
		integrityKey: wompiCfg.IntegrityKey,
		eventsKey:    wompiCfg.EventsKey,
	}
}

// IntegritySignature builds the Wompi integrity signature:
// sha256(reference + amount_in_cents + currency + integrity_secret), hex.
func (c *wompiClientImpl) IntegritySignature(reference string, amountInCents int64, currency string) string {
	payload := fmt.Sprintf("%s%d%s%s", reference, amountInCents, currency, c.integrityKey)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func (c *wompiClientImpl) CreateTransaction(ctx context.Context, txReq *WompiTransactionRequest) (*WompiTransaction, error) {
	txReq.Signature = c.IntegritySignature(txReq.Reference, txReq.AmountInCents, txReq.Currency)

	body, err := json.Marshal(txReq)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/transactions", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.privateKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wompi create transaction request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeWompiError(resp)
	}

	var result wompiTransactionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode wompi response: %w", err)
	}

	return fromWire(&result.Data), nil
}

func (c *wompiClientImpl) GetTransaction(ctx context.Context, wompiTransactionID string) (*WompiTransaction, error) {
	url := fmt.Sprintf("%s/transactions/%s", c.baseApiURL, wompiTransactionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.privateKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wompi get transaction request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeWompiError(resp)
	}

	var result wompiTransactionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode wompi response: %w", err)
	}

	return fromWire(&result.Data), nil
}

// TokenizeCard exchanges raw card data for a one-time token. Uses the public
// key: this is the same call the checkout wizard makes from the browser.
func (c *wompiClientImpl) TokenizeCard(ctx context.Context, card *CardData) (*CardToken, error) {
	body, err := json.Marshal(card)
	if err != nil {
		return nil, fmt.Errorf("marshal card data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/tokens/cards", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.publicKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wompi tokenize request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeWompiError(resp)
	}

	var result struct {
		Data CardToken `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode wompi response: %w", err)
	}

	return &result.Data, nil
}

func (c *wompiClientImpl) GetAcceptanceToken(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/merchants/%s", c.baseApiURL, c.publicKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("wompi merchant request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeWompiError(resp)
	}

	var result struct {
		Data struct {
			PresignedAcceptance struct {
				AcceptanceToken string `json:"acceptance_token"`
			} `json:"presigned_acceptance"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode wompi response: %w", err)
	}

	return result.Data.PresignedAcceptance.AcceptanceToken, nil
}

// VerifyWebhookSignature checks the event checksum: HMAC-SHA256 of the raw
// data payload with the events secret, compared in constant time.
func (c *wompiClientImpl) VerifyWebhookSignature(data []byte, checksum string) bool {
	mac := hmac.New(sha256.New, []byte(c.eventsKey))
	mac.Write(data)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(checksum)))
}

func fromWire(data *wompiTransactionData) *WompiTransaction {
	return &WompiTransaction{
		ID:                data.ID,
		Status:            data.Status,
		Reference:         data.Reference,
		AmountInCents:     data.AmountInCents,
		Currency:          data.Currency,
		PaymentMethodType: data.PaymentMethod.Type,
		CreatedAt:         data.CreatedAt,
	}
}

func decodeWompiError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var wompiErr wompiErrorResponse
	if err := json.Unmarshal(body, &wompiErr); err == nil && wompiErr.Error.Type != "" {
		msg := wompiErr.Error.Reason
		if len(wompiErr.Error.Messages) > 0 {
			parts := make([]string, 0, len(wompiErr.Error.Messages))
			for field, msgs := range wompiErr.Error.Messages {
				parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, ", ")))
			}
			msg = strings.Join(parts, "; ")
		}
		return fmt.Errorf("wompi error [%s]: %s", wompiErr.Error.Type, msg)
	}

	return fmt.Errorf("wompi error %d: %s", resp.StatusCode, string(body))
}
