package handler

import (
	"io"
	"net/http"

	"wompi-checkout-api/internal/apperr"
	"wompi-checkout-api/internal/client"
	"wompi-checkout-api/internal/dto"
	"wompi-checkout-api/internal/service"

	"github.com/labstack/echo/v4"
)

// PaymentHandler exposes the gateway-facing helpers the checkout wizard
// needs: card tokenization, merchant acceptance token and the webhook.
type PaymentHandler struct {
	wompiClient     client.WompiClient
	checkoutService service.CheckoutService
	publicKey       string
}

func NewPaymentHandler(wompiClient client.WompiClient, checkoutService service.CheckoutService, publicKey string) *PaymentHandler {
	return &PaymentHandler{
		wompiClient:     wompiClient,
		checkoutService: checkoutService,
		publicKey:       publicKey,
	}
}

func (h *PaymentHandler) TokenizeCard(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.TokenizeCardRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	token, err := h.wompiClient.TokenizeCard(ctx, &client.CardData{
		Number:     req.Number,
		CVC:        req.CVC,
		ExpMonth:   req.ExpMonth,
		ExpYear:    req.ExpYear,
		CardHolder: req.CardHolder,
	})
	if err != nil {
		return apperr.Gateway(err, "card tokenization failed")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"data": dto.TokenizeCardResponse{
		Token:    token.ID,
		Brand:    token.Brand,
		LastFour: token.LastFour,
	}})
}

func (h *PaymentHandler) GetPaymentConfig(c echo.Context) error {
	ctx := c.Request().Context()

	acceptanceToken, err := h.wompiClient.GetAcceptanceToken(ctx)
	if err != nil {
		return apperr.Gateway(err, "fetch acceptance token failed")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"data": dto.PaymentConfigResponse{
		PublicKey:       h.publicKey,
		AcceptanceToken: acceptanceToken,
		Currency:        "COP",
	}})
}

func (h *PaymentHandler) WompiWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	if err := h.checkoutService.HandleWebhook(ctx, body); err != nil {
		return err
	}

	return c.NoContent(http.StatusOK)
}
