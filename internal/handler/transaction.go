package handler

import (
	"net/http"

	"wompi-checkout-api/internal/apperr"
	"wompi-checkout-api/internal/dto"
	"wompi-checkout-api/internal/service"

	"github.com/labstack/echo/v4"
)

type TransactionHandler struct {
	checkoutService service.CheckoutService
}

func NewTransactionHandler(checkoutService service.CheckoutService) *TransactionHandler {
	return &TransactionHandler{
		checkoutService: checkoutService,
	}
}

func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	transaction, err := h.checkoutService.CreateTransaction(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"data": transaction})
}

func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	ctx := c.Request().Context()

	transaction, err := h.checkoutService.GetTransaction(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"data": transaction})
}

func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	ctx := c.Request().Context()

	transactions, err := h.checkoutService.ListTransactions(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"data": transactions})
}

// ProcessPayment returns 200 for APPROVED, DECLINED and ERROR alike; the
// status field in the body carries the gateway outcome.
func (h *TransactionHandler) ProcessPayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProcessPaymentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	transaction, err := h.checkoutService.ProcessPayment(ctx, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"data": transaction})
}
