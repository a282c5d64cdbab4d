package handler

import (
	"net/http"

	"wompi-checkout-api/internal/apperr"
	"wompi-checkout-api/internal/dto"
	"wompi-checkout-api/internal/service"

	"github.com/labstack/echo/v4"
)

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	customer, created, err := h.customerService.Create(ctx, &req)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	return c.JSON(status, map[string]interface{}{"data": customer})
}

func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	customer, err := h.customerService.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"data": customer})
}
