package server

import (
	"net/http"

	"wompi-checkout-api/internal/apperr"
	"wompi-checkout-api/internal/client"
	"wompi-checkout-api/internal/handler"
	"wompi-checkout-api/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// kindStatus is the single place error kinds turn into HTTP status codes.
var kindStatus = map[apperr.Kind]int{
	apperr.KindNotFound:          http.StatusNotFound,
	apperr.KindInsufficientStock: http.StatusConflict,
	apperr.KindInvalidState:      http.StatusConflict,
	apperr.KindValidation:        http.StatusBadRequest,
	apperr.KindGateway:           http.StatusBadGateway,
}

type Server struct {
	echo               *echo.Echo
	customerHandler    *handler.CustomerHandler
	productHandler     *handler.ProductHandler
	transactionHandler *handler.TransactionHandler
	paymentHandler     *handler.PaymentHandler
}

func NewServer(
	customerService service.CustomerService,
	productService service.ProductService,
	checkoutService service.CheckoutService,
	wompiClient client.WompiClient,
	wompiPublicKey string,
	logger *zap.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(metricsMiddleware())

	s := &Server{
		echo:               e,
		customerHandler:    handler.NewCustomerHandler(customerService),
		productHandler:     handler.NewProductHandler(productService),
		transactionHandler: handler.NewTransactionHandler(checkoutService),
		paymentHandler:     handler.NewPaymentHandler(wompiClient, checkoutService, wompiPublicKey),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api.POST("/customers", s.customerHandler.CreateCustomer)
	api.GET("/customers/:id", s.customerHandler.GetCustomer)

	api.GET("/products", s.productHandler.ListProducts)
	api.GET("/products/:id", s.productHandler.GetProduct)

	api.POST("/transactions", s.transactionHandler.CreateTransaction)
	api.GET("/transactions", s.transactionHandler.ListTransactions)
	api.GET("/transactions/:id", s.transactionHandler.GetTransaction)
	api.POST("/transactions/:id/payment", s.transactionHandler.ProcessPayment)

	api.POST("/tokens/cards", s.paymentHandler.TokenizeCard)
	api.GET("/payment-config", s.paymentHandler.GetPaymentConfig)

	api.POST("/webhooks/wompi", s.paymentHandler.WompiWebhook)
}

func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		if kind := apperr.KindOf(err); kind != apperr.KindUnknown {
			if mapped, ok := kindStatus[kind]; ok {
				status = mapped
			}
			message = err.Error()
		} else if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			}
		}

		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
			)
		}

		_ = c.JSON(status, map[string]string{"error": message})
	}
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
