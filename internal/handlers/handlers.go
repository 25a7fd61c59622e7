package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reparto-app/reparto-sales-service/internal/auth"
	"github.com/reparto-app/reparto-sales-service/internal/config"
	"github.com/reparto-app/reparto-sales-service/internal/errs"
	"github.com/reparto-app/reparto-sales-service/internal/logging"
	"github.com/reparto-app/reparto-sales-service/internal/service"
)

// Handlers holds all HTTP handlers for the sales service.
type Handlers struct {
	customerService *service.CustomerService
	productService  *service.ProductService
	orderService    *service.OrderService
	quoteService    *service.QuoteService
	salesService    *service.SalesService
	authService     *service.AuthService
	config          *config.Config
	logger          *slog.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(
	customerService *service.CustomerService,
	productService *service.ProductService,
	orderService *service.OrderService,
	quoteService *service.QuoteService,
	salesService *service.SalesService,
	authService *service.AuthService,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		customerService: customerService,
		productService:  productService,
		orderService:    orderService,
		quoteService:    quoteService,
		salesService:    salesService,
		authService:     authService,
		config:          cfg,
		logger:          logging.Component("handlers"),
	}
}

func handleError(c *gin.Context, err error) {
	if errors.Is(err, errs.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if errors.Is(err, errs.ErrAlreadyExists) {
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
		return
	}

	if errors.Is(err, errs.ErrNoPayment) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no payment provided"})
		return
	}

	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	var validationErr *errs.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
		return
	}

	var opErr *errs.RemoteOperationError
	if errors.As(err, &opErr) {
		// The write sequence is not transactional; report how far it got so
		// the caller can reconcile manually.
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "operation failed partway",
			"op":    opErr.Op,
			"step":  opErr.Step,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
