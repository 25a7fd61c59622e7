package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reparto-app/reparto-sales-service/internal/middleware"
	"github.com/reparto-app/reparto-sales-service/internal/models"
)

// ListQuotes handles GET /api/v1/quotes
func (h *Handlers) ListQuotes(c *gin.Context) {
	operator := middleware.CurrentOperator(c)

	quotes, err := h.quoteService.ListQuotes(c.Request.Context(), operator.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quotes": quotes,
		"count":  len(quotes),
	})
}

// SaveQuote handles POST /api/v1/quotes
func (h *Handlers) SaveQuote(c *gin.Context) {
	operator := middleware.CurrentOperator(c)

	var req models.SaveQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	quote, err := h.quoteService.SaveQuote(c.Request.Context(), operator.ID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quote)
}

// DeleteQuote handles DELETE /api/v1/quotes/:id
func (h *Handlers) DeleteQuote(c *gin.Context) {
	operator := middleware.CurrentOperator(c)

	if err := h.quoteService.DeleteQuote(c.Request.Context(), operator.ID, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PromoteQuote handles POST /api/v1/quotes/:id/promote
//
// The optional body sets the delivery date and window on the created order.
func (h *Handlers) PromoteQuote(c *gin.Context) {
	operator := middleware.CurrentOperator(c)

	var req models.CreateOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	order, err := h.orderService.PromoteQuote(c.Request.Context(), operator.ID, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}
