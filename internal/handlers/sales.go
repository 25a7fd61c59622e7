package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reparto-app/reparto-sales-service/internal/models"
)

// ListSales handles GET /api/v1/sales
//
// Optional from/to query parameters (YYYY-MM-DD) bound the report period;
// with neither set the report covers the current day. The from date starts
// at midnight, the to date runs through its last second.
func (h *Handlers) ListSales(c *gin.Context) {
	filter := &models.SalesFilter{}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		filter.From = from
	}

	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		filter.To = to.Add(24*time.Hour - time.Second)
	}

	rows, summary, err := h.salesService.ListSales(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sales":   rows,
		"summary": summary,
	})
}
