package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-purchase-orderflow/internal/validation"
)

// canPurchase answers 200 with the decision for both approvals and business
// denials. Only contract violations and unknown customers are errors.
func (h *api) canPurchase(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_customer_id", "detail": err.Error()})
		return
	}
	var q validation.CanPurchaseQuery
	if err := validation.BindQueryAndValidate(c, &q, h.Validator); err != nil {
		return
	}
	value, err := q.Decimal()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_value", "detail": err.Error()})
		return
	}

	ok, err := h.Eligibility.CanPurchase(c.Request.Context(), customerID, value)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"can_purchase": ok})
}
