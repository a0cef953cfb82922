package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-purchase-orderflow/internal/envelope"
	"github.com/imrishuroy/go-purchase-orderflow/internal/idempotency"
	"github.com/imrishuroy/go-purchase-orderflow/internal/observability"
	"github.com/imrishuroy/go-purchase-orderflow/internal/validation"
)

// IdempotencyKeyHeader lets clients retry POST /orders without paying twice.
const IdempotencyKeyHeader = "Idempotency-Key"

const jsonContentType = "application/json; charset=utf-8"

func (h *api) placeOrder(c *gin.Context) {
	ctx := c.Request.Context()
	log := observability.FromContext(ctx)

	// Bind + validate request
	var req validation.PlaceOrderRequest
	if err := validation.BindAndValidate(c, &req, h.Validator); err != nil {
		// BindAndValidate already wrote a 400
		return
	}

	idempKey := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if h.Idempotency == nil {
		idempKey = ""
	}
	if idempKey != "" {
		if proceed := h.claimIdempotencyKey(c, idempKey, requestHash(req)); !proceed {
			return
		}
	}

	// idempotency writes must outlive a cancelled request
	bookkeepingCtx := context.WithoutCancel(ctx)

	res, err := h.Orders.PayOrder(ctx, req.PaymentMethod, req.PaymentValue, req.CustomerID)
	if err != nil {
		// settlement may have happened; let the client retry with the same key
		if idempKey != "" {
			h.markFailed(bookkeepingCtx, idempKey, fmt.Sprintf("pay_order_failed: %v", err))
		}
		writeError(c, err)
		return
	}

	status := http.StatusCreated
	if !res.Success {
		status = http.StatusBadRequest
	}
	body, err := json.Marshal(orderResult(res))
	if err != nil {
		writeError(c, fmt.Errorf("encode order response: %w", err))
		return
	}

	var orderID int64
	if res.Data != nil {
		orderID = res.Data.ID
		c.Header("Location", fmt.Sprintf("/orders/%d", orderID))
	}
	// declines and unsupported methods are replayed like a success
	if idempKey != "" {
		if res.Retryable {
			h.markFailed(bookkeepingCtx, idempKey, "settlement_error: "+res.Message)
		} else if err := h.Idempotency.MarkDone(bookkeepingCtx, idempKey, orderID, string(body), status); err != nil {
			log.Warn("mark idempotency done", zap.String("idempotency_key", idempKey), zap.Error(err))
		}
	}
	c.Data(status, jsonContentType, body)
}

func (h *api) markFailed(ctx context.Context, key, note string) {
	if err := h.Idempotency.MarkFailed(ctx, key, note); err != nil {
		observability.FromContext(ctx).Warn("mark idempotency failed", zap.String("idempotency_key", key), zap.Error(err))
	}
}

// claimIdempotencyKey reserves key for this request. When it returns false the
// response has already been written.
func (h *api) claimIdempotencyKey(c *gin.Context, key, hash string) bool {
	ctx := c.Request.Context()

	created, err := h.Idempotency.CreateIfNotExists(ctx, key, hash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": err.Error()})
		return false
	}
	if created {
		return true
	}

	rec, err := h.Idempotency.Get(ctx, key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": err.Error()})
		return false
	}
	if rec == nil {
		// Unexpected: create lost the race but no record found
		c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_record_missing", "detail": key})
		return false
	}
	if rec.RequestHash != "" && rec.RequestHash != hash {
		c.JSON(http.StatusConflict, gin.H{"error": "idempotency_key_reused", "detail": "key was used with a different request"})
		return false
	}

	switch rec.Status {
	case idempotency.StatusDone:
		if rec.ResponseBody != "" {
			c.Data(rec.ResponseStatus, jsonContentType, []byte(rec.ResponseBody))
			return false
		}
		// if no response body stored, return the order id
		c.JSON(http.StatusOK, gin.H{"order_id": rec.OrderID})
		return false
	case idempotency.StatusInProgress:
		c.JSON(http.StatusAccepted, gin.H{"message": "request already in progress"})
		return false
	case idempotency.StatusFailed:
		reclaimed, err := h.Idempotency.Reclaim(ctx, key)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": err.Error()})
			return false
		}
		if !reclaimed {
			// another retry got there first
			c.JSON(http.StatusAccepted, gin.H{"message": "request already in progress"})
			return false
		}
		return true
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown_idempotency_status", "detail": rec.Status})
		return false
	}
}

func (h *api) getOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_order_id", "detail": err.Error()})
		return
	}
	order, err := h.Orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope.Ok(newOrderResponse(*order), ""))
}

// requestHash fingerprints the fields that decide the outcome of a placement.
func requestHash(req validation.PlaceOrderRequest) string {
	canonical := fmt.Sprintf("%s|%s|%d",
		strings.ToLower(strings.TrimSpace(req.PaymentMethod)),
		req.PaymentValue.String(),
		req.CustomerID,
	)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

