package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func TestPlaceOrderRequest_Valid(t *testing.T) {
	v := New()

	req := PlaceOrderRequest{
		PaymentMethod: "pix",
		PaymentValue:  decimal.RequireFromString("10.50"),
		CustomerID:    1,
	}

	if err := v.Struct(req); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestPlaceOrderRequest_NonPositiveValue(t *testing.T) {
	v := New()

	for _, value := range []string{"0", "-1", "-0.01"} {
		req := PlaceOrderRequest{
			PaymentMethod: "pix",
			PaymentValue:  decimal.RequireFromString(value),
			CustomerID:    1,
		}
		if err := v.Struct(req); err == nil {
			t.Fatalf("expected validation error for value %s, got nil", value)
		}
	}
}

func TestPlaceOrderRequest_ValueMustFitStoredPrecision(t *testing.T) {
	v := New()

	tests := []struct {
		value string
		tag   string
	}{
		{value: "10.005", tag: "max_scale"},
		{value: "0.001", tag: "max_scale"},
		{value: "10000000000", tag: "lte"},
		{value: "9999999999.991", tag: "max_scale"},
	}
	for _, tt := range tests {
		req := PlaceOrderRequest{
			PaymentMethod: "pix",
			PaymentValue:  decimal.RequireFromString(tt.value),
			CustomerID:    1,
		}
		err := v.Struct(req)
		if err == nil {
			t.Fatalf("expected validation error for value %s, got nil", tt.value)
		}
		if got := validationErrorsToMap(err)["payment_value"]; got != tt.tag {
			t.Fatalf("value %s: expected tag %q, got %q", tt.value, tt.tag, got)
		}
	}

	for _, value := range []string{"0.01", "10.500", "9999999999.99"} {
		req := PlaceOrderRequest{
			PaymentMethod: "pix",
			PaymentValue:  decimal.RequireFromString(value),
			CustomerID:    1,
		}
		if err := v.Struct(req); err != nil {
			t.Fatalf("expected %s to be valid, got %v", value, err)
		}
	}
}

func TestPlaceOrderRequest_MissingFields(t *testing.T) {
	v := New()

	req := PlaceOrderRequest{
		// PaymentMethod and CustomerID missing
		PaymentValue: decimal.NewFromInt(5),
	}

	err := v.Struct(req)
	if err == nil {
		t.Fatal("expected validation errors for missing required fields, got nil")
	}
	fields := validationErrorsToMap(err)
	if fields["PaymentMethod"] != "required" || fields["CustomerID"] != "required" {
		t.Fatalf("unexpected field errors: %v", fields)
	}
}

func TestCanPurchaseQuery(t *testing.T) {
	v := New()

	if err := v.Struct(CanPurchaseQuery{Value: "100.01"}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	if err := v.Struct(CanPurchaseQuery{Value: "-5"}); err != nil {
		t.Fatalf("sign is not checked here, got %v", err)
	}
	if err := v.Struct(CanPurchaseQuery{Value: "ten"}); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
	if err := v.Struct(CanPurchaseQuery{}); err == nil {
		t.Fatal("expected error for missing value")
	}

	d, err := CanPurchaseQuery{Value: "100.01"}.Decimal()
	if err != nil || !d.Equal(decimal.RequireFromString("100.01")) {
		t.Fatalf("unexpected decimal %s, err %v", d, err)
	}
}

func TestBindAndValidate_WritesBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := New()

	tests := []struct {
		name string
		body string
		code string
	}{
		{name: "malformed json", body: `{"payment_method":`, code: "invalid_request_body"},
		{name: "invalid fields", body: `{"payment_method":"pix","payment_value":"0","customer_id":1}`, code: "validation_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req PlaceOrderRequest
			if err := BindAndValidate(c, &req, v); err == nil {
				t.Fatal("expected error")
			}
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.code) {
				t.Fatalf("expected %s in body, got %s", tt.code, w.Body.String())
			}
		})
	}
}

func TestBindAndValidate_AcceptsNumericAndStringValues(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := New()

	for _, body := range []string{
		`{"payment_method":"pix","payment_value":12.34,"customer_id":2}`,
		`{"payment_method":"pix","payment_value":"12.34","customer_id":2}`,
	} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		var req PlaceOrderRequest
		if err := BindAndValidate(c, &req, v); err != nil {
			t.Fatalf("unexpected error for %s: %v", body, err)
		}
		if !req.PaymentValue.Equal(decimal.RequireFromString("12.34")) || req.CustomerID != 2 {
			t.Fatalf("unexpected request: %+v", req)
		}
	}
}

func TestBindQueryAndValidate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/products?page=3&page_size=25", nil)
	var q PageQuery
	if err := BindQueryAndValidate(c, &q, v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Page != 3 || q.PageSize != 25 {
		t.Fatalf("unexpected query: %+v", q)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/products?page=abc", nil)
	if err := BindQueryAndValidate(c, &q, v); err == nil {
		t.Fatal("expected error for non-integer page")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
