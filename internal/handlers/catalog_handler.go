package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-purchase-orderflow/internal/validation"
)

func (h *api) listProducts(c *gin.Context) {
	var q validation.PageQuery
	if err := validation.BindQueryAndValidate(c, &q, h.Validator); err != nil {
		return
	}
	page, err := h.Catalog.ListProducts(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *api) listCustomers(c *gin.Context) {
	var q validation.PageQuery
	if err := validation.BindQueryAndValidate(c, &q, h.Validator); err != nil {
		return
	}
	page, err := h.Catalog.ListCustomers(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
