package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *api) random(c *gin.Context) {
	n, err := h.Random.GetRandom(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"number": n})
}
