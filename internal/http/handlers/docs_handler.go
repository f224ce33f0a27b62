package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rentalweb/internal/http/middleware"
)

// GET /api/wizards/:id/voucher returns the booking voucher (inline).
func (h Handlers) GetVoucherPDF(c *gin.Context) {
	pdfBytes, filename, err := h.docs(c).GenerateVoucher(c.Request.Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
