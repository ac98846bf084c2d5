package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/showcase-judging/internal/models"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// certificate выдаётся для одобренных продуктов; админ может получить его для любого.
func (h *handler) certificate(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, ok := h.visibleProduct(c, id)
	if !ok {
		return
	}
	if _, role := viewer(c); p.Status != models.StatusApproved && role != models.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "certificate is available for approved products only"})
		return
	}
	data, name, err := h.Certificates.Generate(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "certificate", err)
		return
	}
	attachment(c, contentTypePDF, name, data)
}

func (h *handler) judgingExport(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	data, name, err := h.Exports.Export(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "judging export", err)
		return
	}
	attachment(c, contentTypeXLSX, name, data)
}

func (h *handler) judgingExportToTelegram(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	data, name, err := h.Exports.Export(ctx, id)
	if err != nil {
		h.fail(c, "judging export", err)
		return
	}
	if err := h.Notify.SendDocumentToAdmins(ctx, name, data, "Judging report"); err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "delivery failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": name})
}
