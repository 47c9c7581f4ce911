package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/orgportal-gateway/internal/models"
	"github.com/noah-isme/orgportal-gateway/internal/repository"
	"github.com/noah-isme/orgportal-gateway/internal/service"
	appErrors "github.com/noah-isme/orgportal-gateway/pkg/errors"
	"github.com/noah-isme/orgportal-gateway/pkg/response"
)

// AuditHandler exposes the gateway-kept action trail.
type AuditHandler struct {
	audits *service.AuditService
}

// NewAuditHandler constructs the audit handler.
func NewAuditHandler(audits *service.AuditService) *AuditHandler {
	return &AuditHandler{audits: audits}
}

// List godoc
// @Summary List relayed actions
// @Description The action trail the gateway keeps for mutations relayed to the legacy portal
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param panel query string false "Panel name"
// @Param action query string false "Action name"
// @Param outcome query string false "success or failure"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /audits [get]
func (h *AuditHandler) List(c *gin.Context) {
	if h.audits == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "audit trail is disabled"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
	if page < 1 {
		page = 1
	}

	filter := repository.AuditFilter{
		Panel:   c.Query("panel"),
		Action:  c.Query("action"),
		Outcome: c.Query("outcome"),
		Limit:   perPage,
		Offset:  (page - 1) * perPage,
	}

	audits, total, err := h.audits.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, audits, models.NewPagination(page, perPage, total))
}
