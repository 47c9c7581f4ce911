package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/orgportal-gateway/internal/dispatch"
	"github.com/noah-isme/orgportal-gateway/internal/middleware"
	"github.com/noah-isme/orgportal-gateway/internal/panel"
	"github.com/noah-isme/orgportal-gateway/internal/upstream"
	appErrors "github.com/noah-isme/orgportal-gateway/pkg/errors"
	"github.com/noah-isme/orgportal-gateway/pkg/response"
)

// PanelHandler exposes panel lifecycle, fragments and action dispatch.
type PanelHandler struct {
	host       *panel.Host
	dispatcher *dispatch.Dispatcher
}

// NewPanelHandler constructs the panel handler.
func NewPanelHandler(host *panel.Host, dispatcher *dispatch.Dispatcher) *PanelHandler {
	return &PanelHandler{host: host, dispatcher: dispatcher}
}

// Mount godoc
// @Summary Mount a panel
// @Description Start the poll loop for a panel; re-mounting triggers an immediate refresh
// @Tags Panels
// @Produce json
// @Param name path string true "Panel name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /panels/{name}/mount [post]
func (h *PanelHandler) Mount(c *gin.Context) {
	name := c.Param("name")
	if err := h.host.Mount(name); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"panel": name, "state": h.host.PanelState(name)}, nil)
}

// Unmount godoc
// @Summary Unmount a panel
// @Description Stop a panel's poll loop; no further upstream fetches happen afterwards
// @Tags Panels
// @Produce json
// @Param name path string true "Panel name"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /panels/{name}/mount [delete]
func (h *PanelHandler) Unmount(c *gin.Context) {
	name := c.Param("name")
	if err := h.host.Unmount(name); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"panel": name, "state": panel.StateUnmounted}, nil)
}

// Fragment godoc
// @Summary Fetch a panel fragment
// @Description Serve the last rendered HTML fragment for a mounted panel
// @Tags Panels
// @Produce html
// @Param name path string true "Panel name"
// @Param page query int false "Page number"
// @Param view query string false "Presentation mode (table or cards)"
// @Success 200 {string} string "HTML fragment"
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /panels/{name}/fragment [get]
func (h *PanelHandler) Fragment(c *gin.Context) {
	name := c.Param("name")

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid page"))
			return
		}
		if err := h.host.SetPage(c.Request.Context(), name, page); err != nil {
			response.Error(c, err)
			return
		}
	}

	if mode := c.Query("view"); mode != "" {
		if err := h.host.SetViewMode(c.Request.Context(), name, mode); err != nil {
			response.Error(c, err)
			return
		}
	}

	fragment, err := h.host.Fragment(name)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("X-Fragment-Seq", strconv.FormatUint(fragment.Seq, 10))
	response.HTML(c, http.StatusOK, fragment.HTML)
}

// State godoc
// @Summary Panel lifecycle state
// @Tags Panels
// @Produce json
// @Param name path string true "Panel name"
// @Success 200 {object} response.Envelope
// @Router /panels/{name}/state [get]
func (h *PanelHandler) State(c *gin.Context) {
	name := c.Param("name")
	response.JSON(c, http.StatusOK, gin.H{"panel": name, "state": h.host.PanelState(name)}, nil)
}

type actionRequest struct {
	Action   string            `json:"action" binding:"required"`
	TargetID string            `json:"target_id"`
	Targets  []string          `json:"targets"`
	Params   map[string]string `json:"params"`
}

// Dispatch godoc
// @Summary Dispatch a panel action
// @Description Relay a mutation to the legacy portal; with targets set, every target is attempted and partial success is reported
// @Tags Panels
// @Accept json
// @Produce json
// @Param name path string true "Panel name"
// @Param payload body handler.actionRequest true "Action payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /panels/{name}/actions [post]
func (h *PanelHandler) Dispatch(c *gin.Context) {
	name := c.Param("name")

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid action payload"))
		return
	}

	action := dispatch.Action{
		Name:     req.Action,
		Panel:    name,
		TargetID: req.TargetID,
		Params:   req.Params,
		Meta:     actionMeta(c),
	}

	if len(req.Targets) > 0 {
		result := h.dispatcher.Batch(c.Request.Context(), action, req.Targets)
		// Even a partial failure changed upstream state for the
		// succeeded targets, so the panel still re-fetches.
		if len(result.Succeeded) > 0 {
			h.kick(name)
		}
		response.JSON(c, http.StatusOK, result, nil)
		return
	}

	if action.TargetID == "" && req.Action != dispatch.ActionPaymentDue {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "target_id is required"))
		return
	}

	if err := h.dispatcher.Dispatch(c.Request.Context(), action); err != nil {
		response.Error(c, err)
		return
	}
	h.kick(name)
	response.JSON(c, http.StatusOK, gin.H{"action": req.Action, "target_id": req.TargetID}, nil)
}

// Replace godoc
// @Summary Replace a declined document
// @Description Relay a replacement upload for a declined accreditation document
// @Tags Panels
// @Accept multipart/form-data
// @Produce json
// @Param name path string true "Panel name"
// @Param id path int true "Document id"
// @Param file formData file true "Replacement file"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /panels/{name}/files/{id} [post]
func (h *PanelHandler) Replace(c *gin.Context) {
	name := c.Param("name")
	id := c.Param("id")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "a replacement file is required"))
		return
	}
	defer file.Close()

	action := dispatch.Action{
		Name:     dispatch.ActionReplaceFile,
		Panel:    name,
		TargetID: id,
		File: &upstream.FilePart{
			FieldName: "file",
			FileName:  header.Filename,
			Content:   file,
		},
		Meta: actionMeta(c),
	}
	if err := h.dispatcher.Dispatch(c.Request.Context(), action); err != nil {
		response.Error(c, err)
		return
	}
	h.kick(name)
	response.JSON(c, http.StatusOK, gin.H{"action": dispatch.ActionReplaceFile, "target_id": id}, nil)
}

// actionMeta collects request attribution for the audit trail.
func actionMeta(c *gin.Context) dispatch.Meta {
	meta := dispatch.Meta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if claims := middleware.CurrentUser(c); claims != nil {
		uid := claims.UserID
		meta.UserID = &uid
	}
	return meta
}

// kick forces an immediate refresh after a successful mutation. An
// unmounted panel simply picks the change up on its next mount.
func (h *PanelHandler) kick(name string) {
	_ = h.host.Kick(name)
}
