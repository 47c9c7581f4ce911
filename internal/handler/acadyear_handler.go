package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/orgportal-gateway/internal/acadyear"
	"github.com/noah-isme/orgportal-gateway/internal/models"
	appErrors "github.com/noah-isme/orgportal-gateway/pkg/errors"
	"github.com/noah-isme/orgportal-gateway/pkg/response"
)

type panelKicker interface {
	Kick(name string) error
}

// AcadYearHandler exposes the shared academic-year filter state.
type AcadYearHandler struct {
	resolver *acadyear.Resolver
	kicker   panelKicker
	scoped   []string
}

// NewAcadYearHandler constructs the handler. scoped names the panels
// whose fetches carry the academic-year filter; they are kicked
// whenever a selector changes so the new scope applies immediately
// instead of at the next poll tick.
func NewAcadYearHandler(resolver *acadyear.Resolver, kicker panelKicker, scoped ...string) *AcadYearHandler {
	return &AcadYearHandler{resolver: resolver, kicker: kicker, scoped: scoped}
}

// rescope re-fetches every scoped panel. Unmounted panels pick the
// change up on their next mount.
func (h *AcadYearHandler) rescope() {
	if h.kicker == nil {
		return
	}
	for _, name := range h.scoped {
		_ = h.kicker.Kick(name)
	}
}

// Context godoc
// @Summary Current academic-year scope
// @Description The selected range, year and semester every record fetch is scoped to
// @Tags AcademicYears
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /acadyear/context [get]
func (h *AcadYearHandler) Context(c *gin.Context) {
	scope := h.resolver.Current()
	response.JSON(c, http.StatusOK, gin.H{
		"scope":      scope,
		"label":      scope.Label(),
		"semesters":  h.resolver.SemesterOptions(),
		"generation": h.resolver.Generation(),
	}, nil)
}

// Years godoc
// @Summary List school-year ranges
// @Tags AcademicYears
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /acadyear/years [get]
func (h *AcadYearHandler) Years(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.resolver.Years(), nil)
}

// Reload godoc
// @Summary Re-fetch year data from the legacy portal
// @Tags AcademicYears
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /acadyear/reload [post]
func (h *AcadYearHandler) Reload(c *gin.Context) {
	if err := h.resolver.Load(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	h.rescope()
	h.Context(c)
}

type selectRangeRequest struct {
	StartYear int `json:"start_year" binding:"required"`
	EndYear   int `json:"end_year" binding:"required"`
}

// SelectRange godoc
// @Summary Switch the school-year range
// @Description Changes the range, resets the semester to the start year and bumps the scope generation
// @Tags AcademicYears
// @Accept json
// @Produce json
// @Param payload body handler.selectRangeRequest true "Range payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /acadyear/range [post]
func (h *AcadYearHandler) SelectRange(c *gin.Context) {
	var req selectRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid range payload"))
		return
	}
	if err := h.resolver.SelectRange(req.StartYear, req.EndYear); err != nil {
		response.Error(c, err)
		return
	}
	h.rescope()
	h.Context(c)
}

type selectSemesterRequest struct {
	Semester models.Semester `json:"semester" binding:"required"`
}

// SelectSemester godoc
// @Summary Switch the open semester
// @Tags AcademicYears
// @Accept json
// @Produce json
// @Param payload body handler.selectSemesterRequest true "Semester payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /acadyear/semester [post]
func (h *AcadYearHandler) SelectSemester(c *gin.Context) {
	var req selectSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester payload"))
		return
	}
	if err := h.resolver.SelectSemester(req.Semester); err != nil {
		response.Error(c, err)
		return
	}
	h.rescope()
	h.Context(c)
}
