package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/orgportal-gateway/internal/middleware"
	"github.com/noah-isme/orgportal-gateway/internal/models"
	"github.com/noah-isme/orgportal-gateway/internal/service"
	"github.com/noah-isme/orgportal-gateway/internal/upstream"
	appErrors "github.com/noah-isme/orgportal-gateway/pkg/errors"
	"github.com/noah-isme/orgportal-gateway/pkg/response"
)

const rememberCookie = "portal_remember"

// SessionHandler exposes login, registration and profile endpoints.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler constructs the session handler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Login godoc
// @Summary Authenticate against the legacy portal
// @Description Relay credentials upstream and issue a gateway session token
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /session/login [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload"))
		return
	}

	result, err := h.sessions.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if req.Remember {
		sealed, err := h.sessions.SealRemember(models.RememberedCredentials{
			Username: req.Username,
			Password: req.Password,
		})
		if err == nil {
			c.SetCookie(rememberCookie, sealed, int(h.sessions.RememberTTL().Seconds()), "/", "", false, true)
		}
	} else {
		c.SetCookie(rememberCookie, "", -1, "/", "", false, true)
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// Remembered godoc
// @Summary Recover remembered credentials
// @Description Open the sealed remember-me cookie and return the stored username
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /session/remembered [get]
func (h *SessionHandler) Remembered(c *gin.Context) {
	value, err := c.Cookie(rememberCookie)
	if err != nil || value == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "no remembered credentials"))
		return
	}

	creds, err := h.sessions.OpenRemember(value)
	if err != nil {
		c.SetCookie(rememberCookie, "", -1, "/", "", false, true)
		response.Error(c, err)
		return
	}
	// The password never leaves the gateway; the login form only
	// needs the username prefilled.
	response.JSON(c, http.StatusOK, gin.H{"username": creds.Username}, nil)
}

// Register godoc
// @Summary Register a new member
// @Description Relay a registration form, optional profile picture included, to the legacy portal
// @Tags Session
// @Accept mpfd
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /session/register [post]
func (h *SessionHandler) Register(c *gin.Context) {
	req := models.RegisterRequest{
		Username:        c.PostForm("username"),
		Email:           c.PostForm("email"),
		Password:        c.PostForm("password"),
		ConfirmPassword: c.PostForm("confirm_password"),
		FullName:        c.PostForm("full_name"),
		IDNumber:        c.PostForm("id_number"),
		Department:      c.PostForm("department"),
	}

	var picture *upstream.FilePart
	if file, header, err := c.Request.FormFile("profile_picture"); err == nil {
		defer file.Close()
		picture = &upstream.FilePart{
			FieldName: "profile_picture",
			FileName:  header.Filename,
			Content:   file,
		}
	}

	if err := h.sessions.Register(c.Request.Context(), req, picture); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"username": req.Username})
}

// Profile godoc
// @Summary Current user's profile
// @Tags Session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /session/profile [get]
func (h *SessionHandler) Profile(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile, err := h.sessions.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Logout godoc
// @Summary End the session
// @Tags Session
// @Produce json
// @Security BearerAuth
// @Success 204 "No Content"
// @Router /session/logout [post]
func (h *SessionHandler) Logout(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims != nil {
		if err := h.sessions.Logout(c.Request.Context(), claims.UserID); err != nil {
			response.Error(c, err)
			return
		}
	}
	c.SetCookie(rememberCookie, "", -1, "/", "", false, true)
	response.NoContent(c)
}
