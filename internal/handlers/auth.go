package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clubhq/clubhub/backend/internal/config"
	"github.com/clubhq/clubhub/backend/internal/middleware"
	"github.com/clubhq/clubhub/backend/internal/services"
	"github.com/clubhq/clubhub/backend/pkg/response"
)

// AuthHandler serves registration, login/logout, the current-session
// probe, and the password reset flow.
type AuthHandler struct {
	auth  *services.AuthService
	users *services.UserService
	jwt   config.JWTConfig
}

func NewAuthHandler(auth *services.AuthService, users *services.UserService, jwt config.JWTConfig) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, jwt: jwt}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "account created", user)
}

// Login handles POST /api/auth/login. On success the session token is
// set as an http-only cookie; the body carries the user record.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, token, h.jwt.ExpireHour*3600)
	response.OK(c, "logged in", user)
}

// Logout handles POST /api/auth/logout by expiring the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	response.OK(c, "logged out", nil)
}

// Me handles GET /api/auth/me: the fresh user document behind the
// session, so points and rank are current even mid-session.
func (h *AuthHandler) Me(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	user, err := h.users.Get(c.Request.Context(), caller.UID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "ok", user)
}

// ForgotPassword handles POST /api/auth/forgot-password. The reply is
// identical whether or not the email exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if _, err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "if the account exists, a reset token has been issued", nil)
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "password updated", nil)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.jwt.CookieName, token, maxAge, "/", "", h.jwt.CookieSecure, true)
}
