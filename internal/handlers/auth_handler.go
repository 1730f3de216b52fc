package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tuiter-labs/tuiter/internal/auth"
	"github.com/tuiter-labs/tuiter/internal/models"
	logger "github.com/tuiter-labs/tuiter/middleware/log"
)

// SessionCookie carries the session token between requests. A bearer
// Authorization header works too for non-browser clients.
const SessionCookie = "tuiter_session"

// AuthHandler 认证处理器
type AuthHandler struct {
	authService *auth.Service
	logger      *logger.Logger
}

// NewAuthHandler 创建认证处理器实例
func NewAuthHandler(authService *auth.Service, lg *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      lg,
	}
}

// Register 用户注册
//
// POST /api/auth/register. 403 when the username is already taken; on
// success the echoed user has an empty password and the response carries
// the session token.
func (h *AuthHandler) Register(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if user.Username == "" || user.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	created, tok, err := h.authService.Register(c.Request.Context(), &user)
	if errors.Is(err, auth.ErrUsernameTaken) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "register failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.setSessionToken(c, tok)
	c.JSON(http.StatusOK, created)
}

// Login 用户登录
//
// POST /api/auth/login. A missing user and a wrong password are both a
// plain 403 so the endpoint does not leak which usernames exist.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, tok, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrBadCredentials) {
		c.Status(http.StatusForbidden)
		return
	}
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	h.setSessionToken(c, tok)
	c.JSON(http.StatusOK, user)
}

// Profile 获取当前会话用户
//
// POST /api/auth/profile. 402 when no active session backs the request.
func (h *AuthHandler) Profile(c *gin.Context) {
	tok := SessionToken(c)
	if tok == "" {
		c.Status(http.StatusPaymentRequired)
		return
	}

	user, err := h.authService.Profile(c.Request.Context(), tok)
	if errors.Is(err, auth.ErrNoSession) {
		c.Status(http.StatusPaymentRequired)
		return
	}
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Logout 用户登出 (幂等)
func (h *AuthHandler) Logout(c *gin.Context) {
	if tok := SessionToken(c); tok != "" {
		if err := h.authService.Logout(c.Request.Context(), tok); err != nil {
			h.logger.ErrorContext(c.Request.Context(), "logout failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
	}

	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusOK)
}

func (h *AuthHandler) setSessionToken(c *gin.Context, tok string) {
	c.SetCookie(SessionCookie, tok, 0, "/", "", false, true)
	c.Header("X-Session-Token", tok)
}

// SessionToken extracts the session token from the cookie or, failing
// that, a bearer Authorization header.
func SessionToken(c *gin.Context) string {
	if tok, err := c.Cookie(SessionCookie); err == nil && tok != "" {
		return tok
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return ""
}
