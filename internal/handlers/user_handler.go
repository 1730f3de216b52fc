package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valyala/fastjson"
	"go.uber.org/zap"

	"github.com/tuiter-labs/tuiter/internal/daos"
	"github.com/tuiter-labs/tuiter/internal/models"
	"github.com/tuiter-labs/tuiter/internal/utils"
	logger "github.com/tuiter-labs/tuiter/middleware/log"
)

// UserHandler 用户处理器
type UserHandler struct {
	userDao daos.UserDao
	logger  *logger.Logger
	parsers fastjson.ParserPool
}

// NewUserHandler 创建用户处理器实例
func NewUserHandler(userDao daos.UserDao, lg *logger.Logger) *UserHandler {
	return &UserHandler{
		userDao: userDao,
		logger:  lg,
	}
}

// FindAllUsers GET /api/users
func (h *UserHandler) FindAllUsers(c *gin.Context) {
	users, err := h.userDao.FindAllUsers(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// FindUserByID GET /api/users/:uid
func (h *UserHandler) FindUserByID(c *gin.Context) {
	uid := c.Param("uid")

	user, err := h.userDao.FindUserByID(c.Request.Context(), uid)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "find user failed",
			zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if user != nil && user.Password != "" {
		user.Password = models.MaskedPassword
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser POST /api/users
//
// Administrative creation path; the password, when present, is stored as
// its hash just like registration.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if user.Password != "" {
		hash, err := utils.HashPassword(user.Password)
		if err != nil {
			h.logger.ErrorContext(c.Request.Context(), "hashing password failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		user.Password = hash
	}

	created, err := h.userDao.CreateUser(c.Request.Context(), &user)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "create user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	created.Password = ""
	c.JSON(http.StatusOK, created)
}

// UpdateUser PUT /api/users/:uid
func (h *UserHandler) UpdateUser(c *gin.Context) {
	uid := c.Param("uid")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read request body"})
		return
	}

	fields, err := parsePartialUpdate(&h.parsers, body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A plaintext password in the update never reaches the store.
	if pw, ok := fields["password"].(string); ok && pw != "" {
		hash, err := utils.HashPassword(pw)
		if err != nil {
			h.logger.ErrorContext(c.Request.Context(), "hashing password failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		fields["password"] = hash
	}

	ack, err := h.userDao.UpdateUser(c.Request.Context(), uid, fields)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "update user failed",
			zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ack)
}

// DeleteUser DELETE /api/users/:uid
func (h *UserHandler) DeleteUser(c *gin.Context) {
	uid := c.Param("uid")

	ack, err := h.userDao.DeleteUser(c.Request.Context(), uid)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "delete user failed",
			zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ack)
}
