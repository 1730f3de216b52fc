package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valyala/fastjson"
	"go.uber.org/zap"

	"github.com/tuiter-labs/tuiter/internal/daos"
	"github.com/tuiter-labs/tuiter/internal/models"
	logger "github.com/tuiter-labs/tuiter/middleware/log"
)

// TuitHandler 帖子处理器
type TuitHandler struct {
	tuitDao daos.TuitDao
	logger  *logger.Logger
	parsers fastjson.ParserPool
}

// NewTuitHandler 创建帖子处理器实例
func NewTuitHandler(tuitDao daos.TuitDao, lg *logger.Logger) *TuitHandler {
	return &TuitHandler{
		tuitDao: tuitDao,
		logger:  lg,
	}
}

// FindAllTuits GET /api/tuits
func (h *TuitHandler) FindAllTuits(c *gin.Context) {
	tuits, err := h.tuitDao.FindAllTuits(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list tuits failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, tuits)
}

// FindTuitByID GET /api/tuits/:tid
func (h *TuitHandler) FindTuitByID(c *gin.Context) {
	tid := c.Param("tid")

	tuit, err := h.tuitDao.FindTuitByID(c.Request.Context(), tid)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "find tuit failed",
			zap.String("tid", tid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, tuit)
}

// FindTuitsByUser GET /api/users/:uid/tuits
func (h *TuitHandler) FindTuitsByUser(c *gin.Context) {
	uid := c.Param("uid")

	tuits, err := h.tuitDao.FindTuitsByUser(c.Request.Context(), uid)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list user tuits failed",
			zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, tuits)
}

// CreateTuit POST /api/users/:uid/tuits
func (h *TuitHandler) CreateTuit(c *gin.Context) {
	uid := c.Param("uid")

	var tuit models.Tuit
	if err := c.ShouldBindJSON(&tuit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.tuitDao.CreateTuit(c.Request.Context(), uid, &tuit)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "create tuit failed",
			zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, created)
}

// UpdateTuit PUT /api/tuits/:tid
func (h *TuitHandler) UpdateTuit(c *gin.Context) {
	tid := c.Param("tid")

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

	ack, err := h.tuitDao.UpdateTuit(c.Request.Context(), tid, fields)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "update tuit failed",
			zap.String("tid", tid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ack)
}

// DeleteTuit DELETE /api/tuits/:tid
func (h *TuitHandler) DeleteTuit(c *gin.Context) {
	tid := c.Param("tid")

	ack, err := h.tuitDao.DeleteTuit(c.Request.Context(), tid)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "delete tuit failed",
			zap.String("tid", tid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ack)
}
