package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valyala/fastjson"
	"go.uber.org/zap"

	"github.com/tuiter-labs/tuiter/internal/daos"
	"github.com/tuiter-labs/tuiter/internal/events"
	"github.com/tuiter-labs/tuiter/internal/models"
	logger "github.com/tuiter-labs/tuiter/middleware/log"
)

// MessageHandler 群消息处理器
type MessageHandler struct {
	messageDao daos.MessageDao
	producer   *events.Producer // nil when kafka is not configured
	logger     *logger.Logger
	parsers    fastjson.ParserPool
}

// NewMessageHandler 创建群消息处理器实例
func NewMessageHandler(messageDao daos.MessageDao, producer *events.Producer, lg *logger.Logger) *MessageHandler {
	return &MessageHandler{
		messageDao: messageDao,
		producer:   producer,
		logger:     lg,
	}
}

// UserMessagesGroup 用户向群组发送消息
//
// POST /api/users/:uid/groups/:gid. sentBy, group and sentOn are set
// server-side; the sender's membership in the group is not verified.
func (h *MessageHandler) UserMessagesGroup(c *gin.Context) {
	uid := c.Param("uid")
	gid := c.Param("gid")

	var msg models.Message
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.messageDao.UserMessagesGroup(c.Request.Context(), uid, gid, &msg)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "send message failed",
			zap.String("uid", uid), zap.String("gid", gid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	// The event stream is best-effort: a broker hiccup must not fail a
	// message that is already stored.
	if h.producer != nil {
		event := &events.MessageSent{
			MessageID: created.ID.Hex(),
			GroupID:   gid,
			SentBy:    uid,
			Content:   created.Content,
			SentOn:    created.SentOn,
		}
		if err := h.producer.Publish(event); err != nil {
			h.logger.WithContext(c.Request.Context()).Warn("publishing message event failed",
				zap.String("message_id", event.MessageID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, created)
}

// FindAllMessages 查询全部消息 (不限群组和发送者)
//
// GET /api/messages. Unscoped read across every group and sender.
func (h *MessageHandler) FindAllMessages(c *gin.Context) {
	messages, err := h.messageDao.FindAllMessages(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list messages failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// FindAllMessagesSentByUser 查询用户发送的全部消息
//
// GET /api/users/:uid/sent.
func (h *MessageHandler) FindAllMessagesSentByUser(c *gin.Context) {
	uid := c.Param("uid")

	messages, err := h.messageDao.FindAllMessagesSentByUser(c.Request.Context(), uid)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list sent messages failed",
			zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// FindAllMessagesInGroup 查询群组内的全部消息
//
// GET /api/groups/:gid/messages.
func (h *MessageHandler) FindAllMessagesInGroup(c *gin.Context) {
	gid := c.Param("gid")

	messages, err := h.messageDao.FindAllMessagesInGroup(c.Request.Context(), gid)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list group messages failed",
			zap.String("gid", gid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// UserEditsMessage 编辑消息
//
// PUT /api/messages/:mid. Only fields present in the body change; the
// editor's identity is not checked against the original sender.
func (h *MessageHandler) UserEditsMessage(c *gin.Context) {
	mid := c.Param("mid")

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

	ack, err := h.messageDao.UserEditsMessage(c.Request.Context(), mid, fields)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "edit message failed",
			zap.String("mid", mid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ack)
}

// UserDeletesMessage 删除消息
//
// DELETE /api/messages/:mid. Idempotent; no sender or admin check.
func (h *MessageHandler) UserDeletesMessage(c *gin.Context) {
	mid := c.Param("mid")

	ack, err := h.messageDao.UserDeletesMessage(c.Request.Context(), mid)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "delete message failed",
			zap.String("mid", mid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ack)
}
