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

// GroupHandler 群组处理器
type GroupHandler struct {
	groupDao daos.GroupDao
	logger   *logger.Logger
	parsers  fastjson.ParserPool
}

// NewGroupHandler 创建群组处理器实例
func NewGroupHandler(groupDao daos.GroupDao, lg *logger.Logger) *GroupHandler {
	return &GroupHandler{
		groupDao: groupDao,
		logger:   lg,
	}
}

// UserCreatesGroup 创建群组
//
// POST /api/groups/:uid. The creator becomes the sole initial member and
// admin; members/admin in the body are ignored.
func (h *GroupHandler) UserCreatesGroup(c *gin.Context) {
	uid := c.Param("uid")

	var group models.Group
	if err := c.ShouldBindJSON(&group); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.groupDao.UserCreatesGroup(c.Request.Context(), uid, &group)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "create group failed",
			zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, created)
}

// FindGroupByID 按 ID 查询群组
//
// GET /api/groups/:gid. An absent group serializes as null, not an error.
func (h *GroupHandler) FindGroupByID(c *gin.Context) {
	gid := c.Param("gid")

	group, err := h.groupDao.FindGroupByID(c.Request.Context(), gid)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "find group failed",
			zap.String("gid", gid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, group)
}

// FindAllGroupsForUser 查询用户所属的全部群组
//
// GET /api/groups/user/:uid.
func (h *GroupHandler) FindAllGroupsForUser(c *gin.Context) {
	uid := c.Param("uid")

	groups, err := h.groupDao.FindAllGroupsForUser(c.Request.Context(), uid)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list groups failed",
			zap.String("uid", uid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, groups)
}

// FindGroupByName 按名称查询用户所属群组
//
// GET /api/groups/user/:uid/:group_name. Group names are not unique, so
// the response is always an array.
func (h *GroupHandler) FindGroupByName(c *gin.Context) {
	uid := c.Param("uid")
	name := c.Param("group_name")

	groups, err := h.groupDao.FindGroupByName(c.Request.Context(), name, uid)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "find groups by name failed",
			zap.String("uid", uid), zap.String("group_name", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, groups)
}

// FindCommonGroups 查询两个用户的共同群组
//
// GET /api/groups/:gid/common/:ouid. The first segment shares its name
// with the by-id route but carries the active user's id here.
func (h *GroupHandler) FindCommonGroups(c *gin.Context) {
	activeUID := c.Param("gid")
	otherUID := c.Param("ouid")

	groups, err := h.groupDao.FindCommonGroups(c.Request.Context(), activeUID, otherUID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "find common groups failed",
			zap.String("active_uid", activeUID), zap.String("other_uid", otherUID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, groups)
}

// UpdateGroup 部分更新群组
//
// PUT /api/groups/:gid. Only fields present in the body are replaced.
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	gid := c.Param("gid")

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

	ack, err := h.groupDao.UpdateGroup(c.Request.Context(), gid, fields)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "update group failed",
			zap.String("gid", gid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ack)
}

// DeleteGroup 删除群组
//
// DELETE /api/groups/:uid/:gid. The deleting user's id is accepted but
// not checked against the admin set; deleting a missing id acks with a
// zero count.
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	uid := c.Param("uid")
	gid := c.Param("gid")

	ack, err := h.groupDao.DeleteGroup(c.Request.Context(), uid, gid)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "delete group failed",
			zap.String("uid", uid), zap.String("gid", gid), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ack)
}
