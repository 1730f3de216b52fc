package routers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tuiter-labs/tuiter/internal/handlers"
	"github.com/tuiter-labs/tuiter/internal/middlewares"
	logger "github.com/tuiter-labs/tuiter/middleware/log"
)

// SetupRoutes 设置所有路由
func SetupRoutes(r *gin.Engine, lg *logger.Logger,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	groupHandler *handlers.GroupHandler,
	messageHandler *handlers.MessageHandler,
	tuitHandler *handlers.TuitHandler,
) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.Use(middlewares.RequestLogger(lg))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"Status": "OK"})
	})

	registerAuthRoutes(r, authHandler)
	registerUserRoutes(r, userHandler, messageHandler, tuitHandler)
	registerGroupRoutes(r, groupHandler, messageHandler)
	registerMessageRoutes(r, messageHandler)
	registerTuitRoutes(r, tuitHandler)
}

func registerAuthRoutes(r *gin.Engine, h *handlers.AuthHandler) {
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/profile", h.Profile)
		authGroup.POST("/logout", h.Logout)
	}
}

func registerUserRoutes(r *gin.Engine, h *handlers.UserHandler, mh *handlers.MessageHandler, th *handlers.TuitHandler) {
	r.GET("/api/users", h.FindAllUsers)
	r.POST("/api/users", h.CreateUser)
	r.GET("/api/users/:uid", h.FindUserByID)
	r.PUT("/api/users/:uid", h.UpdateUser)
	r.DELETE("/api/users/:uid", h.DeleteUser)

	r.GET("/api/users/:uid/sent", mh.FindAllMessagesSentByUser)
	r.POST("/api/users/:uid/groups/:gid", mh.UserMessagesGroup)

	r.GET("/api/users/:uid/tuits", th.FindTuitsByUser)
	r.POST("/api/users/:uid/tuits", th.CreateTuit)
}

func registerGroupRoutes(r *gin.Engine, h *handlers.GroupHandler, mh *handlers.MessageHandler) {
	r.POST("/api/groups/:uid", h.UserCreatesGroup)
	r.GET("/api/groups/:gid", h.FindGroupByID)
	r.GET("/api/groups/user/:uid", h.FindAllGroupsForUser)
	r.GET("/api/groups/user/:uid/:group_name", h.FindGroupByName)
	// The first segment names the active user here; it shares the :gid
	// name because gin requires one name per wildcard position.
	r.GET("/api/groups/:gid/common/:ouid", h.FindCommonGroups)
	r.PUT("/api/groups/:gid", h.UpdateGroup)
	r.DELETE("/api/groups/:uid/:gid", h.DeleteGroup)

	r.GET("/api/groups/:gid/messages", mh.FindAllMessagesInGroup)
}

func registerMessageRoutes(r *gin.Engine, h *handlers.MessageHandler) {
	r.GET("/api/messages", h.FindAllMessages)
	r.PUT("/api/messages/:mid", h.UserEditsMessage)
	r.DELETE("/api/messages/:mid", h.UserDeletesMessage)
}

func registerTuitRoutes(r *gin.Engine, h *handlers.TuitHandler) {
	r.GET("/api/tuits", h.FindAllTuits)
	r.GET("/api/tuits/:tid", h.FindTuitByID)
	r.PUT("/api/tuits/:tid", h.UpdateTuit)
	r.DELETE("/api/tuits/:tid", h.DeleteTuit)
}
