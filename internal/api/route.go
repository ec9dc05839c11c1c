package api

import (
	"Atelier/internal/api/config"
	"Atelier/internal/api/middleware"
	"Atelier/internal/pkg/logger"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, cfg *config.Config) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		log.Warn("invalid trusted proxies, client ip falls back to remote addr", "err", err)
	}

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r, cfg.Logstash)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		postGroup := apiGroup.Group("/posts/:post_id")
		{
			postGroup.POST("/view", middleware.AuthOptionalMiddleware(), group.EngagementHandler.RecordView)

			likeGroup := postGroup.Group("/like")
			likeGroup.Use(middleware.AuthMiddleware())
			{
				likeGroup.GET("", group.EngagementHandler.GetLikeState)
				likeGroup.POST("", group.EngagementHandler.LikePost)
				likeGroup.DELETE("", group.EngagementHandler.UnlikePost)
			}
		}

		apiGroup.POST("/engagement/counters", group.EngagementHandler.GetCounters)
		apiGroup.GET("/ranking", group.RankingHandler.GetRanking)

		searchGroup := apiGroup.Group("/search")
		{
			searchGroup.GET("/normalize", group.SearchHandler.Normalize)
			searchGroup.GET("/tags", group.SearchHandler.SearchTags)
			searchGroup.GET("/posts", group.SearchHandler.SearchPosts)
		}

		sysbox := apiGroup.Group("/sysbox")
		sysbox.Use(middleware.AuthMiddleware())
		{
			sysbox.GET("/list", group.SysBoxHandler.GetNotificationList)
			sysbox.GET("/unread", group.SysBoxHandler.GetUnreadCount)
			sysbox.POST("/read", group.SysBoxHandler.MarkRead)
			sysbox.POST("/read/all", group.SysBoxHandler.MarkAllRead)
		}
	}

	return r
}
