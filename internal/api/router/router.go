package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ll861181031/shixi-guanli-xitong/config"
	"github.com/ll861181031/shixi-guanli-xitong/internal/api/handler"
	"github.com/ll861181031/shixi-guanli-xitong/internal/api/middleware"
	"github.com/ll861181031/shixi-guanli-xitong/internal/model"
	"github.com/ll861181031/shixi-guanli-xitong/pkg/jwt"
	"github.com/ll861181031/shixi-guanli-xitong/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth(model.RoleAdmin, model.RoleTeacher), h.User.ListUsers)
				users.GET("/:id", middleware.RoleAuth(model.RoleAdmin, model.RoleTeacher), h.User.GetUser)
				users.PUT("/me", h.User.UpdateProfile)
				users.GET("/:id/credit-score", h.User.GetCreditScore)
				users.POST("/:id/credit-score/recompute", middleware.RoleAuth(model.RoleAdmin, model.RoleTeacher), h.User.RecomputeCreditScore)
			}

			// 岗位模块
			positions := authorized.Group("/positions")
			{
				positions.GET("", h.Position.ListPositions)
				positions.GET("/:id", h.Position.GetPosition)
				positions.POST("", middleware.RoleAuth(model.RoleTeacher, model.RoleAdmin), h.Position.CreatePosition)
				positions.PUT("/:id", middleware.RoleAuth(model.RoleTeacher, model.RoleAdmin), h.Position.UpdatePosition)
			}

			// 申请模块
			applications := authorized.Group("/applications")
			{
				applications.GET("", h.Application.ListApplications)
				applications.GET("/:id", h.Application.GetApplication)
				applications.POST("", middleware.RoleAuth(model.RoleStudent), h.Application.SubmitApplication)
				applications.PUT("/batch-review", middleware.RoleAuth(model.RoleTeacher, model.RoleAdmin), h.Application.BatchReviewApplications)
				applications.PUT("/:id/review", middleware.RoleAuth(model.RoleTeacher, model.RoleAdmin), h.Application.ReviewApplication)
			}

			// 签到模块
			checkins := authorized.Group("/checkins")
			{
				checkins.GET("", h.Checkin.ListCheckins)
				checkins.GET("/statistics", h.Checkin.GetCheckinStatistics)
				checkins.POST("", middleware.RoleAuth(model.RoleStudent), h.Checkin.CreateCheckin)
			}

			// 周报模块
			reports := authorized.Group("/reports")
			{
				reports.GET("", h.WeeklyReport.ListReports)
				reports.GET("/:id", h.WeeklyReport.GetReport)
				reports.POST("", middleware.RoleAuth(model.RoleStudent), h.WeeklyReport.SubmitReport)
				reports.PUT("/:id/review", middleware.RoleAuth(model.RoleTeacher, model.RoleAdmin), h.WeeklyReport.ReviewReport)
			}

			// 消息模块
			messages := authorized.Group("/messages")
			{
				messages.GET("", h.Message.ListMessages)
				messages.GET("/unread-count", h.Message.GetUnreadCount)
				messages.PUT("/read-all", h.Message.MarkAllMessagesRead)
				messages.PUT("/:id/read", h.Message.MarkMessageRead)
			}
		}
	}

	return r
}
