package router

import (
	"arenax/internal/handlers"
	"arenax/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	debateHandler := handlers.NewDebateHandler()
	argumentHandler := handlers.NewArgumentHandler()
	voteHandler := handlers.NewVoteHandler()
	userHandler := handlers.NewUserHandler()
	categoryHandler := handlers.NewCategoryHandler()
	notificationHandler := handlers.NewNotificationHandler()

	// 公共路由 (Public Routes)
	r.GET("/debates", debateHandler.List)          // 辩论列表
	r.GET("/debates/:did", debateHandler.Detail)   // 辩论详情（含论点与实时票数）
	r.GET("/categories", categoryHandler.ListCategories) // 分类列表
	r.GET("/u/:id", userHandler.Profile)           // 用户主页

	r.GET("/captcha", authHandler.Captcha)  // 注册验证码
	r.POST("/signup", authHandler.Register) // 提交注册
	r.POST("/login", authHandler.Login)     // 提交登录
	r.GET("/logout", authHandler.Logout)    // 退出登录

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/debates", debateHandler.Create)               // 发起辩论
		authorized.POST("/debates/:did/join", debateHandler.Join)       // 选边加入
		authorized.POST("/debates/:did/finalize", debateHandler.Finalize) // 倒计时归零触发定局
		authorized.POST("/debates/:did/arguments", argumentHandler.Create) // 发表论点
		authorized.PUT("/arguments/:aid", argumentHandler.Update)       // 编辑论点（5 分钟内）
		authorized.DELETE("/arguments/:aid", argumentHandler.Delete)    // 删除论点及其投票
		authorized.POST("/arguments/:aid/vote", voteHandler.Vote)       // 投票/取消/换边
	}

	// 仪表盘路由 (Dashboard Routes)
	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.AuthRequired())
	{
		dashboard.GET("", userHandler.Me)                         // 当前用户概览
		dashboard.GET("/points", userHandler.PointLogs)           // 积分记录
		dashboard.GET("/notifications", notificationHandler.List) // 我的通知列表
	}

	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthRequired())
	{
		notifications.POST("/:id/read", notificationHandler.Read)  // 标记单条已读
		notifications.DELETE("/:id", notificationHandler.Delete)   // 删除单条通知
		notifications.POST("/read-all", notificationHandler.ReadAll) // 全部标记已读
	}
}
