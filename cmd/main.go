package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vently-backend/config"
	"vently-backend/internal/api/engagement"
	"vently-backend/internal/api/post"
	"vently-backend/internal/api/social"
	"vently-backend/internal/api/user"
	"vently-backend/internal/middleware"
	"vently-backend/internal/repository/mysql"
	"vently-backend/internal/service"
	"vently-backend/internal/storage"
	"vently-backend/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 连接数据库
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	if err = db.Ping(); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("audio_duration", util.ValidateAudioDuration)
	}

	// 初始化文件存储
	fileStorage, err := storage.NewFromConfig(&config.AppConfig)
	if err != nil {
		util.Logger.Fatal("初始化文件存储失败", zap.Error(err))
	}

	// 初始化存储库
	userRepo := mysql.NewUserRepository(db)
	graphRepo := mysql.NewGraphRepository(db)
	postRepo := mysql.NewPostRepository(db)
	engagementRepo := mysql.NewEngagementRepository(db)
	notificationRepo := mysql.NewNotificationRepository(db)

	// 初始化服务
	emailService := service.NewEmailService()
	notificationService := service.NewNotificationService(notificationRepo)
	userService := service.NewUserService(userRepo, graphRepo, emailService)
	graphService := service.NewGraphService(graphRepo, userRepo, notificationService)
	postService := service.NewPostService(postRepo, engagementRepo, fileStorage)
	engagementService := service.NewEngagementService(engagementRepo, postRepo, notificationService)
	feedService := service.NewFeedService(postRepo, engagementRepo, userRepo)

	// 初始化处理器
	authHandler := user.NewAuthHandler(userService)
	profileHandler := user.NewProfileHandler(userService, fileStorage)
	socialHandler := social.NewSocialHandler(graphService, userService)
	postHandler := post.NewPostHandler(postService)
	feedHandler := post.NewFeedHandler(feedService)
	engagementHandler := engagement.NewEngagementHandler(engagementService)
	notificationHandler := engagement.NewNotificationHandler(notificationService)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	r := gin.Default()
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// 本地存储时提供音频静态文件服务
	if config.AppConfig.S3Bucket == "" && config.AppConfig.GCSBucketName == "" {
		r.Static("/uploads", config.AppConfig.LocalStoragePath)
	}

	auth := middleware.AuthMiddleware(userService)
	optionalAuth := middleware.OptionalAuthMiddleware()

	api := r.Group("/api")
	{
		// 认证
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", auth, authHandler.Logout)
			authRoutes.POST("/refresh", auth, authHandler.Refresh)
			authRoutes.GET("/me", auth, authHandler.Me)
			authRoutes.GET("/verify-email", authHandler.VerifyEmail)
			authRoutes.POST("/request-password-reset", authHandler.RequestPasswordReset)
			authRoutes.POST("/reset-password", authHandler.ResetPassword)
		}

		// 用户与关注关系
		userRoutes := api.Group("/users")
		{
			userRoutes.GET("/search", profileHandler.SearchUsers)
			userRoutes.PUT("/me", auth, profileHandler.UpdateProfile)
			userRoutes.POST("/me/avatar", auth, profileHandler.UploadAvatar)
			userRoutes.GET("/:username", optionalAuth, profileHandler.GetProfile)
			userRoutes.GET("/:username/posts", optionalAuth, feedHandler.UserFeed)
			userRoutes.POST("/:username/follow", auth, socialHandler.Follow)
			userRoutes.DELETE("/:username/follow", auth, socialHandler.Unfollow)
			userRoutes.GET("/:username/followers", socialHandler.GetFollowers)
			userRoutes.GET("/:username/following", socialHandler.GetFollowing)
		}

		// 帖子与信息流
		postRoutes := api.Group("/posts")
		{
			postRoutes.POST("", auth, postHandler.CreatePost)
			postRoutes.GET("/feed", auth, feedHandler.HomeFeed)
			postRoutes.GET("/discover", optionalAuth, feedHandler.DiscoverFeed)
			postRoutes.GET("/tags/trending", feedHandler.TrendingTags)
			postRoutes.GET("/tag/:tag", optionalAuth, feedHandler.FeedByTag)
			postRoutes.GET("/:id", optionalAuth, postHandler.GetPost)
			postRoutes.DELETE("/:id", auth, postHandler.DeletePost)
			postRoutes.POST("/:id/play", postHandler.Play)
		}

		// 互动
		interactionRoutes := api.Group("/interactions")
		{
			interactionRoutes.POST("/posts/:id/like", auth, engagementHandler.ToggleLike)
			interactionRoutes.POST("/posts/:id/comments", auth, engagementHandler.AddComment)
			interactionRoutes.GET("/posts/:id/comments", optionalAuth, engagementHandler.GetComments)
			interactionRoutes.DELETE("/comments/:id", auth, engagementHandler.DeleteComment)
			interactionRoutes.POST("/comments/:id/like", auth, engagementHandler.ToggleCommentLike)
			interactionRoutes.POST("/posts/:id/share", auth, engagementHandler.Share)

			interactionRoutes.GET("/notifications", auth, notificationHandler.List)
			interactionRoutes.PUT("/notifications/read-all", auth, notificationHandler.MarkAllRead)
			interactionRoutes.PUT("/notifications/:id/read", auth, notificationHandler.MarkRead)
		}
	}

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}
