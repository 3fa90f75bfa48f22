package api

import (
	"Murmur/internal/api/middleware"
	"Murmur/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/login", group.UserHandler.Login)
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.GET("/search", group.UserHandler.SearchUser)
			userGroup.GET("/:user_id/home", group.UserHandler.GetUserByID)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetUserInfo)
				authGroup.PUT("/info", group.UserHandler.UpdateUserInfo)
				authGroup.PUT("/settings", group.UserHandler.UpdateSettings)
				authGroup.POST("/avatar", group.MediaHandler.UploadAvatar)
				authGroup.POST("/cancel", group.UserHandler.CancelUser)
			}
		}

		userFollowGroup := apiGroup.Group("/user-relation")
		{
			userFollowGroup.Use(middleware.AuthMiddleware())
			{
				userFollowGroup.POST("/follow", group.UserFollowHandler.Follow)
				userFollowGroup.DELETE("/follow/:user_id", group.UserFollowHandler.Unfollow)
				userFollowGroup.GET("/isfollow/:user_id", group.UserFollowHandler.IsFollowing)
				userFollowGroup.GET("/counts/:user_id", group.UserFollowHandler.GetFollowCounts)
				userFollowGroup.GET("/followers/:user_id", group.UserFollowHandler.GetFollowers)
				userFollowGroup.GET("/followings/:user_id", group.UserFollowHandler.GetFollowing)
			}
		}

		postGroup := apiGroup.Group("/posts")
		{
			postGroup.GET("/list/:user_id", group.PostHandler.GetUserPosts)
			postGroup.GET("/comments/:post_id", group.PostHandler.GetComments)

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
				authGroup.POST("/comments", group.PostHandler.CreateComment)
			}
		}

		imGroup := apiGroup.Group("/im")
		{
			imGroup.GET("", group.WSHandler.Connect)
			authGroup := imGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/send", group.IMHandler.SendMessage)
				authGroup.GET("/history", group.IMHandler.GetChatHistory)
				authGroup.GET("/list", group.IMHandler.GetConversationList)
				authGroup.POST("/read", group.IMHandler.MarkAsRead)
			}
		}

		sysbox := apiGroup.Group("/sysbox")
		sysbox.Use(middleware.AuthMiddleware())
		{
			sysbox.GET("/list", group.SysBoxHandler.GetNotificationList)
			sysbox.GET("/unread", group.SysBoxHandler.GetUnreadCount)
			sysbox.POST("/read/:msg_id", group.SysBoxHandler.MarkRead)
			sysbox.POST("/read-all", group.SysBoxHandler.MarkAllRead)
		}

		walletGroup := apiGroup.Group("/wallet")
		walletGroup.Use(middleware.AuthMiddleware())
		{
			walletGroup.GET("", group.WalletHandler.GetWallet)
			walletGroup.GET("/transactions", group.WalletHandler.GetTransactions)
		}

		rewardGroup := apiGroup.Group("/reward-rule")
		rewardGroup.Use(middleware.AuthMiddleware())
		{
			rewardGroup.GET("", group.RewardRuleHandler.GetRule)

			adminGroup := rewardGroup.Group("")
			adminGroup.Use(middleware.CheckAdmin())
			{
				adminGroup.PUT("", group.RewardRuleHandler.UpdateRule)
			}
		}
	}

	return r
}
