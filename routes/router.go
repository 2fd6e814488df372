// file: routes/router.go
package routes

import (
	"NovaCTF/controllers"
	"NovaCTF/middlewares"
	"NovaCTF/models"

	"github.com/gin-gonic/gin"
)

// Controllers 聚合全部控制器，由 main 构造后注入
type Controllers struct {
	Users      *controllers.UserController
	Challenges *controllers.ChallengeController
	Scoreboard *controllers.ScoreboardController
	Records    *controllers.RecordController
}

func SetupRouter(ctl Controllers) *gin.Engine {
	r := gin.Default()
	r.Use(middlewares.RequestIDMiddleware())

	apiV1 := r.Group("/api/v1")
	{
		// --- 用户模块 ---
		usersPublic := apiV1.Group("/users")
		{
			usersPublic.POST("/register", ctl.Users.Register)
			usersPublic.POST("/login", ctl.Users.Login)
		}
		usersAuth := apiV1.Group("/users")
		usersAuth.Use(middlewares.JWTAuthMiddleware())
		{
			usersAuth.GET("/:id", ctl.Users.GetUserDetail)
			usersAuth.GET("/:id/badges", ctl.Users.GetUserBadges)
			usersAuth.POST("/:id/badges/evaluate", ctl.Users.EvaluateBadges)
		}

		// --- 题目模块 ---
		challengeRoutes := apiV1.Group("/challenges")
		{
			challengeRoutes.GET("", middlewares.JWTAuthMiddleware(), ctl.Challenges.ListChallenges)
			challengeRoutes.GET("/:id", middlewares.JWTAuthMiddleware(), ctl.Challenges.GetChallengeDetail)
			challengeRoutes.POST("/:id/submit", middlewares.JWTAuthMiddleware(), ctl.Challenges.SubmitFlag)
			challengeRoutes.GET("/:id/solvers", middlewares.JWTTryAuthMiddleware(), ctl.Scoreboard.GetChallengeSolvers)
		}

		// --- 排行榜与动态（公开） ---
		apiV1.GET("/scoreboard", ctl.Scoreboard.GetScoreboard)
		apiV1.GET("/activity", ctl.Scoreboard.GetRecentActivity)

		// --- 管理员模块 ---
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.GET("/users", ctl.Users.GetUserList)
			adminRoutes.PUT("/users/:id/status", ctl.Users.UpdateUserStatus)
			adminRoutes.PUT("/users/:id/role", ctl.Users.UpdateUserRole)
			adminRoutes.DELETE("/users/:id", ctl.Users.DeleteUser)

			adminRoutes.GET("/challenges", ctl.Challenges.AdminListChallenges)
			adminRoutes.GET("/challenges/:id", ctl.Challenges.AdminGetChallengeDetail)
			adminRoutes.POST("/challenges", ctl.Challenges.CreateChallenge)
			adminRoutes.PUT("/challenges/:id", ctl.Challenges.UpdateChallenge)
			adminRoutes.DELETE("/challenges/:id", ctl.Challenges.DeleteChallenge)
			adminRoutes.POST("/flags/generate", ctl.Challenges.GenerateFlag)

			adminRoutes.GET("/submissions", ctl.Records.GetFlagLogs)
			adminRoutes.PUT("/submissions/:id/suspected", ctl.Records.MarkSuspectSubmission)
			adminRoutes.GET("/submissions/compare", ctl.Records.CompareFlagSubmissions)
		}
	}

	return r
}
