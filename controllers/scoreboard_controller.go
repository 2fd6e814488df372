// file: controllers/scoreboard_controller.go
package controllers

import (
	"errors"
	"strconv"

	"NovaCTF/services"
	"NovaCTF/utils"

	"github.com/gin-gonic/gin"
)

type ScoreboardController struct {
	boards   *services.LeaderboardService
	activity *services.ActivityService
}

func NewScoreboardController(boards *services.LeaderboardService, activity *services.ActivityService) *ScoreboardController {
	return &ScoreboardController{boards: boards, activity: activity}
}

// GetScoreboard 查询全站排行榜（含零分用户，全量）
func (ctl *ScoreboardController) GetScoreboard(c *gin.Context) {
	entries, err := ctl.boards.GetLeaderboard(c.Request.Context())
	if err != nil {
		utils.Error(c, 5000, "Database error")
		return
	}

	utils.Success(c, "success", gin.H{
		"total":   len(entries),
		"entries": entries,
	})
}

// GetChallengeSolvers 查询某题的解出者（first blood 顺序）
func (ctl *ScoreboardController) GetChallengeSolvers(c *gin.Context) {
	challengeID, _ := strconv.Atoi(c.Param("id"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	solvers, err := ctl.boards.GetChallengeSolvers(c.Request.Context(), uint32(challengeID), limit)
	if err != nil {
		if errors.Is(err, services.ErrChallengeNotFound) {
			utils.Error(c, 4004, "Challenge not found")
			return
		}
		utils.Error(c, 5000, "Database error")
		return
	}

	utils.Success(c, "success", gin.H{"solvers": solvers})
}

// GetRecentActivity 查询实时动态（解题 + 注册的时间线合并）
func (ctl *ScoreboardController) GetRecentActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := ctl.activity.GetRecentActivity(c.Request.Context(), limit)
	if err != nil {
		utils.Error(c, 5000, "Database error")
		return
	}

	utils.Success(c, "success", gin.H{"activity": entries})
}
