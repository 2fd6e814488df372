// file: controllers/record_controller.go
package controllers

import (
	"errors"
	"strconv"
	"time"

	"NovaCTF/models"
	"NovaCTF/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RecordController struct {
	db *gorm.DB
}

func NewRecordController(db *gorm.DB) *RecordController {
	return &RecordController{db: db}
}

// GetFlagLogs 管理员查询 Flag 提交日志（审计用，可按用户/题目/结果筛选）
func (ctl *RecordController) GetFlagLogs(c *gin.Context) {
	type LogDetail struct {
		ID            uint64    `json:"id"`
		ChallengeID   uint32    `json:"challenge_id"`
		Title         string    `json:"title"`
		UserID        uint32    `json:"user_id"`
		Username      string    `json:"username"`
		SubmittedFlag string    `json:"submitted_flag"`
		Result        string    `json:"result"`
		SubmittedAt   time.Time `json:"submitted_at"`
		IPAddress     string    `json:"ip_address"`
		Suspected     bool      `json:"suspected"`
	}

	db := ctl.db.Table("novactf_flag_information l").
		Select("l.id, l.challenge_id, c.title, l.user_id, u.username, l.submitted_flag, l.result, l.submitted_at, l.ip_address, l.suspected").
		Joins("LEFT JOIN novactf_challenge c ON l.challenge_id = c.id").
		Joins("LEFT JOIN novactf_user u ON l.user_id = u.id")

	if challengeID := c.Query("challenge_id"); challengeID != "" {
		db = db.Where("l.challenge_id = ?", challengeID)
	}
	if userID := c.Query("user_id"); userID != "" {
		db = db.Where("l.user_id = ?", userID)
	}
	if result := c.Query("result"); result != "" {
		db = db.Where("l.result = ?", result)
	}
	if suspected := c.Query("suspected"); suspected == "1" {
		db = db.Where("l.suspected = ?", true)
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	var results []LogDetail
	if err := db.Order("l.submitted_at desc").Limit(limit).Scan(&results).Error; err != nil {
		utils.Error(c, 5000, "Database error")
		return
	}

	utils.Success(c, "success", results)
}

// MarkSuspectSubmission 管理员手动标记可疑提交
func (ctl *RecordController) MarkSuspectSubmission(c *gin.Context) {
	logID, _ := strconv.Atoi(c.Param("id"))

	var req struct {
		Suspected bool `json:"suspected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "Invalid request body")
		return
	}

	result := ctl.db.Model(&models.SubmissionLog{}).Where("id = ?", logID).Update("suspected", req.Suspected)
	if result.Error != nil {
		utils.Error(c, 5000, "Database error: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.Error(c, 4004, "Submission log not found")
		return
	}

	utils.Success(c, "Submission suspected mark updated", nil)
}

// CompareFlagSubmissions 对比提交了相同 Flag 的记录（排查跨队抄袭）
func (ctl *RecordController) CompareFlagSubmissions(c *gin.Context) {
	flag := c.Query("flag")
	if flag == "" {
		utils.Error(c, 1001, "Missing 'flag' query parameter")
		return
	}

	var first models.SubmissionLog
	if err := ctl.db.Where("submitted_flag = ?", flag).Order("submitted_at asc").First(&first).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(c, 4004, "No submissions found for this flag")
			return
		}
		utils.Error(c, 5000, "Database error")
		return
	}

	var logs []models.SubmissionLog
	if err := ctl.db.Where("submitted_flag = ?", flag).Order("submitted_at asc").Find(&logs).Error; err != nil {
		utils.Error(c, 5000, "Database error")
		return
	}

	userIDs := make([]uint32, 0, len(logs))
	for _, l := range logs {
		userIDs = append(userIDs, l.UserID)
	}
	var users []models.User
	ctl.db.Where("id IN ?", userIDs).Find(&users)
	usernames := make(map[uint32]string, len(users))
	for _, u := range users {
		usernames[u.ID] = u.Username
	}

	type CompareResult struct {
		UserID      uint32    `json:"user_id"`
		Username    string    `json:"username"`
		ChallengeID uint32    `json:"challenge_id"`
		Result      string    `json:"result"`
		SubmittedAt time.Time `json:"submitted_at"`
		IPAddress   string    `json:"ip_address"`
	}
	results := make([]CompareResult, 0, len(logs))
	for _, l := range logs {
		results = append(results, CompareResult{
			UserID:      l.UserID,
			Username:    usernames[l.UserID],
			ChallengeID: l.ChallengeID,
			Result:      string(l.Result),
			SubmittedAt: l.SubmittedAt,
			IPAddress:   l.IPAddress,
		})
	}

	utils.Success(c, "success", gin.H{
		"flag_value":  flag,
		"submissions": results,
	})
}
