// file: controllers/challenge_controller.go
package controllers

import (
	"errors"
	"strconv"
	"strings"

	"NovaCTF/dto"
	"NovaCTF/mappers"
	"NovaCTF/models"
	"NovaCTF/services"
	"NovaCTF/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type ChallengeController struct {
	db      *gorm.DB
	rdb     *redis.Client
	scoring *services.ScoringService
}

func NewChallengeController(db *gorm.DB, rdb *redis.Client, scoring *services.ScoringService) *ChallengeController {
	return &ChallengeController{db: db, rdb: rdb, scoring: scoring}
}

// ListChallenges —— 玩家可见的题目列表（仅上架题，不带 Flag）
func (ctl *ChallengeController) ListChallenges(c *gin.Context) {
	db := ctl.db.Model(&models.Challenge{}).Where("is_active = ?", true)

	if cat := strings.ToLower(strings.TrimSpace(c.Query("category"))); cat != "" {
		db = db.Where("category = ?", cat)
	}
	if diff := strings.ToLower(strings.TrimSpace(c.Query("difficulty"))); diff != "" {
		db = db.Where("difficulty = ?", diff)
	}

	var challenges []models.Challenge
	if err := db.Order("id asc").Find(&challenges).Error; err != nil {
		utils.Error(c, 5000, "Database error")
		return
	}

	items := make([]dto.ChallengeItemResp, 0, len(challenges))
	for _, ch := range challenges {
		items = append(items, mappers.MapModelToItemResp(ch))
	}

	utils.Success(c, "success", gin.H{
		"total":      len(items),
		"challenges": items,
	})
}

// GetChallengeDetail —— 玩家可见的题目详情
func (ctl *ChallengeController) GetChallengeDetail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var challenge models.Challenge
	if err := ctl.db.First(&challenge, id).Error; err != nil {
		utils.Error(c, 4004, "Challenge not found")
		return
	}
	if !challenge.IsActive {
		// 下架题对玩家等同于不存在，不暴露历史存在性
		utils.Error(c, 4004, "Challenge not found")
		return
	}

	utils.Success(c, "success", mappers.MapModelToDetailResp(challenge))
}

// SubmitFlag —— 提交 Flag，判定与计分交给 ScoringService
func (ctl *ChallengeController) SubmitFlag(c *gin.Context) {
	challengeID, _ := strconv.Atoi(c.Param("id"))

	var req dto.SubmitFlagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "Invalid request body: "+err.Error())
		return
	}
	req.Normalize()

	userIDAny, exists := c.Get("user_id")
	if !exists {
		utils.Error(c, 4001, "Not logged in")
		return
	}
	userID := userIDAny.(uint32)

	result, err := ctl.scoring.SubmitFlag(c.Request.Context(), userID, uint32(challengeID), req.Flag, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyFlag):
			utils.Error(c, 1001, "Flag must not be empty")
		case errors.Is(err, services.ErrChallengeNotFound):
			utils.Error(c, 4004, "Challenge not found")
		case errors.Is(err, services.ErrUserNotFound):
			utils.Error(c, 4004, "User not found")
		default:
			utils.Error(c, 5000, "Database error")
		}
		return
	}

	utils.Success(c, result.Message, gin.H{
		"is_correct":     result.IsCorrect(),
		"already_solved": result.AlreadySolved(),
		"outcome":        result.Outcome,
		"points":         result.Points,
		"new_score":      result.NewScore,
	})
}

// CreateChallenge —— 管理员创建题目
func (ctl *ChallengeController) CreateChallenge(c *gin.Context) {
	var req dto.CreateChallengeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "Invalid request body: "+err.Error())
		return
	}
	req.Normalize()

	if req.Title == "" || req.Description == "" || req.Category == "" {
		utils.Error(c, 1001, "Missing required fields")
		return
	}
	if !models.ValidCategory(models.ChallengeCategory(req.Category)) {
		utils.Error(c, 1001, "Invalid category")
		return
	}
	if req.Difficulty != "easy" && req.Difficulty != "medium" && req.Difficulty != "hard" {
		utils.Error(c, 1001, "Invalid difficulty (easy/medium/hard)")
		return
	}
	if req.Points == 0 {
		utils.Error(c, 1001, "Points must be positive")
		return
	}
	if strings.TrimSpace(req.Flag) == "" {
		utils.Error(c, 1002, "A static flag is required")
		return
	}

	chal := mappers.MapCreateReqToModel(req)
	if err := ctl.db.Create(&chal).Error; err != nil {
		utils.Error(c, 5000, "Failed to create challenge: "+err.Error())
		return
	}

	services.InvalidateViewCaches(c.Request.Context(), ctl.rdb)
	utils.Success(c, "Challenge created successfully", gin.H{"id": chal.ID})
}

// UpdateChallenge —— 管理员编辑题目（按字段增量更新）
func (ctl *ChallengeController) UpdateChallenge(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var chal models.Challenge
	if err := ctl.db.First(&chal, id).Error; err != nil {
		utils.Error(c, 4004, "Challenge not found")
		return
	}

	var req dto.UpdateChallengeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "Invalid request body: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		cat := models.ChallengeCategory(strings.ToLower(strings.TrimSpace(*req.Category)))
		if !models.ValidCategory(cat) {
			utils.Error(c, 1001, "Invalid category")
			return
		}
		updates["category"] = cat
	}
	if req.Difficulty != nil {
		diff := strings.ToLower(strings.TrimSpace(*req.Difficulty))
		if diff != "easy" && diff != "medium" && diff != "hard" {
			utils.Error(c, 1001, "Invalid difficulty (easy/medium/hard)")
			return
		}
		updates["difficulty"] = diff
	}
	if req.Points != nil {
		if *req.Points == 0 {
			utils.Error(c, 1001, "Points must be positive")
			return
		}
		updates["points"] = *req.Points
	}
	if req.Flag != nil {
		if strings.TrimSpace(*req.Flag) == "" {
			utils.Error(c, 1002, "Flag must not be empty")
			return
		}
		updates["flag"] = *req.Flag
	}
	if req.Hint != nil {
		updates["hint"] = *req.Hint
	}
	if req.AttachmentURL != nil {
		updates["attachment_url"] = strings.TrimSpace(*req.AttachmentURL)
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		utils.Error(c, 1001, "No fields to update")
		return
	}

	if err := ctl.db.Model(&chal).Updates(updates).Error; err != nil {
		utils.Error(c, 5000, "Failed to update challenge: "+err.Error())
		return
	}

	services.InvalidateViewCaches(c.Request.Context(), ctl.rdb)
	utils.Success(c, "Challenge updated successfully", nil)
}

// DeleteChallenge —— 管理员下架题目。软删除：置 is_active=false，
// 保留提交历史和已得分（硬删除会破坏分数不变量）
func (ctl *ChallengeController) DeleteChallenge(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	result := ctl.db.Model(&models.Challenge{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		utils.Error(c, 5000, "Database error")
		return
	}
	if result.RowsAffected == 0 {
		utils.Error(c, 4004, "Challenge not found")
		return
	}

	services.InvalidateViewCaches(c.Request.Context(), ctl.rdb)
	utils.Success(c, "Challenge deactivated", nil)
}

// AdminListChallenges —— 管理员查询题目列表（上架/下架均可，筛选+分页）
func (ctl *ChallengeController) AdminListChallenges(c *gin.Context) {
	cat := strings.ToLower(strings.TrimSpace(c.Query("category")))
	diff := strings.ToLower(strings.TrimSpace(c.Query("difficulty")))
	state := strings.TrimSpace(c.Query("state")) // active / inactive
	kw := strings.TrimSpace(c.Query("keyword"))

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := ctl.db.Model(&models.Challenge{})
	if cat != "" {
		db = db.Where("category = ?", cat)
	}
	if diff != "" {
		db = db.Where("difficulty = ?", diff)
	}
	if state == "active" {
		db = db.Where("is_active = ?", true)
	} else if state == "inactive" {
		db = db.Where("is_active = ?", false)
	}
	if kw != "" {
		like := "%" + kw + "%"
		db = db.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		utils.Error(c, 5000, "Database error")
		return
	}

	var list []models.Challenge
	if err := db.Order("updated_at DESC").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		utils.Error(c, 5000, "Database error")
		return
	}

	items := make([]dto.AdminChallengeItemResp, 0, len(list))
	for _, ch := range list {
		items = append(items, mappers.MapModelToAdminItemResp(ch))
	}

	utils.Success(c, "success", gin.H{
		"total":      total,
		"page":       page,
		"limit":      limit,
		"challenges": items,
	})
}

// AdminGetChallengeDetail —— 管理员题目详情（含 Flag）
func (ctl *ChallengeController) AdminGetChallengeDetail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var ch models.Challenge
	if err := ctl.db.First(&ch, id).Error; err != nil {
		utils.Error(c, 4004, "Challenge not found")
		return
	}

	utils.Success(c, "success", mappers.MapModelToAdminDetailResp(ch))
}

// GenerateFlag —— 为管理员随机生成一条静态 Flag
func (ctl *ChallengeController) GenerateFlag(c *gin.Context) {
	utils.Success(c, "success", gin.H{"flag": utils.GenerateFlag()})
}
