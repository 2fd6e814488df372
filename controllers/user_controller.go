// file: controllers/user_controller.go
package controllers

import (
	"errors"
	"log"
	"strconv"

	"NovaCTF/dto"
	"NovaCTF/models"
	"NovaCTF/services"
	"NovaCTF/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type UserController struct {
	db     *gorm.DB
	rdb    *redis.Client
	badges *services.BadgeService
	boards *services.LeaderboardService
}

func NewUserController(db *gorm.DB, rdb *redis.Client, badges *services.BadgeService, boards *services.LeaderboardService) *UserController {
	return &UserController{db: db, rdb: rdb, badges: badges, boards: boards}
}

// --- 公开接口 ---

func (ctl *UserController) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "Invalid request body: "+err.Error())
		return
	}

	var existing models.User
	if err := ctl.db.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error; err == nil {
		utils.Error(c, 2001, "Username or email already registered")
		return
	}

	newUser := models.User{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		DisplayName: req.DisplayName,
	}
	if newUser.DisplayName == "" {
		newUser.DisplayName = req.Username
	}

	if err := ctl.db.Create(&newUser).Error; err != nil {
		utils.Error(c, 5000, "Database error: "+err.Error())
		return
	}

	// 注册本身是动态流事件，让缓存立即失效
	services.InvalidateViewCaches(c.Request.Context(), ctl.rdb)

	utils.Success(c, "User registered successfully", gin.H{
		"id":       newUser.ID,
		"username": newUser.Username,
		"role":     newUser.Role,
	})
}

func (ctl *UserController) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "Invalid request body: "+err.Error())
		return
	}

	var user models.User
	if err := ctl.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.Error(c, 2002, "Wrong email or password")
		return
	}
	if !user.CheckPassword(req.Password) {
		utils.Error(c, 2002, "Wrong email or password")
		return
	}
	if user.Status == models.StatusBanned {
		utils.Error(c, 2005, "Account banned")
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.Error(c, 5002, "Failed to issue token")
		return
	}

	utils.Success(c, "Login success", gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
			"score":    user.Score,
		},
	})
}

// --- 需要登录的接口 ---

// GetUserDetail 用户详情：分数、解题数、名次、徽章。本人或管理员可见
func (ctl *UserController) GetUserDetail(c *gin.Context) {
	targetUserID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 1002, "Invalid user ID")
		return
	}

	requesterID := c.MustGet("user_id").(uint32)
	requesterRole := c.MustGet("user_role").(models.UserRole)
	if uint32(targetUserID) != requesterID && requesterRole != models.RoleAdmin {
		utils.Error(c, 4003, "Permission denied")
		return
	}

	var user models.User
	if err := ctl.db.First(&user, targetUserID).Error; err != nil {
		utils.Error(c, 4004, "User not found")
		return
	}

	var solvedCount int64
	ctl.db.Model(&models.Submission{}).
		Where("user_id = ? AND is_correct = ?", user.ID, true).
		Count(&solvedCount)

	var owned []models.UserBadge
	ctl.db.Where("user_id = ?", user.ID).Order("badge_id asc").Find(&owned)
	badges := make([]string, 0, len(owned))
	for _, b := range owned {
		badges = append(badges, b.BadgeID)
	}

	// 名次查询失败时不把 0 当数据返回：记日志并整体省略 rank 字段
	rank, err := ctl.boards.GetUserRank(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("Rank lookup failed for user %d: %v", user.ID, err)
		rank = 0
	}

	utils.Success(c, "success", dto.UserProfileResp{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		Score:       user.Score,
		SolvedCount: int(solvedCount),
		Rank:        rank,
		Badges:      badges,
		CreatedAt:   user.CreatedAt.Format("2006-01-02 15:04:05"),
	})
}

// GetUserBadges 查询用户当前持有的徽章（含目录元数据）
func (ctl *UserController) GetUserBadges(c *gin.Context) {
	targetUserID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 1002, "Invalid user ID")
		return
	}

	var user models.User
	if err := ctl.db.First(&user, targetUserID).Error; err != nil {
		utils.Error(c, 4004, "User not found")
		return
	}

	var owned []models.UserBadge
	ctl.db.Where("user_id = ?", user.ID).Order("badge_id asc").Find(&owned)

	type badgeInfo struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		AwardedAt   string `json:"awarded_at"`
	}
	infos := make([]badgeInfo, 0, len(owned))
	for _, b := range owned {
		info := badgeInfo{ID: b.BadgeID, AwardedAt: b.AwardedAt.Format("2006-01-02 15:04:05")}
		if meta := models.BadgeByID(b.BadgeID); meta != nil {
			info.Name = meta.Name
			info.Description = meta.Description
		}
		infos = append(infos, info)
	}

	utils.Success(c, "success", gin.H{"badges": infos})
}

// EvaluateBadges 手动触发一次徽章评估（幂等，正常由计分路径自动触发）
func (ctl *UserController) EvaluateBadges(c *gin.Context) {
	targetUserID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 1002, "Invalid user ID")
		return
	}

	requesterID := c.MustGet("user_id").(uint32)
	requesterRole := c.MustGet("user_role").(models.UserRole)
	if uint32(targetUserID) != requesterID && requesterRole != models.RoleAdmin {
		utils.Error(c, 4003, "Permission denied")
		return
	}

	report, err := ctl.badges.EvaluateBadges(c.Request.Context(), uint32(targetUserID))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.Error(c, 4004, "User not found")
			return
		}
		utils.Error(c, 5000, "Database error")
		return
	}

	utils.Success(c, "success", report)
}

// --- 管理员接口 ---

func (ctl *UserController) GetUserList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := ctl.db.Model(&models.User{}).Count(&total).Error; err != nil {
		utils.Error(c, 5000, "Database error")
		return
	}

	var users []models.User
	if err := ctl.db.Order("id asc").Offset((page - 1) * limit).Limit(limit).Find(&users).Error; err != nil {
		utils.Error(c, 5000, "Database error")
		return
	}

	utils.Success(c, "success", gin.H{
		"total": total,
		"page":  page,
		"limit": limit,
		"users": users,
	})
}

// UpdateUserStatus 封禁/解封用户。封禁不清除历史分数，只是禁止登录
func (ctl *UserController) UpdateUserStatus(c *gin.Context) {
	targetUserID, _ := strconv.Atoi(c.Param("id"))

	var req struct {
		Status models.UserStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "Invalid request body")
		return
	}
	if req.Status != models.StatusActive && req.Status != models.StatusBanned {
		utils.Error(c, 1001, "Invalid status (active/banned)")
		return
	}

	result := ctl.db.Model(&models.User{}).Where("id = ?", targetUserID).Update("status", req.Status)
	if result.Error != nil {
		utils.Error(c, 5000, "Database error")
		return
	}
	if result.RowsAffected == 0 {
		utils.Error(c, 4004, "User not found")
		return
	}

	utils.Success(c, "User status updated", nil)
}

// DeleteUser 管理员移除用户。软删除：置 status=banned 禁止登录，
// 行不物理删除，提交历史与已得分全部保留（硬删除会破坏分数不变量）
func (ctl *UserController) DeleteUser(c *gin.Context) {
	targetUserID, _ := strconv.Atoi(c.Param("id"))

	result := ctl.db.Model(&models.User{}).Where("id = ?", targetUserID).Update("status", models.StatusBanned)
	if result.Error != nil {
		utils.Error(c, 5000, "Database error")
		return
	}
	if result.RowsAffected == 0 {
		utils.Error(c, 4004, "User not found")
		return
	}

	services.InvalidateViewCaches(c.Request.Context(), ctl.rdb)
	utils.Success(c, "User removed", nil)
}

func (ctl *UserController) UpdateUserRole(c *gin.Context) {
	targetUserID, _ := strconv.Atoi(c.Param("id"))

	var req struct {
		Role models.UserRole `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "Invalid request body")
		return
	}
	if req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		utils.Error(c, 1001, "Invalid role (user/admin)")
		return
	}

	result := ctl.db.Model(&models.User{}).Where("id = ?", targetUserID).Update("role", req.Role)
	if result.Error != nil {
		utils.Error(c, 5000, "Database error")
		return
	}
	if result.RowsAffected == 0 {
		utils.Error(c, 4004, "User not found")
		return
	}

	utils.Success(c, "User role updated", nil)
}
