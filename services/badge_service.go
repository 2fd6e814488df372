// file: services/badge_service.go
package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"NovaCTF/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BadgeReport 一次评估的结果：全量持有集合 + 本次新增
type BadgeReport struct {
	All          []string `json:"all_badges"`
	NewlyAwarded []string `json:"newly_awarded"`
}

type BadgeService struct {
	db *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{db: db}
}

// EvaluateBadges 按静态目录重新评估用户应持有的徽章并持久化新增项。
// 徽章只增不减：已持有的不复查、不回收。重复调用且无新提交时
// NewlyAwarded 恒为空（可安全重入，由唯一索引 + DoNothing 兜底）
func (s *BadgeService) EvaluateBadges(ctx context.Context, userID uint32) (BadgeReport, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BadgeReport{}, ErrUserNotFound
		}
		return BadgeReport{}, err
	}

	stats, err := s.collectStats(db, &user)
	if err != nil {
		return BadgeReport{}, err
	}

	var owned []models.UserBadge
	if err := db.Where("user_id = ?", userID).Find(&owned).Error; err != nil {
		return BadgeReport{}, err
	}
	held := make(map[string]bool, len(owned))
	all := make([]string, 0, len(owned))
	for _, b := range owned {
		held[b.BadgeID] = true
		all = append(all, b.BadgeID)
	}

	newly := make([]string, 0)
	now := time.Now()
	for _, badge := range models.BadgeCatalog {
		if held[badge.ID] || !badge.Predicate(stats) {
			continue
		}
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
			DoNothing: true,
		}).Create(&models.UserBadge{UserID: userID, BadgeID: badge.ID, AwardedAt: now})
		if res.Error != nil {
			return BadgeReport{}, res.Error
		}
		all = append(all, badge.ID)
		if res.RowsAffected > 0 {
			newly = append(newly, badge.ID)
		}
	}

	sort.Strings(all)
	sort.Strings(newly)
	return BadgeReport{All: all, NewlyAwarded: newly}, nil
}

// collectStats 聚合正确提交，得到徽章谓词的输入状态
func (s *BadgeService) collectStats(db *gorm.DB, user *models.User) (models.SolveStats, error) {
	var categories []models.ChallengeCategory
	err := db.Table("novactf_submission s").
		Joins("JOIN novactf_challenge c ON c.id = s.challenge_id").
		Where("s.user_id = ? AND s.is_correct = ?", user.ID, true).
		Pluck("c.category", &categories).Error
	if err != nil {
		return models.SolveStats{}, err
	}

	stats := models.SolveStats{
		TotalSolved: len(categories),
		Score:       user.Score,
		ByCategory:  make(map[models.ChallengeCategory]int),
	}
	for _, c := range categories {
		stats.ByCategory[c]++
	}
	return stats, nil
}
