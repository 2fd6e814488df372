// file: models/badge.go
package models

import (
	"time"
)

// UserBadge 持久化用户已获得的徽章，(user_id, badge_id) 唯一，只增不删
type UserBadge struct {
	ID        uint32    `gorm:"primarykey" json:"id"`
	UserID    uint32    `gorm:"uniqueIndex:uniq_user_badge;not null" json:"user_id"`
	BadgeID   string    `gorm:"uniqueIndex:uniq_user_badge;size:40;not null" json:"badge_id"`
	AwardedAt time.Time `json:"awarded_at"`
}

func (UserBadge) TableName() string {
	return "novactf_user_badge"
}

// SolveStats 徽章判定的输入：用户解题聚合状态
type SolveStats struct {
	TotalSolved int
	Score       uint
	ByCategory  map[ChallengeCategory]int
}

// Badge 静态徽章目录条目，Predicate 是关于 SolveStats 的纯函数
type Badge struct {
	ID          string
	Name        string
	Description string
	Predicate   func(SolveStats) bool
}

func minSolved(n int) func(SolveStats) bool {
	return func(s SolveStats) bool { return s.TotalSolved >= n }
}

func minScore(n uint) func(SolveStats) bool {
	return func(s SolveStats) bool { return s.Score >= n }
}

func categorySolved(cat ChallengeCategory, n int) func(SolveStats) bool {
	return func(s SolveStats) bool { return s.ByCategory[cat] >= n }
}

// BadgeCatalog 全量徽章目录。判定阈值是平台规则的一部分，改动即规则变更
var BadgeCatalog = buildCatalog()

func buildCatalog() []Badge {
	catalog := []Badge{
		{ID: "first_solve", Name: "First Solve", Description: "Solve your first challenge", Predicate: minSolved(1)},
		{ID: "veteran", Name: "Veteran", Description: "Solve 10 challenges in total", Predicate: minSolved(10)},
		{ID: "score_100", Name: "Centurion", Description: "Reach 100 points", Predicate: minScore(100)},
		{ID: "score_500", Name: "High Roller", Description: "Reach 500 points", Predicate: minScore(500)},
		{ID: "score_1000", Name: "Grandmaster", Description: "Reach 1000 points", Predicate: minScore(1000)},
	}
	for _, cat := range Categories {
		cat := cat
		catalog = append(catalog, Badge{
			ID:          string(cat) + "_specialist",
			Name:        titleOf(cat) + " Specialist",
			Description: "Solve 3 challenges in category " + string(cat),
			Predicate:   categorySolved(cat, 3),
		})
	}
	return catalog
}

func titleOf(cat ChallengeCategory) string {
	switch cat {
	case CategoryWeb:
		return "Web"
	case CategoryCrypto:
		return "Crypto"
	case CategoryForensics:
		return "Forensics"
	case CategoryReverse:
		return "Reverse"
	case CategoryPwn:
		return "Pwn"
	default:
		return "Misc"
	}
}

// BadgeByID 按 ID 查目录条目，未知 ID 返回 nil
func BadgeByID(id string) *Badge {
	for i := range BadgeCatalog {
		if BadgeCatalog[i].ID == id {
			return &BadgeCatalog[i]
		}
	}
	return nil
}
