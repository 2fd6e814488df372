// file: services/activity_service.go
package services

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"NovaCTF/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivitySolve    ActivityType = "solve"
	ActivityRegister ActivityType = "register"
)

// ActivityEntry 动态流条目，Type 区分解题事件与注册事件
type ActivityEntry struct {
	Type           ActivityType `json:"type"`
	UserID         uint32       `json:"user_id"`
	Username       string       `json:"username"`
	ChallengeID    uint32       `json:"challenge_id,omitempty"`
	ChallengeTitle string       `json:"challenge_title,omitempty"`
	Points         uint         `json:"points,omitempty"`
	OccurredAt     time.Time    `json:"occurred_at"`
}

type ActivityService struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewActivityService(db *gorm.DB, rdb *redis.Client) *ActivityService {
	return &ActivityService{db: db, rdb: rdb}
}

// GetRecentActivity 合并最近的正确提交与新用户注册，按时间倒序。
// 两个来源各取 limit 条后合并，再截断到 limit：任一来源的突发
// 都不会在截断前把另一来源挤出窗口
func (s *ActivityService) GetRecentActivity(ctx context.Context, limit int) ([]ActivityEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	if s.rdb != nil {
		if val, err := s.rdb.Get(ctx, cacheKeyActivity).Result(); err == nil {
			var cached []ActivityEntry
			if json.Unmarshal([]byte(val), &cached) == nil && len(cached) >= limit {
				return cached[:limit], nil
			}
		}
	}

	db := s.db.WithContext(ctx)

	var solves []models.Submission
	err := db.Where("is_correct = ?", true).
		Order("submitted_at desc, id desc").
		Limit(limit).
		Find(&solves).Error
	if err != nil {
		return nil, err
	}

	var newcomers []models.User
	err = db.Order("created_at desc, id desc").
		Limit(limit).
		Find(&newcomers).Error
	if err != nil {
		return nil, err
	}

	entries := make([]ActivityEntry, 0, len(solves)+len(newcomers))

	if len(solves) > 0 {
		userIDs := make([]uint32, 0, len(solves))
		chalIDs := make([]uint32, 0, len(solves))
		for _, sub := range solves {
			userIDs = append(userIDs, sub.UserID)
			chalIDs = append(chalIDs, sub.ChallengeID)
		}
		var users []models.User
		if err := db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return nil, err
		}
		var challenges []models.Challenge
		if err := db.Where("id IN ?", chalIDs).Find(&challenges).Error; err != nil {
			return nil, err
		}
		userByID := make(map[uint32]models.User, len(users))
		for _, u := range users {
			userByID[u.ID] = u
		}
		chalByID := make(map[uint32]models.Challenge, len(challenges))
		for _, c := range challenges {
			chalByID[c.ID] = c
		}
		for _, sub := range solves {
			entries = append(entries, ActivityEntry{
				Type:           ActivitySolve,
				UserID:         sub.UserID,
				Username:       userByID[sub.UserID].Username,
				ChallengeID:    sub.ChallengeID,
				ChallengeTitle: chalByID[sub.ChallengeID].Title,
				Points:         chalByID[sub.ChallengeID].Points,
				OccurredAt:     sub.SubmittedAt,
			})
		}
	}

	for _, u := range newcomers {
		entries = append(entries, ActivityEntry{
			Type:       ActivityRegister,
			UserID:     u.ID,
			Username:   u.Username,
			OccurredAt: u.CreatedAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.After(b.OccurredAt)
		}
		if a.Type != b.Type {
			return a.Type == ActivitySolve
		}
		return a.UserID < b.UserID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}

	if s.rdb != nil {
		if data, err := json.Marshal(entries); err == nil {
			s.rdb.Set(ctx, cacheKeyActivity, data, 15*time.Second)
		}
	}
	return entries, nil
}
