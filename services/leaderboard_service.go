// file: services/leaderboard_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"NovaCTF/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type LeaderboardEntry struct {
	UserID      uint32 `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Score       uint   `json:"score"`
	SolvedCount int    `json:"solved_count"`
	Rank        int    `json:"rank"`
}

type ChallengeSolver struct {
	UserID      uint32    `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	SolvedAt    time.Time `json:"solved_at"`
}

type LeaderboardService struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewLeaderboardService(db *gorm.DB, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{db: db, rdb: rdb}
}

// GetLeaderboard 计算全站排行。所有用户都在榜上（含零分用户）。
//
// 排序：总分降序；同分先到先排（最后一次正确提交更早者在前，
// 与原版 total_score desc, last_solve_time asc 的口径一致）；
// 无解题记录的同分用户按用户 ID 升序。名次 1..N 连续分配，不并列
func (s *LeaderboardService) GetLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	if cached, ok := s.fromCache(ctx, cacheKeyLeaderboard); ok {
		return cached, nil
	}

	db := s.db.WithContext(ctx)

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}
	var solves []models.Submission
	if err := db.Where("is_correct = ?", true).Find(&solves).Error; err != nil {
		return nil, err
	}

	solvedCount := make(map[uint32]int, len(users))
	lastSolve := make(map[uint32]time.Time, len(users))
	for _, sub := range solves {
		solvedCount[sub.UserID]++
		if sub.SubmittedAt.After(lastSolve[sub.UserID]) {
			lastSolve[sub.UserID] = sub.SubmittedAt
		}
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, LeaderboardEntry{
			UserID:      u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			Score:       u.Score,
			SolvedCount: solvedCount[u.ID],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		ta, okA := lastSolve[a.UserID]
		tb, okB := lastSolve[b.UserID]
		switch {
		case okA && okB && !ta.Equal(tb):
			return ta.Before(tb)
		case okA != okB:
			return okA // 有解题时间者排在无记录者之前
		default:
			return a.UserID < b.UserID
		}
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	s.toCache(ctx, cacheKeyLeaderboard, entries)
	return entries, nil
}

// GetChallengeSolvers 按 first blood 顺序返回某题的解出者，
// 每名用户只计首次正确提交，截断到 limit（默认 10，上限 100）
func (s *LeaderboardService) GetChallengeSolvers(ctx context.Context, challengeID uint32, limit int) ([]ChallengeSolver, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	cacheKey := fmt.Sprintf("%s%d:%d", cacheKeySolverPrefix, challengeID, limit)
	if s.rdb != nil {
		if val, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached []ChallengeSolver
			if json.Unmarshal([]byte(val), &cached) == nil {
				return cached, nil
			}
		}
	}

	db := s.db.WithContext(ctx)

	var challenge models.Challenge
	if err := db.First(&challenge, challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	// 正确行不会被覆盖，submitted_at 即首次解出时间
	var solves []models.Submission
	err := db.Where("challenge_id = ? AND is_correct = ?", challengeID, true).
		Order("submitted_at asc, id asc").
		Limit(limit).
		Find(&solves).Error
	if err != nil {
		return nil, err
	}
	if len(solves) == 0 {
		return []ChallengeSolver{}, nil
	}

	userIDs := make([]uint32, 0, len(solves))
	for _, sub := range solves {
		userIDs = append(userIDs, sub.UserID)
	}
	var users []models.User
	if err := db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint32]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	solvers := make([]ChallengeSolver, 0, len(solves))
	for _, sub := range solves {
		u := byID[sub.UserID]
		solvers = append(solvers, ChallengeSolver{
			UserID:      sub.UserID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			SolvedAt:    sub.SubmittedAt,
		})
	}

	if s.rdb != nil {
		if data, err := json.Marshal(solvers); err == nil {
			s.rdb.Set(ctx, cacheKey, data, 15*time.Second)
		}
	}
	return solvers, nil
}

// GetUserRank 查询单个用户的当前名次，供用户详情页展示
func (s *LeaderboardService) GetUserRank(ctx context.Context, userID uint32) (int, error) {
	entries, err := s.GetLeaderboard(ctx)
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if e.UserID == userID {
			return e.Rank, nil
		}
	}
	return 0, ErrUserNotFound
}

func (s *LeaderboardService) fromCache(ctx context.Context, key string) ([]LeaderboardEntry, bool) {
	if s.rdb == nil {
		return nil, false
	}
	val, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var entries []LeaderboardEntry
	if json.Unmarshal([]byte(val), &entries) != nil {
		return nil, false
	}
	return entries, true
}

func (s *LeaderboardService) toCache(ctx context.Context, key string, entries []LeaderboardEntry) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return
	}
	// 15 秒 TTL 兜底；写路径还会主动失效，保证准实时
	s.rdb.Set(ctx, key, data, 15*time.Second)
}
