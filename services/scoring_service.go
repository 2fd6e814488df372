// file: services/scoring_service.go
package services

import (
	"context"
	"errors"
	"log"
	"time"

	"NovaCTF/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmitOutcome string

const (
	OutcomeCorrect       SubmitOutcome = "correct"
	OutcomeWrong         SubmitOutcome = "wrong"
	OutcomeAlreadySolved SubmitOutcome = "already_solved"
)

// SubmitResult 提交判定的显式结果，AlreadySolved 是正常结果而非错误
type SubmitResult struct {
	Outcome  SubmitOutcome `json:"outcome"`
	Message  string        `json:"message"`
	Points   uint          `json:"points,omitempty"`
	NewScore uint          `json:"new_score,omitempty"`
}

func (r SubmitResult) IsCorrect() bool {
	return r.Outcome == OutcomeCorrect || r.Outcome == OutcomeAlreadySolved
}

func (r SubmitResult) AlreadySolved() bool {
	return r.Outcome == OutcomeAlreadySolved
}

type ScoringService struct {
	db     *gorm.DB
	rdb    *redis.Client
	badges *BadgeService
}

func NewScoringService(db *gorm.DB, rdb *redis.Client, badges *BadgeService) *ScoringService {
	return &ScoringService{db: db, rdb: rdb, badges: badges}
}

// SubmitFlag 校验提交的 Flag 并在首次正确时计分。
//
// 判定为精确的大小写敏感字符串比较。计分幂等性依赖提交表
// (user_id, challenge_id) 唯一索引 + 插入探测冲突 + 带 is_correct 守卫的
// 条件更新，而不是先读后写：并发的两次正确提交最多只有一次加分。
// 整个"写提交行 + 加分 + 更新解题数"在单个事务内完成；
// 徽章评估在事务提交之后执行，失败只记日志，绝不回滚分数
func (s *ScoringService) SubmitFlag(ctx context.Context, userID, challengeID uint32, submittedFlag, ipAddress string) (SubmitResult, error) {
	if submittedFlag == "" {
		return SubmitResult{}, ErrEmptyFlag
	}

	var result SubmitResult
	newlySolved := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		// 下架题目 (is_active=false) 对玩家等同于不存在
		var challenge models.Challenge
		if err := tx.Where("is_active = ?", true).First(&challenge, challengeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChallengeNotFound
			}
			return err
		}

		correct := challenge.Flag == submittedFlag
		now := time.Now()

		solved, priorSolved, err := s.persistAttempt(tx, userID, challengeID, submittedFlag, correct, now)
		if err != nil {
			return err
		}

		switch {
		case solved:
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				UpdateColumn("score", gorm.Expr("score + ?", challenge.Points)).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Challenge{}).Where("id = ?", challengeID).
				UpdateColumn("solved_count", gorm.Expr("solved_count + ?", 1)).Error; err != nil {
				return err
			}
			newlySolved = true
			result = SubmitResult{
				Outcome:  OutcomeCorrect,
				Message:  "Correct flag, challenge solved",
				Points:   challenge.Points,
				NewScore: user.Score + challenge.Points,
			}
			return s.appendLog(tx, userID, challengeID, submittedFlag, models.FlagResultCorrect, ipAddress, now)

		case priorSolved:
			// 该组合已有正确记录：无论本次提交什么，都是无副作用的重复提交
			result = SubmitResult{
				Outcome:  OutcomeAlreadySolved,
				Message:  "Challenge already solved, no points awarded",
				NewScore: user.Score,
			}
			return s.appendLog(tx, userID, challengeID, submittedFlag, models.FlagResultDuplicate, ipAddress, now)

		default:
			// 错误提交不泄露任何关于正确 Flag 的信息
			result = SubmitResult{
				Outcome:  OutcomeWrong,
				Message:  "Wrong flag, try again",
				NewScore: user.Score,
			}
			return s.appendLog(tx, userID, challengeID, submittedFlag, models.FlagResultWrong, ipAddress, now)
		}
	})
	if err != nil {
		return SubmitResult{}, err
	}

	if newlySolved {
		InvalidateViewCaches(ctx, s.rdb)
		if s.badges != nil {
			if _, err := s.badges.EvaluateBadges(ctx, userID); err != nil {
				log.Printf("Badge evaluation failed for user %d: %v", userID, err)
			}
		}
	}

	return result, nil
}

// persistAttempt 落库本次提交，返回 (本次是否构成首次正确解题, 此前是否已解出)。
//
// 三条路径都以唯一索引为准绳：
//  1. 无旧行：OnConflict DoNothing 插入，RowsAffected=0 说明并发方抢先，转入 2/3
//  2. 旧行已正确：不做任何覆盖，报告重复
//  3. 旧行为错误尝试：带 is_correct=false 守卫的条件更新，RowsAffected=0
//     说明并发方刚把它改成了正确行，同样按重复处理
func (s *ScoringService) persistAttempt(tx *gorm.DB, userID, challengeID uint32, flag string, correct bool, now time.Time) (solved, priorSolved bool, err error) {
	var existing models.Submission
	err = tx.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		sub := models.Submission{
			UserID:        userID,
			ChallengeID:   challengeID,
			SubmittedFlag: flag,
			IsCorrect:     correct,
			SubmittedAt:   now,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "challenge_id"}},
			DoNothing: true,
		}).Create(&sub)
		if res.Error != nil {
			return false, false, res.Error
		}
		if res.RowsAffected > 0 {
			return correct, false, nil
		}
		// 插入冲突：并发请求已建行，重读后按已有行处理
		if err := tx.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&existing).Error; err != nil {
			return false, false, err
		}
	} else if err != nil {
		return false, false, err
	}

	if existing.IsCorrect {
		return false, true, nil
	}

	if !correct {
		// upsert 语义：保留每组合最近一次失败尝试
		res := tx.Model(&models.Submission{}).
			Where("user_id = ? AND challenge_id = ? AND is_correct = ?", userID, challengeID, false).
			Updates(map[string]interface{}{
				"submitted_flag": flag,
				"submitted_at":   now,
			})
		return false, false, res.Error
	}

	res := tx.Model(&models.Submission{}).
		Where("user_id = ? AND challenge_id = ? AND is_correct = ?", userID, challengeID, false).
		Updates(map[string]interface{}{
			"is_correct":     true,
			"submitted_flag": flag,
			"submitted_at":   now,
		})
	if res.Error != nil {
		return false, false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, true, nil
	}
	return true, false, nil
}

func (s *ScoringService) appendLog(tx *gorm.DB, userID, challengeID uint32, flag string, result models.FlagResult, ip string, now time.Time) error {
	entry := models.SubmissionLog{
		ChallengeID:   challengeID,
		UserID:        userID,
		SubmittedFlag: flag,
		Result:        result,
		IPAddress:     ip,
		SubmittedAt:   now,
	}
	return tx.Create(&entry).Error
}
