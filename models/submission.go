// file: models/submission.go
package models

import (
	"time"
)

// Submission 保存每个 (user, challenge) 组合的最近一次提交。
// 唯一索引保证同一组合最多一行，并发的首次正确提交只有一个能落库计分；
// 正确行落库后不再被覆盖，SubmittedAt 即首次解出时间（first blood 排序依据）
type Submission struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	UserID        uint32    `gorm:"uniqueIndex:uniq_submission_pair;not null" json:"user_id"`
	ChallengeID   uint32    `gorm:"uniqueIndex:uniq_submission_pair;not null" json:"challenge_id"`
	SubmittedFlag string    `gorm:"size:255;not null" json:"-"`
	IsCorrect     bool      `gorm:"not null;default:false" json:"is_correct"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

func (Submission) TableName() string {
	return "novactf_submission"
}
