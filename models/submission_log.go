// file: models/submission_log.go
package models

import (
	"time"
)

type FlagResult string

const (
	FlagResultCorrect   FlagResult = "correct"
	FlagResultWrong     FlagResult = "wrong"
	FlagResultDuplicate FlagResult = "duplicate"
)

// SubmissionLog 追加式提交日志，供管理员审计与可疑标记，不参与计分判定
type SubmissionLog struct {
	ID            uint64     `gorm:"primarykey"`
	ChallengeID   uint32     `gorm:"index;not null"`
	UserID        uint32     `gorm:"index;not null"`
	SubmittedFlag string     `gorm:"size:255;not null"`
	Result        FlagResult `gorm:"size:16;not null"`
	IPAddress     string     `gorm:"size:45"`
	Suspected     bool       `gorm:"not null;default:false"`
	SubmittedAt   time.Time
}

func (SubmissionLog) TableName() string {
	return "novactf_flag_information"
}
