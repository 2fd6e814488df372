// file: models/challenge.go
package models

import (
	"time"
)

type ChallengeCategory string
type ChallengeDifficulty string

const (
	CategoryWeb       ChallengeCategory = "web"
	CategoryCrypto    ChallengeCategory = "crypto"
	CategoryForensics ChallengeCategory = "forensics"
	CategoryReverse   ChallengeCategory = "reverse"
	CategoryPwn       ChallengeCategory = "pwn"
	CategoryMisc      ChallengeCategory = "misc"

	ChallengeDifficultyEasy   ChallengeDifficulty = "easy"
	ChallengeDifficultyMedium ChallengeDifficulty = "medium"
	ChallengeDifficultyHard   ChallengeDifficulty = "hard"
)

// Categories 列出全部合法分类，供入参校验和徽章目录使用
var Categories = []ChallengeCategory{
	CategoryWeb, CategoryCrypto, CategoryForensics,
	CategoryReverse, CategoryPwn, CategoryMisc,
}

func ValidCategory(c ChallengeCategory) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type Challenge struct {
	ID            uint32              `gorm:"primarykey" json:"id"`
	Title         string              `gorm:"size:100;unique;not null" json:"title"`
	Description   string              `gorm:"type:text;not null" json:"description"`
	Category      ChallengeCategory   `gorm:"size:16;not null" json:"category"`
	Difficulty    ChallengeDifficulty `gorm:"size:16;not null;default:'medium'" json:"difficulty"`
	Points        uint                `gorm:"not null" json:"points"`
	Flag          string              `gorm:"size:255;not null" json:"-"`
	Hint          string              `gorm:"type:text" json:"hint,omitempty"`
	AttachmentURL string              `gorm:"size:2048" json:"attachment_url,omitempty"`
	IsActive      bool                `gorm:"not null;default:false" json:"is_active"`
	SolvedCount   uint                `gorm:"not null;default:0" json:"solved_count"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (Challenge) TableName() string {
	return "novactf_challenge"
}
