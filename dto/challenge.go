// file: dto/challenge.go
package dto

import "strings"

// ========== 请求 DTO ==========

// 字段统一使用 snake_case，不再兼容旧客户端的 camelCase 别名

type CreateChallengeReq struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`   // web / crypto / forensics / reverse / pwn / misc
	Difficulty    string `json:"difficulty"` // easy / medium / hard
	Points        uint   `json:"points"`
	Flag          string `json:"flag"`
	Hint          string `json:"hint"`
	AttachmentURL string `json:"attachment_url"`
	IsActive      *bool  `json:"is_active"`
}

// Normalize 清洗输入并补默认值
func (r *CreateChallengeReq) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))
	r.AttachmentURL = strings.TrimSpace(r.AttachmentURL)

	if r.Difficulty == "" {
		r.Difficulty = "medium"
	}
}

type UpdateChallengeReq struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Category      *string `json:"category"`
	Difficulty    *string `json:"difficulty"`
	Points        *uint   `json:"points"`
	Flag          *string `json:"flag"`
	Hint          *string `json:"hint"`
	AttachmentURL *string `json:"attachment_url"`
	IsActive      *bool   `json:"is_active"`
}

type SubmitFlagReq struct {
	Flag string `json:"flag"`
}

func (r *SubmitFlagReq) Normalize() {
	r.Flag = strings.TrimSpace(r.Flag)
}

// ========== 响应 DTO ==========

type ChallengeItemResp struct {
	ID          uint32 `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
	Points      uint   `json:"points"`
	SolvedCount uint   `json:"solved_count"`
}

type ChallengeDetailResp struct {
	ID            uint32 `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty"`
	Points        uint   `json:"points"`
	Hint          string `json:"hint,omitempty"`
	AttachmentURL string `json:"attachment_url,omitempty"`
	SolvedCount   uint   `json:"solved_count"`
}

// ====== Admin 专用响应 DTO（含 Flag 等敏感字段） ======

type AdminChallengeItemResp struct {
	ID          uint32 `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
	Points      uint   `json:"points"`
	IsActive    bool   `json:"is_active"`
	SolvedCount uint   `json:"solved_count"`
	UpdatedAt   string `json:"updated_at"`
}

type AdminChallengeDetailResp struct {
	ID            uint32 `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty"`
	Points        uint   `json:"points"`
	Flag          string `json:"flag"`
	Hint          string `json:"hint,omitempty"`
	AttachmentURL string `json:"attachment_url,omitempty"`
	IsActive      bool   `json:"is_active"`
	SolvedCount   uint   `json:"solved_count"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}
