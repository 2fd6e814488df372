// file: dto/user.go
package dto

// ========== 请求 DTO ==========

type RegisterReq struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Password    string `json:"password" binding:"required,min=8"`
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name"`
}

type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ========== 响应 DTO ==========

type UserProfileResp struct {
	ID          uint32   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Role        string   `json:"role"`
	Score       uint     `json:"score"`
	SolvedCount int      `json:"solved_count"`
	Rank        int      `json:"rank,omitempty"`
	Badges      []string `json:"badges"`
	CreatedAt   string   `json:"created_at"`
}
