// file: mappers/challenge_mapper.go
package mappers

import (
	"NovaCTF/dto"
	"NovaCTF/models"
)

func MapCreateReqToModel(req dto.CreateChallengeReq) models.Challenge {
	isActive := false
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	return models.Challenge{
		Title:         req.Title,
		Description:   req.Description,
		Category:      models.ChallengeCategory(req.Category),
		Difficulty:    models.ChallengeDifficulty(req.Difficulty),
		Points:        req.Points,
		Flag:          req.Flag,
		Hint:          req.Hint,
		AttachmentURL: req.AttachmentURL,
		IsActive:      isActive,
	}
}

// MapModelToItemResp 玩家可见的列表项，绝不携带 Flag
func MapModelToItemResp(ch models.Challenge) dto.ChallengeItemResp {
	return dto.ChallengeItemResp{
		ID:          ch.ID,
		Title:       ch.Title,
		Category:    string(ch.Category),
		Difficulty:  string(ch.Difficulty),
		Points:      ch.Points,
		SolvedCount: ch.SolvedCount,
	}
}

func MapModelToDetailResp(ch models.Challenge) dto.ChallengeDetailResp {
	return dto.ChallengeDetailResp{
		ID:            ch.ID,
		Title:         ch.Title,
		Description:   ch.Description,
		Category:      string(ch.Category),
		Difficulty:    string(ch.Difficulty),
		Points:        ch.Points,
		Hint:          ch.Hint,
		AttachmentURL: ch.AttachmentURL,
		SolvedCount:   ch.SolvedCount,
	}
}

func MapModelToAdminItemResp(ch models.Challenge) dto.AdminChallengeItemResp {
	return dto.AdminChallengeItemResp{
		ID:          ch.ID,
		Title:       ch.Title,
		Category:    string(ch.Category),
		Difficulty:  string(ch.Difficulty),
		Points:      ch.Points,
		IsActive:    ch.IsActive,
		SolvedCount: ch.SolvedCount,
		UpdatedAt:   ch.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func MapModelToAdminDetailResp(ch models.Challenge) dto.AdminChallengeDetailResp {
	return dto.AdminChallengeDetailResp{
		ID:            ch.ID,
		Title:         ch.Title,
		Description:   ch.Description,
		Category:      string(ch.Category),
		Difficulty:    string(ch.Difficulty),
		Points:        ch.Points,
		Flag:          ch.Flag,
		Hint:          ch.Hint,
		AttachmentURL: ch.AttachmentURL,
		IsActive:      ch.IsActive,
		SolvedCount:   ch.SolvedCount,
		CreatedAt:     ch.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     ch.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
