package dto

type SkillGapRequest struct {
	JobIDs []string `json:"job_ids" validate:"required,min=1,max=10,dive,uuid"`
}
