package dto

import (
	"time"

	"github.com/shulehub/shule-api/internal/models"
)

// TeacherCreateRequest creates a teacher profile for an existing account
// (staff operation; self-service creation happens through registration).
type TeacherCreateRequest struct {
	AccountID   uint   `json:"account_id" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	SchoolName  string `json:"school_name" validate:"omitempty,max=100"`
	MobilePhone string `json:"mobile_phone" validate:"omitempty,len=10,numeric"`
}

// TeacherUpdateRequest patches a teacher profile.
type TeacherUpdateRequest struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	SchoolName  *string `json:"school_name" validate:"omitempty,max=100"`
	MobilePhone *string `json:"mobile_phone" validate:"omitempty,len=10,numeric"`
}

// StartSubscriptionRequest opens a premium window; days defaults to a year.
type StartSubscriptionRequest struct {
	Days int `json:"days" validate:"omitempty,gt=0,lte=3650"`
}

// TeacherResponse is the serialized teacher profile.
type TeacherResponse struct {
	ID                     uint            `json:"id"`
	Account                AccountResponse `json:"account"`
	Email                  string          `json:"email"`
	SchoolName             string          `json:"school_name"`
	MobilePhone            string          `json:"mobile_phone"`
	FreeDownloadsRemaining int             `json:"free_downloads_remaining"`
	PaidDownloads          int             `json:"paid_downloads"`
	IsPremium              bool            `json:"is_premium"`
	SubscriptionStartDate  time.Time       `json:"subscription_start_date"`
	SubscriptionEndDate    time.Time       `json:"subscription_end_date"`
}

// NewTeacherResponse converts a teacher profile model into a DTO.
func NewTeacherResponse(model models.TeacherProfile) TeacherResponse {
	return TeacherResponse{
		ID:                     model.ID,
		Account:                NewAccountResponse(model.Account),
		Email:                  model.Email,
		SchoolName:             model.SchoolName,
		MobilePhone:            model.MobilePhone,
		FreeDownloadsRemaining: model.FreeDownloadsRemaining,
		PaidDownloads:          model.PaidDownloads,
		IsPremium:              model.IsPremium,
		SubscriptionStartDate:  model.SubscriptionStartDate,
		SubscriptionEndDate:    model.SubscriptionEndDate,
	}
}

// NewTeacherResponseSlice converts a slice of teacher profiles into DTOs.
func NewTeacherResponseSlice(teachers []models.TeacherProfile) []TeacherResponse {
	responses := make([]TeacherResponse, 0, len(teachers))
	for _, teacher := range teachers {
		responses = append(responses, NewTeacherResponse(teacher))
	}
	return responses
}

// ProfileUpdateRequest patches the free-text bio.
type ProfileUpdateRequest struct {
	Bio *string `json:"bio" validate:"omitempty,max=2000"`
}

// ProfileResponse is the serialized account profile.
type ProfileResponse struct {
	ID        uint            `json:"id"`
	Account   AccountResponse `json:"account"`
	Bio       string          `json:"bio"`
	AvatarURL string          `json:"avatar_url"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewProfileResponse converts a profile model into a DTO.
func NewProfileResponse(model models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        model.ID,
		Account:   NewAccountResponse(model.Account),
		Bio:       model.Bio,
		AvatarURL: model.AvatarURL,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewProfileResponseSlice converts a slice of profiles into DTOs.
func NewProfileResponseSlice(profiles []models.Profile) []ProfileResponse {
	responses := make([]ProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		responses = append(responses, NewProfileResponse(profile))
	}
	return responses
}
