package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shulehub/shule-api/internal/dto"
	"github.com/shulehub/shule-api/internal/models"
	"github.com/shulehub/shule-api/internal/repository"
	"github.com/shulehub/shule-api/internal/scope"
)

var (
	// ErrForbidden marks an explicit permission failure on an object the
	// caller is otherwise allowed to see.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrNoTeacherProfile indicates the account cannot own teaching resources.
	ErrNoTeacherProfile = errors.New("account has no teacher profile")
	// ErrTeacherNotFound indicates the teacher profile is missing or out of scope.
	ErrTeacherNotFound = errors.New("teacher not found")
)

// TeacherService exposes teacher profile use cases.
type TeacherService interface {
	List(ctx context.Context, p scope.Principal) ([]dto.TeacherResponse, error)
	Get(ctx context.Context, p scope.Principal, id uint) (dto.TeacherResponse, error)
	Create(ctx context.Context, p scope.Principal, payload dto.TeacherCreateRequest) (dto.TeacherResponse, error)
	Update(ctx context.Context, p scope.Principal, id uint, payload dto.TeacherUpdateRequest) (dto.TeacherResponse, error)
	Delete(ctx context.Context, p scope.Principal, id uint) error
	StartPremium(ctx context.Context, p scope.Principal, id uint, payload dto.StartSubscriptionRequest) (dto.TeacherResponse, error)
}

type teacherService struct {
	teachers  repository.TeacherRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewTeacherService builds a new teacher service.
func NewTeacherService(teachers repository.TeacherRepository, validate *validator.Validate, logger zerolog.Logger) TeacherService {
	return &teacherService{
		teachers:  teachers,
		validator: validate,
		logger:    logger.With().Str("component", "teacher_service").Logger(),
	}
}

func (s *teacherService) List(ctx context.Context, p scope.Principal) ([]dto.TeacherResponse, error) {
	teachers, err := s.teachers.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return dto.NewTeacherResponseSlice(teachers), nil
}

func (s *teacherService) Get(ctx context.Context, p scope.Principal, id uint) (dto.TeacherResponse, error) {
	teacher, err := s.teachers.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherResponse{}, ErrTeacherNotFound
		}
		return dto.TeacherResponse{}, err
	}
	return dto.NewTeacherResponse(teacher), nil
}

func (s *teacherService) Create(ctx context.Context, p scope.Principal, payload dto.TeacherCreateRequest) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherResponse{}, err
	}

	// Owner-equality check: only staff may create a profile for another account.
	if !p.IsStaff && payload.AccountID != p.AccountID {
		return dto.TeacherResponse{}, ErrForbidden
	}

	teacher := models.TeacherProfile{
		AccountID:   payload.AccountID,
		Email:       payload.Email,
		SchoolName:  payload.SchoolName,
		MobilePhone: payload.MobilePhone,
	}
	profile := models.Profile{}

	if err := s.teachers.CreateWithProfile(ctx, &teacher, &profile); err != nil {
		return dto.TeacherResponse{}, err
	}

	s.logger.Info().Uint("teacher_id", teacher.ID).Msg("teacher profile created")

	created, err := s.teachers.GetByID(ctx, p, teacher.ID)
	if err != nil {
		return dto.TeacherResponse{}, err
	}
	return dto.NewTeacherResponse(created), nil
}

func (s *teacherService) Update(ctx context.Context, p scope.Principal, id uint, payload dto.TeacherUpdateRequest) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherResponse{}, err
	}

	teacher, err := s.teachers.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherResponse{}, ErrTeacherNotFound
		}
		return dto.TeacherResponse{}, err
	}

	if payload.Email != nil {
		teacher.Email = *payload.Email
	}
	if payload.SchoolName != nil {
		teacher.SchoolName = *payload.SchoolName
	}
	if payload.MobilePhone != nil {
		teacher.MobilePhone = *payload.MobilePhone
	}

	if err := s.teachers.Save(ctx, &teacher); err != nil {
		return dto.TeacherResponse{}, err
	}

	s.logger.Info().Uint("teacher_id", teacher.ID).Msg("teacher profile updated")
	return dto.NewTeacherResponse(teacher), nil
}

func (s *teacherService) Delete(ctx context.Context, p scope.Principal, id uint) error {
	if err := s.teachers.Delete(ctx, p, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		return err
	}
	s.logger.Info().Uint("teacher_id", id).Msg("teacher profile deleted")
	return nil
}

func (s *teacherService) StartPremium(ctx context.Context, p scope.Principal, id uint, payload dto.StartSubscriptionRequest) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherResponse{}, err
	}

	teacher, err := s.teachers.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeacherResponse{}, ErrTeacherNotFound
		}
		return dto.TeacherResponse{}, err
	}

	teacher.StartPremiumSubscription(payload.Days)
	if err := s.teachers.Save(ctx, &teacher); err != nil {
		return dto.TeacherResponse{}, err
	}

	s.logger.Info().
		Uint("teacher_id", teacher.ID).
		Time("subscription_end", teacher.SubscriptionEndDate).
		Msg("premium subscription started")
	return dto.NewTeacherResponse(teacher), nil
}
