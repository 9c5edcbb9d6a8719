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
	// ErrClassNotFound indicates the class is missing or out of scope.
	ErrClassNotFound = errors.New("class not found")
	// ErrSubjectNotFound indicates a referenced subject does not exist.
	ErrSubjectNotFound = errors.New("subject not found")
)

// ClassService exposes class use cases.
type ClassService interface {
	List(ctx context.Context, p scope.Principal) ([]dto.ClassResponse, error)
	Get(ctx context.Context, p scope.Principal, id uint) (dto.ClassResponse, error)
	Create(ctx context.Context, p scope.Principal, payload dto.ClassCreateRequest) (dto.ClassResponse, error)
	Update(ctx context.Context, p scope.Principal, id uint, payload dto.ClassUpdateRequest) (dto.ClassResponse, error)
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type classService struct {
	classes   repository.ClassRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewClassService builds a new class service.
func NewClassService(classes repository.ClassRepository, validate *validator.Validate, logger zerolog.Logger) ClassService {
	return &classService{
		classes:   classes,
		validator: validate,
		logger:    logger.With().Str("component", "class_service").Logger(),
	}
}

func (s *classService) List(ctx context.Context, p scope.Principal) ([]dto.ClassResponse, error) {
	classes, err := s.classes.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return dto.NewClassResponseSlice(classes), nil
}

func (s *classService) Get(ctx context.Context, p scope.Principal, id uint) (dto.ClassResponse, error) {
	class, err := s.classes.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}
		return dto.ClassResponse{}, err
	}
	return dto.NewClassResponse(class), nil
}

func (s *classService) Create(ctx context.Context, p scope.Principal, payload dto.ClassCreateRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	// Ownership is taken from the principal, never from the payload.
	if p.TeacherID == 0 {
		return dto.ClassResponse{}, ErrNoTeacherProfile
	}

	class := models.Class{Name: payload.Name, TeacherID: p.TeacherID}
	if err := s.classes.Create(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}

	s.logger.Info().Uint("class_id", class.ID).Msg("class created")

	created, err := s.classes.GetByID(ctx, p, class.ID)
	if err != nil {
		return dto.ClassResponse{}, err
	}
	return dto.NewClassResponse(created), nil
}

func (s *classService) Update(ctx context.Context, p scope.Principal, id uint, payload dto.ClassUpdateRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrClassNotFound
		}
		return dto.ClassResponse{}, err
	}

	if payload.Name != nil {
		class.Name = *payload.Name
	}

	if err := s.classes.Save(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}

	s.logger.Info().Uint("class_id", class.ID).Msg("class updated")
	return dto.NewClassResponse(class), nil
}

func (s *classService) Delete(ctx context.Context, p scope.Principal, id uint) error {
	if err := s.classes.Delete(ctx, p, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		return err
	}
	s.logger.Info().Uint("class_id", id).Msg("class deleted")
	return nil
}

// SubjectService exposes the global subject catalogue. Any authenticated
// principal may read or add subjects; deletion is reserved for staff because
// it cascades into every teacher's data.
type SubjectService interface {
	List(ctx context.Context) ([]dto.SubjectResponse, error)
	Get(ctx context.Context, id uint) (dto.SubjectResponse, error)
	Create(ctx context.Context, payload dto.SubjectCreateRequest) (dto.SubjectResponse, error)
	Update(ctx context.Context, id uint, payload dto.SubjectUpdateRequest) (dto.SubjectResponse, error)
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type subjectService struct {
	subjects  repository.SubjectRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSubjectService builds a new subject service.
func NewSubjectService(subjects repository.SubjectRepository, validate *validator.Validate, logger zerolog.Logger) SubjectService {
	return &subjectService{
		subjects:  subjects,
		validator: validate,
		logger:    logger.With().Str("component", "subject_service").Logger(),
	}
}

func (s *subjectService) List(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewSubjectResponseSlice(subjects), nil
}

func (s *subjectService) Get(ctx context.Context, id uint) (dto.SubjectResponse, error) {
	subject, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubjectResponse{}, ErrSubjectNotFound
		}
		return dto.SubjectResponse{}, err
	}
	return dto.NewSubjectResponse(subject), nil
}

func (s *subjectService) Create(ctx context.Context, payload dto.SubjectCreateRequest) (dto.SubjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubjectResponse{}, err
	}

	subject := models.Subject{Name: payload.Name}
	if err := s.subjects.Create(ctx, &subject); err != nil {
		return dto.SubjectResponse{}, err
	}

	s.logger.Info().Uint("subject_id", subject.ID).Msg("subject created")
	return dto.NewSubjectResponse(subject), nil
}

func (s *subjectService) Update(ctx context.Context, id uint, payload dto.SubjectUpdateRequest) (dto.SubjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubjectResponse{}, err
	}

	subject, err := s.subjects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubjectResponse{}, ErrSubjectNotFound
		}
		return dto.SubjectResponse{}, err
	}

	if payload.Name != nil {
		subject.Name = *payload.Name
	}

	if err := s.subjects.Save(ctx, &subject); err != nil {
		return dto.SubjectResponse{}, err
	}

	s.logger.Info().Uint("subject_id", subject.ID).Msg("subject updated")
	return dto.NewSubjectResponse(subject), nil
}

func (s *subjectService) Delete(ctx context.Context, p scope.Principal, id uint) error {
	if !p.IsStaff {
		return ErrForbidden
	}
	if err := s.subjects.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		return err
	}
	s.logger.Info().Uint("subject_id", id).Msg("subject deleted")
	return nil
}
