package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shulehub/shule-api/internal/dto"
	"github.com/shulehub/shule-api/internal/models"
	"github.com/shulehub/shule-api/internal/repository"
	"github.com/shulehub/shule-api/internal/scope"
)

var (
	// ErrExamNotFound indicates the exam is missing or out of scope.
	ErrExamNotFound = errors.New("exam not found")
	// ErrExamSubjectNotFound indicates the exam-subject link is missing or out of scope.
	ErrExamSubjectNotFound = errors.New("exam subject not found")
)

// ExamService exposes exam use cases.
type ExamService interface {
	List(ctx context.Context, p scope.Principal) ([]dto.ExamResponse, error)
	Get(ctx context.Context, p scope.Principal, id uint) (dto.ExamResponse, error)
	Create(ctx context.Context, p scope.Principal, payload dto.ExamCreateRequest) (dto.ExamResponse, error)
	Update(ctx context.Context, p scope.Principal, id uint, payload dto.ExamUpdateRequest) (dto.ExamResponse, error)
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type examService struct {
	exams     repository.ExamRepository
	classes   repository.ClassRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewExamService builds a new exam service.
func NewExamService(exams repository.ExamRepository, classes repository.ClassRepository, validate *validator.Validate, logger zerolog.Logger) ExamService {
	return &examService{
		exams:     exams,
		classes:   classes,
		validator: validate,
		logger:    logger.With().Str("component", "exam_service").Logger(),
		now:       time.Now,
	}
}

func (s *examService) List(ctx context.Context, p scope.Principal) ([]dto.ExamResponse, error) {
	exams, err := s.exams.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return dto.NewExamResponseSlice(exams), nil
}

func (s *examService) Get(ctx context.Context, p scope.Principal, id uint) (dto.ExamResponse, error) {
	exam, err := s.exams.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamResponse{}, ErrExamNotFound
		}
		return dto.ExamResponse{}, err
	}
	return dto.NewExamResponse(exam), nil
}

func (s *examService) Create(ctx context.Context, p scope.Principal, payload dto.ExamCreateRequest) (dto.ExamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamResponse{}, err
	}

	// The class is resolved through the caller's scope, so an exam can never
	// be attached to another teacher's class. The denormalized owner pointer
	// is copied from the class, keeping the two in agreement.
	class, err := s.classes.GetByID(ctx, p, payload.ClassID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamResponse{}, ErrClassNotFound
		}
		return dto.ExamResponse{}, err
	}

	exam := models.Exam{
		ClassID:   class.ID,
		Name:      payload.Name,
		Date:      s.now(),
		TeacherID: class.TeacherID,
	}
	if err := s.exams.Create(ctx, &exam); err != nil {
		return dto.ExamResponse{}, err
	}

	s.logger.Info().Uint("exam_id", exam.ID).Uint("class_id", class.ID).Msg("exam created")

	created, err := s.exams.GetByID(ctx, p, exam.ID)
	if err != nil {
		return dto.ExamResponse{}, err
	}
	return dto.NewExamResponse(created), nil
}

func (s *examService) Update(ctx context.Context, p scope.Principal, id uint, payload dto.ExamUpdateRequest) (dto.ExamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamResponse{}, err
	}

	exam, err := s.exams.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamResponse{}, ErrExamNotFound
		}
		return dto.ExamResponse{}, err
	}

	if payload.Name != nil {
		exam.Name = *payload.Name
	}
	if payload.ClassID != nil && *payload.ClassID != exam.ClassID {
		class, err := s.classes.GetByID(ctx, p, *payload.ClassID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ExamResponse{}, ErrClassNotFound
			}
			return dto.ExamResponse{}, err
		}
		exam.ClassID = class.ID
		exam.TeacherID = class.TeacherID
	}

	if err := s.exams.Save(ctx, &exam); err != nil {
		return dto.ExamResponse{}, err
	}

	s.logger.Info().Uint("exam_id", exam.ID).Msg("exam updated")

	updated, err := s.exams.GetByID(ctx, p, exam.ID)
	if err != nil {
		return dto.ExamResponse{}, err
	}
	return dto.NewExamResponse(updated), nil
}

func (s *examService) Delete(ctx context.Context, p scope.Principal, id uint) error {
	if err := s.exams.Delete(ctx, p, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExamNotFound
		}
		return err
	}
	s.logger.Info().Uint("exam_id", id).Msg("exam deleted")
	return nil
}

// ExamSubjectService exposes exam-subject link use cases.
type ExamSubjectService interface {
	List(ctx context.Context, p scope.Principal) ([]dto.ExamSubjectResponse, error)
	Get(ctx context.Context, p scope.Principal, id uint) (dto.ExamSubjectResponse, error)
	Create(ctx context.Context, p scope.Principal, payload dto.ExamSubjectCreateRequest) (dto.ExamSubjectResponse, error)
	Update(ctx context.Context, p scope.Principal, id uint, payload dto.ExamSubjectUpdateRequest) (dto.ExamSubjectResponse, error)
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type examSubjectService struct {
	examSubjects repository.ExamSubjectRepository
	exams        repository.ExamRepository
	subjects     repository.SubjectRepository
	validator    *validator.Validate
	logger       zerolog.Logger
}

// NewExamSubjectService builds a new exam-subject service.
func NewExamSubjectService(examSubjects repository.ExamSubjectRepository, exams repository.ExamRepository, subjects repository.SubjectRepository, validate *validator.Validate, logger zerolog.Logger) ExamSubjectService {
	return &examSubjectService{
		examSubjects: examSubjects,
		exams:        exams,
		subjects:     subjects,
		validator:    validate,
		logger:       logger.With().Str("component", "exam_subject_service").Logger(),
	}
}

func (s *examSubjectService) List(ctx context.Context, p scope.Principal) ([]dto.ExamSubjectResponse, error) {
	examSubjects, err := s.examSubjects.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return dto.NewExamSubjectResponseSlice(examSubjects), nil
}

func (s *examSubjectService) Get(ctx context.Context, p scope.Principal, id uint) (dto.ExamSubjectResponse, error) {
	examSubject, err := s.examSubjects.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamSubjectResponse{}, ErrExamSubjectNotFound
		}
		return dto.ExamSubjectResponse{}, err
	}
	return dto.NewExamSubjectResponse(examSubject), nil
}

func (s *examSubjectService) Create(ctx context.Context, p scope.Principal, payload dto.ExamSubjectCreateRequest) (dto.ExamSubjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamSubjectResponse{}, err
	}

	if _, err := s.exams.GetByID(ctx, p, payload.ExamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamSubjectResponse{}, ErrExamNotFound
		}
		return dto.ExamSubjectResponse{}, err
	}
	if _, err := s.subjects.GetByID(ctx, payload.SubjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamSubjectResponse{}, ErrSubjectNotFound
		}
		return dto.ExamSubjectResponse{}, err
	}

	examSubject := models.ExamSubject{
		ExamID:    payload.ExamID,
		SubjectID: payload.SubjectID,
		MaxMarks:  payload.MaxMarks,
	}
	if err := s.examSubjects.Create(ctx, &examSubject); err != nil {
		return dto.ExamSubjectResponse{}, err
	}

	s.logger.Info().Uint("exam_subject_id", examSubject.ID).Msg("exam subject created")

	created, err := s.examSubjects.GetByID(ctx, p, examSubject.ID)
	if err != nil {
		return dto.ExamSubjectResponse{}, err
	}
	return dto.NewExamSubjectResponse(created), nil
}

func (s *examSubjectService) Update(ctx context.Context, p scope.Principal, id uint, payload dto.ExamSubjectUpdateRequest) (dto.ExamSubjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamSubjectResponse{}, err
	}

	examSubject, err := s.examSubjects.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ExamSubjectResponse{}, ErrExamSubjectNotFound
		}
		return dto.ExamSubjectResponse{}, err
	}

	if payload.MaxMarks != nil {
		examSubject.MaxMarks = payload.MaxMarks
	}

	if err := s.examSubjects.Save(ctx, &examSubject); err != nil {
		return dto.ExamSubjectResponse{}, err
	}

	s.logger.Info().Uint("exam_subject_id", examSubject.ID).Msg("exam subject updated")
	return dto.NewExamSubjectResponse(examSubject), nil
}

func (s *examSubjectService) Delete(ctx context.Context, p scope.Principal, id uint) error {
	if err := s.examSubjects.Delete(ctx, p, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExamSubjectNotFound
		}
		return err
	}
	s.logger.Info().Uint("exam_subject_id", id).Msg("exam subject deleted")
	return nil
}
