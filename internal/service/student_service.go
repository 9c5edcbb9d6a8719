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
	// ErrStudentNotFound indicates the student is missing or out of scope.
	ErrStudentNotFound = errors.New("student not found")
	// ErrScoreNotFound indicates the score is missing or out of scope.
	ErrScoreNotFound = errors.New("score not found")
)

// StudentService exposes student use cases, including subject enrolment.
type StudentService interface {
	List(ctx context.Context, p scope.Principal) ([]dto.StudentResponse, error)
	Get(ctx context.Context, p scope.Principal, id uint) (dto.StudentResponse, error)
	Create(ctx context.Context, p scope.Principal, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
	Update(ctx context.Context, p scope.Principal, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type studentService struct {
	students  repository.StudentRepository
	classes   repository.ClassRepository
	subjects  repository.SubjectRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentService builds a new student service.
func NewStudentService(students repository.StudentRepository, classes repository.ClassRepository, subjects repository.SubjectRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  students,
		classes:   classes,
		subjects:  subjects,
		validator: validate,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context, p scope.Principal) ([]dto.StudentResponse, error) {
	students, err := s.students.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return dto.NewStudentResponseSlice(students), nil
}

func (s *studentService) Get(ctx context.Context, p scope.Principal, id uint) (dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Create(ctx context.Context, p scope.Principal, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, p, payload.ClassID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrClassNotFound
		}
		return dto.StudentResponse{}, err
	}

	subjects, err := s.resolveSubjects(ctx, payload.SubjectIDs)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		AssessmentNo:   payload.AssessmentNo,
		RegistrationNo: payload.RegistrationNo,
		Age:            payload.Age,
		Gender:         payload.Gender,
		ClassID:        class.ID,
		Subjects:       subjects,
	}
	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Uint("class_id", class.ID).Msg("student created")

	created, err := s.students.GetByID(ctx, p, student.ID)
	if err != nil {
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(created), nil
}

func (s *studentService) Update(ctx context.Context, p scope.Principal, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.students.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	if payload.FirstName != nil {
		student.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		student.LastName = *payload.LastName
	}
	if payload.AssessmentNo != nil {
		student.AssessmentNo = *payload.AssessmentNo
	}
	if payload.RegistrationNo != nil {
		student.RegistrationNo = *payload.RegistrationNo
	}
	if payload.Age != nil {
		student.Age = payload.Age
	}
	if payload.Gender != nil {
		student.Gender = *payload.Gender
	}
	if payload.ClassID != nil && *payload.ClassID != student.ClassID {
		class, err := s.classes.GetByID(ctx, p, *payload.ClassID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.StudentResponse{}, ErrClassNotFound
			}
			return dto.StudentResponse{}, err
		}
		student.ClassID = class.ID
	}

	if err := s.students.Save(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	// A non-nil subject list replaces the enrolment set wholesale.
	if payload.SubjectIDs != nil {
		subjects, err := s.resolveSubjects(ctx, *payload.SubjectIDs)
		if err != nil {
			return dto.StudentResponse{}, err
		}
		if err := s.students.ReplaceSubjects(ctx, &student, subjects); err != nil {
			return dto.StudentResponse{}, err
		}
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student updated")

	updated, err := s.students.GetByID(ctx, p, student.ID)
	if err != nil {
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(updated), nil
}

func (s *studentService) Delete(ctx context.Context, p scope.Principal, id uint) error {
	if err := s.students.Delete(ctx, p, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}
	s.logger.Info().Uint("student_id", id).Msg("student deleted")
	return nil
}

func (s *studentService) resolveSubjects(ctx context.Context, ids []uint) ([]models.Subject, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	subjects, err := s.subjects.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(subjects) != len(dedupe(ids)) {
		return nil, ErrSubjectNotFound
	}
	return subjects, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ScoreService exposes score use cases.
type ScoreService interface {
	List(ctx context.Context, p scope.Principal) ([]dto.ScoreResponse, error)
	Get(ctx context.Context, p scope.Principal, id uint) (dto.ScoreResponse, error)
	Create(ctx context.Context, p scope.Principal, payload dto.ScoreCreateRequest) (dto.ScoreResponse, error)
	Update(ctx context.Context, p scope.Principal, id uint, payload dto.ScoreUpdateRequest) (dto.ScoreResponse, error)
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type scoreService struct {
	scores       repository.ScoreRepository
	students     repository.StudentRepository
	examSubjects repository.ExamSubjectRepository
	validator    *validator.Validate
	logger       zerolog.Logger
}

// NewScoreService builds a new score service.
func NewScoreService(scores repository.ScoreRepository, students repository.StudentRepository, examSubjects repository.ExamSubjectRepository, validate *validator.Validate, logger zerolog.Logger) ScoreService {
	return &scoreService{
		scores:       scores,
		students:     students,
		examSubjects: examSubjects,
		validator:    validate,
		logger:       logger.With().Str("component", "score_service").Logger(),
	}
}

func (s *scoreService) List(ctx context.Context, p scope.Principal) ([]dto.ScoreResponse, error) {
	scores, err := s.scores.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return dto.NewScoreResponseSlice(scores), nil
}

func (s *scoreService) Get(ctx context.Context, p scope.Principal, id uint) (dto.ScoreResponse, error) {
	score, err := s.scores.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ScoreResponse{}, ErrScoreNotFound
		}
		return dto.ScoreResponse{}, err
	}
	return dto.NewScoreResponse(score), nil
}

func (s *scoreService) Create(ctx context.Context, p scope.Principal, payload dto.ScoreCreateRequest) (dto.ScoreResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ScoreResponse{}, err
	}

	// Both sides of the link are resolved through the caller's scope.
	if _, err := s.students.GetByID(ctx, p, payload.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ScoreResponse{}, ErrStudentNotFound
		}
		return dto.ScoreResponse{}, err
	}
	if _, err := s.examSubjects.GetByID(ctx, p, payload.ExamSubjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ScoreResponse{}, ErrExamSubjectNotFound
		}
		return dto.ScoreResponse{}, err
	}

	score := models.Score{
		StudentID:     payload.StudentID,
		ExamSubjectID: payload.ExamSubjectID,
		MarksObtained: payload.MarksObtained,
	}
	if err := s.scores.Create(ctx, &score); err != nil {
		return dto.ScoreResponse{}, err
	}

	s.logger.Info().Uint("score_id", score.ID).Msg("score recorded")

	created, err := s.scores.GetByID(ctx, p, score.ID)
	if err != nil {
		return dto.ScoreResponse{}, err
	}
	return dto.NewScoreResponse(created), nil
}

func (s *scoreService) Update(ctx context.Context, p scope.Principal, id uint, payload dto.ScoreUpdateRequest) (dto.ScoreResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ScoreResponse{}, err
	}

	score, err := s.scores.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ScoreResponse{}, ErrScoreNotFound
		}
		return dto.ScoreResponse{}, err
	}

	if payload.MarksObtained != nil {
		score.MarksObtained = payload.MarksObtained
	}

	if err := s.scores.Save(ctx, &score); err != nil {
		return dto.ScoreResponse{}, err
	}

	s.logger.Info().Uint("score_id", score.ID).Msg("score updated")
	return dto.NewScoreResponse(score), nil
}

func (s *scoreService) Delete(ctx context.Context, p scope.Principal, id uint) error {
	if err := s.scores.Delete(ctx, p, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScoreNotFound
		}
		return err
	}
	s.logger.Info().Uint("score_id", id).Msg("score deleted")
	return nil
}
