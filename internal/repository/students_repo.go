package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shulehub/shule-api/internal/models"
	"github.com/shulehub/shule-api/internal/scope"
)

// StudentRepository provides scoped access to students and their subject
// enrolments.
type StudentRepository interface {
	List(ctx context.Context, p scope.Principal) ([]models.Student, error)
	GetByID(ctx context.Context, p scope.Principal, id uint) (models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Save(ctx context.Context, student *models.Student) error
	ReplaceSubjects(ctx context.Context, student *models.Student, subjects []models.Subject) error
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a GORM-backed student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) List(ctx context.Context, p scope.Principal) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Students)).
		Preload("Class").Preload("Subjects").
		Order("last_name ASC, first_name ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) GetByID(ctx context.Context, p scope.Principal, id uint) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Students)).
		Preload("Class").Preload("Subjects").
		First(&student, id).Error
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) Save(ctx context.Context, student *models.Student) error {
	// Omit the association so enrolment changes stay explicit via ReplaceSubjects.
	return r.db.WithContext(ctx).Omit("Subjects").Save(student).Error
}

func (r *studentRepository) ReplaceSubjects(ctx context.Context, student *models.Student, subjects []models.Subject) error {
	return r.db.WithContext(ctx).Model(student).Association("Subjects").Replace(subjects)
}

func (r *studentRepository) Delete(ctx context.Context, p scope.Principal, id uint) error {
	result := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Students)).
		Delete(&models.Student{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ScoreRepository provides scoped access to per-exam-subject scores.
type ScoreRepository interface {
	List(ctx context.Context, p scope.Principal) ([]models.Score, error)
	GetByID(ctx context.Context, p scope.Principal, id uint) (models.Score, error)
	Create(ctx context.Context, score *models.Score) error
	Save(ctx context.Context, score *models.Score) error
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type scoreRepository struct {
	db *gorm.DB
}

// NewScoreRepository constructs a GORM-backed score repository.
func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) List(ctx context.Context, p scope.Principal) ([]models.Score, error) {
	var scores []models.Score
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Scores)).
		Preload("Student").Preload("ExamSubject").Preload("ExamSubject.Subject").Preload("ExamSubject.Exam").
		Find(&scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *scoreRepository) GetByID(ctx context.Context, p scope.Principal, id uint) (models.Score, error) {
	var score models.Score
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Scores)).
		Preload("Student").Preload("ExamSubject").Preload("ExamSubject.Subject").Preload("ExamSubject.Exam").
		First(&score, id).Error
	if err != nil {
		return models.Score{}, err
	}
	return score, nil
}

func (r *scoreRepository) Create(ctx context.Context, score *models.Score) error {
	return r.db.WithContext(ctx).Create(score).Error
}

func (r *scoreRepository) Save(ctx context.Context, score *models.Score) error {
	return r.db.WithContext(ctx).Save(score).Error
}

func (r *scoreRepository) Delete(ctx context.Context, p scope.Principal, id uint) error {
	result := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Scores)).
		Delete(&models.Score{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
