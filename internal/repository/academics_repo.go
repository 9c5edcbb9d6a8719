package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shulehub/shule-api/internal/models"
	"github.com/shulehub/shule-api/internal/scope"
)

// ClassRepository provides scoped access to classes.
type ClassRepository interface {
	List(ctx context.Context, p scope.Principal) ([]models.Class, error)
	GetByID(ctx context.Context, p scope.Principal, id uint) (models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Save(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository constructs a GORM-backed class repository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) List(ctx context.Context, p scope.Principal) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Classes)).
		Preload("Teacher").Preload("Teacher.Account").
		Order("created_at DESC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) GetByID(ctx context.Context, p scope.Principal, id uint) (models.Class, error) {
	var class models.Class
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Classes)).
		Preload("Teacher").Preload("Teacher.Account").
		First(&class, id).Error
	if err != nil {
		return models.Class{}, err
	}
	return class, nil
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepository) Save(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Save(class).Error
}

func (r *classRepository) Delete(ctx context.Context, p scope.Principal, id uint) error {
	result := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Classes)).
		Delete(&models.Class{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SubjectRepository provides access to the global subject catalogue.
type SubjectRepository interface {
	List(ctx context.Context) ([]models.Subject, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Subject, error)
	GetByID(ctx context.Context, id uint) (models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Save(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id uint) error
}

type subjectRepository struct {
	db *gorm.DB
}

// NewSubjectRepository constructs a GORM-backed subject repository.
func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Subject, error) {
	var subjects []models.Subject
	if len(ids) == 0 {
		return subjects, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *subjectRepository) GetByID(ctx context.Context, id uint) (models.Subject, error) {
	var subject models.Subject
	if err := r.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return models.Subject{}, err
	}
	return subject, nil
}

func (r *subjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *subjectRepository) Save(ctx context.Context, subject *models.Subject) error {
	return r.db.WithContext(ctx).Save(subject).Error
}

func (r *subjectRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Subject{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExamRepository provides scoped access to exams.
type ExamRepository interface {
	List(ctx context.Context, p scope.Principal) ([]models.Exam, error)
	GetByID(ctx context.Context, p scope.Principal, id uint) (models.Exam, error)
	Create(ctx context.Context, exam *models.Exam) error
	Save(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type examRepository struct {
	db *gorm.DB
}

// NewExamRepository constructs a GORM-backed exam repository.
func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) List(ctx context.Context, p scope.Principal) ([]models.Exam, error) {
	var exams []models.Exam
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Exams)).
		Preload("Class").Preload("Teacher").
		Order("date DESC").
		Find(&exams).Error
	if err != nil {
		return nil, err
	}
	return exams, nil
}

func (r *examRepository) GetByID(ctx context.Context, p scope.Principal, id uint) (models.Exam, error) {
	var exam models.Exam
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Exams)).
		Preload("Class").Preload("Teacher").
		First(&exam, id).Error
	if err != nil {
		return models.Exam{}, err
	}
	return exam, nil
}

func (r *examRepository) Create(ctx context.Context, exam *models.Exam) error {
	return r.db.WithContext(ctx).Create(exam).Error
}

func (r *examRepository) Save(ctx context.Context, exam *models.Exam) error {
	return r.db.WithContext(ctx).Save(exam).Error
}

func (r *examRepository) Delete(ctx context.Context, p scope.Principal, id uint) error {
	result := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Exams)).
		Delete(&models.Exam{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExamSubjectRepository provides scoped access to exam-subject links.
type ExamSubjectRepository interface {
	List(ctx context.Context, p scope.Principal) ([]models.ExamSubject, error)
	GetByID(ctx context.Context, p scope.Principal, id uint) (models.ExamSubject, error)
	Create(ctx context.Context, examSubject *models.ExamSubject) error
	Save(ctx context.Context, examSubject *models.ExamSubject) error
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type examSubjectRepository struct {
	db *gorm.DB
}

// NewExamSubjectRepository constructs a GORM-backed exam-subject repository.
func NewExamSubjectRepository(db *gorm.DB) ExamSubjectRepository {
	return &examSubjectRepository{db: db}
}

func (r *examSubjectRepository) List(ctx context.Context, p scope.Principal) ([]models.ExamSubject, error) {
	var examSubjects []models.ExamSubject
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.ExamSubjects)).
		Preload("Exam").Preload("Exam.Class").Preload("Subject").
		Find(&examSubjects).Error
	if err != nil {
		return nil, err
	}
	return examSubjects, nil
}

func (r *examSubjectRepository) GetByID(ctx context.Context, p scope.Principal, id uint) (models.ExamSubject, error) {
	var examSubject models.ExamSubject
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.ExamSubjects)).
		Preload("Exam").Preload("Exam.Class").Preload("Subject").
		First(&examSubject, id).Error
	if err != nil {
		return models.ExamSubject{}, err
	}
	return examSubject, nil
}

func (r *examSubjectRepository) Create(ctx context.Context, examSubject *models.ExamSubject) error {
	return r.db.WithContext(ctx).Create(examSubject).Error
}

func (r *examSubjectRepository) Save(ctx context.Context, examSubject *models.ExamSubject) error {
	return r.db.WithContext(ctx).Save(examSubject).Error
}

func (r *examSubjectRepository) Delete(ctx context.Context, p scope.Principal, id uint) error {
	result := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.ExamSubjects)).
		Delete(&models.ExamSubject{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
