package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shulehub/shule-api/internal/models"
	"github.com/shulehub/shule-api/internal/scope"
)

// ResultRepository provides scoped access to final term results and the term
// slices the aggregation services are built on.
type ResultRepository interface {
	List(ctx context.Context, p scope.Principal) ([]models.Result, error)
	GetByID(ctx context.Context, p scope.Principal, id uint) (models.Result, error)
	Create(ctx context.Context, result *models.Result) error
	Save(ctx context.Context, result *models.Result) error
	Delete(ctx context.Context, p scope.Principal, id uint) error
	// ListForClassTerm returns every result of the class's students for the
	// given term and year.
	ListForClassTerm(ctx context.Context, classID uint, term, year int) ([]models.Result, error)
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository constructs a GORM-backed result repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) List(ctx context.Context, p scope.Principal) ([]models.Result, error) {
	var results []models.Result
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Results)).
		Preload("Student").Preload("Subject").
		Order("year DESC, term DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resultRepository) GetByID(ctx context.Context, p scope.Principal, id uint) (models.Result, error) {
	var result models.Result
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Results)).
		Preload("Student").Preload("Subject").
		First(&result, id).Error
	if err != nil {
		return models.Result{}, err
	}
	return result, nil
}

func (r *resultRepository) Create(ctx context.Context, result *models.Result) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *resultRepository) Save(ctx context.Context, result *models.Result) error {
	return r.db.WithContext(ctx).Save(result).Error
}

func (r *resultRepository) Delete(ctx context.Context, p scope.Principal, id uint) error {
	result := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Results)).
		Delete(&models.Result{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *resultRepository) ListForClassTerm(ctx context.Context, classID uint, term, year int) ([]models.Result, error) {
	var results []models.Result
	err := r.db.WithContext(ctx).
		Where("term = ? AND year = ?", term, year).
		Where("student_id IN (SELECT id FROM students WHERE class_id = ?)", classID).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ReportRepository provides scoped access to per-term student reports.
type ReportRepository interface {
	List(ctx context.Context, p scope.Principal) ([]models.StudentReport, error)
	GetByID(ctx context.Context, p scope.Principal, id uint) (models.StudentReport, error)
	GetByTuple(ctx context.Context, studentID uint, term, year int) (models.StudentReport, error)
	Create(ctx context.Context, report *models.StudentReport) error
	Save(ctx context.Context, report *models.StudentReport) error
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository constructs a GORM-backed student report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) List(ctx context.Context, p scope.Principal) ([]models.StudentReport, error) {
	var reports []models.StudentReport
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.StudentReports)).
		Preload("Student").
		Order("year DESC, term DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) GetByID(ctx context.Context, p scope.Principal, id uint) (models.StudentReport, error) {
	var report models.StudentReport
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.StudentReports)).
		Preload("Student").
		First(&report, id).Error
	if err != nil {
		return models.StudentReport{}, err
	}
	return report, nil
}

func (r *reportRepository) GetByTuple(ctx context.Context, studentID uint, term, year int) (models.StudentReport, error) {
	var report models.StudentReport
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND term = ? AND year = ?", studentID, term, year).
		First(&report).Error
	if err != nil {
		return models.StudentReport{}, err
	}
	return report, nil
}

func (r *reportRepository) Create(ctx context.Context, report *models.StudentReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) Save(ctx context.Context, report *models.StudentReport) error {
	return r.db.WithContext(ctx).Save(report).Error
}

func (r *reportRepository) Delete(ctx context.Context, p scope.Principal, id uint) error {
	result := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.StudentReports)).
		Delete(&models.StudentReport{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PerformanceRepository provides scoped access to class performance summaries.
type PerformanceRepository interface {
	List(ctx context.Context, p scope.Principal) ([]models.ClassPerformance, error)
	GetByID(ctx context.Context, p scope.Principal, id uint) (models.ClassPerformance, error)
	GetByTuple(ctx context.Context, classID uint, term, year int) (models.ClassPerformance, error)
	Create(ctx context.Context, performance *models.ClassPerformance) error
	Save(ctx context.Context, performance *models.ClassPerformance) error
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type performanceRepository struct {
	db *gorm.DB
}

// NewPerformanceRepository constructs a GORM-backed class performance repository.
func NewPerformanceRepository(db *gorm.DB) PerformanceRepository {
	return &performanceRepository{db: db}
}

func (r *performanceRepository) List(ctx context.Context, p scope.Principal) ([]models.ClassPerformance, error) {
	var performances []models.ClassPerformance
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.ClassPerformances)).
		Preload("Class").Preload("TopPerformer").
		Order("year DESC, term DESC").
		Find(&performances).Error
	if err != nil {
		return nil, err
	}
	return performances, nil
}

func (r *performanceRepository) GetByID(ctx context.Context, p scope.Principal, id uint) (models.ClassPerformance, error) {
	var performance models.ClassPerformance
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.ClassPerformances)).
		Preload("Class").Preload("TopPerformer").
		First(&performance, id).Error
	if err != nil {
		return models.ClassPerformance{}, err
	}
	return performance, nil
}

func (r *performanceRepository) GetByTuple(ctx context.Context, classID uint, term, year int) (models.ClassPerformance, error) {
	var performance models.ClassPerformance
	err := r.db.WithContext(ctx).
		Where("class_id = ? AND term = ? AND year = ?", classID, term, year).
		First(&performance).Error
	if err != nil {
		return models.ClassPerformance{}, err
	}
	return performance, nil
}

func (r *performanceRepository) Create(ctx context.Context, performance *models.ClassPerformance) error {
	return r.db.WithContext(ctx).Create(performance).Error
}

func (r *performanceRepository) Save(ctx context.Context, performance *models.ClassPerformance) error {
	return r.db.WithContext(ctx).Save(performance).Error
}

func (r *performanceRepository) Delete(ctx context.Context, p scope.Principal, id uint) error {
	result := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.ClassPerformances)).
		Delete(&models.ClassPerformance{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
