package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shulehub/shule-api/internal/dto"
	"github.com/shulehub/shule-api/internal/models"
	"github.com/shulehub/shule-api/internal/repository"
	"github.com/shulehub/shule-api/internal/scope"
)

var (
	// ErrResultNotFound indicates the result is missing or out of scope.
	ErrResultNotFound = errors.New("result not found")
	// ErrReportNotFound indicates the student report is missing or out of scope.
	ErrReportNotFound = errors.New("student report not found")
	// ErrPerformanceNotFound indicates the class performance row is missing or
	// out of scope.
	ErrPerformanceNotFound = errors.New("class performance not found")
	// ErrNoResultsForTerm indicates the aggregation has nothing to work with.
	ErrNoResultsForTerm = errors.New("no results recorded for that term")
)

// ResultService exposes final term result use cases.
type ResultService interface {
	List(ctx context.Context, p scope.Principal) ([]dto.ResultResponse, error)
	Get(ctx context.Context, p scope.Principal, id uint) (dto.ResultResponse, error)
	Create(ctx context.Context, p scope.Principal, payload dto.ResultCreateRequest) (dto.ResultResponse, error)
	Update(ctx context.Context, p scope.Principal, id uint, payload dto.ResultUpdateRequest) (dto.ResultResponse, error)
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type resultService struct {
	results   repository.ResultRepository
	students  repository.StudentRepository
	subjects  repository.SubjectRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewResultService builds a new result service.
func NewResultService(results repository.ResultRepository, students repository.StudentRepository, subjects repository.SubjectRepository, validate *validator.Validate, logger zerolog.Logger) ResultService {
	return &resultService{
		results:   results,
		students:  students,
		subjects:  subjects,
		validator: validate,
		logger:    logger.With().Str("component", "result_service").Logger(),
	}
}

func (s *resultService) List(ctx context.Context, p scope.Principal) ([]dto.ResultResponse, error) {
	results, err := s.results.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return dto.NewResultResponseSlice(results), nil
}

func (s *resultService) Get(ctx context.Context, p scope.Principal, id uint) (dto.ResultResponse, error) {
	result, err := s.results.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultResponse{}, ErrResultNotFound
		}
		return dto.ResultResponse{}, err
	}
	return dto.NewResultResponse(result), nil
}

func (s *resultService) Create(ctx context.Context, p scope.Principal, payload dto.ResultCreateRequest) (dto.ResultResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResultResponse{}, err
	}

	if _, err := s.students.GetByID(ctx, p, payload.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultResponse{}, ErrStudentNotFound
		}
		return dto.ResultResponse{}, err
	}
	if _, err := s.subjects.GetByID(ctx, payload.SubjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultResponse{}, ErrSubjectNotFound
		}
		return dto.ResultResponse{}, err
	}

	result := models.Result{
		StudentID: payload.StudentID,
		SubjectID: payload.SubjectID,
		Term:      payload.Term,
		Year:      payload.Year,
		Score:     payload.Score,
	}
	// A duplicate (student, subject, term, year) tuple surfaces as
	// gorm.ErrDuplicatedKey and is mapped to a conflict by the handler.
	if err := s.results.Create(ctx, &result); err != nil {
		return dto.ResultResponse{}, err
	}

	s.logger.Info().Uint("result_id", result.ID).Int("term", result.Term).Int("year", result.Year).Msg("result recorded")

	created, err := s.results.GetByID(ctx, p, result.ID)
	if err != nil {
		return dto.ResultResponse{}, err
	}
	return dto.NewResultResponse(created), nil
}

func (s *resultService) Update(ctx context.Context, p scope.Principal, id uint, payload dto.ResultUpdateRequest) (dto.ResultResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResultResponse{}, err
	}

	result, err := s.results.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultResponse{}, ErrResultNotFound
		}
		return dto.ResultResponse{}, err
	}

	if payload.Score != nil {
		result.Score = *payload.Score
	}

	if err := s.results.Save(ctx, &result); err != nil {
		return dto.ResultResponse{}, err
	}

	s.logger.Info().Uint("result_id", result.ID).Msg("result updated")
	return dto.NewResultResponse(result), nil
}

func (s *resultService) Delete(ctx context.Context, p scope.Principal, id uint) error {
	if err := s.results.Delete(ctx, p, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResultNotFound
		}
		return err
	}
	s.logger.Info().Uint("result_id", id).Msg("result deleted")
	return nil
}

// termAverages computes each student's mean score over the given results.
func termAverages(results []models.Result) map[uint]float64 {
	sums := make(map[uint]float64)
	counts := make(map[uint]int)
	for _, result := range results {
		sums[result.StudentID] += result.Score
		counts[result.StudentID]++
	}
	averages := make(map[uint]float64, len(sums))
	for studentID, sum := range sums {
		averages[studentID] = sum / float64(counts[studentID])
	}
	return averages
}

// ReportService exposes student report use cases. Reports are derived:
// Generate recomputes the rank and average from the stored results rather
// than trusting client-supplied numbers.
type ReportService interface {
	List(ctx context.Context, p scope.Principal) ([]dto.ReportResponse, error)
	Get(ctx context.Context, p scope.Principal, id uint) (dto.ReportResponse, error)
	Generate(ctx context.Context, p scope.Principal, payload dto.GenerateReportRequest) (dto.ReportResponse, error)
	Update(ctx context.Context, p scope.Principal, id uint, payload dto.ReportUpdateRequest) (dto.ReportResponse, error)
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type reportService struct {
	reports   repository.ReportRepository
	results   repository.ResultRepository
	students  repository.StudentRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewReportService builds a new student report service.
func NewReportService(reports repository.ReportRepository, results repository.ResultRepository, students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) ReportService {
	return &reportService{
		reports:   reports,
		results:   results,
		students:  students,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "report_service").Logger(),
	}
}

func (s *reportService) List(ctx context.Context, p scope.Principal) ([]dto.ReportResponse, error) {
	reports, err := s.reports.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return dto.NewReportResponseSlice(reports), nil
}

func (s *reportService) Get(ctx context.Context, p scope.Principal, id uint) (dto.ReportResponse, error) {
	report, err := s.reports.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportResponse{}, ErrReportNotFound
		}
		return dto.ReportResponse{}, err
	}
	return dto.NewReportResponse(report), nil
}

func (s *reportService) Generate(ctx context.Context, p scope.Principal, payload dto.GenerateReportRequest) (dto.ReportResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReportResponse{}, err
	}

	student, err := s.students.GetByID(ctx, p, payload.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportResponse{}, ErrStudentNotFound
		}
		return dto.ReportResponse{}, err
	}

	classResults, err := s.results.ListForClassTerm(ctx, student.ClassID, payload.Term, payload.Year)
	if err != nil {
		return dto.ReportResponse{}, err
	}

	averages := termAverages(classResults)
	average, ok := averages[student.ID]
	if !ok {
		return dto.ReportResponse{}, ErrNoResultsForTerm
	}

	// Standard competition ranking: 1 plus the number of classmates with a
	// strictly higher average, so ties share a rank.
	rank := 1
	for studentID, other := range averages {
		if studentID != student.ID && other > average {
			rank++
		}
	}

	report, err := s.reports.GetByTuple(ctx, student.ID, payload.Term, payload.Year)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ReportResponse{}, err
	}

	report.StudentID = student.ID
	report.Term = payload.Term
	report.Year = payload.Year
	report.Rank = rank
	report.AverageScore = average
	if payload.Comments != "" {
		report.Comments = strings.TrimSpace(s.sanitizer.Sanitize(payload.Comments))
	}

	if report.ID == 0 {
		err = s.reports.Create(ctx, &report)
	} else {
		err = s.reports.Save(ctx, &report)
	}
	if err != nil {
		return dto.ReportResponse{}, err
	}

	s.logger.Info().
		Uint("report_id", report.ID).
		Uint("student_id", student.ID).
		Int("rank", rank).
		Float64("average", average).
		Msg("student report generated")

	generated, err := s.reports.GetByID(ctx, p, report.ID)
	if err != nil {
		return dto.ReportResponse{}, err
	}
	return dto.NewReportResponse(generated), nil
}

func (s *reportService) Update(ctx context.Context, p scope.Principal, id uint, payload dto.ReportUpdateRequest) (dto.ReportResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReportResponse{}, err
	}

	report, err := s.reports.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportResponse{}, ErrReportNotFound
		}
		return dto.ReportResponse{}, err
	}

	if payload.Comments != nil {
		report.Comments = strings.TrimSpace(s.sanitizer.Sanitize(*payload.Comments))
	}

	if err := s.reports.Save(ctx, &report); err != nil {
		return dto.ReportResponse{}, err
	}

	s.logger.Info().Uint("report_id", report.ID).Msg("student report updated")
	return dto.NewReportResponse(report), nil
}

func (s *reportService) Delete(ctx context.Context, p scope.Principal, id uint) error {
	if err := s.reports.Delete(ctx, p, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportNotFound
		}
		return err
	}
	s.logger.Info().Uint("report_id", id).Msg("student report deleted")
	return nil
}

// PerformanceService exposes class performance use cases. Like reports, the
// summary rows are derived from stored results on Generate.
type PerformanceService interface {
	List(ctx context.Context, p scope.Principal) ([]dto.PerformanceResponse, error)
	Get(ctx context.Context, p scope.Principal, id uint) (dto.PerformanceResponse, error)
	Generate(ctx context.Context, p scope.Principal, payload dto.GeneratePerformanceRequest) (dto.PerformanceResponse, error)
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type performanceService struct {
	performances repository.PerformanceRepository
	results      repository.ResultRepository
	classes      repository.ClassRepository
	validator    *validator.Validate
	logger       zerolog.Logger
}

// NewPerformanceService builds a new class performance service.
func NewPerformanceService(performances repository.PerformanceRepository, results repository.ResultRepository, classes repository.ClassRepository, validate *validator.Validate, logger zerolog.Logger) PerformanceService {
	return &performanceService{
		performances: performances,
		results:      results,
		classes:      classes,
		validator:    validate,
		logger:       logger.With().Str("component", "performance_service").Logger(),
	}
}

func (s *performanceService) List(ctx context.Context, p scope.Principal) ([]dto.PerformanceResponse, error) {
	performances, err := s.performances.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return dto.NewPerformanceResponseSlice(performances), nil
}

func (s *performanceService) Get(ctx context.Context, p scope.Principal, id uint) (dto.PerformanceResponse, error) {
	performance, err := s.performances.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PerformanceResponse{}, ErrPerformanceNotFound
		}
		return dto.PerformanceResponse{}, err
	}
	return dto.NewPerformanceResponse(performance), nil
}

func (s *performanceService) Generate(ctx context.Context, p scope.Principal, payload dto.GeneratePerformanceRequest) (dto.PerformanceResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PerformanceResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, p, payload.ClassID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PerformanceResponse{}, ErrClassNotFound
		}
		return dto.PerformanceResponse{}, err
	}

	classResults, err := s.results.ListForClassTerm(ctx, class.ID, payload.Term, payload.Year)
	if err != nil {
		return dto.PerformanceResponse{}, err
	}

	averages := termAverages(classResults)
	if len(averages) == 0 {
		return dto.PerformanceResponse{}, ErrNoResultsForTerm
	}

	// Class average is the mean of per-student averages, so a student with
	// many subjects does not outweigh one with few. Ties on the top spot go
	// to the lower student ID to keep the pick deterministic.
	var classSum float64
	var topID uint
	var topAverage float64
	for studentID, average := range averages {
		classSum += average
		if topID == 0 || average > topAverage || (average == topAverage && studentID < topID) {
			topID = studentID
			topAverage = average
		}
	}
	classAverage := classSum / float64(len(averages))

	performance, err := s.performances.GetByTuple(ctx, class.ID, payload.Term, payload.Year)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.PerformanceResponse{}, err
	}

	performance.ClassID = class.ID
	performance.Term = payload.Term
	performance.Year = payload.Year
	performance.AverageScore = classAverage
	performance.TopPerformerID = &topID
	performance.TopPerformer = nil

	if performance.ID == 0 {
		err = s.performances.Create(ctx, &performance)
	} else {
		err = s.performances.Save(ctx, &performance)
	}
	if err != nil {
		return dto.PerformanceResponse{}, err
	}

	s.logger.Info().
		Uint("performance_id", performance.ID).
		Uint("class_id", class.ID).
		Float64("average", classAverage).
		Uint("top_performer_id", topID).
		Msg("class performance generated")

	generated, err := s.performances.GetByID(ctx, p, performance.ID)
	if err != nil {
		return dto.PerformanceResponse{}, err
	}
	return dto.NewPerformanceResponse(generated), nil
}

func (s *performanceService) Delete(ctx context.Context, p scope.Principal, id uint) error {
	if err := s.performances.Delete(ctx, p, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPerformanceNotFound
		}
		return err
	}
	s.logger.Info().Uint("performance_id", id).Msg("class performance deleted")
	return nil
}
