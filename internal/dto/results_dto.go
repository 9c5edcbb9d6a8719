package dto

import "github.com/shulehub/shule-api/internal/models"

// ResultCreateRequest stores a final score for (student, subject, term, year).
type ResultCreateRequest struct {
	StudentID uint    `json:"student_id" validate:"required"`
	SubjectID uint    `json:"subject_id" validate:"required"`
	Term      int     `json:"term" validate:"required,min=1,max=3"`
	Year      int     `json:"year" validate:"required,min=2000,max=2100"`
	Score     float64 `json:"score" validate:"gte=0,lte=100"`
}

// ResultUpdateRequest patches the score on a result.
type ResultUpdateRequest struct {
	Score *float64 `json:"score" validate:"omitempty,gte=0,lte=100"`
}

// ResultResponse is the serialized result.
type ResultResponse struct {
	ID      uint            `json:"id"`
	Student StudentResponse `json:"student"`
	Subject SubjectResponse `json:"subject"`
	Term    int             `json:"term"`
	Year    int             `json:"year"`
	Score   float64         `json:"score"`
}

// NewResultResponse converts a result model into a DTO.
func NewResultResponse(model models.Result) ResultResponse {
	return ResultResponse{
		ID:      model.ID,
		Student: NewStudentResponse(model.Student),
		Subject: NewSubjectResponse(model.Subject),
		Term:    model.Term,
		Year:    model.Year,
		Score:   model.Score,
	}
}

// NewResultResponseSlice converts a slice of results into DTOs.
func NewResultResponseSlice(results []models.Result) []ResultResponse {
	responses := make([]ResultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, NewResultResponse(result))
	}
	return responses
}

// GenerateReportRequest derives a term report for a student from their
// results.
type GenerateReportRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Term      int    `json:"term" validate:"required,min=1,max=3"`
	Year      int    `json:"year" validate:"required,min=2000,max=2100"`
	Comments  string `json:"comments" validate:"omitempty,max=2000"`
}

// ReportUpdateRequest patches the free-text comments on a report.
type ReportUpdateRequest struct {
	Comments *string `json:"comments" validate:"omitempty,max=2000"`
}

// ReportResponse is the serialized student report.
type ReportResponse struct {
	ID           uint            `json:"id"`
	Student      StudentResponse `json:"student"`
	Term         int             `json:"term"`
	Year         int             `json:"year"`
	Comments     string          `json:"comments"`
	Rank         int             `json:"rank"`
	AverageScore float64         `json:"average_score"`
}

// NewReportResponse converts a student report model into a DTO.
func NewReportResponse(model models.StudentReport) ReportResponse {
	return ReportResponse{
		ID:           model.ID,
		Student:      NewStudentResponse(model.Student),
		Term:         model.Term,
		Year:         model.Year,
		Comments:     model.Comments,
		Rank:         model.Rank,
		AverageScore: model.AverageScore,
	}
}

// NewReportResponseSlice converts a slice of student reports into DTOs.
func NewReportResponseSlice(reports []models.StudentReport) []ReportResponse {
	responses := make([]ReportResponse, 0, len(reports))
	for _, report := range reports {
		responses = append(responses, NewReportResponse(report))
	}
	return responses
}

// GeneratePerformanceRequest derives a class performance summary from the
// class's results.
type GeneratePerformanceRequest struct {
	ClassID uint `json:"class_id" validate:"required"`
	Term    int  `json:"term" validate:"required,min=1,max=3"`
	Year    int  `json:"year" validate:"required,min=2000,max=2100"`
}

// PerformanceResponse is the serialized class performance summary.
type PerformanceResponse struct {
	ID           uint             `json:"id"`
	Class        ClassResponse    `json:"class"`
	Term         int              `json:"term"`
	Year         int              `json:"year"`
	AverageScore float64          `json:"average_score"`
	TopPerformer *StudentResponse `json:"top_performer"`
}

// NewPerformanceResponse converts a class performance model into a DTO.
func NewPerformanceResponse(model models.ClassPerformance) PerformanceResponse {
	response := PerformanceResponse{
		ID:           model.ID,
		Class:        NewClassResponse(model.Class),
		Term:         model.Term,
		Year:         model.Year,
		AverageScore: model.AverageScore,
	}
	if model.TopPerformer != nil {
		top := NewStudentResponse(*model.TopPerformer)
		response.TopPerformer = &top
	}
	return response
}

// NewPerformanceResponseSlice converts a slice of class performance rows into DTOs.
func NewPerformanceResponseSlice(performances []models.ClassPerformance) []PerformanceResponse {
	responses := make([]PerformanceResponse, 0, len(performances))
	for _, performance := range performances {
		responses = append(responses, NewPerformanceResponse(performance))
	}
	return responses
}
