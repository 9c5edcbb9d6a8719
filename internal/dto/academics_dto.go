package dto

import (
	"time"

	"github.com/shulehub/shule-api/internal/models"
)

// ClassCreateRequest creates a class owned by the requesting teacher.
type ClassCreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// ClassUpdateRequest patches a class.
type ClassUpdateRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
}

// ClassResponse is the serialized class. The teacher is omitted when the
// class appears nested inside another resource.
type ClassResponse struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	Teacher   *TeacherResponse `json:"teacher,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewClassResponse converts a class model into a DTO.
func NewClassResponse(model models.Class) ClassResponse {
	response := ClassResponse{
		ID:        model.ID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if model.Teacher.ID != 0 {
		teacher := NewTeacherResponse(model.Teacher)
		response.Teacher = &teacher
	}
	return response
}

// NewClassResponseSlice converts a slice of classes into DTOs.
func NewClassResponseSlice(classes []models.Class) []ClassResponse {
	responses := make([]ClassResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, NewClassResponse(class))
	}
	return responses
}

// SubjectCreateRequest creates a subject in the global catalogue.
type SubjectCreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// SubjectUpdateRequest patches a subject.
type SubjectUpdateRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
}

// SubjectResponse is the serialized subject.
type SubjectResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// NewSubjectResponse converts a subject model into a DTO.
func NewSubjectResponse(model models.Subject) SubjectResponse {
	return SubjectResponse{ID: model.ID, Name: model.Name}
}

// NewSubjectResponseSlice converts a slice of subjects into DTOs.
func NewSubjectResponseSlice(subjects []models.Subject) []SubjectResponse {
	responses := make([]SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		responses = append(responses, NewSubjectResponse(subject))
	}
	return responses
}

// ExamCreateRequest schedules an exam for one of the teacher's classes.
type ExamCreateRequest struct {
	ClassID uint   `json:"class_id" validate:"required"`
	Name    string `json:"name" validate:"required,min=1,max=100"`
}

// ExamUpdateRequest patches an exam.
type ExamUpdateRequest struct {
	ClassID *uint   `json:"class_id" validate:"omitempty"`
	Name    *string `json:"name" validate:"omitempty,min=1,max=100"`
}

// ExamResponse is the serialized exam.
type ExamResponse struct {
	ID      uint             `json:"id"`
	Class   ClassResponse    `json:"class"`
	Name    string           `json:"name"`
	Date    time.Time        `json:"date"`
	Teacher *TeacherResponse `json:"teacher,omitempty"`
}

// NewExamResponse converts an exam model into a DTO.
func NewExamResponse(model models.Exam) ExamResponse {
	response := ExamResponse{
		ID:    model.ID,
		Class: NewClassResponse(model.Class),
		Name:  model.Name,
		Date:  model.Date,
	}
	if model.Teacher.ID != 0 {
		teacher := NewTeacherResponse(model.Teacher)
		response.Teacher = &teacher
	}
	return response
}

// NewExamResponseSlice converts a slice of exams into DTOs.
func NewExamResponseSlice(exams []models.Exam) []ExamResponse {
	responses := make([]ExamResponse, 0, len(exams))
	for _, exam := range exams {
		responses = append(responses, NewExamResponse(exam))
	}
	return responses
}

// ExamSubjectCreateRequest attaches a subject to an exam.
type ExamSubjectCreateRequest struct {
	ExamID    uint     `json:"exam_id" validate:"required"`
	SubjectID uint     `json:"subject_id" validate:"required"`
	MaxMarks  *float64 `json:"max_marks" validate:"omitempty,gt=0"`
}

// ExamSubjectUpdateRequest patches an exam-subject link.
type ExamSubjectUpdateRequest struct {
	MaxMarks *float64 `json:"max_marks" validate:"omitempty,gt=0"`
}

// ExamSubjectResponse is the serialized exam-subject link.
type ExamSubjectResponse struct {
	ID       uint            `json:"id"`
	Exam     ExamResponse    `json:"exam"`
	Subject  SubjectResponse `json:"subject"`
	MaxMarks *float64        `json:"max_marks"`
}

// NewExamSubjectResponse converts an exam-subject model into a DTO.
func NewExamSubjectResponse(model models.ExamSubject) ExamSubjectResponse {
	return ExamSubjectResponse{
		ID:       model.ID,
		Exam:     NewExamResponse(model.Exam),
		Subject:  NewSubjectResponse(model.Subject),
		MaxMarks: model.MaxMarks,
	}
}

// NewExamSubjectResponseSlice converts a slice of exam-subject links into DTOs.
func NewExamSubjectResponseSlice(examSubjects []models.ExamSubject) []ExamSubjectResponse {
	responses := make([]ExamSubjectResponse, 0, len(examSubjects))
	for _, examSubject := range examSubjects {
		responses = append(responses, NewExamSubjectResponse(examSubject))
	}
	return responses
}
