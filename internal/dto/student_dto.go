package dto

import "github.com/shulehub/shule-api/internal/models"

// StudentCreateRequest enrols a student into one of the teacher's classes.
type StudentCreateRequest struct {
	FirstName      string `json:"first_name" validate:"required,min=1,max=100"`
	LastName       string `json:"last_name" validate:"required,min=1,max=100"`
	AssessmentNo   string `json:"assessment_no" validate:"required,min=1,max=100"`
	RegistrationNo string `json:"registration_no" validate:"omitempty,max=100"`
	Age            *int   `json:"age" validate:"omitempty,gte=3,lte=30"`
	Gender         string `json:"gender" validate:"required,oneof=M F"`
	ClassID        uint   `json:"class_id" validate:"required"`
	SubjectIDs     []uint `json:"subject_ids" validate:"omitempty,dive,required"`
}

// StudentUpdateRequest patches a student. A non-nil SubjectIDs replaces the
// full enrolment set.
type StudentUpdateRequest struct {
	FirstName      *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName       *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	AssessmentNo   *string `json:"assessment_no" validate:"omitempty,min=1,max=100"`
	RegistrationNo *string `json:"registration_no" validate:"omitempty,max=100"`
	Age            *int    `json:"age" validate:"omitempty,gte=3,lte=30"`
	Gender         *string `json:"gender" validate:"omitempty,oneof=M F"`
	ClassID        *uint   `json:"class_id" validate:"omitempty"`
	SubjectIDs     *[]uint `json:"subject_ids" validate:"omitempty,dive,required"`
}

// StudentResponse is the serialized student with its class and enrolled
// subjects embedded.
type StudentResponse struct {
	ID             uint              `json:"id"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	AssessmentNo   string            `json:"assessment_no"`
	RegistrationNo string            `json:"registration_no"`
	Age            *int              `json:"age"`
	Gender         string            `json:"gender"`
	Class          ClassResponse     `json:"class"`
	Subjects       []SubjectResponse `json:"subjects"`
}

// NewStudentResponse converts a student model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:             model.ID,
		FirstName:      model.FirstName,
		LastName:       model.LastName,
		AssessmentNo:   model.AssessmentNo,
		RegistrationNo: model.RegistrationNo,
		Age:            model.Age,
		Gender:         model.Gender,
		Class:          NewClassResponse(model.Class),
		Subjects:       NewSubjectResponseSlice(model.Subjects),
	}
}

// NewStudentResponseSlice converts a slice of students into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}

// ScoreCreateRequest records marks for a student in one exam subject.
type ScoreCreateRequest struct {
	StudentID     uint     `json:"student_id" validate:"required"`
	ExamSubjectID uint     `json:"exam_subject_id" validate:"required"`
	MarksObtained *float64 `json:"marks_obtained" validate:"omitempty,gte=0"`
}

// ScoreUpdateRequest patches the marks on a score.
type ScoreUpdateRequest struct {
	MarksObtained *float64 `json:"marks_obtained" validate:"omitempty,gte=0"`
}

// ScoreResponse is the serialized score.
type ScoreResponse struct {
	ID            uint                `json:"id"`
	Student       StudentResponse     `json:"student"`
	ExamSubject   ExamSubjectResponse `json:"exam_subject"`
	MarksObtained *float64            `json:"marks_obtained"`
}

// NewScoreResponse converts a score model into a DTO.
func NewScoreResponse(model models.Score) ScoreResponse {
	return ScoreResponse{
		ID:            model.ID,
		Student:       NewStudentResponse(model.Student),
		ExamSubject:   NewExamSubjectResponse(model.ExamSubject),
		MarksObtained: model.MarksObtained,
	}
}

// NewScoreResponseSlice converts a slice of scores into DTOs.
func NewScoreResponseSlice(scores []models.Score) []ScoreResponse {
	responses := make([]ScoreResponse, 0, len(scores))
	for _, score := range scores {
		responses = append(responses, NewScoreResponse(score))
	}
	return responses
}
