package models

// Gender values accepted for students.
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// Student belongs to one class and is enrolled in any number of subjects.
// The assessment number is unique across the whole system, not per teacher.
type Student struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FirstName      string    `gorm:"size:100;not null" json:"first_name"`
	LastName       string    `gorm:"size:100;not null" json:"last_name"`
	AssessmentNo   string    `gorm:"size:100;uniqueIndex;not null" json:"assessment_no"`
	RegistrationNo string    `gorm:"size:100" json:"registration_no"`
	Age            *int      `json:"age"`
	Gender         string    `gorm:"size:10" json:"gender"`
	ClassID        uint      `gorm:"not null;index" json:"class_id"`
	Class          Class     `gorm:"constraint:OnDelete:CASCADE" json:"class"`
	Subjects       []Subject `gorm:"many2many:student_subjects" json:"subjects"`
}

// Score records the marks a student obtained for one subject of one exam.
// Marks stay null until the script is graded.
type Score struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	StudentID     uint        `gorm:"not null;index" json:"student_id"`
	Student       Student     `gorm:"constraint:OnDelete:CASCADE" json:"student"`
	ExamSubjectID uint        `gorm:"not null;index" json:"exam_subject_id"`
	ExamSubject   ExamSubject `gorm:"constraint:OnDelete:CASCADE" json:"exam_subject"`
	MarksObtained *float64    `json:"marks_obtained"`
}
