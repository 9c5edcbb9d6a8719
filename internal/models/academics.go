package models

import "time"

// Class is a group of students taught by one teacher.
type Class struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	TeacherID uint           `gorm:"not null;index" json:"teacher_id"`
	Teacher   TeacherProfile `gorm:"constraint:OnDelete:CASCADE" json:"teacher"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Subject is a school subject. Subjects are global: they carry no owner and
// are visible to every authenticated principal.
type Subject struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

// Exam is a sitting held for one class. The owning teacher is stored directly
// as well as through the class; the two must agree.
type Exam struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ClassID   uint           `gorm:"not null;index" json:"class_id"`
	Class     Class          `gorm:"constraint:OnDelete:CASCADE" json:"class"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Date      time.Time      `gorm:"type:date" json:"date"`
	TeacherID uint           `gorm:"not null;index" json:"teacher_id"`
	Teacher   TeacherProfile `gorm:"constraint:OnDelete:CASCADE" json:"teacher"`
}

// ExamSubject links an exam to a subject sat in it, with the maximum
// achievable marks when known.
type ExamSubject struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	ExamID    uint     `gorm:"not null;index" json:"exam_id"`
	Exam      Exam     `gorm:"constraint:OnDelete:CASCADE" json:"exam"`
	SubjectID uint     `gorm:"not null;index" json:"subject_id"`
	Subject   Subject  `gorm:"constraint:OnDelete:CASCADE" json:"subject"`
	MaxMarks  *float64 `json:"max_marks"`
}
