package models

// Result is a student's final score for one subject in a given term and year.
// The (student, subject, term, year) tuple is unique.
type Result struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	StudentID uint    `gorm:"not null;uniqueIndex:idx_result_tuple" json:"student_id"`
	Student   Student `gorm:"constraint:OnDelete:CASCADE" json:"student"`
	SubjectID uint    `gorm:"not null;uniqueIndex:idx_result_tuple" json:"subject_id"`
	Subject   Subject `gorm:"constraint:OnDelete:CASCADE" json:"subject"`
	Term      int     `gorm:"not null;uniqueIndex:idx_result_tuple" json:"term"`
	Year      int     `gorm:"not null;uniqueIndex:idx_result_tuple" json:"year"`
	Score     float64 `gorm:"not null" json:"score"`
}

// StudentReport is a per-term report card: free-text comments plus the rank
// and average derived from the student's results for that term.
type StudentReport struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	StudentID    uint    `gorm:"not null;uniqueIndex:idx_report_tuple" json:"student_id"`
	Student      Student `gorm:"constraint:OnDelete:CASCADE" json:"student"`
	Term         int     `gorm:"not null;uniqueIndex:idx_report_tuple" json:"term"`
	Year         int     `gorm:"not null;uniqueIndex:idx_report_tuple" json:"year"`
	Comments     string  `gorm:"type:text" json:"comments"`
	Rank         int     `json:"rank"`
	AverageScore float64 `json:"average_score"`
}

// ClassPerformance summarises a class for one term. The top performer is
// nulled out, not cascaded, when that student is deleted.
type ClassPerformance struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	ClassID        uint     `gorm:"not null;uniqueIndex:idx_performance_tuple" json:"class_id"`
	Class          Class    `gorm:"constraint:OnDelete:CASCADE" json:"class"`
	Term           int      `gorm:"not null;uniqueIndex:idx_performance_tuple" json:"term"`
	Year           int      `gorm:"not null;uniqueIndex:idx_performance_tuple" json:"year"`
	AverageScore   float64  `json:"average_score"`
	TopPerformerID *uint    `json:"top_performer_id"`
	TopPerformer   *Student `gorm:"foreignKey:TopPerformerID;constraint:OnDelete:SET NULL" json:"top_performer"`
}
