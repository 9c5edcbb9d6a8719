// Package scope narrows queries to the records a principal is allowed to see.
// Every resource kind maps to one predicate derived from its ownership chain;
// staff principals bypass scoping entirely. The predicates are plain query
// builders so they can be unit-tested without the transport layer.
package scope

import "gorm.io/gorm"

// Principal is the authenticated identity a request acts as.
type Principal struct {
	AccountID uint
	TeacherID uint // zero when the account carries no teacher profile
	IsStaff   bool
}

// Resource identifies a scopable resource kind.
type Resource string

// Resource kinds.
const (
	Teachers          Resource = "teachers"
	Profiles          Resource = "profiles"
	Classes           Resource = "classes"
	Subjects          Resource = "subjects"
	Exams             Resource = "exams"
	ExamSubjects      Resource = "exam-subjects"
	Students          Resource = "students"
	Scores            Resource = "scores"
	Results           Resource = "results"
	StudentReports    Resource = "student-reports"
	ClassPerformances Resource = "class-performance"
	Subscriptions     Resource = "subscriptions"
	Payments          Resource = "payments"
)

type predicate func(p Principal) func(*gorm.DB) *gorm.DB

func unrestricted(Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db }
}

func byAccount(p Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("account_id = ?", p.AccountID)
	}
}

func byTeacher(p Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("teacher_id = ?", p.TeacherID)
	}
}

func byClassChain(p Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("class_id IN (SELECT id FROM classes WHERE teacher_id = ?)", p.TeacherID)
	}
}

func byExamChain(p Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("exam_id IN (SELECT id FROM exams WHERE teacher_id = ?)", p.TeacherID)
	}
}

func byStudentChain(p Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"student_id IN (SELECT id FROM students WHERE class_id IN (SELECT id FROM classes WHERE teacher_id = ?))",
			p.TeacherID,
		)
	}
}

func denyAll(Principal) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("1 = 0")
	}
}

// predicates is the full ownership-chain table. Teachers own their account
// row; classes and exams carry the teacher directly; students and class
// performance resolve through the class; exam subjects through the exam;
// scores, results and reports through the student.
var predicates = map[Resource]predicate{
	Teachers:          byAccount,
	Profiles:          byAccount,
	Classes:           byTeacher,
	Subjects:          unrestricted,
	Exams:             byTeacher,
	ExamSubjects:      byExamChain,
	Students:          byClassChain,
	Scores:            byStudentChain,
	Results:           byStudentChain,
	StudentReports:    byStudentChain,
	ClassPerformances: byClassChain,
	Subscriptions:     byAccount,
	Payments:          byAccount,
}

// For returns the predicate restricting the given resource kind to records
// owned by the principal. Staff principals are unrestricted; unknown resource
// kinds match nothing.
func For(p Principal, r Resource) func(*gorm.DB) *gorm.DB {
	if p.IsStaff {
		return unrestricted(p)
	}
	pred, ok := predicates[r]
	if !ok {
		return denyAll(p)
	}
	return pred(p)
}
