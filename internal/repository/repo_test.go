package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shulehub/shule-api/internal/models"
	"github.com/shulehub/shule-api/internal/scope"
)

// testDB opens an in-memory sqlite database named after the test so parallel
// packages never share state. Foreign keys are enabled per connection through
// the DSN, which sqlite needs for the cascade and set-null constraints.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.AuthToken{},
		&models.Profile{},
		&models.TeacherProfile{},
		&models.Class{},
		&models.Subject{},
		&models.Exam{},
		&models.ExamSubject{},
		&models.Student{},
		&models.Score{},
		&models.Result{},
		&models.StudentReport{},
		&models.ClassPerformance{},
		&models.Subscription{},
		&models.PaymentRecord{},
	))
	return db
}

func seedTeacher(t *testing.T, db *gorm.DB, username string) (models.TeacherProfile, scope.Principal) {
	t.Helper()
	account := models.Account{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&account).Error)
	teacher := models.TeacherProfile{AccountID: account.ID, Email: account.Email}
	require.NoError(t, db.Create(&teacher).Error)
	return teacher, scope.Principal{AccountID: account.ID, TeacherID: teacher.ID}
}

func seedClass(t *testing.T, db *gorm.DB, teacherID uint, name string) models.Class {
	t.Helper()
	class := models.Class{Name: name, TeacherID: teacherID}
	require.NoError(t, db.Create(&class).Error)
	return class
}

func seedStudent(t *testing.T, db *gorm.DB, classID uint, assessmentNo string) models.Student {
	t.Helper()
	student := models.Student{
		FirstName:    "Test",
		LastName:     assessmentNo,
		AssessmentNo: assessmentNo,
		Gender:       models.GenderFemale,
		ClassID:      classID,
	}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func seedSubject(t *testing.T, db *gorm.DB, name string) models.Subject {
	t.Helper()
	subject := models.Subject{Name: name}
	require.NoError(t, db.Create(&subject).Error)
	return subject
}

var staff = scope.Principal{AccountID: 1000, IsStaff: true}
