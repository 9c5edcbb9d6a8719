package scope

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shulehub/shule-api/internal/models"
)

type fixture struct {
	db       *gorm.DB
	alice    Principal
	bob      Principal
	staff    Principal
	aliceCls models.Class
	bobCls   models.Class
}

func setupFixture(t *testing.T) fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(
		&models.Account{}, &models.AuthToken{}, &models.Profile{}, &models.TeacherProfile{},
		&models.Class{}, &models.Subject{}, &models.Exam{}, &models.ExamSubject{},
		&models.Student{}, &models.Score{}, &models.Result{}, &models.StudentReport{},
		&models.ClassPerformance{}, &models.Subscription{}, &models.PaymentRecord{},
	))

	f := fixture{db: db}

	seedTeacher := func(username string) (models.Account, models.TeacherProfile, models.Class) {
		account := models.Account{Username: username, PasswordHash: "x"}
		require.NoError(t, db.Create(&account).Error)
		teacher := models.TeacherProfile{AccountID: account.ID, Email: username + "@example.com"}
		require.NoError(t, db.Create(&teacher).Error)
		class := models.Class{Name: "Form 1 " + username, TeacherID: teacher.ID}
		require.NoError(t, db.Create(&class).Error)

		subject := models.Subject{Name: "Mathematics " + username}
		require.NoError(t, db.Create(&subject).Error)
		student := models.Student{
			FirstName: "Stu", LastName: username, AssessmentNo: "AS-" + username,
			Gender: models.GenderMale, ClassID: class.ID,
		}
		require.NoError(t, db.Create(&student).Error)
		exam := models.Exam{ClassID: class.ID, Name: "End Term", TeacherID: teacher.ID}
		require.NoError(t, db.Create(&exam).Error)
		examSubject := models.ExamSubject{ExamID: exam.ID, SubjectID: subject.ID}
		require.NoError(t, db.Create(&examSubject).Error)
		require.NoError(t, db.Create(&models.Score{StudentID: student.ID, ExamSubjectID: examSubject.ID}).Error)
		require.NoError(t, db.Create(&models.Result{StudentID: student.ID, SubjectID: subject.ID, Term: 1, Year: 2025, Score: 70}).Error)
		require.NoError(t, db.Create(&models.StudentReport{StudentID: student.ID, Term: 1, Year: 2025, Rank: 1, AverageScore: 70}).Error)
		require.NoError(t, db.Create(&models.ClassPerformance{ClassID: class.ID, Term: 1, Year: 2025, AverageScore: 70}).Error)
		require.NoError(t, db.Create(&models.Subscription{AccountID: account.ID, Status: models.SubscriptionInactive}).Error)
		require.NoError(t, db.Create(&models.PaymentRecord{AccountID: account.ID, Amount: 500, TransactionID: "TX-" + username, Status: models.PaymentCompleted}).Error)

		return account, teacher, class
	}

	aliceAcc, aliceTeacher, aliceCls := seedTeacher("alice")
	bobAcc, bobTeacher, bobCls := seedTeacher("bob")

	staffAcc := models.Account{Username: "admin", PasswordHash: "x", IsStaff: true}
	require.NoError(t, db.Create(&staffAcc).Error)

	f.alice = Principal{AccountID: aliceAcc.ID, TeacherID: aliceTeacher.ID}
	f.bob = Principal{AccountID: bobAcc.ID, TeacherID: bobTeacher.ID}
	f.staff = Principal{AccountID: staffAcc.ID, IsStaff: true}
	f.aliceCls = aliceCls
	f.bobCls = bobCls
	return f
}

func countScoped(t *testing.T, db *gorm.DB, p Principal, r Resource, model interface{}) int64 {
	t.Helper()
	var total int64
	require.NoError(t, db.Model(model).Scopes(For(p, r)).Count(&total).Error)
	return total
}

func TestScopeRestrictsOwnedResourcesToOwner(t *testing.T) {
	f := setupFixture(t)

	owned := []struct {
		resource Resource
		model    interface{}
	}{
		{Teachers, &models.TeacherProfile{}},
		{Classes, &models.Class{}},
		{Exams, &models.Exam{}},
		{ExamSubjects, &models.ExamSubject{}},
		{Students, &models.Student{}},
		{Scores, &models.Score{}},
		{Results, &models.Result{}},
		{StudentReports, &models.StudentReport{}},
		{ClassPerformances, &models.ClassPerformance{}},
		{Subscriptions, &models.Subscription{}},
		{Payments, &models.PaymentRecord{}},
	}

	for _, tc := range owned {
		require.Equal(t, int64(1), countScoped(t, f.db, f.alice, tc.resource, tc.model), "alice on %s", tc.resource)
		require.Equal(t, int64(1), countScoped(t, f.db, f.bob, tc.resource, tc.model), "bob on %s", tc.resource)
		require.Equal(t, int64(2), countScoped(t, f.db, f.staff, tc.resource, tc.model), "staff on %s", tc.resource)
	}
}

func TestScopeSubjectsAreGlobal(t *testing.T) {
	f := setupFixture(t)

	require.Equal(t, int64(2), countScoped(t, f.db, f.alice, Subjects, &models.Subject{}))
	require.Equal(t, int64(2), countScoped(t, f.db, f.bob, Subjects, &models.Subject{}))
	require.Equal(t, int64(2), countScoped(t, f.db, f.staff, Subjects, &models.Subject{}))
}

func TestScopeBlocksDirectIDLookup(t *testing.T) {
	f := setupFixture(t)

	var class models.Class
	err := f.db.Scopes(For(f.alice, Classes)).First(&class, f.bobCls.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, f.db.Scopes(For(f.staff, Classes)).First(&class, f.bobCls.ID).Error)
}

func TestScopePrincipalWithoutTeacherProfileSeesNothing(t *testing.T) {
	f := setupFixture(t)

	orphan := Principal{AccountID: 999}
	require.Zero(t, countScoped(t, f.db, orphan, Classes, &models.Class{}))
	require.Zero(t, countScoped(t, f.db, orphan, Students, &models.Student{}))
}

func TestScopeUnknownResourceMatchesNothing(t *testing.T) {
	f := setupFixture(t)

	require.Zero(t, countScoped(t, f.db, f.alice, Resource("bogus"), &models.Class{}))
}
