package service

import (
	"context"
	"io"
	"sort"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shulehub/shule-api/internal/models"
	"github.com/shulehub/shule-api/internal/scope"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// The fakes mirror the scoped repositories: lookups miss with
// gorm.ErrRecordNotFound when the row belongs to another principal, exactly
// as the SQL scope predicates behave.

func ownsTeacher(p scope.Principal, teacherID uint) bool {
	return p.IsStaff || p.TeacherID == teacherID
}

type fakeAccounts struct {
	accounts []models.Account
	teachers *fakeTeachers
	nextID   uint
}

func (f *fakeAccounts) GetByID(ctx context.Context, id uint) (models.Account, error) {
	for _, account := range f.accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return models.Account{}, gorm.ErrRecordNotFound
}

func (f *fakeAccounts) GetByUsername(ctx context.Context, username string) (models.Account, error) {
	for _, account := range f.accounts {
		if account.Username == username {
			return account, nil
		}
	}
	return models.Account{}, gorm.ErrRecordNotFound
}

func (f *fakeAccounts) CreateWithTeacher(ctx context.Context, account *models.Account, teacher *models.TeacherProfile, profile *models.Profile) error {
	f.nextID++
	account.ID = f.nextID
	f.accounts = append(f.accounts, *account)
	teacher.AccountID = account.ID
	if f.teachers != nil {
		f.teachers.nextID++
		teacher.ID = f.teachers.nextID
		f.teachers.teachers = append(f.teachers.teachers, *teacher)
	}
	profile.AccountID = account.ID
	profile.ApplyDefaults()
	return nil
}

type fakeTokens struct {
	tokens []models.AuthToken
	nextID uint
}

func (f *fakeTokens) GetByKey(ctx context.Context, key string) (models.AuthToken, error) {
	for _, token := range f.tokens {
		if token.Key == key {
			return token, nil
		}
	}
	return models.AuthToken{}, gorm.ErrRecordNotFound
}

func (f *fakeTokens) GetOrCreate(ctx context.Context, accountID uint, key string) (models.AuthToken, error) {
	for _, token := range f.tokens {
		if token.AccountID == accountID {
			return token, nil
		}
	}
	f.nextID++
	token := models.AuthToken{ID: f.nextID, Key: key, AccountID: accountID}
	f.tokens = append(f.tokens, token)
	return token, nil
}

type fakeTeachers struct {
	teachers []models.TeacherProfile
	nextID   uint
}

func (f *fakeTeachers) List(ctx context.Context, p scope.Principal) ([]models.TeacherProfile, error) {
	var out []models.TeacherProfile
	for _, teacher := range f.teachers {
		if p.IsStaff || teacher.AccountID == p.AccountID {
			out = append(out, teacher)
		}
	}
	return out, nil
}

func (f *fakeTeachers) GetByID(ctx context.Context, p scope.Principal, id uint) (models.TeacherProfile, error) {
	for _, teacher := range f.teachers {
		if teacher.ID == id && (p.IsStaff || teacher.AccountID == p.AccountID) {
			return teacher, nil
		}
	}
	return models.TeacherProfile{}, gorm.ErrRecordNotFound
}

func (f *fakeTeachers) GetByAccount(ctx context.Context, accountID uint) (models.TeacherProfile, error) {
	for _, teacher := range f.teachers {
		if teacher.AccountID == accountID {
			return teacher, nil
		}
	}
	return models.TeacherProfile{}, gorm.ErrRecordNotFound
}

func (f *fakeTeachers) CreateWithProfile(ctx context.Context, teacher *models.TeacherProfile, profile *models.Profile) error {
	f.nextID++
	teacher.ID = f.nextID
	f.teachers = append(f.teachers, *teacher)
	profile.AccountID = teacher.AccountID
	profile.ApplyDefaults()
	return nil
}

func (f *fakeTeachers) Save(ctx context.Context, teacher *models.TeacherProfile) error {
	if err := teacher.BeforeSave(nil); err != nil {
		return err
	}
	for i := range f.teachers {
		if f.teachers[i].ID == teacher.ID {
			f.teachers[i] = *teacher
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeTeachers) Delete(ctx context.Context, p scope.Principal, id uint) error {
	for i, teacher := range f.teachers {
		if teacher.ID == id && (p.IsStaff || teacher.AccountID == p.AccountID) {
			f.teachers = append(f.teachers[:i], f.teachers[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeProfiles struct {
	profiles []models.Profile
}

func (f *fakeProfiles) List(ctx context.Context, p scope.Principal) ([]models.Profile, error) {
	var out []models.Profile
	for _, profile := range f.profiles {
		if p.IsStaff || profile.AccountID == p.AccountID {
			out = append(out, profile)
		}
	}
	return out, nil
}

func (f *fakeProfiles) GetByID(ctx context.Context, p scope.Principal, id uint) (models.Profile, error) {
	for _, profile := range f.profiles {
		if profile.ID == id && (p.IsStaff || profile.AccountID == p.AccountID) {
			return profile, nil
		}
	}
	return models.Profile{}, gorm.ErrRecordNotFound
}

func (f *fakeProfiles) Save(ctx context.Context, profile *models.Profile) error {
	for i := range f.profiles {
		if f.profiles[i].ID == profile.ID {
			f.profiles[i] = *profile
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeProfiles) Delete(ctx context.Context, p scope.Principal, id uint) error {
	for i, profile := range f.profiles {
		if profile.ID == id && (p.IsStaff || profile.AccountID == p.AccountID) {
			f.profiles = append(f.profiles[:i], f.profiles[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeClasses struct {
	classes []models.Class
	nextID  uint
}

func (f *fakeClasses) List(ctx context.Context, p scope.Principal) ([]models.Class, error) {
	var out []models.Class
	for _, class := range f.classes {
		if ownsTeacher(p, class.TeacherID) {
			out = append(out, class)
		}
	}
	return out, nil
}

func (f *fakeClasses) GetByID(ctx context.Context, p scope.Principal, id uint) (models.Class, error) {
	for _, class := range f.classes {
		if class.ID == id && ownsTeacher(p, class.TeacherID) {
			return class, nil
		}
	}
	return models.Class{}, gorm.ErrRecordNotFound
}

func (f *fakeClasses) Create(ctx context.Context, class *models.Class) error {
	f.nextID++
	class.ID = f.nextID
	f.classes = append(f.classes, *class)
	return nil
}

func (f *fakeClasses) Save(ctx context.Context, class *models.Class) error {
	for i := range f.classes {
		if f.classes[i].ID == class.ID {
			f.classes[i] = *class
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeClasses) Delete(ctx context.Context, p scope.Principal, id uint) error {
	for i, class := range f.classes {
		if class.ID == id && ownsTeacher(p, class.TeacherID) {
			f.classes = append(f.classes[:i], f.classes[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeSubjects struct {
	subjects []models.Subject
	nextID   uint
}

func (f *fakeSubjects) List(ctx context.Context) ([]models.Subject, error) {
	out := append([]models.Subject(nil), f.subjects...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeSubjects) ListByIDs(ctx context.Context, ids []uint) ([]models.Subject, error) {
	var out []models.Subject
	for _, subject := range f.subjects {
		for _, id := range ids {
			if subject.ID == id {
				out = append(out, subject)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeSubjects) GetByID(ctx context.Context, id uint) (models.Subject, error) {
	for _, subject := range f.subjects {
		if subject.ID == id {
			return subject, nil
		}
	}
	return models.Subject{}, gorm.ErrRecordNotFound
}

func (f *fakeSubjects) Create(ctx context.Context, subject *models.Subject) error {
	f.nextID++
	subject.ID = f.nextID
	f.subjects = append(f.subjects, *subject)
	return nil
}

func (f *fakeSubjects) Save(ctx context.Context, subject *models.Subject) error {
	for i := range f.subjects {
		if f.subjects[i].ID == subject.ID {
			f.subjects[i] = *subject
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeSubjects) Delete(ctx context.Context, id uint) error {
	for i, subject := range f.subjects {
		if subject.ID == id {
			f.subjects = append(f.subjects[:i], f.subjects[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeExams struct {
	exams  []models.Exam
	nextID uint
}

func (f *fakeExams) List(ctx context.Context, p scope.Principal) ([]models.Exam, error) {
	var out []models.Exam
	for _, exam := range f.exams {
		if ownsTeacher(p, exam.TeacherID) {
			out = append(out, exam)
		}
	}
	return out, nil
}

func (f *fakeExams) GetByID(ctx context.Context, p scope.Principal, id uint) (models.Exam, error) {
	for _, exam := range f.exams {
		if exam.ID == id && ownsTeacher(p, exam.TeacherID) {
			return exam, nil
		}
	}
	return models.Exam{}, gorm.ErrRecordNotFound
}

func (f *fakeExams) Create(ctx context.Context, exam *models.Exam) error {
	f.nextID++
	exam.ID = f.nextID
	f.exams = append(f.exams, *exam)
	return nil
}

func (f *fakeExams) Save(ctx context.Context, exam *models.Exam) error {
	for i := range f.exams {
		if f.exams[i].ID == exam.ID {
			f.exams[i] = *exam
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeExams) Delete(ctx context.Context, p scope.Principal, id uint) error {
	for i, exam := range f.exams {
		if exam.ID == id && ownsTeacher(p, exam.TeacherID) {
			f.exams = append(f.exams[:i], f.exams[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeExamSubjects struct {
	examSubjects []models.ExamSubject
	exams        *fakeExams
	nextID       uint
}

func (f *fakeExamSubjects) owns(p scope.Principal, examSubject models.ExamSubject) bool {
	if p.IsStaff {
		return true
	}
	if f.exams == nil {
		return false
	}
	for _, exam := range f.exams.exams {
		if exam.ID == examSubject.ExamID {
			return exam.TeacherID == p.TeacherID
		}
	}
	return false
}

func (f *fakeExamSubjects) List(ctx context.Context, p scope.Principal) ([]models.ExamSubject, error) {
	var out []models.ExamSubject
	for _, examSubject := range f.examSubjects {
		if f.owns(p, examSubject) {
			out = append(out, examSubject)
		}
	}
	return out, nil
}

func (f *fakeExamSubjects) GetByID(ctx context.Context, p scope.Principal, id uint) (models.ExamSubject, error) {
	for _, examSubject := range f.examSubjects {
		if examSubject.ID == id && f.owns(p, examSubject) {
			return examSubject, nil
		}
	}
	return models.ExamSubject{}, gorm.ErrRecordNotFound
}

func (f *fakeExamSubjects) Create(ctx context.Context, examSubject *models.ExamSubject) error {
	f.nextID++
	examSubject.ID = f.nextID
	f.examSubjects = append(f.examSubjects, *examSubject)
	return nil
}

func (f *fakeExamSubjects) Save(ctx context.Context, examSubject *models.ExamSubject) error {
	for i := range f.examSubjects {
		if f.examSubjects[i].ID == examSubject.ID {
			f.examSubjects[i] = *examSubject
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeExamSubjects) Delete(ctx context.Context, p scope.Principal, id uint) error {
	for i, examSubject := range f.examSubjects {
		if examSubject.ID == id && f.owns(p, examSubject) {
			f.examSubjects = append(f.examSubjects[:i], f.examSubjects[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeStudents struct {
	students []models.Student
	classes  *fakeClasses
	nextID   uint
}

func (f *fakeStudents) owns(p scope.Principal, student models.Student) bool {
	if p.IsStaff {
		return true
	}
	if f.classes == nil {
		return false
	}
	for _, class := range f.classes.classes {
		if class.ID == student.ClassID {
			return class.TeacherID == p.TeacherID
		}
	}
	return false
}

func (f *fakeStudents) List(ctx context.Context, p scope.Principal) ([]models.Student, error) {
	var out []models.Student
	for _, student := range f.students {
		if f.owns(p, student) {
			out = append(out, student)
		}
	}
	return out, nil
}

func (f *fakeStudents) GetByID(ctx context.Context, p scope.Principal, id uint) (models.Student, error) {
	for _, student := range f.students {
		if student.ID == id && f.owns(p, student) {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (f *fakeStudents) Create(ctx context.Context, student *models.Student) error {
	f.nextID++
	student.ID = f.nextID
	f.students = append(f.students, *student)
	return nil
}

func (f *fakeStudents) Save(ctx context.Context, student *models.Student) error {
	for i := range f.students {
		if f.students[i].ID == student.ID {
			subjects := f.students[i].Subjects
			f.students[i] = *student
			f.students[i].Subjects = subjects
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeStudents) ReplaceSubjects(ctx context.Context, student *models.Student, subjects []models.Subject) error {
	for i := range f.students {
		if f.students[i].ID == student.ID {
			f.students[i].Subjects = subjects
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeStudents) Delete(ctx context.Context, p scope.Principal, id uint) error {
	for i, student := range f.students {
		if student.ID == id && f.owns(p, student) {
			f.students = append(f.students[:i], f.students[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeResults struct {
	results  []models.Result
	students *fakeStudents
	nextID   uint
}

func (f *fakeResults) owns(p scope.Principal, result models.Result) bool {
	if p.IsStaff {
		return true
	}
	if f.students == nil {
		return false
	}
	for _, student := range f.students.students {
		if student.ID == result.StudentID {
			return f.students.owns(p, student)
		}
	}
	return false
}

func (f *fakeResults) List(ctx context.Context, p scope.Principal) ([]models.Result, error) {
	var out []models.Result
	for _, result := range f.results {
		if f.owns(p, result) {
			out = append(out, result)
		}
	}
	return out, nil
}

func (f *fakeResults) GetByID(ctx context.Context, p scope.Principal, id uint) (models.Result, error) {
	for _, result := range f.results {
		if result.ID == id && f.owns(p, result) {
			return result, nil
		}
	}
	return models.Result{}, gorm.ErrRecordNotFound
}

func (f *fakeResults) Create(ctx context.Context, result *models.Result) error {
	for _, existing := range f.results {
		if existing.StudentID == result.StudentID && existing.SubjectID == result.SubjectID &&
			existing.Term == result.Term && existing.Year == result.Year {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	result.ID = f.nextID
	f.results = append(f.results, *result)
	return nil
}

func (f *fakeResults) Save(ctx context.Context, result *models.Result) error {
	for i := range f.results {
		if f.results[i].ID == result.ID {
			f.results[i] = *result
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeResults) Delete(ctx context.Context, p scope.Principal, id uint) error {
	for i, result := range f.results {
		if result.ID == id && f.owns(p, result) {
			f.results = append(f.results[:i], f.results[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeResults) ListForClassTerm(ctx context.Context, classID uint, term, year int) ([]models.Result, error) {
	var out []models.Result
	for _, result := range f.results {
		if result.Term != term || result.Year != year {
			continue
		}
		if f.students != nil {
			for _, student := range f.students.students {
				if student.ID == result.StudentID && student.ClassID == classID {
					out = append(out, result)
					break
				}
			}
		}
	}
	return out, nil
}

type fakeReports struct {
	reports []models.StudentReport
	results *fakeResults
	nextID  uint
}

func (f *fakeReports) owns(p scope.Principal, report models.StudentReport) bool {
	if p.IsStaff {
		return true
	}
	if f.results == nil || f.results.students == nil {
		return false
	}
	for _, student := range f.results.students.students {
		if student.ID == report.StudentID {
			return f.results.students.owns(p, student)
		}
	}
	return false
}

func (f *fakeReports) List(ctx context.Context, p scope.Principal) ([]models.StudentReport, error) {
	var out []models.StudentReport
	for _, report := range f.reports {
		if f.owns(p, report) {
			out = append(out, report)
		}
	}
	return out, nil
}

func (f *fakeReports) GetByID(ctx context.Context, p scope.Principal, id uint) (models.StudentReport, error) {
	for _, report := range f.reports {
		if report.ID == id && f.owns(p, report) {
			return report, nil
		}
	}
	return models.StudentReport{}, gorm.ErrRecordNotFound
}

func (f *fakeReports) GetByTuple(ctx context.Context, studentID uint, term, year int) (models.StudentReport, error) {
	for _, report := range f.reports {
		if report.StudentID == studentID && report.Term == term && report.Year == year {
			return report, nil
		}
	}
	return models.StudentReport{}, gorm.ErrRecordNotFound
}

func (f *fakeReports) Create(ctx context.Context, report *models.StudentReport) error {
	f.nextID++
	report.ID = f.nextID
	f.reports = append(f.reports, *report)
	return nil
}

func (f *fakeReports) Save(ctx context.Context, report *models.StudentReport) error {
	for i := range f.reports {
		if f.reports[i].ID == report.ID {
			f.reports[i] = *report
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeReports) Delete(ctx context.Context, p scope.Principal, id uint) error {
	for i, report := range f.reports {
		if report.ID == id && f.owns(p, report) {
			f.reports = append(f.reports[:i], f.reports[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakePerformances struct {
	performances []models.ClassPerformance
	classes      *fakeClasses
	nextID       uint
}

func (f *fakePerformances) owns(p scope.Principal, performance models.ClassPerformance) bool {
	if p.IsStaff {
		return true
	}
	if f.classes == nil {
		return false
	}
	for _, class := range f.classes.classes {
		if class.ID == performance.ClassID {
			return class.TeacherID == p.TeacherID
		}
	}
	return false
}

func (f *fakePerformances) List(ctx context.Context, p scope.Principal) ([]models.ClassPerformance, error) {
	var out []models.ClassPerformance
	for _, performance := range f.performances {
		if f.owns(p, performance) {
			out = append(out, performance)
		}
	}
	return out, nil
}

func (f *fakePerformances) GetByID(ctx context.Context, p scope.Principal, id uint) (models.ClassPerformance, error) {
	for _, performance := range f.performances {
		if performance.ID == id && f.owns(p, performance) {
			return performance, nil
		}
	}
	return models.ClassPerformance{}, gorm.ErrRecordNotFound
}

func (f *fakePerformances) GetByTuple(ctx context.Context, classID uint, term, year int) (models.ClassPerformance, error) {
	for _, performance := range f.performances {
		if performance.ClassID == classID && performance.Term == term && performance.Year == year {
			return performance, nil
		}
	}
	return models.ClassPerformance{}, gorm.ErrRecordNotFound
}

func (f *fakePerformances) Create(ctx context.Context, performance *models.ClassPerformance) error {
	f.nextID++
	performance.ID = f.nextID
	f.performances = append(f.performances, *performance)
	return nil
}

func (f *fakePerformances) Save(ctx context.Context, performance *models.ClassPerformance) error {
	for i := range f.performances {
		if f.performances[i].ID == performance.ID {
			f.performances[i] = *performance
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakePerformances) Delete(ctx context.Context, p scope.Principal, id uint) error {
	for i, performance := range f.performances {
		if performance.ID == id && f.owns(p, performance) {
			f.performances = append(f.performances[:i], f.performances[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeSubscriptions struct {
	subscriptions []models.Subscription
	nextID        uint
}

func (f *fakeSubscriptions) List(ctx context.Context, p scope.Principal) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, subscription := range f.subscriptions {
		if p.IsStaff || subscription.AccountID == p.AccountID {
			out = append(out, subscription)
		}
	}
	return out, nil
}

func (f *fakeSubscriptions) GetByID(ctx context.Context, p scope.Principal, id uint) (models.Subscription, error) {
	for _, subscription := range f.subscriptions {
		if subscription.ID == id && (p.IsStaff || subscription.AccountID == p.AccountID) {
			return subscription, nil
		}
	}
	return models.Subscription{}, gorm.ErrRecordNotFound
}

func (f *fakeSubscriptions) Create(ctx context.Context, subscription *models.Subscription) error {
	for _, existing := range f.subscriptions {
		if existing.AccountID == subscription.AccountID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	subscription.ID = f.nextID
	f.subscriptions = append(f.subscriptions, *subscription)
	return nil
}

func (f *fakeSubscriptions) Save(ctx context.Context, subscription *models.Subscription) error {
	for i := range f.subscriptions {
		if f.subscriptions[i].ID == subscription.ID {
			f.subscriptions[i] = *subscription
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeSubscriptions) Delete(ctx context.Context, p scope.Principal, id uint) error {
	for i, subscription := range f.subscriptions {
		if subscription.ID == id && (p.IsStaff || subscription.AccountID == p.AccountID) {
			f.subscriptions = append(f.subscriptions[:i], f.subscriptions[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakePayments struct {
	payments []models.PaymentRecord
	nextID   uint
}

func (f *fakePayments) List(ctx context.Context, p scope.Principal) ([]models.PaymentRecord, error) {
	var out []models.PaymentRecord
	for _, payment := range f.payments {
		if p.IsStaff || payment.AccountID == p.AccountID {
			out = append(out, payment)
		}
	}
	return out, nil
}

func (f *fakePayments) GetByID(ctx context.Context, p scope.Principal, id uint) (models.PaymentRecord, error) {
	for _, payment := range f.payments {
		if payment.ID == id && (p.IsStaff || payment.AccountID == p.AccountID) {
			return payment, nil
		}
	}
	return models.PaymentRecord{}, gorm.ErrRecordNotFound
}

func (f *fakePayments) Create(ctx context.Context, payment *models.PaymentRecord) error {
	for _, existing := range f.payments {
		if existing.TransactionID == payment.TransactionID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	payment.ID = f.nextID
	f.payments = append(f.payments, *payment)
	return nil
}

func (f *fakePayments) Delete(ctx context.Context, p scope.Principal, id uint) error {
	for i, payment := range f.payments {
		if payment.ID == id && (p.IsStaff || payment.AccountID == p.AccountID) {
			f.payments = append(f.payments[:i], f.payments[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubStorage struct {
	uploaded []string
	url      string
	err      error
}

func (s *stubStorage) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.uploaded = append(s.uploaded, name)
	if s.url == "" {
		return "https://cdn.example.com/" + name, nil
	}
	return s.url, nil
}
