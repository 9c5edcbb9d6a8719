package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/shulehub/shule-api/internal/dto"
	"github.com/shulehub/shule-api/internal/scope"
)

func newStudentService(f *classroomFixture) StudentService {
	return NewStudentService(f.students, f.classes, f.subjects, validator.New(validator.WithRequiredStructEnabled()), testLogger())
}

func TestCreateStudentEnrolsSubjects(t *testing.T) {
	f := newClassroomFixture()
	svc := newStudentService(f)

	// Duplicate IDs in the payload count once against the catalogue.
	resp, err := svc.Create(context.Background(), f.owner, dto.StudentCreateRequest{
		FirstName:    "Daudi",
		LastName:     "Mushi",
		AssessmentNo: "AS-004",
		Gender:       "M",
		ClassID:      1,
		SubjectIDs:   []uint{1, 1, 2},
	})
	require.NoError(t, err)
	require.Len(t, resp.Subjects, 2)
	require.Len(t, f.students.students, 4)
}

func TestCreateStudentRejectsUnknownSubject(t *testing.T) {
	f := newClassroomFixture()
	svc := newStudentService(f)

	_, err := svc.Create(context.Background(), f.owner, dto.StudentCreateRequest{
		FirstName:    "Daudi",
		LastName:     "Mushi",
		AssessmentNo: "AS-004",
		Gender:       "M",
		ClassID:      1,
		SubjectIDs:   []uint{1, 99},
	})
	require.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestCreateStudentInForeignClass(t *testing.T) {
	f := newClassroomFixture()
	svc := newStudentService(f)

	outsider := scope.Principal{AccountID: 9, TeacherID: 9}
	_, err := svc.Create(context.Background(), outsider, dto.StudentCreateRequest{
		FirstName:    "Daudi",
		LastName:     "Mushi",
		AssessmentNo: "AS-004",
		Gender:       "M",
		ClassID:      1,
	})
	require.ErrorIs(t, err, ErrClassNotFound)
}

func TestUpdateStudentReplacesEnrolmentSet(t *testing.T) {
	f := newClassroomFixture()
	f.students.students[0].Subjects = f.subjects.subjects[:1]
	svc := newStudentService(f)

	subjectIDs := []uint{2}
	_, err := svc.Update(context.Background(), f.owner, 1, dto.StudentUpdateRequest{SubjectIDs: &subjectIDs})
	require.NoError(t, err)

	require.Len(t, f.students.students[0].Subjects, 1)
	require.Equal(t, uint(2), f.students.students[0].Subjects[0].ID)
}

func TestUpdateStudentKeepsEnrolmentWhenSubjectsOmitted(t *testing.T) {
	f := newClassroomFixture()
	f.students.students[0].Subjects = f.subjects.subjects
	svc := newStudentService(f)

	name := "Aisha"
	_, err := svc.Update(context.Background(), f.owner, 1, dto.StudentUpdateRequest{FirstName: &name})
	require.NoError(t, err)

	require.Equal(t, "Aisha", f.students.students[0].FirstName)
	require.Len(t, f.students.students[0].Subjects, 2)
}

func TestUpdateStudentCannotMoveToForeignClass(t *testing.T) {
	f := newClassroomFixture()
	f.classes.classes = append(f.classes.classes, f.classes.classes[0])
	f.classes.classes[1].ID = 2
	f.classes.classes[1].TeacherID = 9
	svc := newStudentService(f)

	foreignClass := uint(2)
	_, err := svc.Update(context.Background(), f.owner, 1, dto.StudentUpdateRequest{ClassID: &foreignClass})
	require.ErrorIs(t, err, ErrClassNotFound)
}

func TestDeleteStudentOutsideScope(t *testing.T) {
	f := newClassroomFixture()
	svc := newStudentService(f)

	outsider := scope.Principal{AccountID: 9, TeacherID: 9}
	err := svc.Delete(context.Background(), outsider, 1)
	require.ErrorIs(t, err, ErrStudentNotFound)
	require.Len(t, f.students.students, 3)

	err = svc.Delete(context.Background(), f.owner, 1)
	require.NoError(t, err)
	require.Len(t, f.students.students, 2)
}
