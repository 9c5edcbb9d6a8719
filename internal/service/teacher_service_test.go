package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/shulehub/shule-api/internal/dto"
	"github.com/shulehub/shule-api/internal/models"
	"github.com/shulehub/shule-api/internal/scope"
)

func TestCreateTeacherForAnotherAccountIsStaffOnly(t *testing.T) {
	teachers := &fakeTeachers{}
	svc := NewTeacherService(teachers, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	payload := dto.TeacherCreateRequest{AccountID: 2, Email: "other@example.com"}

	_, err := svc.Create(context.Background(), scope.Principal{AccountID: 1}, payload)
	require.ErrorIs(t, err, ErrForbidden)
	require.Empty(t, teachers.teachers)

	_, err = svc.Create(context.Background(), scope.Principal{AccountID: 1, IsStaff: true}, payload)
	require.NoError(t, err)
	require.Len(t, teachers.teachers, 1)
	require.Equal(t, uint(2), teachers.teachers[0].AccountID)
}

func TestGetTeacherOutsideScope(t *testing.T) {
	teachers := &fakeTeachers{
		teachers: []models.TeacherProfile{{ID: 1, AccountID: 1, Email: "own@example.com"}},
		nextID:   1,
	}
	svc := NewTeacherService(teachers, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	// Same row, different principals: the owner sees it, a stranger gets a
	// not-found rather than a permission error.
	_, err := svc.Get(context.Background(), scope.Principal{AccountID: 1, TeacherID: 1}, 1)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), scope.Principal{AccountID: 2, TeacherID: 2}, 1)
	require.ErrorIs(t, err, ErrTeacherNotFound)

	_, err = svc.Get(context.Background(), scope.Principal{AccountID: 2, IsStaff: true}, 1)
	require.NoError(t, err)
}

func TestStartPremiumOpensSubscriptionWindow(t *testing.T) {
	teachers := &fakeTeachers{
		teachers: []models.TeacherProfile{{ID: 1, AccountID: 1}},
		nextID:   1,
	}
	svc := NewTeacherService(teachers, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	owner := scope.Principal{AccountID: 1, TeacherID: 1}

	resp, err := svc.StartPremium(context.Background(), owner, 1, dto.StartSubscriptionRequest{Days: 30})
	require.NoError(t, err)
	require.True(t, resp.IsPremium)

	wantEnd := time.Now().AddDate(0, 0, 30)
	require.Equal(t, wantEnd.Year(), resp.SubscriptionEndDate.Year())
	require.Equal(t, wantEnd.YearDay(), resp.SubscriptionEndDate.YearDay())
}

func TestSavingLapsedSubscriptionDropsPremium(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1)
	teachers := &fakeTeachers{
		teachers: []models.TeacherProfile{{
			ID:                    1,
			AccountID:             1,
			IsPremium:             true,
			SubscriptionStartDate: yesterday.AddDate(0, -1, 0),
			SubscriptionEndDate:   yesterday,
		}},
		nextID: 1,
	}
	svc := NewTeacherService(teachers, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	owner := scope.Principal{AccountID: 1, TeacherID: 1}

	email := "lapsed@example.com"
	resp, err := svc.Update(context.Background(), owner, 1, dto.TeacherUpdateRequest{Email: &email})
	require.NoError(t, err)
	require.False(t, resp.IsPremium)
	require.False(t, teachers.teachers[0].IsPremium)
}
