package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shulehub/shule-api/internal/dto"
	"github.com/shulehub/shule-api/internal/models"
	"github.com/shulehub/shule-api/internal/scope"
)

func TestResolveBillingAccount(t *testing.T) {
	teacher := scope.Principal{AccountID: 1}
	staff := scope.Principal{AccountID: 2, IsStaff: true}

	own, err := resolveBillingAccount(teacher, 0)
	require.NoError(t, err)
	require.Equal(t, uint(1), own)

	own, err = resolveBillingAccount(teacher, 1)
	require.NoError(t, err)
	require.Equal(t, uint(1), own)

	_, err = resolveBillingAccount(teacher, 3)
	require.ErrorIs(t, err, ErrForbidden)

	other, err := resolveBillingAccount(staff, 3)
	require.NoError(t, err)
	require.Equal(t, uint(3), other)
}

func TestCreateSubscriptionDefaultsToOwnAccount(t *testing.T) {
	subscriptions := &fakeSubscriptions{}
	svc := NewSubscriptionService(subscriptions, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	resp, err := svc.Create(context.Background(), scope.Principal{AccountID: 7}, dto.SubscriptionCreateRequest{
		Plan:       models.PlanPremium,
		Status:     models.SubscriptionActive,
		ExpiryDate: "2027-01-31",
	})
	require.NoError(t, err)
	require.Len(t, subscriptions.subscriptions, 1)
	require.Equal(t, uint(7), subscriptions.subscriptions[0].AccountID)
	require.Equal(t, 2027, resp.ExpiryDate.Year())
}

func TestCreateSubscriptionForOtherAccountIsStaffOnly(t *testing.T) {
	subscriptions := &fakeSubscriptions{}
	svc := NewSubscriptionService(subscriptions, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	payload := dto.SubscriptionCreateRequest{
		AccountID:  3,
		Plan:       models.PlanBasic,
		Status:     models.SubscriptionActive,
		ExpiryDate: "2027-01-31",
	}

	_, err := svc.Create(context.Background(), scope.Principal{AccountID: 7}, payload)
	require.ErrorIs(t, err, ErrForbidden)
	require.Empty(t, subscriptions.subscriptions)

	_, err = svc.Create(context.Background(), scope.Principal{AccountID: 7, IsStaff: true}, payload)
	require.NoError(t, err)
	require.Equal(t, uint(3), subscriptions.subscriptions[0].AccountID)
}

func TestCreatePaymentDeduplicatesTransactionID(t *testing.T) {
	payments := &fakePayments{}
	svc := NewPaymentService(payments, validator.New(validator.WithRequiredStructEnabled()), testLogger())
	caller := scope.Principal{AccountID: 7}

	payload := dto.PaymentCreateRequest{
		Amount:        15000,
		TransactionID: "MPESA-XYZ-001",
		Status:        models.PaymentCompleted,
	}
	_, err := svc.Create(context.Background(), caller, payload)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), caller, payload)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	require.Len(t, payments.payments, 1)
}

func TestDeletePaymentIsStaffOnly(t *testing.T) {
	payments := &fakePayments{
		payments: []models.PaymentRecord{{ID: 1, AccountID: 7, Amount: 15000, TransactionID: "MPESA-XYZ-001", Status: models.PaymentCompleted}},
		nextID:   1,
	}
	svc := NewPaymentService(payments, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	// Even the owning account cannot rewrite the ledger.
	err := svc.Delete(context.Background(), scope.Principal{AccountID: 7}, 1)
	require.ErrorIs(t, err, ErrForbidden)
	require.Len(t, payments.payments, 1)

	err = svc.Delete(context.Background(), scope.Principal{AccountID: 2, IsStaff: true}, 1)
	require.NoError(t, err)
	require.Empty(t, payments.payments)
}

func TestGetSubscriptionOutsideScope(t *testing.T) {
	subscriptions := &fakeSubscriptions{
		subscriptions: []models.Subscription{{ID: 1, AccountID: 7, Plan: models.PlanBasic}},
		nextID:        1,
	}
	svc := NewSubscriptionService(subscriptions, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	_, err := svc.Get(context.Background(), scope.Principal{AccountID: 8}, 1)
	require.ErrorIs(t, err, ErrSubscriptionNotFound)

	_, err = svc.Get(context.Background(), scope.Principal{AccountID: 7}, 1)
	require.NoError(t, err)
}
