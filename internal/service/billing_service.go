package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shulehub/shule-api/internal/dto"
	"github.com/shulehub/shule-api/internal/models"
	"github.com/shulehub/shule-api/internal/repository"
	"github.com/shulehub/shule-api/internal/scope"
)

var (
	// ErrSubscriptionNotFound indicates the subscription is missing or out of scope.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrPaymentNotFound indicates the payment record is missing or out of scope.
	ErrPaymentNotFound = errors.New("payment record not found")
)

// SubscriptionService exposes billing subscription use cases.
type SubscriptionService interface {
	List(ctx context.Context, p scope.Principal) ([]dto.SubscriptionResponse, error)
	Get(ctx context.Context, p scope.Principal, id uint) (dto.SubscriptionResponse, error)
	Create(ctx context.Context, p scope.Principal, payload dto.SubscriptionCreateRequest) (dto.SubscriptionResponse, error)
	Update(ctx context.Context, p scope.Principal, id uint, payload dto.SubscriptionUpdateRequest) (dto.SubscriptionResponse, error)
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type subscriptionService struct {
	subscriptions repository.SubscriptionRepository
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewSubscriptionService builds a new subscription service.
func NewSubscriptionService(subscriptions repository.SubscriptionRepository, validate *validator.Validate, logger zerolog.Logger) SubscriptionService {
	return &subscriptionService{
		subscriptions: subscriptions,
		validator:     validate,
		logger:        logger.With().Str("component", "subscription_service").Logger(),
	}
}

func (s *subscriptionService) List(ctx context.Context, p scope.Principal) ([]dto.SubscriptionResponse, error) {
	subscriptions, err := s.subscriptions.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return dto.NewSubscriptionResponseSlice(subscriptions), nil
}

func (s *subscriptionService) Get(ctx context.Context, p scope.Principal, id uint) (dto.SubscriptionResponse, error) {
	subscription, err := s.subscriptions.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubscriptionResponse{}, ErrSubscriptionNotFound
		}
		return dto.SubscriptionResponse{}, err
	}
	return dto.NewSubscriptionResponse(subscription), nil
}

func (s *subscriptionService) Create(ctx context.Context, p scope.Principal, payload dto.SubscriptionCreateRequest) (dto.SubscriptionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubscriptionResponse{}, err
	}

	accountID, err := resolveBillingAccount(p, payload.AccountID)
	if err != nil {
		return dto.SubscriptionResponse{}, err
	}

	expiry, err := payload.ParseExpiry()
	if err != nil {
		return dto.SubscriptionResponse{}, err
	}

	subscription := models.Subscription{
		AccountID:  accountID,
		Plan:       payload.Plan,
		Status:     payload.Status,
		ExpiryDate: expiry,
	}
	if err := s.subscriptions.Create(ctx, &subscription); err != nil {
		return dto.SubscriptionResponse{}, err
	}

	s.logger.Info().Uint("subscription_id", subscription.ID).Str("plan", subscription.Plan).Msg("subscription created")

	created, err := s.subscriptions.GetByID(ctx, p, subscription.ID)
	if err != nil {
		return dto.SubscriptionResponse{}, err
	}
	return dto.NewSubscriptionResponse(created), nil
}

func (s *subscriptionService) Update(ctx context.Context, p scope.Principal, id uint, payload dto.SubscriptionUpdateRequest) (dto.SubscriptionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubscriptionResponse{}, err
	}

	subscription, err := s.subscriptions.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubscriptionResponse{}, ErrSubscriptionNotFound
		}
		return dto.SubscriptionResponse{}, err
	}

	if payload.Plan != nil {
		subscription.Plan = *payload.Plan
	}
	if payload.Status != nil {
		subscription.Status = *payload.Status
	}
	if payload.ExpiryDate != nil {
		expiry, err := dto.SubscriptionCreateRequest{ExpiryDate: *payload.ExpiryDate}.ParseExpiry()
		if err != nil {
			return dto.SubscriptionResponse{}, err
		}
		subscription.ExpiryDate = expiry
	}

	if err := s.subscriptions.Save(ctx, &subscription); err != nil {
		return dto.SubscriptionResponse{}, err
	}

	s.logger.Info().Uint("subscription_id", subscription.ID).Msg("subscription updated")
	return dto.NewSubscriptionResponse(subscription), nil
}

func (s *subscriptionService) Delete(ctx context.Context, p scope.Principal, id uint) error {
	if err := s.subscriptions.Delete(ctx, p, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubscriptionNotFound
		}
		return err
	}
	s.logger.Info().Uint("subscription_id", id).Msg("subscription deleted")
	return nil
}

// resolveBillingAccount decides which account a billing row belongs to. A
// zero payload value means the caller's own account; naming another account
// is an explicit permission check reserved for staff.
func resolveBillingAccount(p scope.Principal, requested uint) (uint, error) {
	if requested == 0 || requested == p.AccountID {
		return p.AccountID, nil
	}
	if !p.IsStaff {
		return 0, ErrForbidden
	}
	return requested, nil
}

// PaymentService exposes the payment ledger. Entries are append-only: there
// is no update operation, and deletion is reserved for staff.
type PaymentService interface {
	List(ctx context.Context, p scope.Principal) ([]dto.PaymentResponse, error)
	Get(ctx context.Context, p scope.Principal, id uint) (dto.PaymentResponse, error)
	Create(ctx context.Context, p scope.Principal, payload dto.PaymentCreateRequest) (dto.PaymentResponse, error)
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type paymentService struct {
	payments  repository.PaymentRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewPaymentService builds a new payment service.
func NewPaymentService(payments repository.PaymentRepository, validate *validator.Validate, logger zerolog.Logger) PaymentService {
	return &paymentService{
		payments:  payments,
		validator: validate,
		logger:    logger.With().Str("component", "payment_service").Logger(),
	}
}

func (s *paymentService) List(ctx context.Context, p scope.Principal) ([]dto.PaymentResponse, error) {
	payments, err := s.payments.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentResponseSlice(payments), nil
}

func (s *paymentService) Get(ctx context.Context, p scope.Principal, id uint) (dto.PaymentResponse, error) {
	payment, err := s.payments.GetByID(ctx, p, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PaymentResponse{}, ErrPaymentNotFound
		}
		return dto.PaymentResponse{}, err
	}
	return dto.NewPaymentResponse(payment), nil
}

func (s *paymentService) Create(ctx context.Context, p scope.Principal, payload dto.PaymentCreateRequest) (dto.PaymentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PaymentResponse{}, err
	}

	accountID, err := resolveBillingAccount(p, payload.AccountID)
	if err != nil {
		return dto.PaymentResponse{}, err
	}

	payment := models.PaymentRecord{
		AccountID:     accountID,
		Amount:        payload.Amount,
		TransactionID: payload.TransactionID,
		Status:        payload.Status,
		Metadata:      payload.Metadata,
	}
	// A reused transaction id surfaces as gorm.ErrDuplicatedKey and maps to a
	// conflict, which doubles as gateway callback dedup.
	if err := s.payments.Create(ctx, &payment); err != nil {
		return dto.PaymentResponse{}, err
	}

	s.logger.Info().
		Uint("payment_id", payment.ID).
		Str("transaction_id", payment.TransactionID).
		Str("status", payment.Status).
		Msg("payment recorded")

	created, err := s.payments.GetByID(ctx, p, payment.ID)
	if err != nil {
		return dto.PaymentResponse{}, err
	}
	return dto.NewPaymentResponse(created), nil
}

func (s *paymentService) Delete(ctx context.Context, p scope.Principal, id uint) error {
	if !p.IsStaff {
		return ErrForbidden
	}
	if err := s.payments.Delete(ctx, p, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		return err
	}
	s.logger.Info().Uint("payment_id", id).Msg("payment record deleted")
	return nil
}
