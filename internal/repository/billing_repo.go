package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shulehub/shule-api/internal/models"
	"github.com/shulehub/shule-api/internal/scope"
)

// SubscriptionRepository provides scoped access to billing subscriptions.
type SubscriptionRepository interface {
	List(ctx context.Context, p scope.Principal) ([]models.Subscription, error)
	GetByID(ctx context.Context, p scope.Principal, id uint) (models.Subscription, error)
	Create(ctx context.Context, subscription *models.Subscription) error
	Save(ctx context.Context, subscription *models.Subscription) error
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository constructs a GORM-backed subscription repository.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) List(ctx context.Context, p scope.Principal) ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Subscriptions)).
		Preload("Account").
		Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (r *subscriptionRepository) GetByID(ctx context.Context, p scope.Principal, id uint) (models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Subscriptions)).
		Preload("Account").
		First(&subscription, id).Error
	if err != nil {
		return models.Subscription{}, err
	}
	return subscription, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	return r.db.WithContext(ctx).Create(subscription).Error
}

func (r *subscriptionRepository) Save(ctx context.Context, subscription *models.Subscription) error {
	return r.db.WithContext(ctx).Save(subscription).Error
}

func (r *subscriptionRepository) Delete(ctx context.Context, p scope.Principal, id uint) error {
	result := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Subscriptions)).
		Delete(&models.Subscription{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PaymentRepository provides scoped access to the payment ledger. Records are
// append-only: there is deliberately no save method.
type PaymentRepository interface {
	List(ctx context.Context, p scope.Principal) ([]models.PaymentRecord, error)
	GetByID(ctx context.Context, p scope.Principal, id uint) (models.PaymentRecord, error)
	Create(ctx context.Context, payment *models.PaymentRecord) error
	Delete(ctx context.Context, p scope.Principal, id uint) error
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository constructs a GORM-backed payment repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) List(ctx context.Context, p scope.Principal) ([]models.PaymentRecord, error) {
	var payments []models.PaymentRecord
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Payments)).
		Preload("Account").
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) GetByID(ctx context.Context, p scope.Principal, id uint) (models.PaymentRecord, error) {
	var payment models.PaymentRecord
	err := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Payments)).
		Preload("Account").
		First(&payment, id).Error
	if err != nil {
		return models.PaymentRecord{}, err
	}
	return payment, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) Delete(ctx context.Context, p scope.Principal, id uint) error {
	result := r.db.WithContext(ctx).
		Scopes(scope.For(p, scope.Payments)).
		Delete(&models.PaymentRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
