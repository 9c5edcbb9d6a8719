package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/shulehub/shule-api/internal/models"
)

const dateLayout = "2006-01-02"

// SubscriptionCreateRequest opens a billing subscription. AccountID is only
// honoured for staff callers; teachers always subscribe their own account.
type SubscriptionCreateRequest struct {
	AccountID  uint   `json:"account_id" validate:"omitempty"`
	Plan       string `json:"plan" validate:"required,oneof=basic premium"`
	Status     string `json:"status" validate:"required,oneof=active inactive"`
	ExpiryDate string `json:"expiry_date" validate:"required,datetime=2006-01-02"`
}

// SubscriptionUpdateRequest patches a subscription.
type SubscriptionUpdateRequest struct {
	Plan       *string `json:"plan" validate:"omitempty,oneof=basic premium"`
	Status     *string `json:"status" validate:"omitempty,oneof=active inactive"`
	ExpiryDate *string `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
}

// ParseExpiry converts the request's expiry date string.
func (r SubscriptionCreateRequest) ParseExpiry() (time.Time, error) {
	return time.Parse(dateLayout, r.ExpiryDate)
}

// SubscriptionResponse is the serialized subscription.
type SubscriptionResponse struct {
	ID         uint            `json:"id"`
	Account    AccountResponse `json:"account"`
	Plan       string          `json:"plan"`
	Status     string          `json:"status"`
	ExpiryDate time.Time       `json:"expiry_date"`
}

// NewSubscriptionResponse converts a subscription model into a DTO.
func NewSubscriptionResponse(model models.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:         model.ID,
		Account:    NewAccountResponse(model.Account),
		Plan:       model.Plan,
		Status:     model.Status,
		ExpiryDate: model.ExpiryDate,
	}
}

// NewSubscriptionResponseSlice converts a slice of subscriptions into DTOs.
func NewSubscriptionResponseSlice(subscriptions []models.Subscription) []SubscriptionResponse {
	responses := make([]SubscriptionResponse, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		responses = append(responses, NewSubscriptionResponse(subscription))
	}
	return responses
}

// PaymentCreateRequest records one payment attempt. Records are immutable
// once stored. AccountID is only honoured for staff callers.
type PaymentCreateRequest struct {
	AccountID     uint                   `json:"account_id" validate:"omitempty"`
	Amount        float64                `json:"amount" validate:"required,gt=0"`
	TransactionID string                 `json:"transaction_id" validate:"required,min=1,max=100"`
	Status        string                 `json:"status" validate:"required,oneof=completed failed"`
	Metadata      map[string]interface{} `json:"metadata" validate:"omitempty"`
}

// PaymentResponse is the serialized payment record.
type PaymentResponse struct {
	ID            uint              `json:"id"`
	Account       AccountResponse   `json:"account"`
	Amount        float64           `json:"amount"`
	TransactionID string            `json:"transaction_id"`
	Status        string            `json:"status"`
	Metadata      datatypes.JSONMap `json:"metadata"`
	CreatedAt     time.Time         `json:"created_at"`
}

// NewPaymentResponse converts a payment record model into a DTO.
func NewPaymentResponse(model models.PaymentRecord) PaymentResponse {
	return PaymentResponse{
		ID:            model.ID,
		Account:       NewAccountResponse(model.Account),
		Amount:        model.Amount,
		TransactionID: model.TransactionID,
		Status:        model.Status,
		Metadata:      model.Metadata,
		CreatedAt:     model.CreatedAt,
	}
}

// NewPaymentResponseSlice converts a slice of payment records into DTOs.
func NewPaymentResponseSlice(payments []models.PaymentRecord) []PaymentResponse {
	responses := make([]PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		responses = append(responses, NewPaymentResponse(payment))
	}
	return responses
}
