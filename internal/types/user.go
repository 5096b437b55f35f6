package types

import (
	"time"

	"github.com/google/uuid"
)

// User is an account. Password holds the bcrypt hash and is never serialized.
type User struct {
	ID                   uuid.UUID `json:"id"`
	Username             string    `json:"username"`
	Password             string    `json:"-"`
	Email                *string   `json:"email,omitempty"`
	TrialStartDate       time.Time `json:"trialStartDate"`
	PremiumUser          bool      `json:"premiumUser"`
	StripeCustomerID     *string   `json:"stripeCustomerId,omitempty"`
	StripeSubscriptionID *string   `json:"stripeSubscriptionId,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
}

type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=64" example:"driver42"`
	Password string  `json:"password" validate:"required,min=6,max=72" example:"s3cret!"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email" example:"driver@example.com"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required" example:"driver42"`
	Password string `json:"password" validate:"required" example:"s3cret!"`
}

// TrialStatus is derived from a User at a point in time; it is never stored.
type TrialStatus struct {
	IsPremium     bool      `json:"isPremium"`
	IsTrialActive bool      `json:"isTrialActive"`
	DaysLeft      int       `json:"daysLeft"`
	TrialEndDate  time.Time `json:"trialEndDate"`
}

// MessageResponse is the body of every error and of acknowledgement-only responses.
type MessageResponse struct {
	Message string `json:"message" example:"Parking session ended"`
}
