package types

const DefaultPaymentDescription = "ParkPal Premium Subscription"

type CreatePaymentIntentRequest struct {
	Amount      int64  `json:"amount" validate:"required,gt=0" example:"499"`
	Description string `json:"description,omitempty" validate:"max=500" example:"ParkPal Premium Subscription"`
}

type CreatePaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type ConfirmSubscriptionRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required" example:"pi_3Nxyz"`
}

type ConfirmSubscriptionResponse struct {
	Success bool  `json:"success"`
	User    *User `json:"user"`
}
