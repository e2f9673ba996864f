package create_payment_intent

import (
	"errors"
	"time"

	createPaymentIntent "github.com/m04kA/SMC-SalonBookingService/internal/usecase/create_payment_intent"
)

var errInvalidStartAt = errors.New("startAt must be RFC3339")

// PaymentIntentRequest HTTP request model
type PaymentIntentRequest struct {
	BusinessID int64     `json:"businessId"`
	ServiceID  int64     `json:"serviceId"`
	StaffID    *int64    `json:"staffId,omitempty"`
	StartAt    string    `json:"startAt"`
	Customer   *Customer `json:"customer,omitempty"`
}

type Customer struct {
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
}

// PaymentIntentResponse HTTP response model
type PaymentIntentResponse struct {
	DepositRequired bool     `json:"depositRequired"`
	AuthorizationID *string  `json:"authorizationId,omitempty"`
	ClientSecret    *string  `json:"clientSecret,omitempty"`
	DepositAmount   int64    `json:"depositAmount"`
	DepositReason   string   `json:"depositReason,omitempty"`
	RiskScore       int      `json:"riskScore"`
	RiskFactors     []string `json:"riskFactors"`
	StaffID         int64    `json:"staffId"`
	StartAt         string   `json:"startAt"`
	EndAt           string   `json:"endAt"`
	ExpiresAt       *string  `json:"expiresAt,omitempty"`
}

func (r *PaymentIntentRequest) ToUseCaseRequest() (*createPaymentIntent.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, errInvalidStartAt
	}

	req := &createPaymentIntent.Request{
		BusinessID: r.BusinessID,
		ServiceID:  r.ServiceID,
		StaffID:    r.StaffID,
		StartAt:    startAt,
	}
	if r.Customer != nil {
		req.Customer = &createPaymentIntent.Customer{
			Email: r.Customer.Email,
			Name:  r.Customer.Name,
			Phone: r.Customer.Phone,
		}
	}
	return req, nil
}

func FromUseCaseResponse(resp *createPaymentIntent.Response) *PaymentIntentResponse {
	factors := resp.RiskFactors
	if factors == nil {
		factors = []string{}
	}

	out := &PaymentIntentResponse{
		DepositRequired: resp.DepositRequired,
		AuthorizationID: resp.AuthorizationID,
		ClientSecret:    resp.ClientSecret,
		DepositAmount:   resp.DepositAmount,
		DepositReason:   resp.DepositReason,
		RiskScore:       resp.RiskScore,
		RiskFactors:     factors,
		StaffID:         resp.StaffID,
		StartAt:         resp.StartAt.UTC().Format(time.RFC3339),
		EndAt:           resp.EndAt.UTC().Format(time.RFC3339),
	}
	if resp.ExpiresAt != nil {
		expires := resp.ExpiresAt.UTC().Format(time.RFC3339)
		out.ExpiresAt = &expires
	}
	return out
}
