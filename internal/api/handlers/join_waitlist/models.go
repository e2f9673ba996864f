package join_waitlist

import (
	"errors"
	"time"

	joinWaitlist "github.com/m04kA/SMC-SalonBookingService/internal/usecase/join_waitlist"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

const dateLayout = "2006-01-02"

var errInvalidDate = errors.New("date must be YYYY-MM-DD")

// WaitlistRequest HTTP request model
type WaitlistRequest struct {
	BusinessID     int64    `json:"businessId"`
	ServiceID      int64    `json:"serviceId"`
	Date           string   `json:"date"`
	PreferredStart string   `json:"preferredStart"`
	PreferredEnd   string   `json:"preferredEnd"`
	Customer       Customer `json:"customer"`
}

type Customer struct {
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
}

// WaitlistResponse HTTP response model
type WaitlistResponse struct {
	ID             int64  `json:"id"`
	BusinessID     int64  `json:"businessId"`
	ServiceID      int64  `json:"serviceId"`
	Date           string `json:"date"`
	PreferredStart string `json:"preferredStart"`
	PreferredEnd   string `json:"preferredEnd"`
	CustomerEmail  string `json:"customerEmail"`
	CustomerName   string `json:"customerName"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

func (r *WaitlistRequest) ToUseCaseRequest() (*joinWaitlist.Request, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return nil, errInvalidDate
	}

	return &joinWaitlist.Request{
		BusinessID:     r.BusinessID,
		ServiceID:      r.ServiceID,
		Date:           date,
		PreferredStart: types.TimeString(r.PreferredStart),
		PreferredEnd:   types.TimeString(r.PreferredEnd),
		Customer: joinWaitlist.Customer{
			Email: r.Customer.Email,
			Name:  r.Customer.Name,
			Phone: r.Customer.Phone,
		},
	}, nil
}

func FromUseCaseResponse(resp *joinWaitlist.Response) *WaitlistResponse {
	return &WaitlistResponse{
		ID:             resp.ID,
		BusinessID:     resp.BusinessID,
		ServiceID:      resp.ServiceID,
		Date:           resp.Date.Format(dateLayout),
		PreferredStart: string(resp.PreferredStart),
		PreferredEnd:   string(resp.PreferredEnd),
		CustomerEmail:  resp.CustomerEmail,
		CustomerName:   resp.CustomerName,
		CreatedAt:      resp.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
