package join_waitlist

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// Request модель запроса на запись в лист ожидания
type Request struct {
	BusinessID     int64
	ServiceID      int64
	Date           time.Time
	PreferredStart types.TimeString
	PreferredEnd   types.TimeString
	Customer       Customer
}

// Customer контакты клиента
type Customer struct {
	Email string
	Name  string
	Phone *string
}

// Response модель ответа. Created=false означает, что запись уже была
// и у нее обновлен желаемый интервал.
type Response struct {
	ID             int64
	BusinessID     int64
	ServiceID      int64
	Date           time.Time
	PreferredStart types.TimeString
	PreferredEnd   types.TimeString
	CustomerEmail  string
	CustomerName   string
	Created        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
