package domain

import "time"

// WaitlistEntry запрос клиента на уведомление, если в день появится свободное время.
// Уникален по (BusinessID, ServiceID, email клиента, Date).
type WaitlistEntry struct {
	ID             int64
	BusinessID     int64
	ServiceID      int64
	Date           time.Time
	PreferredRange TimeRange
	Customer       Customer
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
