package domain

import (
	"strings"
	"time"
)

// Customer контактные данные клиента. Email является ключом клиента.
type Customer struct {
	Email string
	Name  string
	Phone *string
}

// NormalizeEmail приводит email к виду, в котором он хранится и сравнивается
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CustomerHistory история клиента в рамках бизнеса, входные данные для оценки риска
type CustomerHistory struct {
	BookingCount   int
	CompletedCount int
	NoShowCount    int
	FirstSeenAt    *time.Time // nil для нового клиента
}

// IsFirstTime returns true if the customer has never booked with the business
func (h CustomerHistory) IsFirstTime() bool {
	return h.BookingCount == 0
}

// AccountAge returns how long the customer has been known, zero for new customers
func (h CustomerHistory) AccountAge(now time.Time) time.Duration {
	if h.FirstSeenAt == nil || h.FirstSeenAt.After(now) {
		return 0
	}
	return now.Sub(*h.FirstSeenAt)
}
