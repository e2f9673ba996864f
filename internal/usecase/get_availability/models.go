package get_availability

import "time"

// Request модель запроса доступности
type Request struct {
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	StaffID    *int64    // nil = любой мастер
	Date       time.Time // Дата (без времени)
}

// Response модель ответа. Slots упорядочены по времени начала.
type Response struct {
	Date      time.Time
	ServiceID int64
	StaffID   *int64
	Slots     []Slot
}

// Slot время начала и мастера, свободные в это время
type Slot struct {
	StartAt  time.Time
	Local    string // HH:MM в зоне бизнеса
	StaffIDs []int64
}
