package create_payment_intent

import "time"

// Request модель запроса на расчет депозита
type Request struct {
	BusinessID int64
	ServiceID  int64
	StaffID    *int64 // nil = любой мастер
	StartAt    time.Time
	Customer   *Customer // опционально, без клиента он считается новым
}

// Customer контакты клиента
type Customer struct {
	Email string
	Name  string
	Phone *string
}

// Response результат оценки риска. Поля авторизации заполнены только
// если депозит нужен.
type Response struct {
	AuthorizationID *string
	ClientSecret    *string
	DepositRequired bool
	DepositAmount   int64 // minor units
	DepositReason   string
	RiskScore       int
	RiskFactors     []string
	StaffID         int64
	StartAt         time.Time
	EndAt           time.Time
	ExpiresAt       *time.Time
}
