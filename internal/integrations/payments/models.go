package payments

// AuthorizeRequest запрос на блокировку суммы депозита
type AuthorizeRequest struct {
	Amount         int64 // minor units
	Currency       string
	IdempotencyKey string
	CustomerEmail  string
	Description    string
	Metadata       map[string]string
}

// Authorization открытая авторизация. ClientSecret передается клиенту
// для подтверждения платежа на его стороне.
type Authorization struct {
	ID           string
	ClientSecret string
}
