package risk

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Weights веса скоринга. Семантика фиксирована, значения настраиваются.
type Weights struct {
	BaseScore int

	FirstTimeCustomer int // клиент ни разу не записывался
	NewAccount        int // клиент известен меньше NewAccountAge
	NewAccountAge     time.Duration

	NoShowPenalty int // за каждую неявку
	NoShowCap     int

	CompletedCredit    int // снижение за каждый завершенный визит
	CompletedCreditCap int

	VeryShortLead        time.Duration
	VeryShortLeadPenalty int
	ShortLead            time.Duration
	ShortLeadPenalty     int
	LongLead             time.Duration
	LongLeadCredit       int

	HighPrice        int64 // minor units
	HighPricePenalty int
}

// Policy веса плюс настройки депозита бизнеса
type Policy struct {
	Weights            Weights
	Threshold          int
	DepositMode        domain.DepositMode
	DepositFixedAmount int64
	DepositPercent     int
}

// DefaultWeights веса по умолчанию
func DefaultWeights() Weights {
	return Weights{
		BaseScore:            10,
		FirstTimeCustomer:    25,
		NewAccount:           10,
		NewAccountAge:        30 * 24 * time.Hour,
		NoShowPenalty:        20,
		NoShowCap:            40,
		CompletedCredit:      3,
		CompletedCreditCap:   15,
		VeryShortLead:        2 * time.Hour,
		VeryShortLeadPenalty: 25,
		ShortLead:            24 * time.Hour,
		ShortLeadPenalty:     15,
		LongLead:             7 * 24 * time.Hour,
		LongLeadCredit:       10,
		HighPrice:            10000,
		HighPricePenalty:     15,
	}
}

// PolicyFor собирает политику из весов и настроек бизнеса
func PolicyFor(w Weights, bp *domain.BookingPolicy) Policy {
	if bp == nil {
		bp = domain.DefaultBookingPolicy(0)
	}
	return Policy{
		Weights:            w,
		Threshold:          bp.DepositThreshold,
		DepositMode:        bp.DepositMode,
		DepositFixedAmount: bp.DepositFixedAmount,
		DepositPercent:     bp.DepositPercent,
	}
}
