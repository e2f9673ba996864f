package risk

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Коды факторов риска
const (
	FactorFirstTimeCustomer = "first_time_customer"
	FactorNewAccount        = "new_account"
	FactorPriorNoShows      = "prior_no_shows"
	FactorVeryShortLead     = "very_short_lead_time"
	FactorShortLead         = "short_lead_time"
	FactorHighPrice         = "high_service_price"
	FactorLoyalCustomer     = "completed_visits"
	FactorLongLead          = "long_lead_time"
)

var factorText = map[string]string{
	FactorFirstTimeCustomer: "первая запись",
	FactorNewAccount:        "новый клиент",
	FactorPriorNoShows:      "пропущенные визиты",
	FactorVeryShortLead:     "запись менее чем за пару часов",
	FactorShortLead:         "запись менее чем за сутки",
	FactorHighPrice:         "дорогая услуга",
}

// Input данные для оценки одной попытки бронирования
type Input struct {
	History    domain.CustomerHistory
	PriceCents int64
	LeadTime   time.Duration // от текущего момента до начала услуги
	Now        time.Time
}

// Evaluate чистая функция: одинаковые входные данные всегда дают одинаковый результат
func Evaluate(in Input, p Policy) domain.RiskAssessment {
	w := p.Weights
	score := w.BaseScore
	factors := make([]string, 0)

	if in.History.IsFirstTime() {
		score += w.FirstTimeCustomer
		factors = append(factors, FactorFirstTimeCustomer)
	} else if w.NewAccountAge > 0 && in.History.AccountAge(in.Now) < w.NewAccountAge {
		score += w.NewAccount
		factors = append(factors, FactorNewAccount)
	}

	if in.History.NoShowCount > 0 {
		score += minInt(in.History.NoShowCount*w.NoShowPenalty, w.NoShowCap)
		factors = append(factors, FactorPriorNoShows)
	}

	if in.History.CompletedCount > 0 {
		score -= minInt(in.History.CompletedCount*w.CompletedCredit, w.CompletedCreditCap)
		factors = append(factors, FactorLoyalCustomer)
	}

	switch {
	case in.LeadTime < w.VeryShortLead:
		score += w.VeryShortLeadPenalty
		factors = append(factors, FactorVeryShortLead)
	case in.LeadTime < w.ShortLead:
		score += w.ShortLeadPenalty
		factors = append(factors, FactorShortLead)
	case w.LongLead > 0 && in.LeadTime >= w.LongLead:
		score -= w.LongLeadCredit
		factors = append(factors, FactorLongLead)
	}

	if w.HighPrice > 0 && in.PriceCents >= w.HighPrice {
		score += w.HighPricePenalty
		factors = append(factors, FactorHighPrice)
	}

	score = clamp(score, 0, 100)

	assessment := domain.RiskAssessment{
		Score:   score,
		Factors: factors,
	}

	amount := DepositAmount(p, in.PriceCents)
	if score >= p.Threshold && amount > 0 {
		assessment.DepositRequired = true
		assessment.DepositAmount = amount
		assessment.DepositReason = depositReason(factors, amount)
	}

	return assessment
}

// DepositAmount сумма депозита по настройкам бизнеса, не больше цены услуги
func DepositAmount(p Policy, priceCents int64) int64 {
	var amount int64
	switch p.DepositMode {
	case domain.DepositModeFixed:
		amount = p.DepositFixedAmount
	case domain.DepositModePercent:
		amount = priceCents * int64(p.DepositPercent) / 100
	}
	if amount > priceCents {
		amount = priceCents
	}
	if amount < 0 {
		return 0
	}
	return amount
}

func depositReason(factors []string, amount int64) string {
	reasons := make([]string, 0, len(factors))
	for _, f := range factors {
		if text, ok := factorText[f]; ok {
			reasons = append(reasons, text)
		}
	}
	if len(reasons) == 0 {
		return fmt.Sprintf("Для подтверждения записи требуется депозит %d.%02d", amount/100, amount%100)
	}
	return fmt.Sprintf("Для подтверждения записи требуется депозит %d.%02d: %s",
		amount/100, amount%100, strings.Join(reasons, ", "))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
