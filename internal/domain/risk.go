package domain

// RiskAssessment результат оценки риска неявки
type RiskAssessment struct {
	Score           int // 0..100
	Factors         []string
	DepositRequired bool
	DepositAmount   int64 // minor units
	DepositReason   string
}
