package application

import (
	"math"

	"audit-gateway/audit/domain"
)

// Pesos da nota. Somam exatamente 100.
const (
	WeightPerformanceHigh = 20 // performance >= 90
	WeightPerformanceMid  = 10 // performance >= 50
	WeightMobile          = 15
	WeightHTTPS           = 15
	WeightChatGPT         = 20
	WeightGemini          = 20
	WeightStructuredData  = 10
)

// Score é função pura dos resultados dos probes; o resultado fica em [0,100].
func Score(o domain.Outcomes) int {
	score := 0

	switch {
	case o.Performance.Score >= 90:
		score += WeightPerformanceHigh
	case o.Performance.Score >= 50:
		score += WeightPerformanceMid
	}

	if o.Performance.MobileFriendly {
		score += WeightMobile
	}
	if o.Security.Secure {
		score += WeightHTTPS
	}
	if o.ChatGPT.Mentioned {
		score += WeightChatGPT
	}
	if o.Gemini.Mentioned {
		score += WeightGemini
	}
	if o.StructuredData.Present {
		score += WeightStructuredData
	}

	return score
}

// Parâmetros da estimativa de perda mensal exibida no relatório.
const (
	lossMonthlyTraffic  = 1000
	lossBaseConversion  = 0.03
	lossAverageOrderPLN = 35
)

// Summarize deriva a faixa de visibilidade, o número de problemas e a perda estimada.
func Summarize(r domain.Report) domain.Summary {
	s := domain.Summary{}

	switch {
	case r.Score >= 70:
		s.Level, s.Emoji, s.Label = domain.LevelGood, "🟢", "DOBRA"
	case r.Score >= 40:
		s.Level, s.Emoji, s.Label = domain.LevelMedium, "🟡", "ŚREDNIA"
	default:
		s.Level, s.Emoji, s.Label = domain.LevelLow, "🔴", "NISKA"
	}

	for _, problem := range []bool{
		r.PageSpeed < 60,
		!r.MobileFriendly,
		!r.HTTPS,
		!r.ChatGPTCitation,
		!r.GeminiCitation,
		!r.SchemaMarkup,
	} {
		if problem {
			s.Problems++
		}
	}

	lost := float64(100-r.Score) / 100
	s.MonthlyLoss = int(math.Round(lossMonthlyTraffic * lossBaseConversion * lossAverageOrderPLN * lost))

	return s
}
