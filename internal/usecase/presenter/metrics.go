package presenter

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/segscope/internal/domain/search/result"
)

// CharsPerToken is the divisor used to approximate token counts from text length.
const CharsPerToken = 4.5

// Rates are prices per million tokens for prompt and answer text.
type Rates struct {
	Prompt float64
	Answer float64
}

// DefaultRates are the prices the results view has always shown.
func DefaultRates() Rates {
	return Rates{Prompt: 15, Answer: 60}
}

// Metrics is the derived summary shown above the result list.
type Metrics struct {
	Completed    time.Time
	Elapsed      time.Duration
	Results      int
	PromptTokens int
	PromptCost   float64
	AnswerTokens int
	AnswerCost   float64
}

// ElapsedSeconds returns the elapsed time in seconds.
func (m Metrics) ElapsedSeconds() float64 {
	return m.Elapsed.Seconds()
}

// EstimateTokens approximates the token count of text.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	return int(math.Round(float64(n) / CharsPerToken))
}

// EstimateCost converts a token count into a price at rate per million tokens.
func EstimateCost(tokens int, rate float64) float64 {
	return float64(tokens) * rate / 1e6
}

// ComputeMetrics derives the metrics block. It returns false when meta is nil.
func ComputeMetrics(meta *result.Meta, data *result.Data, rates Rates) (Metrics, bool) {
	if meta == nil {
		return Metrics{}, false
	}

	promptTokens := EstimateTokens(data.Prompt)
	answerTokens := EstimateTokens(data.Answer)

	return Metrics{
		Completed:    meta.Completed.Time,
		Elapsed:      meta.Elapsed(),
		Results:      len(data.Results),
		PromptTokens: promptTokens,
		PromptCost:   EstimateCost(promptTokens, rates.Prompt),
		AnswerTokens: answerTokens,
		AnswerCost:   EstimateCost(answerTokens, rates.Answer),
	}, true
}
