package engine

import (
	"regexp"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/shopspring/decimal"
)

var (
	// betPattern matches offers such as "10v10", "$5 vs $5" and "2.5v2.5"
	betPattern = regexp.MustCompile(`(?i)\$?(\d+(?:\.\d+)?)\s*v(?:s)?\s*\$?(\d+(?:\.\d+)?)`)

	// abortPattern is a middleman calling the ticket off
	abortPattern = regexp.MustCompile(`(?i)\b(?:cancel(?:l?ed)?|abort(?:ed)?|void(?:ed)?)\b`)

	// startPattern is the middleman's go signal
	startPattern = regexp.MustCompile(`(?i)\b(?:gl|glhf|good\s*luck|both\s+paid|start(?:ing)?|begin|go\s+ahead)\b`)

	// ackPattern is the middleman acknowledging our payment only
	ackPattern = regexp.MustCompile(`(?i)\b(?:received|got\s+(?:it|yours|ur|your|payment)|confirmed|paid)\b`)

	ltcKeyword = regexp.MustCompile(`(?i)\b(?:ltc|litecoin)\b`)
	solKeyword = regexp.MustCompile(`(?i)\b(?:sol|solana)\b`)
)

// parseBet returns the stake of an even bet offer
func parseBet(content string) (decimal.Decimal, bool) {
	m := betPattern.FindStringSubmatch(content)
	if m == nil {
		return decimal.Zero, false
	}
	left, err := decimal.NewFromString(m[1])
	if err != nil {
		return decimal.Zero, false
	}
	right, err := decimal.NewFromString(m[2])
	if err != nil {
		return decimal.Zero, false
	}
	if !left.IsPositive() || !left.Equal(right) {
		return decimal.Zero, false
	}
	return left, true
}

// chainMention returns the chain named in text, if exactly one is named
func chainMention(text string) (models.Chain, bool) {
	ltc := ltcKeyword.MatchString(text)
	sol := solKeyword.MatchString(text)
	switch {
	case ltc && !sol:
		return models.ChainLTC, true
	case sol && !ltc:
		return models.ChainSOL, true
	}
	return "", false
}
