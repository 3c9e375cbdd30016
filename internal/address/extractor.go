// Package address finds chain addresses in free-form chat text.
package address

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/gagliardetto/solana-go"
)

// Litecoin base58check version bytes: P2PKH (L), P2SH (M) and legacy P2SH (3)
const (
	ltcPubKeyHashVersion    = 0x30
	ltcScriptHashVersion    = 0x32
	ltcLegacyScriptHashAddr = 0x05
	ltcBech32HRP            = "ltc"
)

// DefaultPatterns are used for chains without a configured pattern
var DefaultPatterns = map[models.Chain]string{
	models.ChainLTC: `\b(?:[LM3][a-km-zA-HJ-NP-Z1-9]{26,33}|ltc1[a-z0-9]{39,59})\b`,
	models.ChainSOL: `\b[1-9A-HJ-NP-Za-km-z]{32,44}\b`,
}

// Config for the extractor
type Config struct {
	// Patterns overrides DefaultPatterns per chain
	Patterns map[models.Chain]string

	// Checksum enables base58check/bech32 verification of Litecoin addresses
	Checksum bool
}

// Extractor finds the first well-formed address for a chain
type Extractor struct {
	patterns map[models.Chain]*regexp.Regexp
	checksum bool
}

// New compiles the configured patterns
func New(cfg *Config) (*Extractor, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	e := &Extractor{
		patterns: make(map[models.Chain]*regexp.Regexp),
		checksum: cfg.Checksum,
	}
	for chain, pattern := range DefaultPatterns {
		if override, ok := cfg.Patterns[chain]; ok && override != "" {
			pattern = override
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: address pattern for %s: %v", models.ErrConfigError, chain, err)
		}
		e.patterns[chain] = re
	}
	for chain, pattern := range cfg.Patterns {
		if _, ok := e.patterns[chain]; ok {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: address pattern for %s: %v", models.ErrConfigError, chain, err)
		}
		e.patterns[chain] = re
	}

	return e, nil
}

// Extract returns the first token in text that is a valid address on chain
func (e *Extractor) Extract(text string, chain models.Chain) (string, bool) {
	re, ok := e.patterns[chain]
	if !ok {
		return "", false
	}
	for _, candidate := range re.FindAllString(text, -1) {
		if e.Valid(candidate, chain) {
			return candidate, true
		}
	}
	return "", false
}

// Rejected returns the first token in text that looks like an address on
// chain but fails validation, or "" when none does
func (e *Extractor) Rejected(text string, chain models.Chain) string {
	re, ok := e.patterns[chain]
	if !ok {
		return ""
	}
	for _, candidate := range re.FindAllString(text, -1) {
		if !e.Valid(candidate, chain) {
			return candidate
		}
	}
	return ""
}

// Valid runs the chain's validation layer on a single token
func (e *Extractor) Valid(addr string, chain models.Chain) bool {
	switch chain {
	case models.ChainSOL:
		_, err := solana.PublicKeyFromBase58(addr)
		return err == nil
	case models.ChainLTC:
		if !e.checksum {
			return true
		}
		return validLitecoin(addr)
	default:
		return true
	}
}

// Canonical returns the form of addr used for comparisons and payment ids.
// Bech32 is case-insensitive; base58 is not.
func Canonical(addr string, chain models.Chain) string {
	addr = strings.TrimSpace(addr)
	if chain == models.ChainLTC && strings.HasPrefix(strings.ToLower(addr), ltcBech32HRP+"1") {
		return strings.ToLower(addr)
	}
	return addr
}

// Same reports whether two addresses refer to the same destination
func Same(a, b string, chain models.Chain) bool {
	return a != "" && Canonical(a, chain) == Canonical(b, chain)
}

func validLitecoin(addr string) bool {
	if strings.HasPrefix(strings.ToLower(addr), ltcBech32HRP+"1") {
		hrp, data, _, err := bech32.DecodeGeneric(addr)
		return err == nil && hrp == ltcBech32HRP && len(data) > 0
	}

	payload, version, err := base58.CheckDecode(addr)
	if err != nil || len(payload) != 20 {
		return false
	}
	switch version {
	case ltcPubKeyHashVersion, ltcScriptHashVersion, ltcLegacyScriptHashAddr:
		return true
	}
	return false
}
