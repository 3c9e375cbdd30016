package address

import (
	"testing"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/stretchr/testify/suite"
)

const (
	scenarioLTC = "LY7VX5yZgVbEsL3kS9F2a8B4c5D6e7F8g9"
	validP2PKH  = "LKKHMBjCU89fyFNgSRprDoD8Jb25N8uWvd"
	validP2SH   = "M7zVKQKmtV5Rc7erVGVVC3khZbXxsS5HEX"
	validBech32 = "ltc1qqypqxpq9qcrsszg2pvxq6rs0zqg3yyc5dyg36p"
	validSOL    = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
)

type ExtractorTestSuite struct {
	suite.Suite
	extractor *Extractor
}

func (s *ExtractorTestSuite) SetupTest() {
	e, err := New(&Config{})
	s.Require().NoError(err)
	s.extractor = e
}

func TestExtractorTestSuite(t *testing.T) {
	suite.Run(t, new(ExtractorTestSuite))
}

func (s *ExtractorTestSuite) TestLitecoinShape() {
	addr, ok := s.extractor.Extract("send to "+scenarioLTC+" pls", models.ChainLTC)
	s.Require().True(ok)
	s.Equal(scenarioLTC, addr)
}

func (s *ExtractorTestSuite) TestNoAddress() {
	_, ok := s.extractor.Extract("both paid, gl!", models.ChainLTC)
	s.False(ok)
	_, ok = s.extractor.Extract("", models.ChainSOL)
	s.False(ok)
}

func (s *ExtractorTestSuite) TestFirstValidTokenWins() {
	text := validSOL + " or " + "11111111111111111111111111111111"
	addr, ok := s.extractor.Extract(text, models.ChainSOL)
	s.Require().True(ok)
	s.Equal(validSOL, addr)
}

func (s *ExtractorTestSuite) TestSolanaRejectsWrongLength() {
	// a base58 token that decodes to 25 bytes, not a 32 byte key
	_, ok := s.extractor.Extract("addr "+validP2PKH, models.ChainSOL)
	s.False(ok)
}

func (s *ExtractorTestSuite) TestChecksumMode() {
	e, err := New(&Config{Checksum: true})
	s.Require().NoError(err)

	for _, addr := range []string{validP2PKH, validP2SH, validBech32} {
		got, ok := e.Extract("pay "+addr, models.ChainLTC)
		s.True(ok, addr)
		s.Equal(addr, got)
	}

	_, ok := e.Extract("pay "+scenarioLTC, models.ChainLTC)
	s.False(ok, "bad checksum must be rejected")
}

func (s *ExtractorTestSuite) TestDeterministic() {
	text := "mm: " + scenarioLTC + " and " + validP2PKH
	first, ok1 := s.extractor.Extract(text, models.ChainLTC)
	second, ok2 := s.extractor.Extract(text, models.ChainLTC)
	s.Equal(ok1, ok2)
	s.Equal(first, second)
}

func (s *ExtractorTestSuite) TestUnknownChain() {
	_, ok := s.extractor.Extract(scenarioLTC, models.Chain("DOGE"))
	s.False(ok)
}

func (s *ExtractorTestSuite) TestPatternOverride() {
	e, err := New(&Config{Patterns: map[models.Chain]string{models.ChainLTC: `\bL[a-zA-Z0-9]{5}\b`}})
	s.Require().NoError(err)
	addr, ok := e.Extract("x Labcde y", models.ChainLTC)
	s.True(ok)
	s.Equal("Labcde", addr)
}

func (s *ExtractorTestSuite) TestBadPattern() {
	_, err := New(&Config{Patterns: map[models.Chain]string{models.ChainLTC: `([`}})
	s.ErrorIs(err, models.ErrConfigError)
}

func (s *ExtractorTestSuite) TestCanonicalLowercasesBech32Only() {
	s.Equal(validBech32, Canonical("LTC1QQYPQXPQ9QCRSSZG2PVXQ6RS0ZQG3YYC5DYG36P", models.ChainLTC))
	s.Equal(validP2PKH, Canonical(validP2PKH, models.ChainLTC))
	s.True(Same(validSOL, validSOL, models.ChainSOL))
	s.False(Same("", "", models.ChainSOL))
}

func (s *ExtractorTestSuite) TestRejectedCandidate() {
	e, err := New(&Config{Checksum: true})
	s.Require().NoError(err)

	_, ok := e.Extract("pay "+scenarioLTC, models.ChainLTC)
	s.False(ok)
	s.Equal(scenarioLTC, e.Rejected("pay "+scenarioLTC, models.ChainLTC))

	text := scenarioLTC + " no wait " + validP2PKH
	addr, ok := e.Extract(text, models.ChainLTC)
	s.True(ok)
	s.Equal(validP2PKH, addr)

	s.Empty(e.Rejected("both paid, gl!", models.ChainLTC))
	s.Empty(e.Rejected(validP2PKH, models.ChainLTC))
	s.Empty(e.Rejected(scenarioLTC, models.Chain("DOGE")))
}
