package dice

import (
	"testing"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/stretchr/testify/suite"
)

type ParseRollTestSuite struct {
	suite.Suite
	cfg *ParseConfig
}

func (s *ParseRollTestSuite) SetupTest() {
	s.cfg = &ParseConfig{
		SelfID:     "bot-self",
		DiceBotIDs: map[string]bool{"dice-bot": true},
	}
}

func TestParseRollTestSuite(t *testing.T) {
	suite.Run(t, new(ParseRollTestSuite))
}

func (s *ParseRollTestSuite) msg(author, content string) *models.Message {
	return &models.Message{AuthorID: author, AuthorBot: true, Content: content}
}

func (s *ParseRollTestSuite) TestMentionForm() {
	roll, ok := ParseRoll(s.msg("dice-bot", "<@opp-1> rolled a 5"), s.cfg)
	s.Require().False(ok, "non-numeric mention ids are not mentions")
	s.Nil(roll)

	roll, ok = ParseRoll(s.msg("dice-bot", "<@!123456> rolled a 5"), s.cfg)
	s.Require().True(ok)
	s.Equal("123456", roll.UserID)
	s.Equal(5, roll.Value)
}

func (s *ParseRollTestSuite) TestNamedForm() {
	roll, ok := ParseRoll(s.msg("dice-bot", "🎲 opponent rolled **4**"), s.cfg)
	s.Require().True(ok)
	s.Equal("opponent", roll.Name)
	s.Equal(4, roll.Value)
}

func (s *ParseRollTestSuite) TestCompactForm() {
	roll, ok := ParseRoll(s.msg("dice-bot", "🎲 Opponent: **3**"), s.cfg)
	s.Require().True(ok)
	s.Equal("Opponent", roll.Name)
	s.Equal(3, roll.Value)

	roll, ok = ParseRoll(s.msg("dice-bot", "🎲 <@42>: 6"), s.cfg)
	s.Require().True(ok)
	s.Equal("42", roll.UserID)
	s.Equal(6, roll.Value)
}

func (s *ParseRollTestSuite) TestSingleMentionFillsUserID() {
	m := s.msg("dice-bot", "Sniper has rolled 6")
	m.Mentions = []string{"bot-self"}
	roll, ok := ParseRoll(m, s.cfg)
	s.Require().True(ok)
	s.Equal("bot-self", roll.UserID)
	s.Equal(6, roll.Value)
}

func (s *ParseRollTestSuite) TestIgnoresOtherAuthors() {
	_, ok := ParseRoll(s.msg("someone", "<@1> rolled a 5"), s.cfg)
	s.False(ok)

	_, ok = ParseRoll(s.msg("bot-self", "<@1> rolled a 5"), s.cfg)
	s.False(ok)
}

func (s *ParseRollTestSuite) TestAnyBotWhenUnconfigured() {
	s.cfg.DiceBotIDs = nil
	_, ok := ParseRoll(s.msg("random-bot", "<@1> rolled 2"), s.cfg)
	s.True(ok)

	human := &models.Message{AuthorID: "human", Content: "<@1> rolled 6"}
	_, ok = ParseRoll(human, s.cfg)
	s.False(ok)
}

func (s *ParseRollTestSuite) TestChatterIsNotARoll() {
	_, ok := ParseRoll(s.msg("dice-bot", "type !dice to roll"), s.cfg)
	s.False(ok)
}
