package engine

import (
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/payout"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func (s *EngineTestSuite) count(channelID, content string) int {
	n := 0
	for _, m := range s.sentTo(channelID) {
		if m == content {
			n++
		}
	}
	return n
}

func (s *EngineTestSuite) TestBotWinsAndPayoutCompletes() {
	s.start()
	s.toGameInProgress()

	rounds := [][2]int{{6, 3}, {5, 5}, {4, 2}, {6, 1}, {6, 4}}
	for i, r := range rounds {
		s.roll(oppID, r[1])
		s.Equal(i+1, s.count(ticketChan, "!dice"))
		s.roll(selfID, r[0])
	}

	t := s.ticket()
	s.Require().Equal(models.TicketStateAwaitingPayout, t.State)
	s.Equal(models.Scores{Bot: 5, Opponent: 0}, t.Data.GameScores)
	s.Len(t.Data.Rounds, 5)

	monitor, err := payout.New(&payout.Config{
		Tickets:   s.tickets,
		Payments:  s.payments,
		Registry:  s.registry,
		Locker:    s.locker,
		Vouch:     s.poster,
		Messenger: s.mockMessenger,
		Messaging: s.msgs,
		Clock:     s.mockClock,
		Skew:      2 * time.Minute,
		Cooldown:  time.Minute,
	})
	s.Require().NoError(err)
	s.mockAdapter.EXPECT().GetRecentTransactions(gomock.Any(), gomock.Any()).Return([]*models.Transaction{{
		TxID:          "payout-1",
		Amount:        decimal.NewFromInt(21),
		Confirmations: 1,
		Timestamp:     s.now,
		Direction:     models.DirectionInbound,
	}}, nil)

	out := monitor.ScanOnce(s.ctx)

	s.Equal([]string{ticketChan}, out.Matched)
	t = s.ticket()
	s.Equal(models.TicketStateGameComplete, t.State)
	s.Equal(models.SideBot, t.Data.GameWinner)
	s.Equal("payout-1", t.Data.PayoutTxID)
	s.Len(s.sentTo(vouchChanID), 1)
	s.True(s.tickets.IsCoolingDown(oppID))
}

func (s *EngineTestSuite) TestOpponentWinsEndsGame() {
	s.start()
	s.toGameInProgress()

	for i := 0; i < 5; i++ {
		s.roll(oppID, 6)
		s.roll(selfID, 2)
	}

	t := s.ticket()
	s.Equal(models.TicketStateGameComplete, t.State)
	s.Equal(models.SideOpponent, t.Data.GameWinner)
	s.Equal(models.Scores{Bot: 0, Opponent: 5}, t.Data.GameScores)
	s.True(s.tickets.IsCoolingDown(oppID))
	s.Len(s.sentTo(vouchChanID), 1)

	// rolls after the game are ignored
	s.roll(oppID, 6)
	s.Equal(5, s.count(ticketChan, "!dice"))
}

func (s *EngineTestSuite) TestBotRollFirstDoesNotIssueCommand() {
	s.start()
	s.toGameInProgress()

	s.roll(selfID, 4)
	s.Equal(0, s.count(ticketChan, "!dice"))
	s.roll(oppID, 2)

	t := s.ticket()
	s.Equal(models.Scores{Bot: 1, Opponent: 0}, t.Data.GameScores)
	s.Nil(t.Data.PendingBotRoll)
	s.Nil(t.Data.PendingOpponentRoll)
}

func (s *EngineTestSuite) TestIgnoresForeignRolls() {
	s.start()
	s.toGameInProgress()

	s.roll("999", 6)
	s.handle(s.inTicket(oppID, "<@"+oppID+"> rolled a 6"))

	t := s.ticket()
	s.Nil(t.Data.PendingOpponentRoll)
	s.Nil(t.Data.PendingBotRoll)
}

func (s *EngineTestSuite) TestDuplicateRollKeepsFirst() {
	s.start()
	s.toGameInProgress()

	s.roll(oppID, 3)
	s.roll(oppID, 6)

	t := s.ticket()
	s.Require().NotNil(t.Data.PendingOpponentRoll)
	s.Equal(3, *t.Data.PendingOpponentRoll)
}

func (s *EngineTestSuite) TestRollAttributedByName() {
	s.start()
	s.toGameInProgress()

	// the opponent's display name is their author name
	s.handle(s.inTicket(diceBotID, oppID+" rolled **5**"))

	t := s.ticket()
	s.Require().NotNil(t.Data.PendingOpponentRoll)
	s.Equal(5, *t.Data.PendingOpponentRoll)
	s.Equal(1, s.count(ticketChan, "!dice"))
}
