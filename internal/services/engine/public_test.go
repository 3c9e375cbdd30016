package engine

import (
	"context"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/messaging"
	"github.com/shopspring/decimal"
)

func (s *EngineTestSuite) TestCounterOffer() {
	s.start()

	s.handle(s.public("anyone 10v10?"))

	s.Equal([]string{"vs 11.00"}, s.sentTo(publicChan))
	w, ok := s.tickets.PeekPendingWager(oppID)
	s.Require().True(ok)
	s.True(w.OpponentBet.Equal(decimal.NewFromInt(10)))
	s.True(w.OurBet.Equal(decimal.NewFromInt(11)))
	s.Equal(models.ChainLTC, w.Chain)
	s.Equal(publicChan, w.PublicChannelID)
}

func (s *EngineTestSuite) TestCounterOfferRoundsToCents() {
	s.start()

	s.handle(s.public("$2.35 vs $2.35"))

	s.Equal([]string{"vs 2.59"}, s.sentTo(publicChan))
}

func (s *EngineTestSuite) TestIgnoresNonOffers() {
	s.start()

	s.handle(s.public("10v5 anyone"))
	s.handle(s.public("gm everyone"))
	bot := s.message(publicChan, "dice-bets", diceBotID, "10v10")
	s.handle(bot)

	s.Empty(s.sentTo(publicChan))
	s.Empty(s.tickets.PendingWagers())
}

func (s *EngineTestSuite) TestInsufficientFundsOnOffer() {
	s.balance = decimal.RequireFromString("0.5")
	s.start()

	s.handle(s.public("10v10"))

	s.Equal([]string{messaging.InsufficientFundsMessage}, s.sentTo(publicChan))
	_, ok := s.tickets.PeekPendingWager(oppID)
	s.False(ok)
}

func (s *EngineTestSuite) TestUnsupportedChainIsIgnored() {
	s.start()

	s.handle(s.public("5v5 sol"))

	s.Empty(s.sentTo(publicChan))
	s.Empty(s.tickets.PendingWagers())
}

func (s *EngineTestSuite) TestSkipsUserOnCooldown() {
	s.start()
	s.tickets.SetCooldown(oppID, time.Minute)

	s.handle(s.public("10v10"))

	s.Empty(s.sentTo(publicChan))
}

func (s *EngineTestSuite) TestSkipsUserAlreadyInTicket() {
	s.start()
	s.offerAndLatch()

	s.handle(s.public("20v20"))

	s.Equal([]string{"vs 11.00"}, s.sentTo(publicChan))
}

func (s *EngineTestSuite) TestCounterDelayShowsTyping() {
	s.counterDelay = 2 * time.Second
	s.build(nil)
	s.start()

	s.handle(s.public("10v10"))

	s.Equal(1, s.typing)
	s.Equal([]string{"vs 11.00"}, s.sentTo(publicChan))
}

func (s *EngineTestSuite) TestParseBet() {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "10v10", want: "10", ok: true},
		{in: "$5 vs $5", want: "5", ok: true},
		{in: "2.5V2.5 ltc", want: "2.5", ok: true},
		{in: "10v5", ok: false},
		{in: "0v0", ok: false},
		{in: "hello", ok: false},
	}
	for _, tc := range cases {
		got, ok := parseBet(tc.in)
		s.Equal(tc.ok, ok, tc.in)
		if tc.ok {
			s.True(got.Equal(decimal.RequireFromString(tc.want)), tc.in)
		}
	}
}

func (s *EngineTestSuite) TestChainMention() {
	c, ok := chainMention("10v10 LTC only")
	s.True(ok)
	s.Equal(models.ChainLTC, c)

	c, ok = chainMention("solana 5v5")
	s.True(ok)
	s.Equal(models.ChainSOL, c)

	_, ok = chainMention("ltc or sol")
	s.False(ok)
}

func (s *EngineTestSuite) TestBettorsDoNotWaitOnEachOther() {
	s.lockTimeout = time.Second
	s.build(nil)
	s.start()

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.locker.Do(s.ctx, publicChan+"/"+oppID, func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	s.handle(s.message(publicChan, "dice-bets", "201", "5v5"))
	_, ok := s.tickets.PeekPendingWager("201")
	s.True(ok)

	err := s.engine.HandleMessage(s.ctx, s.public("10v10"))
	s.ErrorIs(err, models.ErrLockTimeout)
	close(release)
	<-done
	_, ok = s.tickets.PeekPendingWager(oppID)
	s.False(ok)
}
