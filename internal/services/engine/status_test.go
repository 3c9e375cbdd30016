package engine

import (
	"errors"
	"os"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/common/uuid"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/chain"
	"github.com/KirkDiggler/ticketsnipe/internal/services/payout"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func (s *EngineTestSuite) TestStatusListsTicketsAndBalances() {
	s.start()
	s.offerAndLatch()
	s.handle(s.message(publicChan, "dice-bets", "203", "4v4"))

	out := s.engine.Status(s.ctx)

	s.Require().Len(out.Tickets, 1)
	s.Equal(ticketChan, out.Tickets[0].ChannelID)
	s.Equal(1, out.PendingWagers)
	s.Require().Len(out.Balances, 1)
	s.Equal(models.ChainLTC, out.Balances[0].Chain)
	s.True(out.Balances[0].Balance.Equal(decimal.NewFromInt(100)))
	s.NoError(out.Balances[0].Err)
}

func (s *EngineTestSuite) TestReleaseRequiresSettledTicket() {
	s.start()
	s.offerAndLatch()

	s.ErrorIs(s.engine.Release(s.ctx, ticketChan), ErrNotSettled)
	s.ErrorIs(s.engine.Release(s.ctx, "missing"), models.ErrTicketNotFound)
}

func (s *EngineTestSuite) TestReleaseParkedTicket() {
	s.start()
	s.toAwaitingAddress()
	s.mockAdapter.EXPECT().SendPayment(gomock.Any(), escrowAddr, eqDecimal("11")).
		Return(nil, errors.New("wallet locked"))
	s.handle(s.inTicket(mmID, escrowAddr))
	s.Require().Equal(models.TicketStateError, s.ticket().State)

	out := s.engine.Status(s.ctx)
	s.Require().Len(out.Tickets, 1)
	s.Equal(models.TicketStateError, out.Tickets[0].State)

	s.Require().NoError(s.engine.Release(s.ctx, ticketChan))

	_, err := s.tickets.GetTicket(ticketChan)
	s.ErrorIs(err, models.ErrTicketNotFound)
	_, err = s.tickets.GetTicketByUser(oppID)
	s.ErrorIs(err, models.ErrTicketNotFound)
}

func (s *EngineTestSuite) TestStatusListsQuarantine() {
	line := `{"kind":"ticket","reason":"unknown state BOGUS","record":{"channel_id":"chan-9"},"quarantined_at":"2025-04-19T11:00:00Z"}`
	s.Require().NoError(os.WriteFile(s.path+".quarantine", []byte(line+"\n"), 0o600))
	s.start()

	out := s.engine.Status(s.ctx)

	s.NoError(out.QuarantineErr)
	s.Require().Len(out.Quarantined, 1)
	s.Equal("ticket", out.Quarantined[0].Kind)
	s.Contains(out.Quarantined[0].Reason, "BOGUS")
}

func (s *EngineTestSuite) TestSimulatePayoutNeedsSimulatedWallet() {
	s.start()
	s.toGameInProgress()

	_, err := s.engine.SimulatePayout(s.ctx, ticketChan)
	s.ErrorIs(err, ErrNotAwaiting)
	_, err = s.engine.SimulatePayout(s.ctx, "missing")
	s.ErrorIs(err, models.ErrTicketNotFound)

	for i := 0; i < 5; i++ {
		s.roll(oppID, 1)
		s.roll(selfID, 6)
	}
	s.Require().Equal(models.TicketStateAwaitingPayout, s.ticket().State)
	_, err = s.engine.SimulatePayout(s.ctx, ticketChan)
	s.ErrorIs(err, ErrNotSimulated)
}

func (s *EngineTestSuite) TestSimulatedPayoutCompletesTicket() {
	sim, err := chain.NewSimulation(&chain.SimulationConfig{
		Chain:          models.ChainLTC,
		Balance:        decimal.NewFromInt(100),
		ReceiveAddress: ownAddr,
		UUID:           uuid.New(),
	})
	s.Require().NoError(err)
	s.adapter = sim
	s.build(nil)
	s.start()

	s.offerAndLatch()
	s.handle(s.inTicket(mmID, "send to "+escrowAddr))
	s.handle(s.inTicket(mmID, "both paid, gl!"))
	for i := 0; i < 5; i++ {
		s.roll(oppID, 1)
		s.roll(selfID, 6)
	}
	s.Require().Equal(models.TicketStateAwaitingPayout, s.ticket().State)

	tx, err := s.engine.SimulatePayout(s.ctx, ticketChan)
	s.Require().NoError(err)
	s.True(tx.Amount.Equal(decimal.NewFromInt(21)))

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
	out := monitor.ScanOnce(s.ctx)

	s.Equal([]string{ticketChan}, out.Matched)
	t := s.ticket()
	s.Equal(models.TicketStateGameComplete, t.State)
	s.Equal(tx.TxID, t.Data.PayoutTxID)
}
