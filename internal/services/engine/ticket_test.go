package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/address"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/chain"
	"github.com/KirkDiggler/ticketsnipe/internal/services/idempotency"
	"github.com/KirkDiggler/ticketsnipe/internal/services/messaging"
	ticketMocks "github.com/KirkDiggler/ticketsnipe/internal/services/ticket/mocks"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

// toAwaitingAddress binds the middleman without posting an address
func (s *EngineTestSuite) toAwaitingAddress() {
	s.offerAndLatch()
	s.handle(s.inTicket(mmID, "hey, I'll be your middleman today"))
	s.Require().Equal(models.TicketStateAwaitingPaymentAddress, s.ticket().State)
	s.Require().Equal(mmID, s.ticket().Data.MiddlemanID)
}

func (s *EngineTestSuite) TestLatchLinksWager() {
	s.start()
	s.offerAndLatch()

	t := s.ticket()
	s.Equal(oppID, t.Data.OpponentID)
	s.True(t.Data.OurBet.Equal(decimal.NewFromInt(11)))
	s.Equal(models.ChainLTC, t.Data.Chain)
	_, ok := s.tickets.PeekPendingWager(oppID)
	s.False(ok)
}

func (s *EngineTestSuite) TestLatchPrefersBetInHistory() {
	s.start()
	s.handle(s.public("10v10"))
	other := s.message(publicChan, "dice-bets", "201", "3v3")
	s.handle(other)

	s.history = []*models.Message{s.inTicket("201", "I said 3v3 earlier")}
	welcome := s.inTicket(toolBotID, "Welcome <@"+oppID+"> and <@201>")
	welcome.Mentions = []string{oppID, "201"}
	s.handle(welcome)

	s.Equal("201", s.ticket().Data.OpponentID)
}

func (s *EngineTestSuite) TestLatchIgnoresUnrelatedChannels() {
	s.start()
	s.handle(s.public("10v10"))

	s.handle(s.message("general-1", "general", oppID, "hi <@"+oppID+">"))
	s.handle(s.inTicket("202", "nobody here has a wager"))

	_, err := s.tickets.GetTicket("general-1")
	s.ErrorIs(err, models.ErrTicketNotFound)
	_, err = s.tickets.GetTicket(ticketChan)
	s.ErrorIs(err, models.ErrTicketNotFound)
}

func (s *EngineTestSuite) TestLatchWithoutWagerCreatesNothing() {
	s.start()

	welcome := s.inTicket(toolBotID, "Welcome <@"+oppID+">")
	welcome.Mentions = []string{oppID}
	s.handle(welcome)

	_, err := s.tickets.GetTicket(ticketChan)
	s.ErrorIs(err, models.ErrTicketNotFound)
}

func (s *EngineTestSuite) TestLatchInsufficientFundsRepliesOnce() {
	s.start()
	s.handle(s.public("10v10"))
	s.balance = decimal.NewFromInt(1)

	for i := 0; i < 2; i++ {
		welcome := s.inTicket(toolBotID, "Welcome <@"+oppID+">")
		welcome.Mentions = []string{oppID}
		s.handle(welcome)
	}

	s.Equal([]string{messaging.InsufficientFundsMessage}, s.sentTo(ticketChan))
	_, err := s.tickets.GetTicket(ticketChan)
	s.ErrorIs(err, models.ErrTicketNotFound)
	_, ok := s.tickets.PeekPendingWager(oppID)
	s.True(ok)
}

func (s *EngineTestSuite) TestPaymentSent() {
	s.start()
	s.toPaymentSent()

	t := s.ticket()
	s.True(t.Data.PaymentLocked)
	s.Equal(escrowAddr, t.Data.RecipientAddress)
	s.Equal("send-tx-1", t.Data.SendTxID)

	rec, ok := s.payments.Get(t.Data.PaymentID)
	s.Require().True(ok)
	s.Equal(models.PaymentStatusBroadcast, rec.Status)
	s.Equal("send-tx-1", rec.TxID)

	sent := s.sentTo(ticketChan)
	s.Require().Len(sent, 1)
	s.Contains(sent[0], "send-tx-1")
}

func (s *EngineTestSuite) TestRepeatedAddressSendsOnce() {
	s.start()
	s.toPaymentSent()

	s.handle(s.inTicket(mmID, escrowAddr))
	s.handle(s.inTicket(mmID, "again: "+escrowAddr))

	s.Equal(models.TicketStatePaymentSent, s.ticket().State)
}

func (s *EngineTestSuite) TestConcurrentAddressMessagesSendOnce() {
	s.start()
	s.toAwaitingAddress()
	s.mockAdapter.EXPECT().SendPayment(gomock.Any(), escrowAddr, eqDecimal("11")).
		Return(&chain.SendResult{TxID: "send-tx-1"}, nil).Times(1)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		msg := s.inTicket(mmID, "send here "+escrowAddr)
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.engine.HandleMessage(s.ctx, msg)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.NoError(err)
	}

	s.Equal(models.TicketStatePaymentSent, s.ticket().State)
}

func (s *EngineTestSuite) TestClaimedIntentBlocksSend() {
	s.start()
	s.toAwaitingAddress()
	t := s.ticket()
	paymentID := idempotency.GeneratePaymentID(ticketChan, escrowAddr, t.Data.OurBet, t.Data.Chain)
	claimed, err := s.payments.RecordIntent(&idempotency.RecordIntentInput{
		PaymentID:       paymentID,
		Address:         escrowAddr,
		Amount:          t.Data.OurBet,
		TicketChannelID: ticketChan,
	})
	s.Require().NoError(err)
	s.Require().True(claimed)

	s.handle(s.inTicket(mmID, escrowAddr))

	s.Equal(models.TicketStateAwaitingPaymentAddress, s.ticket().State)
	sent := s.sentTo(ticketChan)
	s.Require().Len(sent, 1)
	s.Contains(sent[0], "Already sent")
}

func (s *EngineTestSuite) TestRejectsOwnAddress() {
	s.start()
	s.toAwaitingAddress()

	s.handle(s.inTicket(mmID, "pay "+ownAddr))

	s.Equal(models.TicketStateAwaitingPaymentAddress, s.ticket().State)
	sent := s.sentTo(ticketChan)
	s.Require().Len(sent, 1)
	s.Contains(sent[0], "my own address")
}

func (s *EngineTestSuite) TestRejectsInvalidAddress() {
	extractor, err := address.New(&address.Config{Checksum: true})
	s.Require().NoError(err)
	s.build(extractor)
	s.start()
	s.toAwaitingAddress()

	s.handle(s.inTicket(mmID, "pay "+escrowAddr))

	s.Equal(models.TicketStateAwaitingPaymentAddress, s.ticket().State)
	sent := s.sentTo(ticketChan)
	s.Require().Len(sent, 1)
	s.Contains(sent[0], "doesn't look valid")
}

func (s *EngineTestSuite) TestIgnoresAddressFromNonMiddleman() {
	s.start()
	s.toAwaitingAddress()

	s.handle(s.inTicket(oppID, "send to "+escrowAddr))

	s.Equal(models.TicketStateAwaitingPaymentAddress, s.ticket().State)
}

func (s *EngineTestSuite) TestSendFailureParksTicket() {
	s.start()
	s.toAwaitingAddress()
	s.mockAdapter.EXPECT().SendPayment(gomock.Any(), escrowAddr, eqDecimal("11")).
		Return(nil, errors.New("connection reset"))

	s.handle(s.inTicket(mmID, escrowAddr))

	t := s.ticket()
	s.Equal(models.TicketStateError, t.State)
	s.Contains(t.Data.ErrorReason, "connection reset")

	recs := s.payments.ForTicket(ticketChan)
	s.Require().Len(recs, 1)
	s.Equal(models.PaymentStatusIntent, recs[0].Status)

	alerts := s.sentTo(opsChannel)
	s.Require().Len(alerts, 1)
	s.Contains(alerts[0], ticketChan)

	// parked tickets ignore further addresses
	s.handle(s.inTicket(mmID, escrowAddr))
	s.Equal(models.TicketStateError, s.ticket().State)
	s.True(s.tickets.IsCoolingDown(oppID))

	// the parked ticket outlives the cleanup grace and keeps the opponent
	s.now = s.now.Add(time.Hour)
	out := s.tickets.Sweep()
	s.Empty(out.RemovedTickets)
	s.Equal(models.TicketStateError, s.ticket().State)
	s.handle(s.public("10v10"))
	_, ok := s.tickets.PeekPendingWager(oppID)
	s.False(ok)
}

func (s *EngineTestSuite) TestMiddlemanAbort() {
	s.start()
	s.offerAndLatch()

	s.handle(s.inTicket(mmID, "cancel this one"))

	t := s.ticket()
	s.Equal(models.TicketStateCancelled, t.State)
	s.True(s.tickets.IsCoolingDown(oppID))
}

func (s *EngineTestSuite) TestOpponentCannotAbort() {
	s.start()
	s.offerAndLatch()

	s.handle(s.inTicket(oppID, "cancel"))

	s.Equal(models.TicketStateAwaitingMiddleman, s.ticket().State)
}

func (s *EngineTestSuite) TestAckThenStart() {
	s.start()
	s.toPaymentSent()

	s.handle(s.inTicket(mmID, "received"))
	t := s.ticket()
	s.Equal(models.TicketStateAwaitingGameStart, t.State)
	rec, ok := s.payments.Get(t.Data.PaymentID)
	s.Require().True(ok)
	s.Equal(models.PaymentStatusConfirmed, rec.Status)

	s.handle(s.inTicket(mmID, "ok go ahead"))
	s.Equal(models.TicketStateGameInProgress, s.ticket().State)
}

func (s *EngineTestSuite) TestStartSignalSkipsToGame() {
	s.start()
	s.toGameInProgress()

	sent := s.sentTo(ticketChan)
	s.Len(sent, 2)
	s.False(strings.Contains(sent[1], "send-tx-1"))
}

func (s *EngineTestSuite) TestLockTimeoutDropsMessage() {
	s.lockTimeout = time.Second
	s.build(nil)
	s.start()
	s.offerAndLatch()

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = s.locker.Do(s.ctx, ticketChan, func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	err := s.engine.HandleMessage(s.ctx, s.inTicket(mmID, "hello"))
	close(release)

	s.ErrorIs(err, models.ErrLockTimeout)
	s.Equal(models.TicketStateAwaitingMiddleman, s.ticket().State)
}

func (s *EngineTestSuite) TestSweptChannelNeverLatchesAgain() {
	s.start()
	s.toGameInProgress()
	for i := 0; i < 5; i++ {
		s.roll(oppID, 6)
		s.roll(selfID, 2)
	}
	s.Require().Equal(models.TicketStateGameComplete, s.ticket().State)
	oldWelcome := s.inTicket(toolBotID, "Welcome <@"+oppID+">, a middleman will be with you shortly")
	oldWelcome.Mentions = []string{oppID}

	s.now = s.now.Add(6 * time.Minute)
	out := s.tickets.Sweep()
	s.Require().Equal([]string{ticketChan}, out.RemovedTickets)

	s.handle(s.public("10v10 again?"))
	_, ok := s.tickets.PeekPendingWager(oppID)
	s.Require().True(ok)

	s.history = []*models.Message{oldWelcome}
	s.handle(s.inTicket(mmID, "closing this ticket, gg"))
	_, err := s.tickets.GetTicket(ticketChan)
	s.ErrorIs(err, models.ErrTicketNotFound)

	// an old channel's history never links the new wager either
	s.history = []*models.Message{oldWelcome}
	s.handle(s.message("tc-2", "ticket-0002", mmID, "anyone still here?"))
	_, err = s.tickets.GetTicket("tc-2")
	s.ErrorIs(err, models.ErrTicketNotFound)

	welcome := s.message("tc-3", "ticket-0003", toolBotID, "Welcome <@"+oppID+">")
	welcome.Mentions = []string{oppID}
	s.history = nil
	s.handle(welcome)
	t, err := s.tickets.GetTicket("tc-3")
	s.Require().NoError(err)
	s.Equal(oppID, t.Data.OpponentID)
	s.Equal(models.TicketStateAwaitingMiddleman, t.State)
}

func (s *EngineTestSuite) TestReservedMessagesRunInDeliveryOrder() {
	s.start()
	s.toAwaitingAddress()
	s.mockAdapter.EXPECT().SendPayment(gomock.Any(), escrowAddr, eqDecimal("11")).
		Return(&chain.SendResult{TxID: "send-tx-1"}, nil)

	addr := s.inTicket(mmID, "send to "+escrowAddr)
	paid := s.inTicket(mmID, "both paid, gl!")
	first := s.engine.Reserve(addr.ChannelID, addr.AuthorID)
	second := s.engine.Reserve(paid.ChannelID, paid.AuthorID)

	// the later delivery is picked up first and still waits its turn
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.NoError(s.engine.HandleReserved(s.ctx, second, paid))
	}()
	s.Equal(1, s.locker.Pending(ticketChan))
	time.Sleep(10 * time.Millisecond)
	s.Require().NoError(s.engine.HandleReserved(s.ctx, first, addr))
	wg.Wait()

	t := s.ticket()
	s.Equal(models.TicketStateGameInProgress, t.State)
	s.Equal("send-tx-1", t.Data.SendTxID)
	s.Equal(0, s.locker.Pending(ticketChan))
}

func (s *EngineTestSuite) TestRetiredChannelSkipsWagerLookup() {
	mockTickets := ticketMocks.NewMockService(s.mockCtrl)
	cfg := s.config(s.engine.extractor)
	cfg.Tickets = mockTickets
	eng, err := New(cfg)
	s.Require().NoError(err)

	mockTickets.EXPECT().IsRetired(ticketChan).Return(true)

	t, err := eng.latch(s.ctx, s.inTicket(mmID, "closing this ticket, gg"))
	s.NoError(err)
	s.Nil(t)
}
