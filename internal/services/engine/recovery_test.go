package engine

import (
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/idempotency"
	"github.com/KirkDiggler/ticketsnipe/internal/services/ticket"
	"github.com/shopspring/decimal"
)

// seedAwaitingAddress builds a ticket interrupted inside the payment
// critical section, before the engine starts
func (s *EngineTestSuite) seedAwaitingAddress() string {
	_, err := s.tickets.CreateTicket(&ticket.CreateTicketInput{
		ChannelID: ticketChan,
		Wager: &models.PendingWager{
			OpponentID:  oppID,
			OpponentBet: decimal.NewFromInt(10),
			OurBet:      decimal.NewFromInt(11),
			Chain:       models.ChainLTC,
		},
		Chain: models.ChainLTC,
	})
	s.Require().NoError(err)
	_, err = s.tickets.Transition(ticketChan, models.AwaitingMiddleman{})
	s.Require().NoError(err)
	_, err = s.tickets.Transition(ticketChan, models.AwaitingPaymentAddress{MiddlemanID: mmID})
	s.Require().NoError(err)

	paymentID := idempotency.GeneratePaymentID(ticketChan, escrowAddr, decimal.NewFromInt(11), models.ChainLTC)
	claimed, err := s.payments.RecordIntent(&idempotency.RecordIntentInput{
		PaymentID:       paymentID,
		Address:         escrowAddr,
		Amount:          decimal.NewFromInt(11),
		TicketChannelID: ticketChan,
	})
	s.Require().NoError(err)
	s.Require().True(claimed)
	return paymentID
}

func (s *EngineTestSuite) TestStartReattachesBroadcastPayment() {
	paymentID := s.seedAwaitingAddress()
	s.Require().NoError(s.payments.RecordBroadcast(paymentID, "send-tx-9"))

	s.start()

	t := s.ticket()
	s.Equal(models.TicketStatePaymentSent, t.State)
	s.True(t.Data.PaymentLocked)
	s.Equal("send-tx-9", t.Data.SendTxID)
	s.Equal(paymentID, t.Data.PaymentID)
	s.Empty(s.sentTo(opsChannel))
}

func (s *EngineTestSuite) TestStartParksUnbroadcastIntent() {
	s.seedAwaitingAddress()

	s.start()

	t := s.ticket()
	s.Equal(models.TicketStateError, t.State)
	s.Contains(t.Data.ErrorReason, "never broadcast")
	s.Len(s.sentTo(opsChannel), 1)
}

func (s *EngineTestSuite) TestStateSurvivesRestart() {
	s.start()
	s.toPaymentSent()
	s.handle(s.message(publicChan, "dice-bets", "203", "10v10 anyone?"))
	s.Require().NoError(s.engine.Stop(s.ctx))
	s.started = false

	s.build(nil)
	s.start()

	t := s.ticket()
	s.Equal(models.TicketStatePaymentSent, t.State)
	s.Equal("send-tx-1", t.Data.SendTxID)
	rec, ok := s.payments.Get(t.Data.PaymentID)
	s.Require().True(ok)
	s.Equal(models.PaymentStatusBroadcast, rec.Status)
	_, ok = s.tickets.PeekPendingWager("203")
	s.True(ok)

	// a second address after restart still cannot trigger a send
	s.handle(s.inTicket(mmID, escrowAddr))
	s.Equal(models.TicketStatePaymentSent, s.ticket().State)
}
