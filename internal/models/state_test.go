package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type StateMachineTestSuite struct {
	suite.Suite
	ticket *Ticket
}

func (s *StateMachineTestSuite) SetupTest() {
	now := time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.ticket = &Ticket{
		ChannelID: "ticket-1",
		State:     TicketStateAwaitingTicket,
		Data: TicketData{
			OpponentID:  "opp-1",
			OpponentBet: decimal.NewFromInt(10),
			OurBet:      decimal.NewFromInt(11),
			Chain:       ChainLTC,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStateMachineTestSuite(t *testing.T) {
	suite.Run(t, new(StateMachineTestSuite))
}

func (s *StateMachineTestSuite) TestHappyPathWalk() {
	steps := []Transition{
		AwaitingMiddleman{},
		AwaitingPaymentAddress{MiddlemanID: "mm-1"},
		PaymentSent{RecipientAddress: "LY7VX5yZgVbEsL3kS9F2a8B4c5D6e7F8g9", SendTxID: "tx-1", PaymentID: "pid"},
		AwaitingGameStart{},
		GameInProgress{},
		AwaitingPayout{Scores: Scores{Bot: 5, Opponent: 0}},
		GameComplete{Winner: SideBot, PayoutTxID: "payout-1"},
	}

	t := s.ticket
	for _, step := range steps {
		next, err := t.Apply(step)
		s.Require().NoError(err, "transition to %s", step.Target())
		s.Equal(step.Target(), next.State)
		t = next
	}

	s.True(t.Data.PaymentLocked)
	s.Equal("mm-1", t.Data.MiddlemanID)
	s.Equal("tx-1", t.Data.SendTxID)
	s.Equal(SideBot, t.Data.GameWinner)
	s.Equal("payout-1", t.Data.PayoutTxID)
	s.True(t.IsTerminal())

	// the original is untouched
	s.Equal(TicketStateAwaitingTicket, s.ticket.State)
}

func (s *StateMachineTestSuite) TestBackTransitionRejected() {
	s.ticket.State = TicketStateGameInProgress
	_, err := s.ticket.Apply(AwaitingGameStart{})
	s.True(errors.Is(err, ErrInvalidStateTransition))
}

func (s *StateMachineTestSuite) TestSkippingStatesRejected() {
	_, err := s.ticket.Apply(PaymentSent{RecipientAddress: "addr", SendTxID: "tx"})
	s.True(errors.Is(err, ErrInvalidStateTransition))
}

func (s *StateMachineTestSuite) TestPaymentSentRequiresFields() {
	s.ticket.State = TicketStateAwaitingPaymentAddress
	_, err := s.ticket.Apply(PaymentSent{RecipientAddress: "addr"})
	s.True(errors.Is(err, ErrInvalidStateTransition))

	_, err = s.ticket.Apply(PaymentSent{SendTxID: "tx"})
	s.True(errors.Is(err, ErrInvalidStateTransition))
}

func (s *StateMachineTestSuite) TestBotWinRequiresPayoutTx() {
	s.ticket.State = TicketStateAwaitingPayout
	_, err := s.ticket.Apply(GameComplete{Winner: SideBot})
	s.True(errors.Is(err, ErrInvalidStateTransition))
}

func (s *StateMachineTestSuite) TestBotLossCompletesFromGame() {
	s.ticket.State = TicketStateGameInProgress
	next, err := s.ticket.Apply(GameComplete{Winner: SideOpponent})
	s.Require().NoError(err)
	s.Equal(TicketStateGameComplete, next.State)
	s.Equal(SideOpponent, next.Data.GameWinner)
}

func (s *StateMachineTestSuite) TestAwaitingPayoutRequiresBotWin() {
	s.ticket.State = TicketStateGameInProgress
	_, err := s.ticket.Apply(AwaitingPayout{Scores: Scores{Bot: 2, Opponent: 5}})
	s.True(errors.Is(err, ErrInvalidStateTransition))
}

func (s *StateMachineTestSuite) TestCancelAndErrorFromAnyLiveState() {
	live := []TicketState{
		TicketStateAwaitingTicket,
		TicketStateAwaitingMiddleman,
		TicketStateAwaitingPaymentAddress,
		TicketStatePaymentSent,
		TicketStateAwaitingGameStart,
		TicketStateGameInProgress,
		TicketStateAwaitingPayout,
	}
	for _, state := range live {
		s.True(CanTransition(state, TicketStateCancelled), state)
		s.True(CanTransition(state, TicketStateError), state)
	}
}

func (s *StateMachineTestSuite) TestTerminalStatesAreFinal() {
	for _, state := range []TicketState{TicketStateGameComplete, TicketStateCancelled, TicketStateError} {
		s.False(CanTransition(state, TicketStateCancelled), state)
		s.False(CanTransition(state, TicketStateError), state)
		s.False(CanTransition(state, TicketStateAwaitingMiddleman), state)
	}
}

func (s *StateMachineTestSuite) TestErroredNeedsReason() {
	_, err := s.ticket.Apply(Errored{})
	s.True(errors.Is(err, ErrInvalidStateTransition))

	next, err := s.ticket.Apply(Errored{Reason: "rpc down"})
	s.Require().NoError(err)
	s.Equal("rpc down", next.Data.ErrorReason)
}

func (s *StateMachineTestSuite) TestCloneIsDeep() {
	roll := 4
	s.ticket.Data.Rounds = []Round{{BotRoll: 6, OpponentRoll: 3, Winner: SideBot}}
	s.ticket.Data.PendingBotRoll = &roll

	c := s.ticket.Clone()
	c.Data.Rounds[0].BotRoll = 1
	*c.Data.PendingBotRoll = 2

	s.Equal(6, s.ticket.Data.Rounds[0].BotRoll)
	s.Equal(4, *s.ticket.Data.PendingBotRoll)
}

func (s *StateMachineTestSuite) TestPot() {
	s.True(decimal.NewFromInt(21).Equal(s.ticket.Pot()))
}
