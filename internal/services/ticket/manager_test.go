package ticket_test

import (
	"errors"
	"testing"
	"time"

	clockMocks "github.com/KirkDiggler/ticketsnipe/internal/common/clock/mocks"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/ticket"
	"github.com/KirkDiggler/ticketsnipe/internal/services/ticket/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ManagerTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockClock    *clockMocks.MockClock
	mockNotifier *mocks.MockNotifier
	manager      *ticket.Manager

	now         time.Time
	testWager   *models.PendingWager
	testChannel string
}

func (s *ManagerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockNotifier = mocks.NewMockNotifier(s.mockCtrl)

	s.now = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()
	s.mockNotifier.EXPECT().MarkDirty().AnyTimes()

	s.testChannel = "ticket-chan-1"
	s.testWager = &models.PendingWager{
		OpponentID:      "opp-1",
		OpponentName:    "Opp",
		OpponentBet:     decimal.NewFromInt(10),
		OurBet:          decimal.RequireFromString("11"),
		PublicChannelID: "pub-1",
		Chain:           models.ChainLTC,
		CreatedAt:       s.now,
	}

	manager, err := ticket.New(&ticket.Config{
		Clock:           s.mockClock,
		Notifier:        s.mockNotifier,
		PendingWagerTTL: 10 * time.Minute,
		CleanupGrace:    5 * time.Minute,
	})
	s.Require().NoError(err)
	s.manager = manager
}

func (s *ManagerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestManagerTestSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func (s *ManagerTestSuite) create() *models.Ticket {
	s.Require().NoError(s.manager.StorePendingWager(s.testWager))
	w, err := s.manager.ConsumePendingWager("opp-1")
	s.Require().NoError(err)
	t, err := s.manager.CreateTicket(&ticket.CreateTicketInput{ChannelID: s.testChannel, Wager: w})
	s.Require().NoError(err)
	return t
}

func (s *ManagerTestSuite) TestNewValidation() {
	_, err := ticket.New(nil)
	s.ErrorIs(err, ticket.ErrNilConfig)
	_, err = ticket.New(&ticket.Config{})
	s.ErrorIs(err, ticket.ErrNilClock)
}

func (s *ManagerTestSuite) TestPendingWagerLifecycle() {
	s.Require().NoError(s.manager.StorePendingWager(s.testWager))

	w, ok := s.manager.PeekPendingWager("opp-1")
	s.Require().True(ok)
	s.True(w.OurBet.Equal(decimal.NewFromInt(11)))
	s.Len(s.manager.PendingWagers(), 1)

	consumed, err := s.manager.ConsumePendingWager("opp-1")
	s.Require().NoError(err)
	s.Equal("pub-1", consumed.PublicChannelID)

	_, err = s.manager.ConsumePendingWager("opp-1")
	s.ErrorIs(err, models.ErrWagerNotFound)
}

func (s *ManagerTestSuite) TestPendingWagerExpires() {
	s.Require().NoError(s.manager.StorePendingWager(s.testWager))
	s.now = s.now.Add(11 * time.Minute)

	_, ok := s.manager.PeekPendingWager("opp-1")
	s.False(ok)
	s.Empty(s.manager.PendingWagers())
	_, err := s.manager.ConsumePendingWager("opp-1")
	s.ErrorIs(err, models.ErrWagerNotFound)
}

func (s *ManagerTestSuite) TestStoreRejectsBadWager() {
	bad := *s.testWager
	bad.OpponentBet = decimal.Zero
	s.ErrorIs(s.manager.StorePendingWager(&bad), ticket.ErrInvalidSeed)
	s.ErrorIs(s.manager.StorePendingWager(nil), ticket.ErrInvalidSeed)
}

func (s *ManagerTestSuite) TestCreateTicket() {
	t := s.create()
	s.Equal(models.TicketStateAwaitingTicket, t.State)
	s.Equal(models.ChainLTC, t.Data.Chain)
	s.True(t.Pot().Equal(decimal.NewFromInt(21)))

	byUser, err := s.manager.GetTicketByUser("opp-1")
	s.Require().NoError(err)
	s.Equal(s.testChannel, byUser.ChannelID)
}

func (s *ManagerTestSuite) TestCreateTicketRejectsDuplicates() {
	s.create()

	_, err := s.manager.CreateTicket(&ticket.CreateTicketInput{ChannelID: s.testChannel, Wager: s.testWager})
	s.ErrorIs(err, models.ErrTicketExists)

	_, err = s.manager.CreateTicket(&ticket.CreateTicketInput{ChannelID: "ticket-chan-2", Wager: s.testWager})
	s.ErrorIs(err, models.ErrUserHasTicket)
}

func (s *ManagerTestSuite) TestOneLiveTicketPerUser() {
	s.create()
	_, err := s.manager.Transition(s.testChannel, models.Cancelled{Reason: "mm abort"})
	s.Require().NoError(err)

	// a cancelled ticket no longer blocks the user
	_, err = s.manager.GetTicketByUser("opp-1")
	s.ErrorIs(err, models.ErrTicketNotFound)
	_, err = s.manager.CreateTicket(&ticket.CreateTicketInput{ChannelID: "ticket-chan-2", Wager: s.testWager})
	s.Require().NoError(err)

	live := 0
	for _, t := range s.manager.GetActiveTickets() {
		if t.IsParticipant("opp-1") {
			live++
		}
	}
	s.Equal(1, live)
}

func (s *ManagerTestSuite) TestTransitionBumpsUpdatedAt() {
	s.create()
	s.now = s.now.Add(time.Minute)

	t, err := s.manager.Transition(s.testChannel, models.AwaitingMiddleman{})
	s.Require().NoError(err)
	s.Equal(models.TicketStateAwaitingMiddleman, t.State)
	s.Equal(s.now, t.UpdatedAt)

	_, err = s.manager.Transition(s.testChannel, models.AwaitingGameStart{})
	s.ErrorIs(err, models.ErrInvalidStateTransition)

	_, err = s.manager.Transition("nope", models.AwaitingMiddleman{})
	s.ErrorIs(err, models.ErrTicketNotFound)
}

func (s *ManagerTestSuite) TestReturnedTicketsAreCopies() {
	t := s.create()
	t.State = models.TicketStateError
	t.Data.OpponentID = "someone-else"

	stored, err := s.manager.GetTicket(s.testChannel)
	s.Require().NoError(err)
	s.Equal(models.TicketStateAwaitingTicket, stored.State)
	s.Equal("opp-1", stored.Data.OpponentID)
}

func (s *ManagerTestSuite) TestUpdateData() {
	s.create()
	roll := 4
	t, err := s.manager.UpdateData(s.testChannel, func(d *models.TicketData) error {
		d.PendingOpponentRoll = &roll
		return nil
	})
	s.Require().NoError(err)
	s.Equal(4, *t.Data.PendingOpponentRoll)

	_, err = s.manager.UpdateData(s.testChannel, func(d *models.TicketData) error {
		d.PaymentLocked = true
		return nil
	})
	s.ErrorIs(err, models.ErrInvalidStateTransition)

	boom := errors.New("boom")
	_, err = s.manager.UpdateData(s.testChannel, func(d *models.TicketData) error { return boom })
	s.ErrorIs(err, boom)
}

func (s *ManagerTestSuite) TestCooldowns() {
	s.manager.SetCooldown("opp-1", time.Minute)
	s.True(s.manager.IsCoolingDown("opp-1"))
	s.False(s.manager.IsCoolingDown("opp-2"))

	s.now = s.now.Add(2 * time.Minute)
	s.False(s.manager.IsCoolingDown("opp-1"))
}

func (s *ManagerTestSuite) TestSweep() {
	s.create()
	_, err := s.manager.Transition(s.testChannel, models.Cancelled{})
	s.Require().NoError(err)

	parked := *s.testWager
	parked.OpponentID = "opp-4"
	_, err = s.manager.CreateTicket(&ticket.CreateTicketInput{ChannelID: "ticket-chan-4", Wager: &parked})
	s.Require().NoError(err)
	_, err = s.manager.Transition("ticket-chan-4", models.Errored{Reason: "rpc down"})
	s.Require().NoError(err)

	other := *s.testWager
	other.OpponentID = "opp-2"
	s.Require().NoError(s.manager.StorePendingWager(&other))
	s.manager.SetCooldown("opp-3", time.Minute)

	out := s.manager.Sweep()
	s.Empty(out.RemovedTickets)

	s.now = s.now.Add(11 * time.Minute)
	out = s.manager.Sweep()
	s.Equal(1, out.ExpiredWagers)
	s.Equal(1, out.ExpiredCooldowns)
	s.Equal([]string{s.testChannel}, out.RemovedTickets)

	_, err = s.manager.GetTicket(s.testChannel)
	s.ErrorIs(err, models.ErrTicketNotFound)
	s.True(s.manager.IsRetired(s.testChannel))

	// parked tickets wait for an operator
	s.now = s.now.Add(24 * time.Hour)
	s.Empty(s.manager.Sweep().RemovedTickets)
	t, err := s.manager.GetTicketByUser("opp-4")
	s.Require().NoError(err)
	s.Equal(models.TicketStateError, t.State)
}

func (s *ManagerTestSuite) TestRetiredChannelNeverHostsAgain() {
	s.create()
	s.False(s.manager.IsRetired(s.testChannel))
	s.Require().NoError(s.manager.RemoveTicket(s.testChannel))
	s.True(s.manager.IsRetired(s.testChannel))

	again := *s.testWager
	_, err := s.manager.CreateTicket(&ticket.CreateTicketInput{ChannelID: s.testChannel, Wager: &again})
	s.ErrorIs(err, models.ErrTicketExists)

	// forgotten only after retention
	s.now = s.now.Add(ticket.DefaultRetention + time.Minute)
	out := s.manager.Sweep()
	s.Equal(1, out.ForgottenRecords)
	s.False(s.manager.IsRetired(s.testChannel))
}

func (s *ManagerTestSuite) TestErrorHoldsOpponent() {
	s.create()
	_, err := s.manager.Transition(s.testChannel, models.Errored{Reason: "send failed"})
	s.Require().NoError(err)

	again := *s.testWager
	_, err = s.manager.CreateTicket(&ticket.CreateTicketInput{ChannelID: "ticket-chan-2", Wager: &again})
	s.ErrorIs(err, models.ErrUserHasTicket)

	s.Require().NoError(s.manager.RemoveTicket(s.testChannel))
	_, err = s.manager.CreateTicket(&ticket.CreateTicketInput{ChannelID: "ticket-chan-2", Wager: &again})
	s.NoError(err)
}

func (s *ManagerTestSuite) TestClaimedPayoutTx() {
	s.create()
	s.False(s.manager.ClaimedPayoutTx("tx-9"))
	_, err := s.manager.Transition(s.testChannel, models.AwaitingMiddleman{})
	s.Require().NoError(err)
	_, err = s.manager.Transition(s.testChannel, models.AwaitingPaymentAddress{MiddlemanID: "mm-1"})
	s.Require().NoError(err)
	_, err = s.manager.Transition(s.testChannel, models.PaymentSent{RecipientAddress: "addr", SendTxID: "tx-1"})
	s.Require().NoError(err)
	_, err = s.manager.Transition(s.testChannel, models.AwaitingGameStart{})
	s.Require().NoError(err)
	_, err = s.manager.Transition(s.testChannel, models.GameInProgress{})
	s.Require().NoError(err)
	_, err = s.manager.Transition(s.testChannel, models.AwaitingPayout{Scores: models.Scores{Bot: 5}})
	s.Require().NoError(err)
	_, err = s.manager.Transition(s.testChannel, models.GameComplete{Winner: models.SideBot, PayoutTxID: "tx-9"})
	s.Require().NoError(err)
	s.True(s.manager.ClaimedPayoutTx("tx-9"))

	// the claim outlives the ticket
	s.now = s.now.Add(6 * time.Minute)
	s.Equal([]string{s.testChannel}, s.manager.Sweep().RemovedTickets)
	s.True(s.manager.ClaimedPayoutTx("tx-9"))

	snap := s.manager.Snapshot()
	s.Require().Len(snap.ClaimedPayouts, 1)
	s.Equal("tx-9", snap.ClaimedPayouts[0].TxID)
	s.Equal(s.testChannel, snap.ClaimedPayouts[0].ChannelID)
}

func (s *ManagerTestSuite) TestSnapshotRestore() {
	s.create()
	other := *s.testWager
	other.OpponentID = "opp-2"
	s.Require().NoError(s.manager.StorePendingWager(&other))
	s.manager.SetCooldown("opp-3", time.Minute)

	snap := s.manager.Snapshot()
	s.Len(snap.Tickets, 1)
	s.Len(snap.PendingWagers, 1)
	s.Len(snap.Cooldowns, 1)
	snap.RetiredChannels = []*models.RetiredChannel{{ChannelID: "old-chan", RetiredAt: s.now}}
	snap.ClaimedPayouts = []*models.ClaimedPayout{{TxID: "old-tx", ChannelID: "old-chan", ClaimedAt: s.now}}

	conflict := snap.Tickets[0].Clone()
	conflict.ChannelID = "ticket-chan-2"
	conflict.CreatedAt = s.now.Add(time.Second)

	restored, err := ticket.New(&ticket.Config{Clock: s.mockClock, PendingWagerTTL: time.Hour})
	s.Require().NoError(err)
	out := restored.Restore(&ticket.RestoreInput{
		Tickets:       append(snap.Tickets, conflict),
		PendingWagers: snap.PendingWagers,
		Cooldowns:     snap.Cooldowns,

		RetiredChannels: snap.RetiredChannels,
		ClaimedPayouts:  snap.ClaimedPayouts,
	})
	s.Require().Len(out.Rejected, 1)
	s.Equal("ticket-chan-2", out.Rejected[0].ChannelID)

	t, err := restored.GetTicketByUser("opp-1")
	s.Require().NoError(err)
	s.Equal(s.testChannel, t.ChannelID)
	_, ok := restored.PeekPendingWager("opp-2")
	s.True(ok)
	s.True(restored.IsCoolingDown("opp-3"))
	s.True(restored.IsRetired("old-chan"))
	s.True(restored.ClaimedPayoutTx("old-tx"))
}
