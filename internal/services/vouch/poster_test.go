package vouch

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/chat/mocks"
	"github.com/KirkDiggler/ticketsnipe/internal/services/messaging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PosterTestSuite struct {
	suite.Suite
	mockCtrl      *gomock.Controller
	mockMessenger *mocks.MockMessenger
	poster        *Poster
	ctx           context.Context
	ticket        *models.Ticket
}

func (s *PosterTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockMessenger = mocks.NewMockMessenger(s.mockCtrl)
	s.ctx = context.Background()

	msgs, err := messaging.NewService(&messaging.ServiceConfig{Rand: rand.New(rand.NewSource(1))})
	s.Require().NoError(err)

	poster, err := New(&Config{
		Messenger:         s.mockMessenger,
		Messaging:         msgs,
		VouchChannelID:    "vouch",
		OperatorChannelID: "ops",
		TaxPercentage:     decimal.NewFromInt(10),
		TargetWins:        5,
	})
	s.Require().NoError(err)
	s.poster = poster

	s.ticket = &models.Ticket{
		ChannelID: "chan-1",
		State:     models.TicketStateGameComplete,
		Data: models.TicketData{
			OpponentName: "Opp",
			OpponentBet:  decimal.NewFromInt(10),
			OurBet:       decimal.NewFromInt(11),
			Chain:        models.ChainLTC,
			GameScores:   models.Scores{Bot: 5, Opponent: 2},
			GameWinner:   models.SideBot,
			PayoutTxID:   "payout-1",
			SendTxID:     "send-1",
		},
	}
}

func (s *PosterTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPosterTestSuite(t *testing.T) {
	suite.Run(t, new(PosterTestSuite))
}

func (s *PosterTestSuite) TestNewValidation() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)
	_, err = New(&Config{})
	s.ErrorIs(err, ErrNilMessenger)
	_, err = New(&Config{Messenger: s.mockMessenger})
	s.ErrorIs(err, ErrNilMessaging)
}

func (s *PosterTestSuite) TestPostVouch() {
	s.mockMessenger.EXPECT().Send(s.ctx, "vouch", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, content string) (string, error) {
			s.Contains(content, "21.00000000 LTC")
			s.Contains(content, "(5-2)")
			s.Contains(content, "18.90000000 LTC")
			return "m1", nil
		})

	s.NoError(s.poster.PostVouch(s.ctx, s.ticket))
}

func (s *PosterTestSuite) TestPostVouchWithoutChannel() {
	s.poster.vouchChannel = ""
	s.NoError(s.poster.PostVouch(s.ctx, s.ticket))
}

func (s *PosterTestSuite) TestPostVouchSendError() {
	s.mockMessenger.EXPECT().Send(s.ctx, "vouch", gomock.Any()).Return("", errors.New("discord down"))
	s.Error(s.poster.PostVouch(s.ctx, s.ticket))
}

func (s *PosterTestSuite) TestAlertOperator() {
	s.ticket.State = models.TicketStateError
	s.mockMessenger.EXPECT().Send(s.ctx, "ops", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, content string) (string, error) {
			s.Contains(content, "chan-1")
			s.Contains(content, "rpc down")
			s.Contains(content, "send-1")
			return "m2", nil
		})

	s.NoError(s.poster.AlertOperator(s.ctx, s.ticket, "rpc down"))
}
