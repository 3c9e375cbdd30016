package chain_test

import (
	"context"
	"testing"

	uuidMocks "github.com/KirkDiggler/ticketsnipe/internal/common/uuid/mocks"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/chain"
	"github.com/KirkDiggler/ticketsnipe/internal/services/chain/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RegistryTestSuite struct {
	suite.Suite
	mockCtrl *gomock.Controller
	mockLTC  *mocks.MockAdapter
	mockUUID *uuidMocks.MockUUID
	ctx      context.Context
}

func (s *RegistryTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockLTC = mocks.NewMockAdapter(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.mockLTC.EXPECT().Chain().Return(models.ChainLTC).AnyTimes()
	s.mockLTC.EXPECT().GetPayoutAddress().Return("ltc1qqypqxpq9qcrsszg2pvxq6rs0zqg3yyc5dyg36p").AnyTimes()
	s.ctx = context.Background()
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (s *RegistryTestSuite) TestGet() {
	r, err := chain.NewRegistry(s.mockLTC)
	s.Require().NoError(err)

	a, err := r.Get(models.ChainLTC)
	s.Require().NoError(err)
	s.Equal(models.ChainLTC, a.Chain())

	_, err = r.Get(models.ChainSOL)
	s.ErrorIs(err, models.ErrUnsupportedChain)
	s.Equal([]models.Chain{models.ChainLTC}, r.Chains())
}

func (s *RegistryTestSuite) TestDuplicateChain() {
	_, err := chain.NewRegistry(s.mockLTC, s.mockLTC)
	s.ErrorIs(err, chain.ErrDuplicateChain)
}

func (s *RegistryTestSuite) TestIsOwnAddress() {
	r, err := chain.NewRegistry(s.mockLTC)
	s.Require().NoError(err)
	s.True(r.IsOwnAddress("LTC1QQYPQXPQ9QCRSSZG2PVXQ6RS0ZQG3YYC5DYG36P", models.ChainLTC))
	s.False(r.IsOwnAddress("LY7VX5yZgVbEsL3kS9F2a8B4c5D6e7F8g9", models.ChainLTC))
	s.False(r.IsOwnAddress("ltc1qqypqxpq9qcrsszg2pvxq6rs0zqg3yyc5dyg36p", models.ChainSOL))
}

func (s *RegistryTestSuite) TestSimulationNeverSends() {
	s.mockUUID.EXPECT().NewHex().Return("1234")
	s.mockLTC.EXPECT().GetBalance(gomock.Any()).Return(&chain.Balance{Balance: decimal.NewFromInt(50)}, nil)
	s.mockLTC.EXPECT().SendPayment(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	sim, err := chain.NewSimulation(&chain.SimulationConfig{Inner: s.mockLTC, UUID: s.mockUUID})
	s.Require().NoError(err)
	s.Equal(models.ChainLTC, sim.Chain())

	bal, err := sim.GetBalance(s.ctx)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(50).Equal(bal.Balance))

	res, err := sim.SendPayment(s.ctx, "LY7VX5yZgVbEsL3kS9F2a8B4c5D6e7F8g9", decimal.NewFromInt(11))
	s.Require().NoError(err)
	s.Equal("sim-1234", res.TxID)
}

func (s *RegistryTestSuite) TestSimulationDeposit() {
	sim, err := chain.NewSimulation(&chain.SimulationConfig{
		Chain:          models.ChainSOL,
		Balance:        decimal.NewFromInt(5),
		ReceiveAddress: "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM",
		UUID:           s.mockUUID,
	})
	s.Require().NoError(err)

	sim.Deposit(&models.Transaction{TxID: "d-1", Amount: decimal.NewFromInt(2), Confirmations: 1})
	txs, err := sim.GetRecentTransactions(s.ctx, 5)
	s.Require().NoError(err)
	s.Require().Len(txs, 1)
	s.Equal(models.DirectionInbound, txs[0].Direction)

	bal, err := sim.GetBalance(s.ctx)
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(7).Equal(bal.Balance))
}
