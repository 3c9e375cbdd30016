package messaging

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/shopspring/decimal"
)

// ServiceConfig contains configuration for the messaging service
type ServiceConfig struct {
	// Rand selects between casual phrasings; nil seeds from the time
	Rand *rand.Rand
}

// service implements the Service interface
type service struct {
	// Random number generator for selecting casual phrasings
	rand *rand.Rand
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	r := (*rand.Rand)(nil)
	if config != nil {
		r = config.Rand
	}
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &service{rand: r}, nil
}

func (s *service) pick(messages []string) string {
	return messages[s.rand.Intn(len(messages))]
}

// GetCounterOfferMessage returns "vs <amount>" with two decimals
func (s *service) GetCounterOfferMessage(ctx context.Context, input *GetCounterOfferMessageInput) (*GetCounterOfferMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	return &GetCounterOfferMessageOutput{
		Message: "vs " + input.OurBet.StringFixed(2),
	}, nil
}

// GetErrorMessage returns a short reply; errors that are not recovered
// locally get no user-visible text
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	if input == nil || input.Err == nil {
		return nil, errors.New("input cannot be nil")
	}

	var message string
	switch {
	case errors.Is(input.Err, models.ErrInsufficientBalance):
		message = InsufficientFundsMessage
	case errors.Is(input.Err, models.ErrInvalidAddress):
		message = "That address doesn't look valid, can you double check it?"
	case errors.Is(input.Err, models.ErrSelfAddressRejected):
		message = "That's my own address, I need the escrow address."
	case errors.Is(input.Err, models.ErrDuplicatePayment):
		message = "Already sent to that address, check the txid above."
	}
	return &GetErrorMessageOutput{Message: message}, nil
}

func (s *service) GetPaymentSentMessage(ctx context.Context, input *GetPaymentSentMessageInput) (*GetPaymentSentMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	return &GetPaymentSentMessageOutput{
		Message: fmt.Sprintf("Sent %s %s\nTxID: %s",
			input.Amount.StringFixed(input.Chain.Decimals()), input.Chain, input.TxID),
	}, nil
}

func (s *service) GetGameStartMessage(ctx context.Context, input *GetGameStartMessageInput) (*GetGameStartMessageOutput, error) {
	messages := []string{
		"gl",
		"glgl",
		"gl hf",
		"good luck",
	}
	if input != nil && input.OpponentName != "" {
		messages = append(messages, "gl "+input.OpponentName)
	}
	return &GetGameStartMessageOutput{Message: s.pick(messages)}, nil
}

func (s *service) GetGameOverMessage(ctx context.Context, input *GetGameOverMessageInput) (*GetGameOverMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	score := fmt.Sprintf("%d-%d", input.Scores.Bot, input.Scores.Opponent)

	var messages []string
	if input.BotWon {
		pot := input.Pot.StringFixed(input.Chain.Decimals())
		messages = []string{
			fmt.Sprintf("gg %s, waiting on %s %s", score, pot, input.Chain),
			fmt.Sprintf("gg! %s. payout is %s %s to my address", score, pot, input.Chain),
		}
	} else {
		messages = []string{
			fmt.Sprintf("gg %s, well played", score),
			fmt.Sprintf("gg, %s. nice rolls", score),
			fmt.Sprintf("%s gg", score),
		}
	}
	return &GetGameOverMessageOutput{Message: s.pick(messages)}, nil
}

func (s *service) GetPayoutReceivedMessage(ctx context.Context, input *GetPayoutReceivedMessageInput) (*GetPayoutReceivedMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	return &GetPayoutReceivedMessageOutput{
		Message: fmt.Sprintf("Received, ty! TxID: %s", input.TxID),
	}, nil
}

// GetVouchMessage renders pot, chain, score and the net after tax
func (s *service) GetVouchMessage(ctx context.Context, input *GetVouchMessageInput) (*GetVouchMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	net := input.Pot
	if input.TaxPercentage.IsPositive() {
		tax := input.Pot.Mul(input.TaxPercentage).Div(decimal.NewFromInt(100))
		net = input.Pot.Sub(tax)
	}
	decimals := input.Chain.Decimals()

	outcome := "won"
	if !input.BotWon {
		outcome = "lost"
	}
	opponent := input.OpponentName
	if opponent == "" {
		opponent = "opponent"
	}

	target := input.Target
	if target < 1 {
		target = 5
	}

	message := fmt.Sprintf("+vouch %s %s %s FT%d dice vs %s (%d-%d)\nNet after tax: %s %s",
		outcome, input.Pot.StringFixed(decimals), input.Chain, target, opponent,
		input.Scores.Bot, input.Scores.Opponent,
		net.StringFixed(decimals), input.Chain)

	return &GetVouchMessageOutput{Message: message, Net: net}, nil
}

func (s *service) GetOperatorAlertMessage(ctx context.Context, input *GetOperatorAlertMessageInput) (*GetOperatorAlertMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	message := fmt.Sprintf("⚠️ Ticket <#%s> needs attention (%s): %s", input.ChannelID, input.State, input.Reason)
	if input.SendTxID != "" {
		message += fmt.Sprintf("\nEscrow txid: %s", input.SendTxID)
	}
	return &GetOperatorAlertMessageOutput{Message: message}, nil
}
