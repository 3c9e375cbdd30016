package messaging

import (
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/shopspring/decimal"
)

// InsufficientFundsMessage is the reply when a balance precheck fails
const InsufficientFundsMessage = "Insufficient funds"

// GetCounterOfferMessageInput contains the stake we counter with
type GetCounterOfferMessageInput struct {
	OurBet decimal.Decimal
}

type GetCounterOfferMessageOutput struct {
	Message string
}

// GetErrorMessageInput contains the error being surfaced
type GetErrorMessageInput struct {
	// Err is classified with errors.Is against the models error kinds
	Err error
}

type GetErrorMessageOutput struct {
	Message string
}

// GetPaymentSentMessageInput describes the escrow send
type GetPaymentSentMessageInput struct {
	Amount decimal.Decimal
	Chain  models.Chain
	TxID   string
}

type GetPaymentSentMessageOutput struct {
	Message string
}

type GetGameStartMessageInput struct {
	OpponentName string
}

type GetGameStartMessageOutput struct {
	Message string
}

// GetGameOverMessageInput contains the final result
type GetGameOverMessageInput struct {
	BotWon bool
	Scores models.Scores
	Pot    decimal.Decimal
	Chain  models.Chain
}

type GetGameOverMessageOutput struct {
	Message string
}

type GetPayoutReceivedMessageInput struct {
	TxID string
}

type GetPayoutReceivedMessageOutput struct {
	Message string
}

// GetVouchMessageInput summarizes a finished engagement
type GetVouchMessageInput struct {
	OpponentName string
	Pot          decimal.Decimal
	Chain        models.Chain
	Scores       models.Scores
	BotWon       bool
	Target       int

	// TaxPercentage is deducted from the pot for the displayed net
	TaxPercentage decimal.Decimal
}

type GetVouchMessageOutput struct {
	Message string

	// Net is the pot after tax
	Net decimal.Decimal
}

// GetOperatorAlertMessageInput names the ticket that needs a human
type GetOperatorAlertMessageInput struct {
	ChannelID string
	State     models.TicketState
	Reason    string
	SendTxID  string
}

type GetOperatorAlertMessageOutput struct {
	Message string
}
