package messaging

import "context"

// Service composes every message the bot posts
type Service interface {
	// GetCounterOfferMessage returns the reply that accepts a bet offer
	GetCounterOfferMessage(ctx context.Context, input *GetCounterOfferMessageInput) (*GetCounterOfferMessageOutput, error)

	// GetErrorMessage returns the single user-visible reply for a locally recovered error
	GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error)

	// GetPaymentSentMessage announces our escrow payment in the ticket
	GetPaymentSentMessage(ctx context.Context, input *GetPaymentSentMessageInput) (*GetPaymentSentMessageOutput, error)

	// GetGameStartMessage acknowledges the middleman's go signal
	GetGameStartMessage(ctx context.Context, input *GetGameStartMessageInput) (*GetGameStartMessageOutput, error)

	// GetGameOverMessage closes out the dice game in the ticket
	GetGameOverMessage(ctx context.Context, input *GetGameOverMessageInput) (*GetGameOverMessageOutput, error)

	// GetPayoutReceivedMessage confirms the pot arrived
	GetPayoutReceivedMessage(ctx context.Context, input *GetPayoutReceivedMessageInput) (*GetPayoutReceivedMessageOutput, error)

	// GetVouchMessage returns the public record of a finished engagement
	GetVouchMessage(ctx context.Context, input *GetVouchMessageInput) (*GetVouchMessageOutput, error)

	// GetOperatorAlertMessage returns the operator notice for a ticket gone to ERROR
	GetOperatorAlertMessage(ctx context.Context, input *GetOperatorAlertMessageInput) (*GetOperatorAlertMessageOutput, error)
}
