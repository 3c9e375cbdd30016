// Package vouch posts engagement outcomes and operator alerts. The ticket
// handlers and the payout monitor share it.
package vouch

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/chat"
	"github.com/KirkDiggler/ticketsnipe/internal/services/messaging"
	"github.com/decred/slog"
	"github.com/shopspring/decimal"
)

// PosterError is a custom error type for poster construction errors
type PosterError string

// Error implements the error interface
func (e PosterError) Error() string {
	return string(e)
}

const (
	ErrNilConfig    PosterError = "config cannot be nil"
	ErrNilMessenger PosterError = "messenger cannot be nil"
	ErrNilMessaging PosterError = "messaging service cannot be nil"
)

// Config holds the poster's collaborators
type Config struct {
	Messenger chat.Messenger
	Messaging messaging.Service
	Logger    slog.Logger

	// VouchChannelID receives vouches; empty disables them
	VouchChannelID string

	// OperatorChannelID receives alerts; empty only logs them
	OperatorChannelID string

	TaxPercentage decimal.Decimal
	TargetWins    int
}

// Poster posts vouches and alerts
type Poster struct {
	messenger       chat.Messenger
	messaging       messaging.Service
	log             slog.Logger
	vouchChannel    string
	operatorChannel string
	tax             decimal.Decimal
	target          int
}

// New creates a poster
func New(cfg *Config) (*Poster, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Messenger == nil {
		return nil, ErrNilMessenger
	}
	if cfg.Messaging == nil {
		return nil, ErrNilMessaging
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Disabled
	}
	return &Poster{
		messenger:       cfg.Messenger,
		messaging:       cfg.Messaging,
		log:             log,
		vouchChannel:    cfg.VouchChannelID,
		operatorChannel: cfg.OperatorChannelID,
		tax:             cfg.TaxPercentage,
		target:          cfg.TargetWins,
	}, nil
}

// PostVouch records a finished ticket in the vouch channel
func (p *Poster) PostVouch(ctx context.Context, t *models.Ticket) error {
	if p.vouchChannel == "" {
		p.log.Debugf("No vouch channel configured, skipping vouch for %s", t.ChannelID)
		return nil
	}

	out, err := p.messaging.GetVouchMessage(ctx, &messaging.GetVouchMessageInput{
		OpponentName:  t.Data.OpponentName,
		Pot:           t.Pot(),
		Chain:         t.Data.Chain,
		Scores:        t.Data.GameScores,
		BotWon:        t.Data.GameWinner == models.SideBot,
		Target:        p.target,
		TaxPercentage: p.tax,
	})
	if err != nil {
		return fmt.Errorf("composing vouch: %w", err)
	}
	if _, err := p.messenger.Send(ctx, p.vouchChannel, out.Message); err != nil {
		return fmt.Errorf("posting vouch: %w", err)
	}
	p.log.Infof("Vouched ticket %s: pot %s %s, net %s", t.ChannelID, t.Pot(), t.Data.Chain, out.Net)
	return nil
}

// AlertOperator tells the operator channel that a ticket needs a human
func (p *Poster) AlertOperator(ctx context.Context, t *models.Ticket, reason string) error {
	p.log.Warnf("Operator alert for ticket %s (%s): %s", t.ChannelID, t.State, reason)
	if p.operatorChannel == "" {
		return nil
	}

	out, err := p.messaging.GetOperatorAlertMessage(ctx, &messaging.GetOperatorAlertMessageInput{
		ChannelID: t.ChannelID,
		State:     t.State,
		Reason:    reason,
		SendTxID:  t.Data.SendTxID,
	})
	if err != nil {
		return fmt.Errorf("composing alert: %w", err)
	}
	if _, err := p.messenger.Send(ctx, p.operatorChannel, out.Message); err != nil {
		return fmt.Errorf("posting alert: %w", err)
	}
	return nil
}
