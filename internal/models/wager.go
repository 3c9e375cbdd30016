package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingWager is a bet offer we countered in a public channel and are
// waiting to see turn into a ticket
type PendingWager struct {
	// OpponentID is the user who posted the offer
	OpponentID string `json:"opponent_id"`

	// OpponentName is the display name of the user who posted the offer
	OpponentName string `json:"opponent_name"`

	// OpponentBet is the stake the opponent offered
	OpponentBet decimal.Decimal `json:"opponent_bet"`

	// OurBet is the stake we countered with (opponent bet plus markup)
	OurBet decimal.Decimal `json:"our_bet"`

	// PublicChannelID is where the offer was seen
	PublicChannelID string `json:"public_channel_id"`

	// MessageID is the offer message we replied to
	MessageID string `json:"message_id"`

	// Chain is the chain the balance precheck ran against
	Chain Chain `json:"chain"`

	// CreatedAt is when the counter-offer was posted
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the wager is older than ttl at now
func (w *PendingWager) Expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(w.CreatedAt) >= ttl
}
