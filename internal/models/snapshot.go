package models

import (
	"encoding/json"
	"time"
)

// SnapshotSchemaVersion is the current persisted layout version
const SnapshotSchemaVersion = 1

// Cooldown blocks a user from being sniped again until Until
type Cooldown struct {
	UserID string    `json:"user_id"`
	Until  time.Time `json:"until"`
}

// RetiredChannel is a channel that once hosted a ticket. It never latches
// another wager.
type RetiredChannel struct {
	ChannelID string    `json:"channel_id"`
	RetiredAt time.Time `json:"retired_at"`
}

// ClaimedPayout is an inbound tx that already completed a ticket
type ClaimedPayout struct {
	TxID      string    `json:"tx_id"`
	ChannelID string    `json:"channel_id"`
	ClaimedAt time.Time `json:"claimed_at"`
}

// Snapshot is the persisted state of the engine
type Snapshot struct {
	SchemaVersion int                  `json:"schema_version"`
	SavedAt       time.Time            `json:"saved_at"`
	Tickets       []*Ticket            `json:"tickets"`
	PendingWagers []*PendingWager      `json:"pending_wagers"`
	Idempotency   []*IdempotencyRecord `json:"idempotency"`
	Cooldowns     []*Cooldown          `json:"cooldowns"`

	RetiredChannels []*RetiredChannel `json:"retired_channels,omitempty"`
	ClaimedPayouts  []*ClaimedPayout  `json:"claimed_payouts,omitempty"`
}

// RawSnapshot is a snapshot with records left undecoded so each one can be
// validated and quarantined on its own
type RawSnapshot struct {
	SchemaVersion int               `json:"schema_version"`
	SavedAt       time.Time         `json:"saved_at"`
	Tickets       []json.RawMessage `json:"tickets"`
	PendingWagers []json.RawMessage `json:"pending_wagers"`
	Idempotency   []json.RawMessage `json:"idempotency"`
	Cooldowns     []json.RawMessage `json:"cooldowns"`

	RetiredChannels []json.RawMessage `json:"retired_channels"`
	ClaimedPayouts  []json.RawMessage `json:"claimed_payouts"`
}
