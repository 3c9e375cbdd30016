package snapshot

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrNilInput is returned when an input is missing its payload
var ErrNilInput = errors.New("input and data cannot be nil")

type SaveSnapshotInput struct {
	Data []byte
}

type LoadSnapshotInput struct {
}

type LoadSnapshotOutput struct {
	Data  []byte
	Found bool
}

type QuarantineRecordInput struct {
	Kind   string
	Reason string
	Record json.RawMessage
}

type ListQuarantinedInput struct {
}

type ListQuarantinedOutput struct {
	Records []*QuarantinedRecord
}

// QuarantinedRecord is a record that could not be restored
type QuarantinedRecord struct {
	Kind          string          `json:"kind"`
	Reason        string          `json:"reason"`
	Record        json.RawMessage `json:"record"`
	QuarantinedAt time.Time       `json:"quarantined_at"`
}
