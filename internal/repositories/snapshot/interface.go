package snapshot

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/ticketsnipe/internal/repositories/snapshot Repository

import (
	"context"
)

// Repository stores the engine snapshot document and quarantined records
type Repository interface {
	// SaveSnapshot replaces the stored snapshot atomically
	SaveSnapshot(ctx context.Context, input *SaveSnapshotInput) error

	// LoadSnapshot returns the stored snapshot, Found=false when none exists
	LoadSnapshot(ctx context.Context, input *LoadSnapshotInput) (*LoadSnapshotOutput, error)

	// QuarantineRecord sets a record that failed validation aside
	QuarantineRecord(ctx context.Context, input *QuarantineRecordInput) error

	// ListQuarantined returns quarantined records, oldest first
	ListQuarantined(ctx context.Context, input *ListQuarantinedInput) (*ListQuarantinedOutput, error)
}
