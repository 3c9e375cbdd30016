package snapshot

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/KirkDiggler/ticketsnipe/internal/common/clock"
)

// FileConfig holds configuration for the file snapshot repository
type FileConfig struct {
	// Path of the snapshot document; quarantine goes to Path + ".quarantine"
	Path string

	Clock clock.Clock
}

// fileRepository implements the Repository interface on the local disk
type fileRepository struct {
	mu             sync.Mutex
	path           string
	quarantinePath string
	clock          clock.Clock
}

// NewFile creates a file-backed snapshot repository. The parent directory
// is created if needed.
func NewFile(cfg *FileConfig) (*fileRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Path == "" {
		return nil, errors.New("snapshot path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}

	c := cfg.Clock
	if c == nil {
		c = &clock.DefaultClock{}
	}

	return &fileRepository{
		path:           cfg.Path,
		quarantinePath: cfg.Path + ".quarantine",
		clock:          c,
	}, nil
}

// SaveSnapshot writes to a temporary file in the same directory, fsyncs it
// and renames it into place, so readers never see a partial write
func (r *fileRepository) SaveSnapshot(ctx context.Context, input *SaveSnapshotInput) error {
	if input == nil || len(input.Data) == 0 {
		return ErrNilInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	temporaryPath := r.path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating temporary snapshot file: %w", err)
	}

	if _, err := file.Write(input.Data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary snapshot file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary snapshot file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary snapshot file: %w", err)
	}

	if err := os.Rename(temporaryPath, r.path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming snapshot file into place: %w", err)
	}

	parentDirectory, err := os.Open(filepath.Dir(r.path))
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}

	return nil
}

// LoadSnapshot reads the document
func (r *fileRepository) LoadSnapshot(ctx context.Context, input *LoadSnapshotInput) (*LoadSnapshotOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &LoadSnapshotOutput{}, nil
		}
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}

	return &LoadSnapshotOutput{Data: data, Found: true}, nil
}

// QuarantineRecord appends one JSON line to the quarantine file
func (r *fileRepository) QuarantineRecord(ctx context.Context, input *QuarantineRecordInput) error {
	if input == nil {
		return ErrNilInput
	}

	entry, err := json.Marshal(&QuarantinedRecord{
		Kind:          input.Kind,
		Reason:        input.Reason,
		Record:        validRaw(input.Record),
		QuarantinedAt: r.clock.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshaling quarantined record: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := os.OpenFile(r.quarantinePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening quarantine file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(entry, '\n')); err != nil {
		return fmt.Errorf("writing quarantine file: %w", err)
	}
	return file.Sync()
}

// ListQuarantined reads every line of the quarantine file
func (r *fileRepository) ListQuarantined(ctx context.Context, input *ListQuarantinedInput) (*ListQuarantinedOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := &ListQuarantinedOutput{}
	file, err := os.Open(r.quarantinePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return nil, fmt.Errorf("opening quarantine file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec QuarantinedRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("unmarshaling quarantined record: %w", err)
		}
		out.Records = append(out.Records, &rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading quarantine file: %w", err)
	}

	return out, nil
}
