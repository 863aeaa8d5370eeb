package repository

import (
	"context"
	"errors"
	"time"

	"waterworks/internal/domain"
)

// ErrNotFound is returned when a named snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Summary is one row of the model library listing.
type Summary struct {
	Name      string    `json:"name"`
	FlowUnits string    `json:"flow_units"`
	Nodes     int       `json:"nodes"`
	Links     int       `json:"links"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RunRecord is the outcome of one analysis run kept for history.
type RunRecord struct {
	Snapshot   string    `json:"snapshot"`
	Engine     string    `json:"engine"`
	Steps      int       `json:"steps"`
	Succeeded  bool      `json:"succeeded"`
	Diagnostic string    `json:"diagnostic,omitempty"`
	StartedAt  time.Time `json:"started_at"`
}

// Store is the model library interface.
type Store interface {
	// Snapshot operations
	SaveNetwork(ctx context.Context, name string, net *domain.Network) error
	LoadNetwork(ctx context.Context, name string) (*domain.Network, error)
	ListNetworks(ctx context.Context) ([]Summary, error)
	DeleteNetwork(ctx context.Context, name string) error

	// Run history
	RecordRun(ctx context.Context, rec RunRecord) error
	ListRuns(ctx context.Context, snapshot string) ([]RunRecord, error)

	// Close releases resources
	Close() error
}
