// Package store keeps a history of language popularity snapshots.
//
// The aggregator itself is stateless; the API server records every
// successful run here so /api/languages/history can show how the ranking
// moved over time. Two backends exist:
//
//   - [MemoryStore]: a bounded in-process ring, the default
//   - [MongoStore]: the "snapshots" collection of a MongoDB database
package store

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/devpulse/pkg/popularity"
)

// ErrNotFound is returned by Latest when no snapshot has been saved.
var ErrNotFound = errors.New("no snapshots")

// Snapshot is one recorded aggregation run.
type Snapshot struct {
	ID        string                          `json:"id" bson:"_id"`
	TakenAt   time.Time                       `json:"taken_at" bson:"taken_at"`
	MinStars  int                             `json:"min_stars" bson:"min_stars"`
	Languages []string                        `json:"languages" bson:"languages"`
	Results   []popularity.LanguagePopularity `json:"results" bson:"results"`
}

// NewSnapshot records results of a run over languages.
func NewSnapshot(languages []string, minStars int, results []popularity.LanguagePopularity) *Snapshot {
	return &Snapshot{
		ID:        uuid.NewString(),
		TakenAt:   time.Now().UTC(),
		MinStars:  minStars,
		Languages: slices.Clone(languages),
		Results:   slices.Clone(results),
	}
}

// Store persists snapshots.
type Store interface {
	// Save records a snapshot. The snapshot must have an ID.
	Save(ctx context.Context, s *Snapshot) error

	// Latest returns the most recent snapshot, or ErrNotFound.
	Latest(ctx context.Context) (*Snapshot, error)

	// List returns up to limit snapshots, newest first.
	List(ctx context.Context, limit int) ([]*Snapshot, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
