// Package favorites keeps the user's favorite stations: a local list
// mutated optimistically and reconciled with a remote store.
package favorites

import (
	"context"
	"errors"
	"slices"
)

var (
	// ErrNotFound reports that the user has no favorites record yet.
	ErrNotFound = errors.New("favorites record not found")
	// ErrInvalidStationID is returned for an empty station identifier.
	ErrInvalidStationID = errors.New("station identifier is required")
)

// Record is the persisted favorites of one user.
type Record struct {
	UserID     string   `json:"userId"`
	StationIDs []string `json:"stationuuids"`
}

// Contains reports whether id is in the record.
func (r Record) Contains(id string) bool {
	return slices.Contains(r.StationIDs, id)
}

// Store is the remote favorites persistence. Add and Remove are atomic per
// user; an absent record is reported as ErrNotFound.
type Store interface {
	Get(ctx context.Context, userID string) (Record, error)
	Add(ctx context.Context, userID, stationID string) (Record, error)
	Remove(ctx context.Context, userID, stationID string) (Record, error)
}

// IdentityStore persists the device's user identifier. SaveUserID never
// replaces an existing value and returns the one stored.
type IdentityStore interface {
	UserID() (string, error)
	SaveUserID(id string) (string, error)
}
