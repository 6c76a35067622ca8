package employers

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("employer profile not found")

type Repo interface {
	Create(ctx context.Context, profile Profile) error
	GetByID(ctx context.Context, profileID string) (Profile, error)
	GetByUser(ctx context.Context, userID string) (Profile, error)
	Update(ctx context.Context, profile Profile) error
	// IncrementStats applies the delta in a single atomic update, never
	// read-modify-write, so concurrent bumps cannot clobber each other.
	IncrementStats(ctx context.Context, profileID string, delta StatsDelta) error
	// SetStats overwrites all counters with recomputed absolute values.
	SetStats(ctx context.Context, profileID string, stats Stats) error
}
