package seekers

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("seeker profile not found")

type Repo interface {
	Create(ctx context.Context, profile Profile) error
	GetByID(ctx context.Context, profileID string) (Profile, error)
	GetByUser(ctx context.Context, userID string) (Profile, error)
	Update(ctx context.Context, profile Profile) error
}
