package notifications

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("notification not found")

type Repo interface {
	// CreateIfAbsent inserts the notification unless the user already has one
	// with the same non-empty dedupe key, in which case the existing record is
	// returned with created=false.
	CreateIfAbsent(ctx context.Context, n Notification) (Notification, bool, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	// MarkRead marks one notification read. It is scoped to userID so a user
	// cannot touch another user's feed.
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
}
