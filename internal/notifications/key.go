package notifications

import (
	"fmt"
	"time"
)

// EventKey identifies the domain event a notification describes. Two emits
// carrying the same key collapse to a single stored notification.
type EventKey struct {
	Kind      string
	SubjectID string
	At        time.Time
}

// String renders the canonical dedupe string stored in the database. The
// timestamp is truncated to whole seconds so retries of the same logical
// event within a request produce identical keys.
func (k EventKey) String() string {
	return fmt.Sprintf("%s:%s:%d", k.Kind, k.SubjectID, k.At.UTC().Truncate(time.Second).Unix())
}

// IsZero reports whether the key is unset, meaning no deduplication.
func (k EventKey) IsZero() bool {
	return k.Kind == "" && k.SubjectID == ""
}
