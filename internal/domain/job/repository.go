package job

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Stats holds job counts per processing state, keyed the way the queue
// stats endpoint reports them.
type Stats struct {
	Waiting   int64 `json:"waiting"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// Repository manages job persistence. Enqueue inserts the job unless one
// with the same ID already exists, in which case it reports created=false
// and leaves the stored job untouched.
type Repository interface {
	Enqueue(ctx context.Context, j *Job) (created bool, err error)
	GetByID(ctx context.Context, id string) (*Job, error)
	MarkActive(ctx context.Context, id string, attempts int) error
	MarkCompleted(ctx context.Context, id string, transactionID uuid.UUID) error
	MarkFailed(ctx context.Context, id string, attempts int, reason string) error

	// GetStale returns queued jobs that have not been touched for at least
	// minAge, oldest first. Used to recover jobs whose publish was lost.
	GetStale(ctx context.Context, minAge time.Duration, limit int) ([]*Job, error)
	Stats(ctx context.Context) (*Stats, error)
}

// ErrJobNotFound indicates a missing job
type ErrJobNotFound struct {
	ID string
}

func (e ErrJobNotFound) Error() string {
	return "job not found: " + e.ID
}

// Is implements the errors.Is interface for ErrJobNotFound
func (e ErrJobNotFound) Is(target error) bool {
	t, ok := target.(ErrJobNotFound)
	if !ok {
		return false
	}
	if t.ID == "" {
		return true
	}
	return e.ID == t.ID
}
