package lifecycle

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/domain"
)

// ILifecycleService decides and propagates a contest's termination cause.
// A cause change on the contest fans out to every participant of that
// contest in the same logical operation, best effort per participant.
type ILifecycleService interface {
	// EndManually stops a contest by administrative action. Manual ends
	// are sticky: no later expiry check may overwrite them.
	EndManually(ctx context.Context, contestID uuid.UUID) (bool, error)

	// CheckExpiry marks a contest TimeExpired once the clock passes its
	// end time, unless it was already manually ended. Returns the cause in
	// effect after the check.
	CheckExpiry(ctx context.Context, contestID uuid.UUID) (domain.TerminationCause, error)

	// SweepExpired applies CheckExpiry to every contest past its end time.
	// Individual failures are logged and skipped, never aborting the pass.
	SweepExpired(ctx context.Context) (domain.SweepResult, error)
}
