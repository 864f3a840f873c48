package service

import (
	"context"

	"github.com/transaction-intake-service/internal/domain/shared"
)

// ProcessingService drains queued creation requests. Implementations must
// tolerate redelivery: the create operation underneath is idempotent, so
// running the same request twice is a safe no-op.
type ProcessingService interface {
	ProcessRequest(ctx context.Context, request *shared.CreateRequest) error
}
