package ports

import (
	"context"

	"github.com/userdesk/user-management/internal/core/domain"
)

// ActivityRepository persists audit trail entries.
type ActivityRepository interface {
	Insert(ctx context.Context, entry *domain.ActivityEntry) error
}

// ActivityService consumes activity entries off the dispatcher workers.
type ActivityService interface {
	Process(ctx context.Context, entry domain.ActivityEntry) error
}

// ActivityRecorder is the producer side: handlers and services enqueue entries
// without waiting for persistence.
type ActivityRecorder interface {
	Record(entry domain.ActivityEntry)
}
