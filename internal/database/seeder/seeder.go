package seeder

import (
	"context"

	"jobmatch/internal/database"
)

// Seeder writes one dataset. Implementations must be idempotent.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
