package workers

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wanderlust-tours/wanderlust/internal/stats"
	"github.com/wanderlust-tours/wanderlust/internal/tasks"
)

// HandleStatsRollup recomputes and stores the dashboard snapshot
func HandleStatsRollup(ctx context.Context, t *asynq.Task, db *gorm.DB, logger zerolog.Logger) error {
	payload, err := tasks.ParseTaskPayload(t)
	if err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	snap, err := stats.Refresh(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to refresh dashboard stats: %w", err)
	}

	logger.Info().
		Str("snapshot_id", snap.ID).
		Str("requested_by", payload.RequestedBy).
		Int64("tours", snap.Tours).
		Int64("destinations", snap.Destinations).
		Int64("pending_testimonials", snap.PendingTestimonials).
		Int64("wishlists", snap.Wishlists).
		Msg("Dashboard stats refreshed")
	return nil
}
