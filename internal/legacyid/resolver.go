package legacyid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"nightlife/internal/featureflags"
	"nightlife/internal/middleware"
	"nightlife/internal/models"
	"nightlife/internal/observability"
	"nightlife/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Resolver turns path identifiers into entity UUIDs.
type Resolver struct {
	repo  repository.LegacyIDRepository
	flags *featureflags.Manager
}

// NewResolver returns a Resolver backed by the mapping table.
func NewResolver(repo repository.LegacyIDRepository, flags *featureflags.Manager) *Resolver {
	return &Resolver{repo: repo, flags: flags}
}

// Enabled reports whether numeric identifiers are accepted.
func (r *Resolver) Enabled() bool {
	return r != nil && r.flags.On(featureflags.LegacyNumericIDs)
}

// Resolve accepts a UUID as-is or looks a numeric identifier up in the
// mapping table.
func (r *Resolver) Resolve(ctx context.Context, kind models.ModerationKind, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if id, err := uuid.Parse(raw); err == nil {
		return id, nil
	}

	legacy, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || legacy < 0 {
		return uuid.Nil, models.NewValidationError(fmt.Sprintf("invalid %s identifier %q", kind, raw))
	}
	if !r.Enabled() {
		return uuid.Nil, models.NewValidationError(fmt.Sprintf("invalid %s identifier %q", kind, raw)).
			WithSuggestions("Use the UUID of the " + string(kind))
	}

	id, err := r.repo.Resolve(ctx, string(kind), legacy)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		observability.LegacyIDResolutions.WithLabelValues(string(kind), "miss").Inc()
		return uuid.Nil, models.NewNotFoundError(string(kind), raw).WithSuggestions(
			"Use the UUID of the "+string(kind)+" instead of the numeric identifier",
			"Refresh the admin list; the "+string(kind)+" may have been deleted",
		)
	}
	if err != nil {
		return uuid.Nil, err
	}
	observability.LegacyIDResolutions.WithLabelValues(string(kind), "hit").Inc()
	return id, nil
}

// Register stores the numeric identifier of a new entity. On a collision
// the earlier mapping is kept and the new entity stays reachable by UUID only.
func (r *Resolver) Register(ctx context.Context, kind models.ModerationKind, id uuid.UUID) error {
	if r == nil {
		return nil
	}
	legacy := Hash(id.String())
	owner, err := r.repo.Register(ctx, string(kind), legacy, id)
	if err != nil {
		return err
	}
	if owner != id {
		middleware.Logger.WarnContext(ctx, "legacy id collision",
			slog.String("entity_type", string(kind)),
			slog.Int64("legacy_id", legacy),
			slog.String("entity_id", id.String()),
			slog.String("mapped_to", owner.String()))
	}
	return nil
}

// BackfillResult summarises a backfill run.
type BackfillResult struct {
	Mapped     int
	Collisions int
}

// Backfill maps every existing row of kind that has no mapping yet.
func (r *Resolver) Backfill(ctx context.Context, kind models.ModerationKind, batchSize int) (BackfillResult, error) {
	var res BackfillResult
	if batchSize <= 0 {
		batchSize = 500
	}
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		// collided rows stay unmapped and sort first, so skip past them
		ids, err := r.repo.Unmapped(ctx, string(kind), kind.Table(), repository.Page{Limit: batchSize, Offset: res.Collisions})
		if err != nil {
			return res, err
		}
		if len(ids) == 0 {
			return res, nil
		}
		for _, id := range ids {
			legacy := Hash(id.String())
			owner, err := r.repo.Register(ctx, string(kind), legacy, id)
			if err != nil {
				return res, fmt.Errorf("register %s %s: %w", kind, id, err)
			}
			if owner != id {
				res.Collisions++
				middleware.Logger.WarnContext(ctx, "legacy id collision during backfill",
					slog.String("entity_type", string(kind)),
					slog.Int64("legacy_id", legacy),
					slog.String("entity_id", id.String()))
				continue
			}
			res.Mapped++
		}
	}
}
