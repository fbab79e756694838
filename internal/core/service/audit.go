package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
)

// audit records who changed what. It never fails the caller.
func audit(ctx context.Context, log zerolog.Logger, action, entity, id string) {
	log.Info().
		Str("audit", action).
		Str("actor", domain.ActorEmail(ctx)).
		Str("entity", entity).
		Str("id", id).
		Msg("admin change")
}
