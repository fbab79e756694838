package domain

import (
	"context"
	"time"
)

// Claims is the identity carried by a verified session token.
type Claims struct {
	TokenID   string    `json:"-"`
	UserID    string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type actorKey struct{}

// WithActor returns a context carrying the authenticated caller. Services read
// it back for audit logging.
func WithActor(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, actorKey{}, c)
}

// ActorFrom returns the caller stored by WithActor, or nil for anonymous
// requests.
func ActorFrom(ctx context.Context) *Claims {
	c, _ := ctx.Value(actorKey{}).(*Claims)
	return c
}

// ActorEmail is a convenience for log fields; anonymous callers yield "anonymous".
func ActorEmail(ctx context.Context) string {
	if c := ActorFrom(ctx); c != nil && c.Email != "" {
		return c.Email
	}
	return "anonymous"
}
