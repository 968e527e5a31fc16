package user

import (
	"context"
	"time"

	"github.com/google/uuid"

	g "github.com/reoring/recskema/dsl"
)

// MaxRelations bounds the friends and blocked lists.
const MaxRelations = 500

// ProfileOption configures ProfileSchema.
type ProfileOption func(*profileConfig)

type profileConfig struct {
	now   func() time.Time
	newID func() uuid.UUID
}

// WithClock sets the source of signup timestamps.
func WithClock(fn func() time.Time) ProfileOption {
	return func(c *profileConfig) { c.now = fn }
}

// WithIDSource sets the source of profile identifiers.
func WithIDSource(fn func() uuid.UUID) ProfileOption {
	return func(c *profileConfig) { c.newID = fn }
}

// ProfileSchema is the public user profile. Unknown keys are rejected;
// id and signup_ts are generated when absent.
func ProfileSchema(opts ...ProfileOption) *g.Schema {
	var c profileConfig
	for _, o := range opts {
		o(&c)
	}
	return g.Record().Name("Profile").
		UnknownStrict().
		Clock(c.now).
		IDSource(c.newID).
		Field("name", g.String()).Required().Describe("Name of the user").
		Field("email", g.Email()).Required().Describe("Email address of the user").
		Field("friends", g.UUIDList()).MaxLength(MaxRelations).Describe("List of friends").
		Field("blocked", g.UUIDList()).MaxLength(MaxRelations).Describe("List of blocked users").
		Field("signup_ts", g.Timestamp()).Describe("Signup timestamp").
		Field("id", g.UUID()).Describe("Unique identifier").
		Serialize(func(ctx context.Context, v any) (any, error) {
			id, _ := v.(uuid.UUID)
			return id.String(), nil
		}).
		MustBuild()
}
