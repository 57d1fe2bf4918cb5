package lms

import (
	"context"
	"errors"
	"fmt"
)

const (
	// GuestUserID is the fixed guest/system actor placeholder. User ids
	// below 2 always resolve to it.
	GuestUserID = 1

	// SiteCourseID is the site's root/default course. Unresolvable course
	// ids fall back to it instead of failing the transform.
	SiteCourseID = 1
)

// ClampActorID normalizes user ids below 2 to the guest placeholder. It
// applies to userid and relateduserid wherever either names an actor or a
// related party.
func ClampActorID(id int64) int64 {
	if id < 2 {
		return GuestUserID
	}
	return id
}

// Resolver wraps a Repository with the lookup policies every transform
// shares: actor-id clamping and the site-course fallback. Builders layer
// their own kind-specific deleted/missing fallbacks on top.
type Resolver struct {
	repo Repository
}

// NewResolver creates a resolver over repo.
func NewResolver(repo Repository) *Resolver {
	if repo == nil {
		panic("lms: resolver repository must not be nil")
	}
	return &Resolver{repo: repo}
}

// User resolves a user record, clamping ids below 2 to the guest user.
// A missing user record propagates as an error: unlike activity lookups,
// the actor must exist for the statement to mean anything.
func (r *Resolver) User(ctx context.Context, id int64) (Record, error) {
	return r.repo.RecordByID(ctx, "user", ClampActorID(id))
}

// Course resolves a course record, falling back to the site course when the
// requested id does not resolve.
func (r *Resolver) Course(ctx context.Context, id int64) (Record, error) {
	course, err := r.repo.RecordByID(ctx, "course", id)
	if err == nil {
		return course, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	course, err = r.repo.RecordByID(ctx, "course", SiteCourseID)
	if err != nil {
		return nil, fmt.Errorf("lms: site course fallback: %w", err)
	}
	return course, nil
}

// Record is a plain lookup by table and id. The id must be positive.
func (r *Resolver) Record(ctx context.Context, table string, id int64) (Record, error) {
	if id <= 0 {
		return nil, fmt.Errorf("lms: %s id %d: %w", table, id, ErrNotFound)
	}
	return r.repo.RecordByID(ctx, table, id)
}

// Records is a plain multi-record lookup.
func (r *Resolver) Records(ctx context.Context, table string, q Query) ([]Record, error) {
	return r.repo.Records(ctx, table, q)
}
