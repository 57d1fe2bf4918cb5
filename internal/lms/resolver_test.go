package lms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampActorID(t *testing.T) {
	tests := []struct {
		name string
		id   int64
		want int64
	}{
		{name: "regular id passes through", id: 5, want: 5},
		{name: "guest stays guest", id: 1, want: 1},
		{name: "zero clamps to guest", id: 0, want: 1},
		{name: "negative clamps to guest", id: -3, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ClampActorID(tt.id))
		})
	}
}

func TestResolver_User(t *testing.T) {
	repo := NewMemoryRepository()
	require.NoError(t, repo.Insert("user", Record{"id": int64(1), "username": "guest"}))
	require.NoError(t, repo.Insert("user", Record{"id": int64(5), "username": "ada"}))
	res := NewResolver(repo)

	rec, err := res.User(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, "ada", rec.Str("username"))

	// Ids below 2 resolve to the guest placeholder.
	rec, err = res.User(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, "guest", rec.Str("username"))

	rec, err = res.User(context.Background(), -7)
	require.NoError(t, err)
	require.Equal(t, "guest", rec.Str("username"))

	// A genuinely missing user propagates, unlike activity lookups.
	_, err = res.User(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolver_CourseFallback(t *testing.T) {
	repo := NewMemoryRepository()
	require.NoError(t, repo.Insert("course", Record{"id": int64(1), "fullname": "Site course"}))
	require.NoError(t, repo.Insert("course", Record{"id": int64(3), "fullname": "Algorithms"}))
	res := NewResolver(repo)

	rec, err := res.Course(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, "Algorithms", rec.Str("fullname"))

	// Unresolvable course ids fall back to the site course.
	rec, err = res.Course(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, "Site course", rec.Str("fullname"))

	rec, err = res.Course(context.Background(), 0)
	require.NoError(t, err)
	require.EqualValues(t, SiteCourseID, rec.ID())
}

func TestResolver_CourseFallbackMissingSiteCourse(t *testing.T) {
	res := NewResolver(NewMemoryRepository())

	_, err := res.Course(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolver_Record(t *testing.T) {
	repo := NewMemoryRepository()
	require.NoError(t, repo.Insert("quiz", Record{"id": int64(4), "name": "Quiz one"}))
	res := NewResolver(repo)

	rec, err := res.Record(context.Background(), "quiz", 4)
	require.NoError(t, err)
	require.Equal(t, "Quiz one", rec.Str("name"))

	// Non-positive ids short-circuit without touching the repository.
	_, err = res.Record(context.Background(), "quiz", 0)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = res.Record(context.Background(), "quiz", -1)
	require.ErrorIs(t, err, ErrNotFound)
}
