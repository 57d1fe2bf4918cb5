package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	v1 "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/api/v1"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/lms"
)

func h5pEvent() *v1.Event {
	return &v1.Event{
		EventName:         `\mod_h5pactivity\event\statement_received`,
		UserID:            5,
		CourseID:          3,
		ObjectID:          15,
		ContextInstanceID: 28,
		TimeCreated:       1700000000,
	}
}

func TestH5PStatementReceived(t *testing.T) {
	env := newTestEnv(t, testConfig(), func(repo *lms.MemoryRepository) {
		repo.Insert("h5pactivity_attempts", lms.Record{
			"id": int64(1), "h5pactivityid": int64(15), "userid": int64(5), "attempt": int64(1),
			"rawscore": float64(3), "maxscore": float64(5), "scaled": float64(0.6), "duration": int64(65),
		})
		repo.Insert("h5pactivity_attempts", lms.Record{
			"id": int64(2), "h5pactivityid": int64(15), "userid": int64(5), "attempt": int64(2),
			"rawscore": float64(5), "maxscore": float64(5), "scaled": float64(1), "duration": int64(30),
		})
	})

	statements, err := H5PStatementReceived(context.Background(), env, h5pEvent())
	require.NoError(t, err)
	require.Len(t, statements, 1)
	stmt := statements[0]

	require.Equal(t, "https://wiki.haski.app/variables/xapi.answered", stmt.Verb.ID)

	// The most recent attempt (highest attempt number) wins.
	result := stmt.Result
	require.InDelta(t, 5, *result.Score.Raw, 0.0001)
	require.InDelta(t, 5, *result.Score.Max, 0.0001)
	require.InDelta(t, 1, *result.Score.Scaled, 0.0001)
	require.Equal(t, "PT30S", result.Duration)
	require.True(t, *result.Completion)
	require.True(t, *result.Success)
}

func TestH5PStatementReceived_NoAttempts(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)

	statements, err := H5PStatementReceived(context.Background(), env, h5pEvent())
	require.NoError(t, err)
	result := statements[0].Result

	// Degraded result: empty score block, zero duration, success false.
	require.NotNil(t, result.Score)
	require.Nil(t, result.Score.Raw)
	require.Nil(t, result.Score.Max)
	require.Nil(t, result.Score.Scaled)
	require.Equal(t, "PT0S", result.Duration)
	require.True(t, *result.Completion)
	require.False(t, *result.Success)
}

func TestH5PStatementReceived_FailedAttempt(t *testing.T) {
	env := newTestEnv(t, testConfig(), func(repo *lms.MemoryRepository) {
		repo.Insert("h5pactivity_attempts", lms.Record{
			"id": int64(1), "h5pactivityid": int64(15), "userid": int64(5), "attempt": int64(1),
			"rawscore": float64(2), "maxscore": float64(5), "scaled": float64(0.4), "duration": int64(3661),
		})
	})

	statements, err := H5PStatementReceived(context.Background(), env, h5pEvent())
	require.NoError(t, err)
	result := statements[0].Result
	require.False(t, *result.Success)
	require.Equal(t, "PT1H1M1S", result.Duration)
}
