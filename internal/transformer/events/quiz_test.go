package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	v1 "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/api/v1"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/lms"
)

func seedQuiz(repo *lms.MemoryRepository) {
	repo.Insert("course_modules", lms.Record{"id": int64(20), "module": int64(4), "instance": int64(9)})
	repo.Insert("modules", lms.Record{"id": int64(4), "name": "quiz"})
	repo.Insert("quiz", lms.Record{"id": int64(9), "name": "Chapter quiz"})
	repo.Insert("quiz_attempts", lms.Record{"id": int64(30), "quiz": int64(9), "uniqueid": int64(300)})
}

func quizEvent(name string) *v1.Event {
	return &v1.Event{
		EventName:         name,
		UserID:            5,
		RelatedUserID:     7,
		CourseID:          3,
		ObjectID:          30,
		ContextInstanceID: 20,
		TimeCreated:       1700000000,
	}
}

func TestQuizAttemptStarted(t *testing.T) {
	env := newTestEnv(t, testConfig(), seedQuiz)

	statements, err := QuizAttemptStarted(context.Background(), env, quizEvent(`\mod_quiz\event\attempt_started`))
	require.NoError(t, err)
	require.Len(t, statements, 1)
	stmt := statements[0]

	require.Equal(t, "Bob Smith", stmt.Actor.Name)
	require.Equal(t, "https://wiki.haski.app/variables/xapi.clicked", stmt.Verb.ID)
	require.Equal(t, "started", stmt.Verb.Display["de"])
	require.Equal(t, "https://lms.example.edu/mod/quiz/review.php?attempt=30&cmid=20", stmt.Object.ID)
	require.Equal(t, "Chapter quiz", stmt.Object.Definition.Name["de"])

	// The quiz activity travels under other, not grouping.
	grouping := stmt.Context.ContextActivities.Grouping
	require.Len(t, grouping, 2)
	require.Equal(t, "https://lms.example.edu", grouping[0].ID)
	require.Equal(t, "https://lms.example.edu/course/view.php?id=3", grouping[1].ID)

	other := stmt.Context.ContextActivities.Other
	require.Len(t, other, 1)
	require.Equal(t, "https://lms.example.edu/mod/quiz/view.php?id=20", other[0].ID)
}

func TestQuizAttemptAbandoned_UsesStartedVerb(t *testing.T) {
	env := newTestEnv(t, testConfig(), seedQuiz)

	statements, err := QuizAttemptAbandoned(context.Background(), env, quizEvent(`\mod_quiz\event\attempt_abandoned`))
	require.NoError(t, err)
	require.Equal(t, "https://wiki.haski.app/variables/xapi.clicked", statements[0].Verb.ID)
	require.Equal(t, "started", statements[0].Verb.Display["de"])
}

func TestQuizAttemptReviewed(t *testing.T) {
	env := newTestEnv(t, testConfig(), seedQuiz)

	statements, err := QuizAttemptReviewed(context.Background(), env, quizEvent(`\mod_quiz\event\attempt_reviewed`))
	require.NoError(t, err)
	require.Equal(t, "http://id.tincanapi.com/verb/reviewed", statements[0].Verb.ID)
}

func TestQuizAttemptSubmitted(t *testing.T) {
	env := newTestEnv(t, testConfig(), func(repo *lms.MemoryRepository) {
		seedQuiz(repo)
		repo.Insert("question_attempts", lms.Record{
			"id": int64(40), "questionusageid": int64(300), "slot": int64(2), "questionid": int64(50),
			"responsesummary": "True", "rightanswer": "True",
		})
		repo.Insert("question_attempts", lms.Record{
			"id": int64(41), "questionusageid": int64(300), "slot": int64(1), "questionid": int64(51),
			"responsesummary": "False", "rightanswer": "True",
		})
		// Unsupported question types are skipped.
		repo.Insert("question_attempts", lms.Record{
			"id": int64(42), "questionusageid": int64(300), "slot": int64(3), "questionid": int64(52),
		})
		repo.Insert("question", lms.Record{"id": int64(50), "qtype": "truefalse", "name": "Q2", "questiontext": "<p>Sky is blue?</p>"})
		repo.Insert("question", lms.Record{"id": int64(51), "qtype": "truefalse", "name": "Q1", "questiontext": "Water is dry?"})
		repo.Insert("question", lms.Record{"id": int64(52), "qtype": "essay", "name": "Q3"})
	})

	statements, err := QuizAttemptSubmitted(context.Background(), env, quizEvent(`\mod_quiz\event\attempt_submitted`))
	require.NoError(t, err)
	require.Len(t, statements, 2)

	// Statements come out in slot order.
	first := statements[0]
	require.Equal(t, "Q1", first.Object.Definition.Name["de"])
	require.Equal(t, "https://lms.example.edu/mod/quiz/edit.php?cmid=20&questionid=51", first.Object.ID)
	require.Equal(t, "true-false", first.Object.Definition.InteractionType)
	require.Equal(t, "False", *first.Result.Response)
	require.True(t, *first.Result.Completion)
	require.False(t, *first.Result.Success)
	require.Equal(t, false, first.Result.Extensions[TrueFalseResponseIRI])

	second := statements[1]
	require.Equal(t, "Q2", second.Object.Definition.Name["de"])
	require.Equal(t, "Sky is blue?", second.Object.Definition.Description["de"])
	require.True(t, *second.Result.Success)
	require.Equal(t, true, second.Result.Extensions[TrueFalseResponseIRI])
}

func TestQuizAttemptSubmitted_RepositoryFailure(t *testing.T) {
	env := newFaultyEnv(testConfig(), errors.New("connection reset"))

	statements, err := QuizAttemptSubmitted(context.Background(), env, quizEvent(`\mod_quiz\event\attempt_submitted`))
	require.ErrorContains(t, err, "connection reset")
	require.Empty(t, statements)
}

func TestQuizAttemptSubmitted_MissingAttempt(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)

	statements, err := QuizAttemptSubmitted(context.Background(), env, quizEvent(`\mod_quiz\event\attempt_submitted`))
	require.NoError(t, err)
	require.Empty(t, statements)
}

func TestQuizAttempt_MissingRowsFallBack(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)

	statements, err := QuizAttemptStarted(context.Background(), env, quizEvent(`\mod_quiz\event\attempt_started`))
	require.NoError(t, err)
	stmt := statements[0]

	require.Equal(t, "attempt id 30", stmt.Object.Definition.Name["de"])
	require.Equal(t, "deleted", stmt.Object.Definition.Description["de"])

	require.Len(t, stmt.Context.ContextActivities.Other, 1)
	quiz := stmt.Context.ContextActivities.Other[0]
	require.Equal(t, "quiz id 20", quiz.Definition.Name["de"])
	require.Equal(t, "deleted", quiz.Definition.Description["de"])
}
