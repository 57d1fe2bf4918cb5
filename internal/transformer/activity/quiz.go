package activity

import (
	"context"
	"fmt"

	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/core/config"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/lms"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

// CourseQuiz builds the quiz module activity.
func CourseQuiz(ctx context.Context, cfg *config.Config, res *lms.Resolver, course lms.Record, cmid int64) xapi.Activity {
	lang := transformer.CourseLang(cfg, course)

	name := fmt.Sprintf("quiz id %d", cmid)
	description := "deleted"

	cm, err := res.Record(ctx, "course_modules", cmid)
	if err == nil {
		quiz, qerr := res.Record(ctx, "quiz", cm.Int("instance"))
		if qerr == nil {
			if n := quiz.Str("name"); n != "" {
				name = n
			}
			description = moduleDescription(cm, "the quiz activity")
		}
	}

	return xapi.Activity{
		ID: fmt.Sprintf("%s/mod/quiz/view.php?id=%d", cfg.Source.AppURL, cmid),
		Definition: &xapi.Definition{
			Type:        TypeAssessment,
			Name:        xapi.Lang(lang, name),
			Description: xapi.Lang(lang, description),
		},
	}
}

// QuizAttempt builds the quiz-attempt activity, resolving the attempt row
// and the quiz it belongs to for the display name.
func QuizAttempt(ctx context.Context, cfg *config.Config, res *lms.Resolver, attemptID, cmid int64, lang string) xapi.Activity {
	name := fmt.Sprintf("attempt id %d", attemptID)
	description := "deleted"

	attempt, err := res.Record(ctx, "quiz_attempts", attemptID)
	if err == nil {
		description = "the quiz attempt"
		quiz, qerr := res.Record(ctx, "quiz", attempt.Int("quiz"))
		if qerr == nil && quiz.Str("name") != "" {
			name = quiz.Str("name")
		}
	}

	return xapi.Activity{
		ID: fmt.Sprintf("%s/mod/quiz/review.php?attempt=%d&cmid=%d", cfg.Source.AppURL, attemptID, cmid),
		Definition: &xapi.Definition{
			Type:        TypeAttempt,
			Name:        xapi.Lang(lang, name),
			Description: xapi.Lang(lang, description),
		},
	}
}

// QuizQuestionID builds the stable URI of one question within a quiz module.
func QuizQuestionID(cfg *config.Config, cmid, questionID int64) string {
	return fmt.Sprintf("%s/mod/quiz/edit.php?cmid=%d&questionid=%d", cfg.Source.AppURL, cmid, questionID)
}
