package events

import (
	"context"
	"errors"

	v1 "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/api/v1"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/lms"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer/activity"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

// TrueFalseResponseIRI records whether a true/false response was the literal
// string "True".
const TrueFalseResponseIRI = "http://learninglocker.net/xapi/cmi/true-false/response"

// QuizAttemptStarted reports a user starting a quiz attempt.
func QuizAttemptStarted(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	return quizAttempt(ctx, env, evt, transformer.VerbStarted)
}

// QuizAttemptAbandoned reports an abandoned quiz attempt. Abandonment is
// intentionally reported under the "started" verb; do not correct this
// without reconfirming product intent.
func QuizAttemptAbandoned(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	return quizAttempt(ctx, env, evt, transformer.VerbStarted)
}

// QuizAttemptReviewed reports a user reviewing a finished attempt.
func QuizAttemptReviewed(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	return quizAttempt(ctx, env, evt, transformer.VerbReviewed)
}

func quizAttempt(ctx context.Context, env *transformer.Env, evt *v1.Event, verbKey string) ([]xapi.Statement, error) {
	user, err := env.Res.User(ctx, evt.RelatedUserID)
	if err != nil {
		return nil, err
	}
	course, err := env.Res.Course(ctx, evt.CourseID)
	if err != nil {
		return nil, err
	}
	attemptID := evt.ObjectID
	cmid := evt.ContextInstanceID
	lang := transformer.CourseLang(env.Cfg, course)

	verb, err := transformer.Verb(verbKey, env.Cfg, lang)
	if err != nil {
		return nil, err
	}

	return []xapi.Statement{{
		Actor:  transformer.Actor(env.Cfg, user),
		Verb:   verb,
		Object: activity.QuizAttempt(ctx, env.Cfg, env.Res, attemptID, cmid, lang),
		Context: &xapi.Context{
			Platform:   env.Cfg.Source.Name,
			Language:   lang,
			Extensions: transformer.BaseExtensions(env.Cfg, evt, course),
			ContextActivities: &xapi.ContextActivities{
				Other: []xapi.Activity{
					activity.CourseQuiz(ctx, env.Cfg, env.Res, course, cmid),
				},
				Grouping: []xapi.Activity{
					activity.Site(env.Cfg),
					activity.Course(env.Cfg, course),
				},
				Category: []xapi.Activity{activity.Source(env.Cfg)},
			},
		},
		Timestamp: evt.Timestamp(),
	}}, nil
}

// QuizAttemptSubmitted fans a submitted attempt out into one statement per
// answered question of a supported question type. An attempt whose backing
// rows are gone contributes no statements.
func QuizAttemptSubmitted(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	attempt, err := env.Res.Record(ctx, "quiz_attempts", evt.ObjectID)
	if err != nil {
		if errors.Is(err, lms.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	questionAttempts, err := env.Res.Records(ctx, "question_attempts", lms.Query{
		Where:   map[string]interface{}{"questionusageid": attempt.Int("uniqueid")},
		OrderBy: "slot",
	})
	if err != nil {
		return nil, err
	}

	var out []xapi.Statement
	for _, qa := range questionAttempts {
		question, qerr := env.Res.Record(ctx, "question", qa.Int("questionid"))
		if qerr != nil {
			if errors.Is(qerr, lms.ErrNotFound) {
				continue
			}
			return nil, qerr
		}
		switch question.Str("qtype") {
		case "truefalse":
			statements, terr := QuestionAnsweredTrueFalse(ctx, env, evt, qa, question)
			if terr != nil {
				return nil, terr
			}
			out = append(out, statements...)
		}
	}
	return out, nil
}

// QuestionAnsweredTrueFalse builds the statement for one answered true/false
// question. Success is exact string equality between the right answer and
// the response summary; the response extension records whether the response
// was the literal "True".
func QuestionAnsweredTrueFalse(ctx context.Context, env *transformer.Env, evt *v1.Event, questionAttempt, question lms.Record) ([]xapi.Statement, error) {
	user, err := env.Res.User(ctx, evt.RelatedUserID)
	if err != nil {
		return nil, err
	}
	course, err := env.Res.Course(ctx, evt.CourseID)
	if err != nil {
		return nil, err
	}
	cmid := evt.ContextInstanceID
	attemptID := evt.ObjectID
	lang := transformer.CourseLang(env.Cfg, course)

	questionName := question.Str("name")
	questionText := transformer.StripHTML(question.Str("questiontext"))
	responseSummary := questionAttempt.Str("responsesummary")
	rightAnswer := questionAttempt.Str("rightanswer")

	return []xapi.Statement{{
		Actor: transformer.Actor(env.Cfg, user),
		Verb: xapi.Verb{
			ID:      "http://adlnet.gov/expapi/verbs/answered",
			Display: xapi.Lang(lang, "answered"),
		},
		Object: xapi.Activity{
			ID: activity.QuizQuestionID(env.Cfg, cmid, question.ID()),
			Definition: &xapi.Definition{
				Type:            activity.TypeInteraction,
				Name:            xapi.Lang(lang, questionName),
				Description:     xapi.Lang(lang, questionText),
				InteractionType: "true-false",
			},
		},
		Result: &xapi.Result{
			Response:   xapi.String(responseSummary),
			Completion: xapi.Bool(responseSummary != ""),
			Success:    xapi.Bool(rightAnswer == responseSummary),
			Extensions: xapi.Extensions{
				TrueFalseResponseIRI: responseSummary == "True",
			},
		},
		Context: &xapi.Context{
			Platform:   env.Cfg.Source.Name,
			Language:   lang,
			Extensions: transformer.BaseExtensions(env.Cfg, evt, course),
			ContextActivities: &xapi.ContextActivities{
				Grouping: []xapi.Activity{
					activity.Site(env.Cfg),
					activity.Course(env.Cfg, course),
					activity.CourseQuiz(ctx, env.Cfg, env.Res, course, cmid),
					activity.QuizAttempt(ctx, env.Cfg, env.Res, attemptID, cmid, lang),
				},
				Category: []xapi.Activity{activity.Source(env.Cfg)},
			},
		},
		Timestamp: evt.Timestamp(),
	}}, nil
}
