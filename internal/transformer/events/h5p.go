package events

import (
	"context"

	v1 "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/api/v1"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/lms"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer/activity"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

// H5PStatementReceived reports an H5P activity result. The score and
// duration come from the user's most recent attempt record; when that lookup
// yields nothing the result degrades to null scores, success=false and a
// zero duration.
func H5PStatementReceived(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	user, err := env.Res.User(ctx, evt.UserID)
	if err != nil {
		return nil, err
	}
	course, err := env.Res.Course(ctx, evt.CourseID)
	if err != nil {
		return nil, err
	}
	activityID := evt.ObjectID
	cmid := evt.ContextInstanceID
	lang := transformer.CourseLang(env.Cfg, course)

	result := h5pResult(ctx, env, activityID, user.ID())

	return []xapi.Statement{{
		Actor: transformer.Actor(env.Cfg, user),
		Verb: xapi.Verb{
			ID:      "https://wiki.haski.app/variables/xapi.answered",
			Display: xapi.Lang(lang, "answered"),
		},
		Object: activity.H5PStatement(ctx, env.Cfg, env.Res, lang, activityID, cmid),
		Result: result,
		Context: &xapi.Context{
			Platform:   env.Cfg.Source.Name,
			Language:   lang,
			Extensions: transformer.BaseExtensions(env.Cfg, evt, course),
			ContextActivities: &xapi.ContextActivities{
				Parent: []xapi.Activity{
					activity.Course(env.Cfg, course),
					activity.CourseModule(ctx, env.Cfg, env.Res, course, cmid, activity.H5PContentIDIRI),
				},
				Grouping: []xapi.Activity{activity.Site(env.Cfg)},
			},
		},
		Timestamp: evt.Timestamp(),
	}}, nil
}

// h5pResult reads the most recent attempt (highest attempt number) for the
// user on this activity and derives the result block from it.
func h5pResult(ctx context.Context, env *transformer.Env, activityID, userID int64) *xapi.Result {
	attempts, err := env.Res.Records(ctx, "h5pactivity_attempts", lms.Query{
		Where: map[string]interface{}{
			"h5pactivityid": activityID,
			"userid":        userID,
		},
		OrderBy: "attempt",
		Desc:    true,
		Limit:   1,
	})
	if err != nil || len(attempts) == 0 {
		return &xapi.Result{
			Score:      &xapi.Score{},
			Duration:   "PT0S",
			Completion: xapi.Bool(true),
			Success:    xapi.Bool(false),
		}
	}

	attempt := attempts[0]
	raw, _ := attempt.Float("rawscore")
	max, _ := attempt.Float("maxscore")
	scaled, _ := attempt.Float("scaled")

	return &xapi.Result{
		Score: &xapi.Score{
			Raw:    xapi.Float(raw),
			Max:    xapi.Float(max),
			Scaled: xapi.Float(scaled),
		},
		Duration:   transformer.ISO8601Duration(attempt.Int("duration")),
		Completion: xapi.Bool(true),
		Success:    xapi.Bool(raw >= max),
	}
}
