package events

import (
	"context"

	v1 "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/api/v1"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/lms"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer/activity"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

// ScormStatusSubmitted reports a SCORM runtime status submission. The verb
// is derived from the attempt's tracking records; a failed tracking lookup
// substitutes the "deleted" verb.
func ScormStatusSubmitted(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	user, err := env.Res.User(ctx, evt.UserID)
	if err != nil {
		return nil, err
	}
	course, err := env.Res.Course(ctx, evt.CourseID)
	if err != nil {
		return nil, err
	}
	scormID := evt.ObjectID
	cmid := evt.ContextInstanceID
	lang := transformer.CourseLang(env.Cfg, course)

	fields, _ := transformer.DecodeOther(evt.Other)
	attempt := fields.Int("attemptid")

	verb, err := scormVerb(ctx, env, user.ID(), scormID, cmid, attempt, lang)
	if err != nil {
		return nil, err
	}

	return []xapi.Statement{{
		Actor:  transformer.Actor(env.Cfg, user),
		Verb:   verb,
		Object: activity.CourseScorm(ctx, env.Cfg, env.Res, cmid, scormID, lang),
		Context: &xapi.Context{
			Platform:   env.Cfg.Source.Name,
			Language:   lang,
			Extensions: transformer.BaseExtensions(env.Cfg, evt, course),
			ContextActivities: &xapi.ContextActivities{
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

// scormVerb maps the lesson-status tracking element of the attempt onto a
// verb. Missing tracking rows, or rows without a recognizable status, fall
// back to the catalog "deleted" verb.
func scormVerb(ctx context.Context, env *transformer.Env, userID, scormID, scoID, attempt int64, lang string) (xapi.Verb, error) {
	tracks, err := env.Res.Records(ctx, "scorm_scoes_track", lms.Query{
		Where: map[string]interface{}{
			"userid":  userID,
			"scormid": scormID,
			"scoid":   scoID,
			"attempt": attempt,
		},
	})
	if err != nil || len(tracks) == 0 {
		return transformer.Verb(transformer.VerbDeleted, env.Cfg, lang)
	}

	for _, track := range tracks {
		switch track.Str("element") {
		case "cmi.core.lesson_status", "cmi.completion_status":
			switch track.Str("value") {
			case "completed":
				return transformer.Verb(transformer.VerbCompleted, env.Cfg, lang)
			case "passed":
				return xapi.Verb{
					ID:      "http://adlnet.gov/expapi/verbs/passed",
					Display: xapi.Lang(lang, "passed"),
				}, nil
			case "failed":
				return xapi.Verb{
					ID:      "http://adlnet.gov/expapi/verbs/failed",
					Display: xapi.Lang(lang, "failed"),
				}, nil
			}
		}
	}
	return transformer.Verb(transformer.VerbDeleted, env.Cfg, lang)
}
