package events

import (
	"context"

	v1 "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/api/v1"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer/activity"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

// SchedulerBookingRemoved reports a scheduler booking being removed. The
// verb display text is the literal word "booking" in the upstream
// vocabulary, not "removed".
func SchedulerBookingRemoved(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	user, err := env.Res.User(ctx, evt.UserID)
	if err != nil {
		return nil, err
	}
	course, err := env.Res.Course(ctx, evt.CourseID)
	if err != nil {
		return nil, err
	}
	cmid := evt.ContextInstanceID
	lang := transformer.CourseLang(env.Cfg, course)

	return []xapi.Statement{{
		Actor: transformer.Actor(env.Cfg, user),
		Verb: xapi.Verb{
			ID:      "https://wiki.haski.app/variables/xapi.clicked",
			Display: xapi.Lang(lang, "booking"),
		},
		Object: activity.Booking(ctx, env.Cfg, env.Res, cmid, lang),
		Context: &xapi.Context{
			Platform:   env.Cfg.Source.Name,
			Language:   lang,
			Extensions: transformer.BaseExtensions(env.Cfg, evt, course),
			ContextActivities: &xapi.ContextActivities{
				Parent: []xapi.Activity{
					activity.Course(env.Cfg, course),
					activity.CourseModule(ctx, env.Cfg, env.Res, course, cmid, activity.TypeModule),
				},
				Grouping: []xapi.Activity{activity.Site(env.Cfg)},
			},
		},
		Timestamp: evt.Timestamp(),
	}}, nil
}
