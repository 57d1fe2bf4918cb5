package events

import (
	"context"

	v1 "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/api/v1"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer/activity"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

// BookModuleViewed reports a user opening a book activity.
func BookModuleViewed(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	return moduleViewed(ctx, env, evt, func(ctx context.Context, lang string) xapi.Activity {
		return activity.Book(ctx, env.Cfg, env.Res, evt.ObjectID, evt.ContextInstanceID, lang)
	})
}

// LessonModuleViewed reports a user opening a lesson activity.
func LessonModuleViewed(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	return moduleViewed(ctx, env, evt, func(ctx context.Context, lang string) xapi.Activity {
		return activity.Lesson(ctx, env.Cfg, env.Res, evt.ObjectID, evt.ContextInstanceID, lang)
	})
}

// WikiPageDiffViewed reports a user comparing two versions of a wiki page.
// The compared version numbers travel in the event payload.
func WikiPageDiffViewed(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	return moduleViewed(ctx, env, evt, func(ctx context.Context, lang string) xapi.Activity {
		return activity.WikiPageDiff(ctx, env.Cfg, env.Res, evt.ObjectID, evt.Other, lang, evt.ContextInstanceID)
	})
}

// moduleViewed is the shared shape of the module "viewed" transforms: actor,
// clicked verb, builder-supplied object, course parent and site grouping.
func moduleViewed(ctx context.Context, env *transformer.Env, evt *v1.Event, object func(context.Context, string) xapi.Activity) ([]xapi.Statement, error) {
	user, err := env.Res.User(ctx, evt.UserID)
	if err != nil {
		return nil, err
	}
	course, err := env.Res.Course(ctx, evt.CourseID)
	if err != nil {
		return nil, err
	}
	lang := transformer.CourseLang(env.Cfg, course)

	verb, err := transformer.Verb(transformer.VerbClicked, env.Cfg, lang)
	if err != nil {
		return nil, err
	}

	return []xapi.Statement{{
		Actor:  transformer.Actor(env.Cfg, user),
		Verb:   verb,
		Object: object(ctx, lang),
		Context: &xapi.Context{
			Platform:   env.Cfg.Source.Name,
			Language:   lang,
			Extensions: transformer.BaseExtensions(env.Cfg, evt, course),
			ContextActivities: &xapi.ContextActivities{
				Parent:   []xapi.Activity{activity.Course(env.Cfg, course)},
				Grouping: []xapi.Activity{activity.Site(env.Cfg)},
			},
		},
		Timestamp: evt.Timestamp(),
	}}, nil
}
