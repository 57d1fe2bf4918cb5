package events

import (
	"context"

	v1 "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/api/v1"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer/activity"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

// ForumModuleViewed reports a user opening a forum.
func ForumModuleViewed(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
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
		Object: activity.CourseForum(ctx, env.Cfg, env.Res, course, evt.ContextInstanceID),
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

// ForumDiscussionCreated reports a user opening a new discussion thread.
func ForumDiscussionCreated(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
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

	verb, err := transformer.Verb(transformer.VerbCreated, env.Cfg, lang)
	if err != nil {
		return nil, err
	}

	return []xapi.Statement{{
		Actor:  transformer.Actor(env.Cfg, user),
		Verb:   verb,
		Object: activity.CourseDiscussion(ctx, env.Cfg, env.Res, course, evt.ObjectID, cmid),
		Context: &xapi.Context{
			Platform:   env.Cfg.Source.Name,
			Language:   lang,
			Extensions: transformer.BaseExtensions(env.Cfg, evt, course),
			ContextActivities: &xapi.ContextActivities{
				Grouping: []xapi.Activity{
					activity.Site(env.Cfg),
					activity.Course(env.Cfg, course),
					activity.CourseForum(ctx, env.Cfg, env.Res, course, cmid),
				},
				Category: []xapi.Activity{activity.Source(env.Cfg)},
			},
		},
		Timestamp: evt.Timestamp(),
	}}, nil
}

// ForumPostUpdated reports an edit to a discussion post. The owning
// discussion id travels in the event payload; the edited post's rendered
// reply fragment becomes the result response.
func ForumPostUpdated(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	user, err := env.Res.User(ctx, evt.UserID)
	if err != nil {
		return nil, err
	}
	course, err := env.Res.Course(ctx, evt.CourseID)
	if err != nil {
		return nil, err
	}
	postID := evt.ObjectID
	cmid := evt.ContextInstanceID
	lang := transformer.CourseLang(env.Cfg, course)

	fields, _ := transformer.DecodeOther(evt.Other)
	discussionID := fields.Int("discussionid")

	return []xapi.Statement{{
		Actor: transformer.Actor(env.Cfg, user),
		Verb: xapi.Verb{
			ID:      "http://activitystrea.ms/schema/1.0/update",
			Display: xapi.Lang(lang, "updated"),
		},
		Object: activity.CourseDiscussion(ctx, env.Cfg, env.Res, course, discussionID, cmid),
		Result: &xapi.Result{
			Response: xapi.String(activity.ForumPostReply(ctx, env.Res, postID)),
		},
		Context: &xapi.Context{
			Platform:   env.Cfg.Source.Name,
			Language:   lang,
			Extensions: transformer.BaseExtensions(env.Cfg, evt, course),
			ContextActivities: &xapi.ContextActivities{
				Grouping: []xapi.Activity{
					activity.Site(env.Cfg),
					activity.Course(env.Cfg, course),
					activity.CourseForum(ctx, env.Cfg, env.Res, course, cmid),
				},
				Other: []xapi.Activity{
					activity.ForumDiscussionPost(ctx, env.Cfg, env.Res, discussionID, postID, cmid, lang),
				},
				Category: []xapi.Activity{activity.Source(env.Cfg)},
			},
		},
		Timestamp: evt.Timestamp(),
	}}, nil
}
