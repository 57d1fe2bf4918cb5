// Package events holds one transform per supported LMS event type, grouped
// by source module. All() wires them into the dispatcher registry.
package events

import (
	"context"

	"github.com/shopspring/decimal"

	v1 "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/api/v1"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer/activity"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

// GroupMemberAdded reports a user being added to a course group. The actor
// is the added member (relateduserid), not the instructor who added them.
func GroupMemberAdded(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	member, err := env.Res.User(ctx, evt.RelatedUserID)
	if err != nil {
		return nil, err
	}
	course, err := env.Res.Course(ctx, evt.CourseID)
	if err != nil {
		return nil, err
	}
	lang := transformer.CourseLang(env.Cfg, course)

	return []xapi.Statement{{
		Actor: transformer.Actor(env.Cfg, member),
		Verb: xapi.Verb{
			ID:      "https://wiki.haski.app/add",
			Display: xapi.Lang(lang, "has been added in"),
		},
		Object: activity.Group(ctx, env.Cfg, env.Res, lang, evt.ObjectID),
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

// MessageViewed reports a user viewing a message. The object is a generic
// message placeholder; the sender travels as context.team.
func MessageViewed(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	viewer, err := env.Res.User(ctx, evt.UserID)
	if err != nil {
		return nil, err
	}
	sender, err := env.Res.User(ctx, evt.RelatedUserID)
	if err != nil {
		return nil, err
	}
	lang := env.Cfg.Source.Lang
	team := transformer.Actor(env.Cfg, sender)

	return []xapi.Statement{{
		Actor: transformer.Actor(env.Cfg, viewer),
		Verb: xapi.Verb{
			ID:      "https://wiki.haski.app/viewed",
			Display: xapi.Lang(lang, "viewed"),
		},
		Object: activity.Message(env.Cfg, lang),
		Context: &xapi.Context{
			Platform:   env.Cfg.Source.Name,
			Team:       &team,
			Language:   lang,
			Extensions: transformer.BaseExtensions(env.Cfg, evt, nil),
			ContextActivities: &xapi.ContextActivities{
				Parent:   []xapi.Activity{activity.Site(env.Cfg)},
				Grouping: []xapi.Activity{activity.Site(env.Cfg)},
			},
		},
		Timestamp: evt.Timestamp(),
	}}, nil
}

// UserLoggedIn reports a login against the site.
func UserLoggedIn(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	return userSession(ctx, env, evt, transformer.VerbLoggedIn)
}

// UserLoggedOut reports a logout.
func UserLoggedOut(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	return userSession(ctx, env, evt, transformer.VerbLoggedOut)
}

func userSession(ctx context.Context, env *transformer.Env, evt *v1.Event, verbKey string) ([]xapi.Statement, error) {
	user, err := env.Res.User(ctx, evt.UserID)
	if err != nil {
		return nil, err
	}
	lang := env.Cfg.Source.Lang

	verb, err := transformer.Verb(verbKey, env.Cfg, lang)
	if err != nil {
		return nil, err
	}

	return []xapi.Statement{{
		Actor:  transformer.Actor(env.Cfg, user),
		Verb:   verb,
		Object: activity.Site(env.Cfg),
		Context: &xapi.Context{
			Platform:   env.Cfg.Source.Name,
			Language:   lang,
			Extensions: transformer.BaseExtensions(env.Cfg, evt, nil),
			ContextActivities: &xapi.ContextActivities{
				Grouping: []xapi.Activity{activity.Site(env.Cfg)},
			},
		},
		Timestamp: evt.Timestamp(),
	}}, nil
}

// CourseViewed reports a user opening a course.
func CourseViewed(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
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
		Object: activity.Course(env.Cfg, course),
		Context: &xapi.Context{
			Platform:   env.Cfg.Source.Name,
			Language:   lang,
			Extensions: transformer.BaseExtensions(env.Cfg, evt, course),
			ContextActivities: &xapi.ContextActivities{
				Grouping: []xapi.Activity{activity.Site(env.Cfg)},
			},
		},
		Timestamp: evt.Timestamp(),
	}}, nil
}

// CourseCompleted reports a user completing a course. The completing user is
// relateduserid.
func CourseCompleted(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	user, err := env.Res.User(ctx, evt.RelatedUserID)
	if err != nil {
		return nil, err
	}
	course, err := env.Res.Course(ctx, evt.CourseID)
	if err != nil {
		return nil, err
	}
	lang := transformer.CourseLang(env.Cfg, course)

	verb, err := transformer.Verb(transformer.VerbCompleted, env.Cfg, lang)
	if err != nil {
		return nil, err
	}

	return []xapi.Statement{{
		Actor:  transformer.Actor(env.Cfg, user),
		Verb:   verb,
		Object: activity.Course(env.Cfg, course),
		Result: &xapi.Result{
			Completion: xapi.Bool(true),
		},
		Context: &xapi.Context{
			Platform:   env.Cfg.Source.Name,
			Language:   lang,
			Extensions: transformer.BaseExtensions(env.Cfg, evt, course),
			ContextActivities: &xapi.ContextActivities{
				Grouping: []xapi.Activity{activity.Site(env.Cfg)},
				Category: []xapi.Activity{activity.Source(env.Cfg)},
			},
		},
		Timestamp: evt.Timestamp(),
	}}, nil
}

// CourseCategoryViewed reports a user browsing a course category.
func CourseCategoryViewed(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	user, err := env.Res.User(ctx, evt.UserID)
	if err != nil {
		return nil, err
	}
	lang := env.Cfg.Source.Lang

	verb, err := transformer.Verb(transformer.VerbClicked, env.Cfg, lang)
	if err != nil {
		return nil, err
	}

	return []xapi.Statement{{
		Actor:  transformer.Actor(env.Cfg, user),
		Verb:   verb,
		Object: activity.CourseCategory(ctx, env.Cfg, env.Res, evt.ObjectID, lang),
		Context: &xapi.Context{
			Platform:   env.Cfg.Source.Name,
			Language:   lang,
			Extensions: transformer.BaseExtensions(env.Cfg, evt, nil),
			ContextActivities: &xapi.ContextActivities{
				Grouping: []xapi.Activity{activity.Site(env.Cfg)},
			},
		},
		Timestamp: evt.Timestamp(),
	}}, nil
}

// UserGraded reports a grade landing in the grade book for a user. The graded
// user is relateduserid; raw/min/max come from the grade item, the final
// grade from the event payload.
func UserGraded(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	user, err := env.Res.User(ctx, evt.RelatedUserID)
	if err != nil {
		return nil, err
	}
	course, err := env.Res.Course(ctx, evt.CourseID)
	if err != nil {
		return nil, err
	}
	lang := transformer.CourseLang(env.Cfg, course)

	verb, err := transformer.Verb(transformer.VerbScored, env.Cfg, lang)
	if err != nil {
		return nil, err
	}

	fields, _ := transformer.DecodeOther(evt.Other)
	itemID := fields.Int("itemid")

	score := gradeScore(ctx, env, fields, itemID)

	return []xapi.Statement{{
		Actor:  transformer.Actor(env.Cfg, user),
		Verb:   verb,
		Object: activity.GradeItem(ctx, env.Cfg, env.Res, itemID, lang),
		Result: &xapi.Result{
			Score:      score,
			Completion: xapi.Bool(true),
		},
		Context: &xapi.Context{
			Platform:   env.Cfg.Source.Name,
			Language:   lang,
			Extensions: transformer.BaseExtensions(env.Cfg, evt, course),
			ContextActivities: &xapi.ContextActivities{
				Parent:   []xapi.Activity{activity.Course(env.Cfg, course)},
				Grouping: []xapi.Activity{activity.Site(env.Cfg)},
				Category: []xapi.Activity{activity.Source(env.Cfg)},
			},
		},
		Timestamp: evt.Timestamp(),
	}}, nil
}

// gradeScore derives the score block from the event payload and the grade
// item's bounds. A vanished grade item yields raw-only; an unparsable final
// grade yields no score at all.
func gradeScore(ctx context.Context, env *transformer.Env, fields transformer.OtherFields, itemID int64) *xapi.Score {
	rawStr := fields.Str("finalgrade")
	raw, err := decimal.NewFromString(rawStr)
	if err != nil {
		return nil
	}

	rawF, _ := raw.Float64()
	score := &xapi.Score{Raw: xapi.Float(rawF)}

	item, err := env.Res.Record(ctx, "grade_items", itemID)
	if err != nil {
		return score
	}

	min, _ := item.Float("grademin")
	max, _ := item.Float("grademax")
	score.Min = xapi.Float(min)
	score.Max = xapi.Float(max)

	if max > 0 {
		scaled := raw.Div(decimal.NewFromFloat(max)).Round(4)
		scaledF, _ := scaled.Float64()
		score.Scaled = xapi.Float(scaledF)
	}
	return score
}
