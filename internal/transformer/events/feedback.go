package events

import (
	"context"
	"errors"
	"fmt"

	v1 "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/api/v1"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/lms"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer/activity"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

// FeedbackResponseSubmitted fans a submitted feedback response out into one
// statement per answered item of a supported item type. Responses whose
// backing rows are gone contribute no statements.
func FeedbackResponseSubmitted(ctx context.Context, env *transformer.Env, evt *v1.Event) ([]xapi.Statement, error) {
	if _, err := env.Res.Record(ctx, "feedback_completed", evt.ObjectID); err != nil {
		if errors.Is(err, lms.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	values, err := env.Res.Records(ctx, "feedback_value", lms.Query{
		Where:   map[string]interface{}{"completed": evt.ObjectID},
		OrderBy: "id",
	})
	if err != nil {
		return nil, err
	}

	var out []xapi.Statement
	for _, value := range values {
		item, ierr := env.Res.Record(ctx, "feedback_item", value.Int("item"))
		if ierr != nil {
			if errors.Is(ierr, lms.ErrNotFound) {
				continue
			}
			return nil, ierr
		}
		switch item.Str("typ") {
		case "textarea":
			statements, terr := FeedbackItemAnsweredTextarea(ctx, env, evt, value, item)
			if terr != nil {
				return nil, terr
			}
			out = append(out, statements...)
		}
	}
	return out, nil
}

// FeedbackItemAnsweredTextarea builds the statement for one answered
// textarea item. The response is the submitted text or empty string, and
// completion is true only for a non-empty response.
func FeedbackItemAnsweredTextarea(ctx context.Context, env *transformer.Env, evt *v1.Event, value, item lms.Record) ([]xapi.Statement, error) {
	user, err := env.Res.User(ctx, evt.UserID)
	if err != nil {
		return nil, err
	}
	course, err := env.Res.Course(ctx, evt.CourseID)
	if err != nil {
		return nil, err
	}
	lang := transformer.CourseLang(env.Cfg, course)
	response := value.Str("value")

	return []xapi.Statement{{
		Actor: transformer.Actor(env.Cfg, user),
		Verb: xapi.Verb{
			ID:      "http://adlnet.gov/expapi/verbs/answered",
			Display: xapi.Lang(lang, "answered"),
		},
		Object: xapi.Activity{
			ID: fmt.Sprintf("%s/mod/feedback/edit_item.php?id=%d", env.Cfg.Source.AppURL, item.ID()),
			Definition: &xapi.Definition{
				Type:            activity.TypeInteraction,
				Name:            xapi.Lang(lang, item.Str("name")),
				InteractionType: "long-fill-in",
			},
		},
		Result: &xapi.Result{
			Response:   xapi.String(response),
			Completion: xapi.Bool(response != ""),
		},
		Context: &xapi.Context{
			Platform:   env.Cfg.Source.Name,
			Language:   lang,
			Extensions: transformer.BaseExtensions(env.Cfg, evt, course),
			ContextActivities: &xapi.ContextActivities{
				Grouping: []xapi.Activity{
					activity.Site(env.Cfg),
					activity.Course(env.Cfg, course),
					activity.CourseFeedback(ctx, env.Cfg, env.Res, course, evt.ContextInstanceID),
				},
				Category: []xapi.Activity{activity.Source(env.Cfg)},
			},
		},
		Timestamp: evt.Timestamp(),
	}}, nil
}
