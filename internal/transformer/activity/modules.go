package activity

import (
	"context"
	"fmt"

	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/core/config"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/lms"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

// Book builds the book module activity. The id points at the printable view
// of the whole book.
func Book(ctx context.Context, cfg *config.Config, res *lms.Resolver, bookID, cmid int64, lang string) xapi.Activity {
	name := fmt.Sprintf("book id %d", bookID)
	description := "deleted"

	book, err := res.Record(ctx, "book", bookID)
	if err == nil {
		name = "book " + book.Str("name")
		description = "the book activity"
		if cm, cmErr := res.Record(ctx, "course_modules", cmid); cmErr == nil {
			description = moduleDescription(cm, description)
		}
	}

	return xapi.Activity{
		ID: fmt.Sprintf("%s/mod/book/tool/print/index.php?id=%d", cfg.Source.AppURL, cmid),
		Definition: &xapi.Definition{
			Type:        TypeBook,
			Name:        xapi.Lang(lang, name),
			Description: xapi.Lang(lang, description),
		},
	}
}

// Lesson builds the lesson module activity.
func Lesson(ctx context.Context, cfg *config.Config, res *lms.Resolver, lessonID, cmid int64, lang string) xapi.Activity {
	name := fmt.Sprintf("lesson id %d", lessonID)
	description := "deleted"

	lesson, err := res.Record(ctx, "lesson", lessonID)
	if err == nil {
		name = lesson.Str("name")
		description = "the lesson activity"
		if cm, cmErr := res.Record(ctx, "course_modules", cmid); cmErr == nil {
			description = moduleDescription(cm, description)
		}
	}

	return xapi.Activity{
		ID: fmt.Sprintf("%s/mod/lesson/view.php?id=%d", cfg.Source.AppURL, cmid),
		Definition: &xapi.Definition{
			Type:        TypeLesson,
			Name:        xapi.Lang(lang, name),
			Description: xapi.Lang(lang, description),
		},
	}
}

// WikiPageDiff builds the activity for the comparison between two versions
// of a wiki page. The compared version numbers come from the event's "other"
// payload; a payload that parses as neither encoding degrades to empty
// version parameters.
func WikiPageDiff(ctx context.Context, cfg *config.Config, res *lms.Resolver, pageID int64, other string, lang string, cmid int64) xapi.Activity {
	name := fmt.Sprintf("wiki page id %d", pageID)
	description := "deleted"

	page, err := res.Record(ctx, "wiki_pages", pageID)
	if err == nil {
		name = "differences in " + page.Str("title")
		description = "differences between wiki pages"
		if cm, cmErr := res.Record(ctx, "course_modules", cmid); cmErr == nil {
			description = moduleDescription(cm, description)
		}
	}

	fields, _ := transformer.DecodeOther(other)
	compareWith := fields.Str("comparewith")
	compare := fields.Str("compare")

	return xapi.Activity{
		ID: fmt.Sprintf("%s/mod/wiki/diff.php?pageid=%d&comparewith=%s&compare=%s",
			cfg.Source.AppURL, pageID, compareWith, compare),
		Definition: &xapi.Definition{
			Type:        TypePage,
			Name:        xapi.Lang(lang, name),
			Description: xapi.Lang(lang, description),
		},
	}
}

// CourseFeedback builds the feedback module activity.
func CourseFeedback(ctx context.Context, cfg *config.Config, res *lms.Resolver, course lms.Record, cmid int64) xapi.Activity {
	lang := transformer.CourseLang(cfg, course)

	name := fmt.Sprintf("feedback id %d", cmid)
	description := "deleted"

	cm, err := res.Record(ctx, "course_modules", cmid)
	if err == nil {
		feedback, ferr := res.Record(ctx, "feedback", cm.Int("instance"))
		if ferr == nil {
			if n := feedback.Str("name"); n != "" {
				name = n
			}
			description = moduleDescription(cm, "the feedback activity")
		}
	}

	return xapi.Activity{
		ID: fmt.Sprintf("%s/mod/feedback/view.php?id=%d", cfg.Source.AppURL, cmid),
		Definition: &xapi.Definition{
			Type:        TypeSurvey,
			Name:        xapi.Lang(lang, name),
			Description: xapi.Lang(lang, description),
		},
	}
}

// CourseScorm builds the SCORM package activity.
func CourseScorm(ctx context.Context, cfg *config.Config, res *lms.Resolver, cmid, scormID int64, lang string) xapi.Activity {
	name := fmt.Sprintf("scorm id %d", scormID)
	description := "deleted"

	scorm, err := res.Record(ctx, "scorm", scormID)
	if err == nil {
		name = scorm.Str("name")
		description = "the scorm activity"
		if cm, cmErr := res.Record(ctx, "course_modules", cmid); cmErr == nil {
			description = moduleDescription(cm, description)
		}
	}

	return xapi.Activity{
		ID: fmt.Sprintf("%s/mod/scorm/view.php?id=%d", cfg.Source.AppURL, cmid),
		Definition: &xapi.Definition{
			Type:        TypeModule,
			Name:        xapi.Lang(lang, name),
			Description: xapi.Lang(lang, description),
		},
	}
}

// Booking builds the scheduler booking activity.
func Booking(ctx context.Context, cfg *config.Config, res *lms.Resolver, cmid int64, lang string) xapi.Activity {
	name := fmt.Sprintf("booking id %d", cmid)
	description := "deleted"

	cm, err := res.Record(ctx, "course_modules", cmid)
	if err == nil {
		scheduler, serr := res.Record(ctx, "scheduler", cm.Int("instance"))
		if serr == nil {
			if n := scheduler.Str("name"); n != "" {
				name = n
			}
			description = moduleDescription(cm, "the scheduler booking")
		}
	}

	return xapi.Activity{
		ID: fmt.Sprintf("%s/mod/scheduler/view.php?id=%d", cfg.Source.AppURL, cmid),
		Definition: &xapi.Definition{
			Type:        TypeMeeting,
			Name:        xapi.Lang(lang, name),
			Description: xapi.Lang(lang, description),
		},
	}
}

// H5PStatement builds the H5P content activity for a received statement,
// carrying the local content id as an extension.
func H5PStatement(ctx context.Context, cfg *config.Config, res *lms.Resolver, lang string, activityID, cmid int64) xapi.Activity {
	name := fmt.Sprintf("h5p activity id %d", activityID)
	description := "deleted"

	h5p, err := res.Record(ctx, "h5pactivity", activityID)
	if err == nil {
		if n := h5p.Str("name"); n != "" {
			name = n
		}
		description = "the h5p activity"
		if cm, cmErr := res.Record(ctx, "course_modules", cmid); cmErr == nil {
			description = moduleDescription(cm, description)
		}
	}

	return xapi.Activity{
		ID: fmt.Sprintf("%s/mod/h5pactivity/view.php?id=%d", cfg.Source.AppURL, cmid),
		Definition: &xapi.Definition{
			Type:        TypeInteraction,
			Name:        xapi.Lang(lang, name),
			Description: xapi.Lang(lang, description),
			Extensions:  xapi.Extensions{H5PContentIDIRI: activityID},
		},
	}
}
