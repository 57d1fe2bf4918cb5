// Package activity constructs the xAPI object fragments for every
// referenceable entity kind. Each builder resolves its own sub-entities and
// applies its own deleted/missing fallback: a failed lookup still yields a
// valid, URL-addressable fragment whose name carries the requested id and
// whose description reads "deleted" (or "deletion in progress" when the
// owning course module is flagged). Lookup failures never escape a builder.
package activity

import (
	"context"
	"fmt"

	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/core/config"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/lms"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

// xAPI activity-type URIs.
const (
	TypeCourse      = "http://adlnet.gov/expapi/activities/course"
	TypeSite        = "http://id.tincanapi.com/activitytype/lms"
	TypeSource      = "http://id.tincanapi.com/activitytype/source"
	TypeCategory    = "http://id.tincanapi.com/activitytype/category"
	TypeModule      = "http://id.tincanapi.com/activitytype/lms/module"
	TypeBook        = "http://id.tincanapi.com/activitytype/book"
	TypeLesson      = "http://adlnet.gov/expapi/activities/lesson"
	TypePage        = "http://activitystrea.ms/schema/1.0/page"
	TypeForum       = "http://id.tincanapi.com/activitytype/forum"
	TypeDiscussion  = "http://id.tincanapi.com/activitytype/discussion"
	TypeForumReply  = "http://id.tincanapi.com/activitytype/forum-reply"
	TypeSurvey      = "http://id.tincanapi.com/activitytype/survey"
	TypeAssessment  = "http://adlnet.gov/expapi/activities/assessment"
	TypeAttempt     = "http://adlnet.gov/expapi/activities/attempt"
	TypeInteraction = "http://adlnet.gov/expapi/activities/cmi.interaction"
	TypeMeeting     = "http://id.tincanapi.com/activitytype/meeting"
	TypeGroup       = "http://activitystrea.ms/schema/1.0/group"
	TypeMessage     = "https://wiki.haski.app/variables/xapi.message"

	// H5PContentIDIRI carries the local H5P content id on h5p objects.
	H5PContentIDIRI = "https://h5p.org/x-api/h5p-local-content-id"

	// ExternalIDIRI carries the institution's external id-number on
	// course-module and group activities, gated by the
	// send_course_and_module_idnumber flag.
	ExternalIDIRI = "https://w3id.org/learning-analytics/learning-management-system/external-id"
)

const descDeletionInProgress = "deletion in progress"

// Course builds the course activity from an already-resolved course record.
// Callers resolve the course themselves (with the site-course fallback) so
// it can be shared across the object and context fragments of one statement.
func Course(cfg *config.Config, course lms.Record) xapi.Activity {
	lang := transformer.CourseLang(cfg, course)
	name := course.Str("fullname")
	if name == "" {
		name = fmt.Sprintf("course id %d", course.ID())
	}
	return xapi.Activity{
		ID: fmt.Sprintf("%s/course/view.php?id=%d", cfg.Source.AppURL, course.ID()),
		Definition: &xapi.Definition{
			Type: TypeCourse,
			Name: xapi.Lang(lang, name),
		},
	}
}

// Site builds the site-root activity used as the grouping anchor.
func Site(cfg *config.Config) xapi.Activity {
	return xapi.Activity{
		ID: cfg.Source.AppURL,
		Definition: &xapi.Definition{
			Type: TypeSite,
			Name: xapi.Lang(cfg.Source.Lang, cfg.Source.Name),
		},
	}
}

// Source builds the platform/source category activity.
func Source(cfg *config.Config) xapi.Activity {
	return xapi.Activity{
		ID: cfg.Source.AppURL,
		Definition: &xapi.Definition{
			Type: TypeSource,
			Name: xapi.Lang(cfg.Source.Lang, cfg.Source.Name),
		},
	}
}

// Message builds the generic message placeholder activity. No specific
// message identity is attached: message events only categorize the object.
func Message(cfg *config.Config, lang string) xapi.Activity {
	return xapi.Activity{
		ID: cfg.Source.AppURL + "/message/index.php",
		Definition: &xapi.Definition{
			Type: TypeMessage,
			Name: xapi.Lang(lang, "message"),
		},
	}
}

// CourseCategory builds the course-category activity.
func CourseCategory(ctx context.Context, cfg *config.Config, res *lms.Resolver, categoryID int64, lang string) xapi.Activity {
	var name, description string
	category, err := res.Record(ctx, "course_categories", categoryID)
	if err != nil {
		name = fmt.Sprintf("category id %d", categoryID)
		description = "deleted"
	} else {
		name = "course category " + category.Str("name")
		description = transformer.StripHTML(category.Str("description"))
	}

	return xapi.Activity{
		ID: fmt.Sprintf("%s/course/index.php?categoryid=%d", cfg.Source.AppURL, categoryID),
		Definition: &xapi.Definition{
			Type:        TypeCategory,
			Name:        xapi.Lang(lang, name),
			Description: xapi.Lang(lang, description),
		},
	}
}

// Group builds the course-group activity, optionally attaching the external
// id-number extension.
func Group(ctx context.Context, cfg *config.Config, res *lms.Resolver, lang string, groupID int64) xapi.Activity {
	var name, description string
	var ext xapi.Extensions

	group, err := res.Record(ctx, "groups", groupID)
	if err != nil {
		name = fmt.Sprintf("group id %d", groupID)
		description = "deleted"
	} else {
		name = group.Str("name")
		description = "the course group"
		if cfg.Flags.SendCourseAndModuleIDNumber {
			ext = xapi.Extensions{ExternalIDIRI: group.Str("idnumber")}
		}
	}

	return xapi.Activity{
		ID: fmt.Sprintf("%s/group/overview.php?id=%d", cfg.Source.AppURL, groupID),
		Definition: &xapi.Definition{
			Type:        TypeGroup,
			Name:        xapi.Lang(lang, name),
			Description: xapi.Lang(lang, description),
			Extensions:  ext,
		},
	}
}

// CourseModule builds a generic course-module activity of the given xAPI
// type, resolving the module kind and instance behind the course-module row.
// The external id-number extension is gated by config.
func CourseModule(ctx context.Context, cfg *config.Config, res *lms.Resolver, course lms.Record, cmid int64, xapiType string) xapi.Activity {
	lang := transformer.CourseLang(cfg, course)

	id := fmt.Sprintf("%s/mod/view.php?id=%d", cfg.Source.AppURL, cmid)
	name := fmt.Sprintf("module id %d", cmid)
	description := "deleted"
	var ext xapi.Extensions

	cm, err := res.Record(ctx, "course_modules", cmid)
	if err == nil {
		module, merr := res.Record(ctx, "modules", cm.Int("module"))
		if merr == nil {
			modname := module.Str("name")
			id = fmt.Sprintf("%s/mod/%s/view.php?id=%d", cfg.Source.AppURL, modname, cmid)

			instance, ierr := res.Record(ctx, modname, cm.Int("instance"))
			if ierr == nil {
				if n := instance.Str("name"); n != "" {
					name = n
				} else {
					name = modname
				}
				description = moduleDescription(cm, "the module "+modname+" of the course")
				if cfg.Flags.SendCourseAndModuleIDNumber {
					ext = xapi.Extensions{ExternalIDIRI: cm.Str("idnumber")}
				}
			}
		}
	}

	return xapi.Activity{
		ID: id,
		Definition: &xapi.Definition{
			Type:        xapiType,
			Name:        xapi.Lang(lang, name),
			Description: xapi.Lang(lang, description),
			Extensions:  ext,
		},
	}
}

// moduleDescription picks the normal description unless the course-module
// row is flagged for deletion.
func moduleDescription(cm lms.Record, normal string) string {
	if cm.Bool("deletioninprogress") {
		return descDeletionInProgress
	}
	return normal
}
