package activity

import (
	"context"
	"fmt"

	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/core/config"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/lms"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

// CourseForum builds the forum module activity.
func CourseForum(ctx context.Context, cfg *config.Config, res *lms.Resolver, course lms.Record, cmid int64) xapi.Activity {
	lang := transformer.CourseLang(cfg, course)

	name := fmt.Sprintf("forum id %d", cmid)
	description := "deleted"

	cm, err := res.Record(ctx, "course_modules", cmid)
	if err == nil {
		forum, ferr := res.Record(ctx, "forum", cm.Int("instance"))
		if ferr == nil {
			if n := forum.Str("name"); n != "" {
				name = n
			}
			description = moduleDescription(cm, "the forum activity")
		}
	}

	return xapi.Activity{
		ID: fmt.Sprintf("%s/mod/forum/view.php?id=%d", cfg.Source.AppURL, cmid),
		Definition: &xapi.Definition{
			Type:        TypeForum,
			Name:        xapi.Lang(lang, name),
			Description: xapi.Lang(lang, description),
		},
	}
}

// CourseDiscussion builds the forum-discussion activity.
func CourseDiscussion(ctx context.Context, cfg *config.Config, res *lms.Resolver, course lms.Record, discussionID, cmid int64) xapi.Activity {
	lang := transformer.CourseLang(cfg, course)

	name := fmt.Sprintf("discussion id %d", discussionID)
	description := "deleted"

	discussion, err := res.Record(ctx, "forum_discussions", discussionID)
	if err == nil {
		if n := discussion.Str("name"); n != "" {
			name = n
		}
		description = "the forum discussion"
	}

	return xapi.Activity{
		ID: fmt.Sprintf("%s/mod/forum/discuss.php?d=%d", cfg.Source.AppURL, discussionID),
		Definition: &xapi.Definition{
			Type:        TypeDiscussion,
			Name:        xapi.Lang(lang, name),
			Description: xapi.Lang(lang, description),
		},
	}
}

// ForumDiscussionPost builds the activity for one post inside a discussion.
func ForumDiscussionPost(ctx context.Context, cfg *config.Config, res *lms.Resolver, discussionID, postID, cmid int64, lang string) xapi.Activity {
	name := fmt.Sprintf("post id %d", postID)
	description := "deleted"

	post, err := res.Record(ctx, "forum_posts", postID)
	if err == nil {
		if subject := post.Str("subject"); subject != "" {
			name = subject
		}
		description = "the discussion post"
	}

	return xapi.Activity{
		ID: fmt.Sprintf("%s/mod/forum/discuss.php?d=%d#p%d", cfg.Source.AppURL, discussionID, postID),
		Definition: &xapi.Definition{
			Type:        TypeForumReply,
			Name:        xapi.Lang(lang, name),
			Description: xapi.Lang(lang, description),
		},
	}
}

// ForumPostReply renders the plain-text reply fragment of a post for use as
// a result response. A vanished post renders as "deleted".
func ForumPostReply(ctx context.Context, res *lms.Resolver, postID int64) string {
	post, err := res.Record(ctx, "forum_posts", postID)
	if err != nil {
		return "deleted"
	}
	return transformer.StripHTML(post.Str("message"))
}
