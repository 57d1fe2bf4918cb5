package events

import (
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer"
)

// All returns the registry mapping LMS event type identifiers to their
// transforms. Event types absent from this table are intentionally not
// transformed; the dispatcher skips them without error.
func All() map[string]transformer.Func {
	return map[string]transformer.Func{
		`\core\event\group_member_added`:            GroupMemberAdded,
		`\core\event\message_viewed`:                MessageViewed,
		`\core\event\user_loggedin`:                 UserLoggedIn,
		`\core\event\user_loggedout`:                UserLoggedOut,
		`\core\event\course_viewed`:                 CourseViewed,
		`\core\event\course_completed`:              CourseCompleted,
		`\core\event\course_category_viewed`:        CourseCategoryViewed,
		`\core\event\user_graded`:                   UserGraded,
		`\mod_quiz\event\attempt_started`:           QuizAttemptStarted,
		`\mod_quiz\event\attempt_abandoned`:         QuizAttemptAbandoned,
		`\mod_quiz\event\attempt_reviewed`:          QuizAttemptReviewed,
		`\mod_quiz\event\attempt_submitted`:         QuizAttemptSubmitted,
		`\mod_forum\event\course_module_viewed`:     ForumModuleViewed,
		`\mod_forum\event\discussion_created`:       ForumDiscussionCreated,
		`\mod_forum\event\post_updated`:             ForumPostUpdated,
		`\mod_feedback\event\response_submitted`:    FeedbackResponseSubmitted,
		`\mod_h5pactivity\event\statement_received`: H5PStatementReceived,
		`\mod_scorm\event\status_submitted`:         ScormStatusSubmitted,
		`\mod_scheduler\event\booking_removed`:      SchedulerBookingRemoved,
		`\mod_book\event\course_module_viewed`:      BookModuleViewed,
		`\mod_lesson\event\course_module_viewed`:    LessonModuleViewed,
		`\mod_wiki\event\page_diff_viewed`:          WikiPageDiffViewed,
	}
}
