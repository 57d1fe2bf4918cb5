package transformer

import (
	"fmt"

	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/core/config"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

// Canonical verb keys of the catalog.
const (
	VerbCompleted = "completed"
	VerbLoggedIn  = "loggedin"
	VerbLoggedOut = "loggedout"
	VerbAnswered  = "answered"
	VerbScored    = "scored"
	VerbStarted   = "started"
	VerbCreated   = "created"
	VerbClicked   = "clicked"
	VerbReviewed  = "reviewed"
	VerbDeleted   = "deleted"
)

// UnknownVerbError signals a verb key absent from the catalog. It marks a
// code or config defect, not bad input data, and is never silently defaulted.
type UnknownVerbError struct {
	Key string
}

func (e *UnknownVerbError) Error() string {
	return fmt.Sprintf("unknown verb %q", e.Key)
}

type verbEntry struct {
	id      string
	display string

	// jiscID substitutes the verb id when the send_jisc_data flag is on.
	jiscID string
}

// "started" shares the clicked URI in the upstream vocabulary.
var verbCatalog = map[string]verbEntry{
	VerbCompleted: {id: "https://wiki.haski.app/variables/xapi.completed", display: "completed"},
	VerbLoggedIn: {
		id:      "https://wiki.haski.app/variables/xapi.loggedin",
		display: "logged into",
		jiscID:  "https://brindlewaye.com/xAPITerms/verbs/loggedin",
	},
	VerbLoggedOut: {
		id:      "https://wiki.haski.app/variables/xapi.loggedout",
		display: "logged out",
		jiscID:  "https://brindlewaye.com/xAPITerms/verbs/loggedout",
	},
	VerbAnswered: {id: "https://wiki.haski.app/variables/xapi.answered", display: "answered"},
	VerbScored:   {id: "http://adlnet.gov/expapi/verbs/scored", display: "attained grade for"},
	VerbStarted:  {id: "https://wiki.haski.app/variables/xapi.clicked", display: "started"},
	VerbCreated:  {id: "https://brindlewaye.com/xAPITerms/verbs/created", display: "created"},
	VerbClicked:  {id: "https://wiki.haski.app/variables/xapi.clicked", display: "clicked"},
	VerbReviewed: {id: "http://id.tincanapi.com/verb/reviewed", display: "reviewed"},
	VerbDeleted:  {id: "https://wiki.haski.app/variables/xapi.deleted", display: "deleted"},
}

// Verb looks up a canonical verb key and localizes its display text. An
// unrecognized key returns UnknownVerbError and aborts the transform.
func Verb(key string, cfg *config.Config, lang string) (xapi.Verb, error) {
	entry, ok := verbCatalog[key]
	if !ok {
		return xapi.Verb{}, &UnknownVerbError{Key: key}
	}

	id := entry.id
	if entry.jiscID != "" && cfg.Flags.SendJiscData {
		id = entry.jiscID
	}

	return xapi.Verb{
		ID:      id,
		Display: xapi.Lang(lang, entry.display),
	}, nil
}
