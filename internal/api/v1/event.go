package v1

import (
	"fmt"
	"time"
)

// Event is one raw LMS log record, the input unit of the transformation
// pipeline. Field names mirror the LMS log store columns. The event is owned
// by the caller and read-only to the core.
type Event struct {
	// EventName is the LMS event type identifier, e.g.
	// "\\mod_quiz\\event\\attempt_abandoned". It keys the transformer
	// registry lookup.
	EventName string `json:"eventname"`

	// UserID is the acting user. RelatedUserID is the affected user for
	// events done to someone (group membership, grading, quiz review).
	// Either may be absent, zero or negative; values below 2 resolve to the
	// guest placeholder wherever used as an actor reference.
	UserID        int64 `json:"userid"`
	RelatedUserID int64 `json:"relateduserid"`

	// CourseID, ObjectID and ContextInstanceID are entity references whose
	// meaning depends on the event type. ContextInstanceID is the course
	// module id for module-level events.
	CourseID          int64 `json:"courseid"`
	ObjectID          int64 `json:"objectid"`
	ContextInstanceID int64 `json:"contextinstanceid"`

	// Other is an opaque per-event payload: either a legacy PHP-serialized
	// mapping or a JSON object, schema varying per event type.
	Other string `json:"other"`

	// TimeCreated is when the event happened, in epoch seconds.
	TimeCreated int64 `json:"timecreated"`
}

// Validate ensures the event carries the attributes every transform needs.
func (e *Event) Validate() error {
	if e.EventName == "" {
		return fmt.Errorf("eventname is required")
	}
	if e.TimeCreated <= 0 {
		return fmt.Errorf("timecreated is required")
	}
	return nil
}

// Timestamp renders the event time as an ISO-8601 UTC timestamp for the
// statement's timestamp field.
func (e *Event) Timestamp() string {
	return time.Unix(e.TimeCreated, 0).UTC().Format(time.RFC3339)
}
