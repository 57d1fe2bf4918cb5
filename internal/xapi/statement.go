// Package xapi defines the in-memory shape of an xAPI statement as produced
// by the event transformers. The sink owns final JSON encoding; every type
// here marshals directly to the xAPI wire format.
package xapi

// LanguageMap holds localized display text keyed by language tag.
// Localized fields are always maps, never bare strings.
type LanguageMap map[string]string

// Lang builds a single-entry language map. Statements are single-language:
// the course language (or the configured source language) keys every
// localized field of one statement.
func Lang(lang, text string) LanguageMap {
	return LanguageMap{lang: text}
}

// Extensions is an open mapping of extension URI to value.
type Extensions map[string]interface{}

// Account identifies an agent on a specific platform.
type Account struct {
	HomePage string `json:"homePage"`
	Name     string `json:"name"`
}

// Agent is the actor of a statement (or the team/instructor in context).
type Agent struct {
	Name    string   `json:"name,omitempty"`
	Account *Account `json:"account,omitempty"`
}

// Verb is the action taken, identified by URI plus localized display text.
type Verb struct {
	ID      string      `json:"id"`
	Display LanguageMap `json:"display,omitempty"`
}

// Definition describes the activity an object refers to.
type Definition struct {
	Type            string      `json:"type,omitempty"`
	Name            LanguageMap `json:"name,omitempty"`
	Description     LanguageMap `json:"description,omitempty"`
	InteractionType string      `json:"interactionType,omitempty"`
	Extensions      Extensions  `json:"extensions,omitempty"`
}

// Activity is the object of a statement: a stable URI id plus a typed
// definition. Also used inside contextActivities.
type Activity struct {
	ID         string      `json:"id"`
	Definition *Definition `json:"definition,omitempty"`
}

// Score carries the graded outcome of an activity. Fields are pointers so a
// known-absent value serializes as null rather than zero.
type Score struct {
	Raw    *float64 `json:"raw"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max"`
	Scaled *float64 `json:"scaled"`
}

// Result is the optional outcome block of a statement.
type Result struct {
	Score      *Score     `json:"score,omitempty"`
	Response   *string    `json:"response,omitempty"`
	Success    *bool      `json:"success,omitempty"`
	Completion *bool      `json:"completion,omitempty"`
	Duration   string     `json:"duration,omitempty"`
	Extensions Extensions `json:"extensions,omitempty"`
}

// ContextActivities relates the object to the course/module/site hierarchy.
type ContextActivities struct {
	Parent   []Activity `json:"parent,omitempty"`
	Grouping []Activity `json:"grouping,omitempty"`
	Category []Activity `json:"category,omitempty"`
	Other    []Activity `json:"other,omitempty"`
}

// Context is the relational metadata block of a statement.
type Context struct {
	Platform          string             `json:"platform,omitempty"`
	Team              *Agent             `json:"team,omitempty"`
	Language          string             `json:"language,omitempty"`
	Extensions        Extensions         `json:"extensions,omitempty"`
	ContextActivities *ContextActivities `json:"contextActivities,omitempty"`
}

// Statement is one complete "actor performed verb on object" record.
// ID is empty until the sink assigns one at emission time.
type Statement struct {
	ID        string   `json:"id,omitempty"`
	Actor     Agent    `json:"actor"`
	Verb      Verb     `json:"verb"`
	Object    Activity `json:"object"`
	Result    *Result  `json:"result,omitempty"`
	Context   *Context `json:"context,omitempty"`
	Timestamp string   `json:"timestamp"`
}

// Float returns a pointer to v, for optional score fields.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v, for optional result fields.
func Bool(v bool) *bool { return &v }

// String returns a pointer to v, for optional result fields.
func String(v string) *string { return &v }
