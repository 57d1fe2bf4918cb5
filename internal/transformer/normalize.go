package transformer

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/core/config"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/lms"
)

var stripPolicy = bluemonday.StrictPolicy()

// StripHTML removes markup from rich-text fields (question text,
// descriptions, post bodies) leaving plain display text.
func StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// CourseLang returns the course's configured language tag, or the source
// fallback language when the course carries none. It is the single language
// key for every localized field of the resulting statement.
func CourseLang(cfg *config.Config, course lms.Record) string {
	if lang := course.Str("lang"); lang != "" {
		return lang
	}
	return cfg.Source.Lang
}

// ISO8601Duration renders a duration in whole seconds as PT[hH][mM][sS].
// Zero components are omitted except that seconds always appear when hours
// and minutes are both zero, so a zero duration is "PT0S", never "PT".
func ISO8601Duration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	out := "PT"
	if h > 0 {
		out += fmt.Sprintf("%dH", h)
	}
	if m > 0 {
		out += fmt.Sprintf("%dM", m)
	}
	if s > 0 || (h == 0 && m == 0) {
		out += fmt.Sprintf("%dS", s)
	}
	return out
}
