package transformer

import (
	"strconv"
	"strings"

	v1 "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/api/v1"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/core/config"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/lms"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

// InfoExtensionIRI keys the event-origin info attached to every statement's
// context extensions.
const InfoExtensionIRI = "http://lrs.learninglocker.net/define/extensions/info"

// Actor projects a resolved user record into an xAPI agent. The account name
// is the numeric id unless the send_username flag selects the username.
func Actor(cfg *config.Config, user lms.Record) xapi.Agent {
	accountName := strconv.FormatInt(user.ID(), 10)
	if cfg.Flags.SendUsername {
		if username := user.Str("username"); username != "" {
			accountName = username
		}
	}

	name := strings.TrimSpace(user.Str("firstname") + " " + user.Str("lastname"))

	return xapi.Agent{
		Name: name,
		Account: &xapi.Account{
			HomePage: cfg.Source.AppURL,
			Name:     accountName,
		},
	}
}

// BaseExtensions builds the context extensions common to every statement:
// the originating event type and source platform, plus the owning course id
// when the event is course-scoped.
func BaseExtensions(cfg *config.Config, evt *v1.Event, course lms.Record) xapi.Extensions {
	info := map[string]interface{}{
		"event_name":  evt.EventName,
		"source_url":  cfg.Source.AppURL,
		"source_name": cfg.Source.Name,
	}
	if course != nil {
		info["course_id"] = course.ID()
	}
	return xapi.Extensions{InfoExtensionIRI: info}
}
