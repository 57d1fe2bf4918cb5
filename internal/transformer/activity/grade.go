package activity

import (
	"context"
	"fmt"

	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/core/config"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/lms"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

// TypeGrade classifies grade-item activities.
const TypeGrade = "http://www.tincanapi.co.uk/activitytypes/grade_classification"

// GradeItem builds the activity for one grade-book item.
func GradeItem(ctx context.Context, cfg *config.Config, res *lms.Resolver, itemID int64, lang string) xapi.Activity {
	name := fmt.Sprintf("grade item id %d", itemID)
	description := "deleted"

	item, err := res.Record(ctx, "grade_items", itemID)
	if err == nil {
		if n := item.Str("itemname"); n != "" {
			name = n
		}
		description = "the grade item"
	}

	return xapi.Activity{
		ID: fmt.Sprintf("%s/grade/edit/tree/item.php?id=%d", cfg.Source.AppURL, itemID),
		Definition: &xapi.Definition{
			Type:        TypeGrade,
			Name:        xapi.Lang(lang, name),
			Description: xapi.Lang(lang, description),
		},
	}
}
