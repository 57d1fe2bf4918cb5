package transformer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/elliotchance/phpserialize"
)

// OtherFields is the normalized view of an event's "other" payload. Both
// encodings of an equivalent payload yield identical logical fields.
type OtherFields map[string]interface{}

// DecodeOther parses the event "other" payload. Older log records carry a
// legacy PHP-serialized mapping, newer ones a JSON object; legacy decoding is
// attempted first and JSON only when that fails, matching how the payloads
// were written over time.
//
// A payload that parses as neither returns empty fields alongside the error,
// so callers can degrade into their fallback paths instead of aborting the
// batch.
func DecodeOther(raw string) (OtherFields, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return OtherFields{}, nil
	}

	if legacy, err := phpserialize.UnmarshalAssociativeArray([]byte(raw)); err == nil {
		fields := make(OtherFields, len(legacy))
		for k, v := range legacy {
			fields[fmt.Sprint(k)] = v
		}
		return fields, nil
	}

	var fields OtherFields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return OtherFields{}, fmt.Errorf("other payload is neither serialized nor JSON: %w", err)
	}
	return fields, nil
}

// Int extracts a numeric sub-field. PHP serialization stores numbers both as
// integers and as numeric strings depending on the writing code path.
func (o OtherFields) Int(key string) int64 {
	v, ok := o[key]
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		i, _ := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i
	}
	return 0
}

// Str extracts a textual sub-field, empty when absent.
func (o OtherFields) Str(key string) string {
	v, ok := o[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
