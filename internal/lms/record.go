package lms

import (
	"strconv"
	"strings"
)

// Record is one row of an LMS table. The LMS schema is wide and varies per
// table, so records stay generic maps with typed accessors; transformers only
// read a handful of well-known columns from each table.
type Record map[string]interface{}

// ID returns the record's primary key, or 0 when absent.
func (r Record) ID() int64 {
	return r.Int("id")
}

// Str returns the named column as a string. Missing or nil columns normalize
// to the empty string so callers can compare and emit them directly.
func (r Record) Str(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		if s {
			return "1"
		}
		return "0"
	}
	return ""
}

// Int returns the named column as an integer. The LMS stores most numeric
// columns as integers but drivers and fixtures may surface them as floats or
// numeric strings.
func (r Record) Int(key string) int64 {
	v, ok := r[key]
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	case []byte:
		i, _ := strconv.ParseInt(strings.TrimSpace(string(n)), 10, 64)
		return i
	case string:
		i, _ := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i
	case bool:
		if n {
			return 1
		}
	}
	return 0
}

// Float returns the named column as a float and whether it was present.
func (r Record) Float(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// Bool reports whether the named column holds a truthy value. Flag columns
// such as deletioninprogress are stored as 0/1 integers.
func (r Record) Bool(key string) bool {
	return r.Int(key) != 0
}

// Has reports whether the named column exists on the record at all,
// regardless of value.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}
