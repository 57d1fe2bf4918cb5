// Package sink receives the ordered statement sequence the dispatcher
// produced and emits it. Sinks own final JSON encoding; the transformation
// core's obligation ends at the in-memory statements.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

// Sink consumes one transformed batch. Emit must preserve statement order.
type Sink interface {
	Emit(ctx context.Context, statements []xapi.Statement) error
}

// JSONWriter prints each batch as a JSON array to the underlying writer.
type JSONWriter struct {
	w      io.Writer
	pretty bool
}

// NewJSONWriter creates a JSONWriter sink. pretty selects indented output.
func NewJSONWriter(w io.Writer, pretty bool) *JSONWriter {
	return &JSONWriter{w: w, pretty: pretty}
}

// Emit writes the batch as one JSON array followed by a newline. Statements
// without an id get one assigned here, at the emission boundary.
func (s *JSONWriter) Emit(ctx context.Context, statements []xapi.Statement) error {
	for i := range statements {
		if statements[i].ID == "" {
			statements[i].ID = uuid.New().String()
		}
	}

	var (
		raw []byte
		err error
	)
	if s.pretty {
		raw, err = json.MarshalIndent(statements, "", "    ")
	} else {
		raw, err = json.Marshal(statements)
	}
	if err != nil {
		return fmt.Errorf("sink: marshal statements: %w", err)
	}

	if _, err := s.w.Write(append(raw, '\n')); err != nil {
		return fmt.Errorf("sink: write statements: %w", err)
	}
	return nil
}
