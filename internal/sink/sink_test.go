package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

func sampleStatements() []xapi.Statement {
	return []xapi.Statement{
		{
			Actor:     xapi.Agent{Name: "Jane Doe"},
			Verb:      xapi.Verb{ID: "https://wiki.haski.app/variables/xapi.clicked"},
			Object:    xapi.Activity{ID: "https://lms.example.edu/course/view.php?id=3"},
			Timestamp: "2023-11-14T22:13:20Z",
		},
		{
			Actor:     xapi.Agent{Name: "Bob Smith"},
			Verb:      xapi.Verb{ID: "https://wiki.haski.app/variables/xapi.completed"},
			Object:    xapi.Activity{ID: "https://lms.example.edu/course/view.php?id=3"},
			Timestamp: "2023-11-14T22:14:00Z",
		},
	}
}

func TestJSONWriter_Emit(t *testing.T) {
	var buf bytes.Buffer
	s := NewJSONWriter(&buf, false)

	require.NoError(t, s.Emit(context.Background(), sampleStatements()))

	var decoded []xapi.Statement
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)

	// Order is preserved and every statement got an id.
	require.Equal(t, "Jane Doe", decoded[0].Actor.Name)
	require.Equal(t, "Bob Smith", decoded[1].Actor.Name)
	for _, stmt := range decoded {
		_, err := uuid.Parse(stmt.ID)
		require.NoError(t, err)
	}
	require.NotEqual(t, decoded[0].ID, decoded[1].ID)
}

func TestJSONWriter_EmitPretty(t *testing.T) {
	var buf bytes.Buffer
	s := NewJSONWriter(&buf, true)

	require.NoError(t, s.Emit(context.Background(), sampleStatements()))
	require.Contains(t, buf.String(), "\n    ")
	require.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}

func TestJSONWriter_KeepsExistingID(t *testing.T) {
	statements := sampleStatements()
	statements[0].ID = "11111111-1111-1111-1111-111111111111"

	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter(&buf, false).Emit(context.Background(), statements))

	var decoded []xapi.Statement
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "11111111-1111-1111-1111-111111111111", decoded[0].ID)
}

func TestJSONWriter_EmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter(&buf, false).Emit(context.Background(), nil))
	require.Equal(t, "null\n", buf.String())
}
