package ingestion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	corecfg "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/core/config"
	httperr "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/core/errors"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/lms"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer/events"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

type recordingSink struct {
	batches [][]xapi.Statement
	err     error
}

func (s *recordingSink) Emit(_ context.Context, statements []xapi.Statement) error {
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, statements)
	return nil
}

func newTestRouter(t *testing.T, sink *recordingSink, maxBodyMB int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &corecfg.Config{
		Source: corecfg.SourceConfig{
			AppURL: "https://lms.example.edu",
			Name:   "Example LMS",
			Lang:   "en",
		},
	}

	repo := lms.NewMemoryRepository()
	repo.Insert("user", lms.Record{"id": int64(1), "username": "guest", "firstname": "Guest", "lastname": "User"})
	repo.Insert("user", lms.Record{"id": int64(5), "username": "jdoe", "firstname": "Jane", "lastname": "Doe"})
	repo.Insert("course", lms.Record{"id": int64(1), "fullname": "Site course", "lang": "en"})

	d := transformer.NewDispatcher(cfg, repo, events.All(), 2)
	svc := NewService(d, sink, maxBodyMB)

	r := gin.New()
	svc.RegisterRoutes(r)
	return r
}

func postEvents(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIngestHandler_Success(t *testing.T) {
	sink := &recordingSink{}
	r := newTestRouter(t, sink, 1)

	w := postEvents(r, `[
		{"eventname": "\\core\\event\\user_loggedin", "userid": 5, "timecreated": 1700000000},
		{"eventname": "\\core\\event\\course_viewed", "userid": 5, "courseid": 1, "timecreated": 1700000001}
	]`)

	require.Equal(t, http.StatusOK, w.Code)

	var reply struct {
		Status     string `json:"status"`
		Events     int    `json:"events"`
		Statements int    `json:"statements"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	require.Equal(t, "transformed", reply.Status)
	require.Equal(t, 2, reply.Events)
	require.Equal(t, 2, reply.Statements)

	require.Len(t, sink.batches, 1)
	require.Len(t, sink.batches[0], 2)
	require.Equal(t, "https://wiki.haski.app/variables/xapi.loggedin", sink.batches[0][0].Verb.ID)
}

func TestIngestHandler_UnregisteredEventSkipped(t *testing.T) {
	sink := &recordingSink{}
	r := newTestRouter(t, sink, 1)

	w := postEvents(r, `[{"eventname": "\\local_plugin\\event\\custom", "userid": 5, "timecreated": 1700000000}]`)

	require.Equal(t, http.StatusOK, w.Code)

	var reply struct {
		Statements int `json:"statements"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	require.Zero(t, reply.Statements)
}

func TestIngestHandler_InvalidJSON(t *testing.T) {
	r := newTestRouter(t, &recordingSink{}, 1)

	w := postEvents(r, `{broken`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, httperr.HttpInvalidJsonError, resp.ErrorType)
}

func TestIngestHandler_ValidationFailure(t *testing.T) {
	r := newTestRouter(t, &recordingSink{}, 1)

	// Second event lacks timecreated; the whole batch is rejected.
	w := postEvents(r, `[
		{"eventname": "\\core\\event\\user_loggedin", "userid": 5, "timecreated": 1700000000},
		{"eventname": "\\core\\event\\user_loggedin", "userid": 5}
	]`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, httperr.HttpValidationError, resp.ErrorType)
	details := resp.Details.(map[string]interface{})
	require.EqualValues(t, 1, details["index"])
}

func TestIngestHandler_PayloadTooLarge(t *testing.T) {
	svcSink := &recordingSink{}
	gin.SetMode(gin.TestMode)

	cfg := &corecfg.Config{Source: corecfg.SourceConfig{AppURL: "https://lms.example.edu", Name: "x", Lang: "en"}}
	d := transformer.NewDispatcher(cfg, lms.NewMemoryRepository(), events.All(), 1)

	// Shrink the limit below the payload by constructing the service with
	// the smallest configurable size and sending > 1MB.
	svc := NewService(d, svcSink, 1)
	r := gin.New()
	svc.RegisterRoutes(r)

	big := `[{"eventname": "\\core\\event\\user_loggedin", "userid": 5, "timecreated": 1700000000, "other": "` +
		strings.Repeat("x", 2*1024*1024) + `"}]`

	w := postEvents(r, big)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var resp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, httperr.HttpPayloadTooLargeError, resp.ErrorType)
}

func TestIngestHandler_TransformFailure(t *testing.T) {
	// An empty repository makes actor resolution fail (no guest user row),
	// which fails the batch.
	gin.SetMode(gin.TestMode)
	cfg := &corecfg.Config{Source: corecfg.SourceConfig{AppURL: "https://lms.example.edu", Name: "x", Lang: "en"}}
	d := transformer.NewDispatcher(cfg, lms.NewMemoryRepository(), events.All(), 1)
	svc := NewService(d, &recordingSink{}, 1)
	r := gin.New()
	svc.RegisterRoutes(r)

	w := postEvents(r, `[{"eventname": "\\core\\event\\user_loggedin", "userid": 5, "timecreated": 1700000000}]`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, httperr.HttpTransformFailedError, resp.ErrorType)
}

func TestIngestHandler_SinkFailure(t *testing.T) {
	sink := &recordingSink{err: context.DeadlineExceeded}
	r := newTestRouter(t, sink, 1)

	w := postEvents(r, `[{"eventname": "\\core\\event\\user_loggedin", "userid": 5, "timecreated": 1700000000}]`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, httperr.HttpInternalError, resp.ErrorType)
}
