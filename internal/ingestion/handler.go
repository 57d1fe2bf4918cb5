package ingestion

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/api/v1"
	httperr "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/core/errors"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/xapi"
)

const (
	msgReadBodyFailed  = "Failed to read request body"
	msgInvalidJSON     = "Invalid JSON body"
	msgTransformFailed = "Failed to transform event batch"
	msgEmitFailed      = "Failed to emit statements"
)

// ingestionError carries the structured HTTP error shape from a helper back
// to the handler. Helpers return this instead of writing to gin.Context
// directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// IngestHandler accepts a JSON array of LMS events, transforms the batch and
// forwards the statements to the sink. The whole batch succeeds or fails as
// one unit.
func (s *Service) IngestHandler(c *gin.Context) {
	events, payloadSize, err := s.parseEvents(c)
	if err != nil {
		writeError(c, err)
		return
	}

	slog.Info("Received event batch",
		"events", len(events),
		"payload_size", payloadSize)

	statements, err := s.transformBatch(c, events)
	if err != nil {
		writeError(c, err)
		return
	}

	if emitErr := s.sink.Emit(c.Request.Context(), statements); emitErr != nil {
		slog.Error("Failed to emit statements", "error", emitErr, "statements", len(statements))
		writeError(c, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgEmitFailed,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "transformed",
		"events":     len(events),
		"statements": len(statements),
	})
}

// parseEvents reads the raw request body and binds it into a slice of
// events. Returns the parsed events and the raw payload size.
func (s *Service) parseEvents(c *gin.Context) ([]*v1.Event, int, *ingestionError) {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, 0, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpPayloadTooLargeError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	var events []*v1.Event
	if err := json.Unmarshal(bodyBytes, &events); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	for i := range events {
		if events[i] == nil {
			return nil, len(bodyBytes), &ingestionError{
				statusCode: http.StatusBadRequest,
				errorType:  httperr.HttpInvalidJsonError,
				message:    msgInvalidJSON,
				details:    map[string]interface{}{"index": i},
			}
		}
		if err := events[i].Validate(); err != nil {
			slog.Warn("Event validation failed", "error", err, "index", i)
			return nil, len(bodyBytes), &ingestionError{
				statusCode: http.StatusBadRequest,
				errorType:  httperr.HttpValidationError,
				message:    err.Error(),
				details:    map[string]interface{}{"index": i},
			}
		}
	}

	return events, len(bodyBytes), nil
}

// transformBatch runs the dispatcher over the batch. An unknown verb means a
// registered transformer produced something the verb catalog cannot name,
// which is a deployment defect rather than bad input.
func (s *Service) transformBatch(c *gin.Context, events []*v1.Event) ([]xapi.Statement, *ingestionError) {
	statements, err := s.dispatcher.TransformBatch(c.Request.Context(), events)
	if err != nil {
		var unknownVerb *transformer.UnknownVerbError
		if errors.As(err, &unknownVerb) {
			slog.Error("Unknown verb in batch", "verb", unknownVerb.Key)
			return nil, &ingestionError{
				statusCode: http.StatusInternalServerError,
				errorType:  httperr.HttpTransformFailedError,
				message:    err.Error(),
				details:    map[string]interface{}{"verb": unknownVerb.Key},
			}
		}

		slog.Error("Batch transformation failed", "error", err, "events", len(events))
		return nil, &ingestionError{
			statusCode: http.StatusUnprocessableEntity,
			errorType:  httperr.HttpTransformFailedError,
			message:    msgTransformFailed,
		}
	}
	return statements, nil
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
