// Package ingestion exposes the event intake over HTTP. Batches of LMS
// events arrive as JSON arrays, run through the dispatcher, and the
// resulting statements go to the configured sink.
package ingestion

import (
	"github.com/gin-gonic/gin"

	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/sink"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer"
)

type Service struct {
	dispatcher       *transformer.Dispatcher
	sink             sink.Sink
	maxBodySizeBytes int
}

func NewService(d *transformer.Dispatcher, s sink.Sink, maxBodySizeMB int) *Service {
	if d == nil {
		panic("ingestion: dispatcher must not be nil")
	}
	if s == nil {
		panic("ingestion: sink must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		dispatcher:       d,
		sink:             s,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/events", s.IngestHandler)
}
