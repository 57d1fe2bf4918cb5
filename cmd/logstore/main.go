package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // Register postgres driver

	v1 "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/api/v1"
	corecfg "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/core/config"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/ingestion"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/lms"
	lmspg "github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/lms/postgres"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/migrations"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/server"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/sink"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer"
	"github.com/HASKI-RAK/Moodle-xAPI-Plugin/internal/transformer/events"
)

func main() {
	configPath := flag.String("config", "logstore.yaml", "Path to configuration file")
	batchPath := flag.String("events", "", "Transform a JSON event file and exit instead of serving HTTP")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"database_type", cfg.Database.Type,
		"sink_type", cfg.Sink.Type,
		"source", cfg.Source.Name)

	repo, lmsHealth, err := openRepository(cfg)
	if err != nil {
		slog.Error("Failed to initialize LMS record source", "error", err)
		os.Exit(1)
	}

	emitter, outboxDB, err := openSink(cfg)
	if err != nil {
		slog.Error("Failed to initialize sink", "error", err)
		os.Exit(1)
	}
	if outboxDB != nil {
		defer outboxDB.Close()
	}

	registry := events.All()
	dispatcher := transformer.NewDispatcher(cfg, repo, registry, cfg.Transform.WorkerCount)
	slog.Info("Dispatcher initialized",
		"event_types", len(registry),
		"worker_count", cfg.Transform.WorkerCount)

	if *batchPath != "" {
		if err := runBatch(cfg, dispatcher, emitter, *batchPath); err != nil {
			slog.Error("Batch run failed", "error", err, "file", *batchPath)
			os.Exit(1)
		}
		return
	}

	ingestionSvc := ingestion.NewService(dispatcher, emitter, cfg.Server.MaxBodySizeMB)

	deps := map[string]server.Pinger{"lms": lmsHealth}
	if outboxDB != nil {
		deps["outbox"] = outboxDB
	}
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), cfg.Server.Mode, deps)
	ingestionSvc.RegisterRoutes(srv.Engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// openRepository selects the LMS record source. The fixture backend exists
// for local runs and tests where no live LMS database is around.
func openRepository(cfg *corecfg.Config) (lms.Repository, server.Pinger, error) {
	switch cfg.Database.Type {
	case "postgres":
		adapter, err := lmspg.NewAdapter(
			cfg.Database.DSN,
			cfg.Database.TablePrefix,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
		)
		if err != nil {
			return nil, nil, err
		}
		return adapter, adapter, nil
	case "fixture":
		repo, err := lms.LoadFixture(cfg.Database.FixturePath)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Loaded LMS fixture", "path", cfg.Database.FixturePath)
		return repo, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type %q", cfg.Database.Type)
	}
}

// openSink builds the statement sink. The postgres outbox brings its own
// schema up through migrations before first use.
func openSink(cfg *corecfg.Config) (sink.Sink, *sql.DB, error) {
	switch cfg.Sink.Type {
	case "stdout":
		return sink.NewJSONWriter(os.Stdout, cfg.Sink.Pretty), nil, nil
	case "postgres":
		db, err := sql.Open("postgres", cfg.Sink.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open outbox database: %w", err)
		}
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pingCancel()
		if err := db.PingContext(pingCtx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping outbox database: %w", err)
		}
		if err := migrations.Run(db, cfg.Database.AutoMigrate); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate outbox schema: %w", err)
		}
		return sink.NewOutbox(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unsupported sink type %q", cfg.Sink.Type)
	}
}

// runBatch transforms one event file in a single pass. Used for replaying
// exported LMS logs without standing up the HTTP service.
func runBatch(cfg *corecfg.Config, d *transformer.Dispatcher, emitter sink.Sink, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read event file: %w", err)
	}

	var batch []*v1.Event
	if err := json.Unmarshal(raw, &batch); err != nil {
		return fmt.Errorf("parse event file: %w", err)
	}
	for i, evt := range batch {
		if evt == nil {
			return fmt.Errorf("event %d: null entry", i)
		}
		if err := evt.Validate(); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}

	ctx := context.Background()
	statements, err := d.TransformBatch(ctx, batch)
	if err != nil {
		return fmt.Errorf("transform batch: %w", err)
	}
	if err := emitter.Emit(ctx, statements); err != nil {
		return fmt.Errorf("emit statements: %w", err)
	}

	slog.Info("Batch transformed", "events", len(batch), "statements", len(statements))
	return nil
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
