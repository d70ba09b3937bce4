package outreach

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/outreach-forge/internal/types"
)

// GenerationEvent captures telemetry for one finished generation.
type GenerationEvent struct {
	ControllerID uuid.UUID
	GenerationID uuid.UUID
	Model        string
	Tone         types.Tone
	Duration     time.Duration
	Success      bool
	Stage        FailureStage
	Err          error
}

// Observer receives generation events.
type Observer interface {
	ObserveGeneration(ctx context.Context, event GenerationEvent)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

// ObserveGeneration implements Observer.
func (NoopObserver) ObserveGeneration(context.Context, GenerationEvent) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes generation events to w as structured text.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) ObserveGeneration(ctx context.Context, event GenerationEvent) {
	attrs := []any{
		"controller", event.ControllerID.String(),
		"generation", event.GenerationID.String(),
		"model", event.Model,
		"tone", string(event.Tone),
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	}
	if event.Err != nil {
		attrs = append(attrs, "stage", string(event.Stage), "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "outreach_generation", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "outreach_generation", attrs...)
}
