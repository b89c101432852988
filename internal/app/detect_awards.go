package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/guildhall/mmoawards/internal/domain"
	"github.com/guildhall/mmoawards/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type eventHistory interface {
	KillExists(ctx context.Context, query domain.KillQuery) (bool, error)
	CountKills(ctx context.Context, query domain.KillQuery) (int, error)
}

type awardGranter interface {
	GrantAward(ctx context.Context, grant domain.AwardGrant) (domain.Award, error)
}

// DetectionResult is the outcome of running the award rules for one event.
// Err is for logging and reporting only. It must never fail the write that created the event.
type DetectionResult struct {
	Granted []domain.Award
	Err     error
}

type DetectAwards func(ctx context.Context, event domain.Event) DetectionResult

type detectionMetrics struct {
	grantedCount      metric.Int64Counter
	detectionFailures metric.Int64Counter
}

func setupDetectionMetrics(meter metric.Meter) (detectionMetrics, error) {
	grantedCount, err := meter.Int64Counter(
		"awards/granted_count",
		metric.WithDescription("Number of awards granted by the rule engine"),
	)
	if err != nil {
		return detectionMetrics{}, fmt.Errorf("failed to create granted count metric: %w", err)
	}

	detectionFailures, err := meter.Int64Counter(
		"awards/detection_failures",
		metric.WithDescription("Number of events where award detection was abandoned"),
	)
	if err != nil {
		return detectionMetrics{}, fmt.Errorf("failed to create detection failures metric: %w", err)
	}

	return detectionMetrics{
		grantedCount:      grantedCount,
		detectionFailures: detectionFailures,
	}, nil
}

type detector struct {
	resolve ResolvePlayer
	history eventHistory
	awards  awardGranter

	metrics detectionMetrics
	tracer  trace.Tracer
}

// detection holds the state of a single run of the rules over one event
type detection struct {
	*detector
	event   domain.Event
	granted []domain.Award
}

func BuildDetectAwards(resolve ResolvePlayer, history eventHistory, awards awardGranter) (DetectAwards, error) {
	const name = "mmoawards/app/detect_awards"

	metrics, err := setupDetectionMetrics(otel.Meter(name))
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}

	d := &detector{
		resolve: resolve,
		history: history,
		awards:  awards,
		metrics: metrics,
		tracer:  otel.Tracer(name),
	}

	return d.detect, nil
}

func (d *detector) detect(ctx context.Context, event domain.Event) (result DetectionResult) {
	ctx, span := d.tracer.Start(ctx, "DetectAwards")
	defer span.End()

	run := &detection{detector: d, event: event}

	defer func() {
		if r := recover(); r != nil {
			result = DetectionResult{
				Granted: run.granted,
				Err:     fmt.Errorf("award detection panicked: %v", r),
			}
		}
		if result.Err != nil {
			d.metrics.detectionFailures.Add(ctx, 1, metric.WithAttributes(
				attribute.String("event_type", string(event.Type)),
			))
		}
	}()

	var err error
	switch event.Type {
	case domain.EventTypeDungeonClear:
		err = run.dungeonClear(ctx)
	case domain.EventTypePlayerKill:
		err = run.kill(ctx)
	default:
		// No rules for other event types
	}

	return DetectionResult{Granted: run.granted, Err: err}
}

// grant stores the award unless it is already present
func (r *detection) grant(ctx context.Context, grant domain.AwardGrant) error {
	award, err := r.awards.GrantAward(ctx, grant)
	if errors.Is(err, domain.ErrAwardAlreadyGranted) {
		return nil
	} else if err != nil {
		// NOTE: The repository reports its own errors
		return fmt.Errorf("failed to grant %s to %s: %w", grant.Type, grant.PlayerID, err)
	}

	r.metrics.grantedCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("award_type", string(award.Type)),
	))
	logging.FromContext(ctx).InfoContext(
		ctx, "Granted award",
		"awardID", award.ID,
		"awardType", string(award.Type),
		"awardPlayerID", award.PlayerID,
	)

	r.granted = append(r.granted, award)
	return nil
}
