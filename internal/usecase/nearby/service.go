package nearby

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nearwiki/internal/domain/geo"
	domnearby "github.com/kailas-cloud/nearwiki/internal/domain/nearby"
	"github.com/kailas-cloud/nearwiki/internal/logger"
	"github.com/kailas-cloud/nearwiki/internal/metrics"
)

var tracer = otel.Tracer("nearwiki/usecase/nearby")

// Options selects how a search is derived.
// With View set, the center and radius come from the visible extent and
// Center/RadiusMeters are ignored. Otherwise Center and RadiusMeters are required.
type Options struct {
	View         View
	Center       geo.Point
	RadiusMeters int
	// MaxResults <= 0 uses the service default.
	MaxResults int
	// SpatialReference of the returned points. Zero means the view's
	// reference, or Web Mercator without a view.
	SpatialReference geo.SpatialReference
}

// Service runs the nearby discovery pipeline: radius, spatial search,
// enrichment, assembly. Stages run strictly in sequence.
type Service struct {
	searcher   SpatialSearcher
	enricher   Enricher
	defaultMax int
}

// New creates a nearby service. defaultMax <= 0 falls back to DefaultMaxResults.
func New(searcher SpatialSearcher, enricher Enricher, defaultMax int) *Service {
	if defaultMax <= 0 {
		defaultMax = domnearby.DefaultMaxResults
	}
	return &Service{searcher: searcher, enricher: enricher, defaultMax: defaultMax}
}

// FindNearbyItems returns the items around the requested location in search order.
// The first failing stage aborts the pipeline.
func (s *Service) FindNearbyItems(ctx context.Context, opts Options) ([]domnearby.Item, error) {
	ctx, span := tracer.Start(ctx, "nearby.FindNearbyItems")
	defer span.End()

	items, err := s.find(ctx, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.NearbyResults.Observe(float64(len(items)))
	logger.FromContext(ctx).Debug("nearby search complete", zap.Int("results", len(items)))
	return items, nil
}

func (s *Service) find(ctx context.Context, opts Options) ([]domnearby.Item, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.defaultMax
	}

	center, radius, target, err := s.derive(ctx, opts)
	if err != nil {
		return nil, err
	}

	q, err := domnearby.NewQuery(center, radius, maxResults)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	hits, err := traced(ctx, "nearby.search", func(ctx context.Context) ([]domnearby.SpatialHit, error) {
		return s.searcher.Search(ctx, q)
	}, attribute.Int("radius_m", q.RadiusMeters()), attribute.Int("limit", q.MaxResults()))
	if err != nil {
		return nil, fmt.Errorf("spatial search: %w", err)
	}

	ids := domnearby.IDs(hits)
	meta, err := traced(ctx, "nearby.enrich", func(ctx context.Context) (domnearby.Metadata, error) {
		return s.enricher.Enrich(ctx, ids, q.MaxResults())
	}, attribute.Int("ids", len(ids)))
	if err != nil {
		return nil, fmt.Errorf("enrich: %w", err)
	}

	items, err := traced(ctx, "nearby.assemble", func(_ context.Context) ([]domnearby.Item, error) {
		return domnearby.Assemble(hits, meta, geo.Reproject, target)
	})
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	return items, nil
}

// derive resolves center, radius and output reference from opts.
func (s *Service) derive(
	ctx context.Context, opts Options,
) (geo.Point, int, geo.SpatialReference, error) {
	if opts.View == nil {
		target := opts.SpatialReference
		if target == 0 {
			target = geo.WebMercator
		}
		if err := target.Validate(); err != nil {
			return geo.Point{}, 0, 0, err
		}
		return opts.Center, opts.RadiusMeters, target, nil
	}

	extent := opts.View.Extent()
	radius, err := traced(ctx, "nearby.radius", func(_ context.Context) (int, error) {
		return geo.EstimateRadius(extent, geo.Distance)
	})
	if err != nil {
		return geo.Point{}, 0, 0, fmt.Errorf("estimate radius: %w", err)
	}

	target := opts.SpatialReference
	if target == 0 {
		target = extent.SR
	}
	if err := target.Validate(); err != nil {
		return geo.Point{}, 0, 0, err
	}
	return extent.Center(), radius, target, nil
}

// traced runs fn inside a child span named stage.
func traced[T any](
	ctx context.Context, stage string, fn func(context.Context) (T, error), attrs ...attribute.KeyValue,
) (T, error) {
	ctx, span := tracer.Start(ctx, stage, trace.WithAttributes(attrs...))
	defer span.End()

	out, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}
