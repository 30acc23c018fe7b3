package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nearwiki/internal/domain"
	"github.com/kailas-cloud/nearwiki/internal/domain/geo"
	"github.com/kailas-cloud/nearwiki/internal/domain/marker"
	domnearby "github.com/kailas-cloud/nearwiki/internal/domain/nearby"
	domsession "github.com/kailas-cloud/nearwiki/internal/domain/session"
	"github.com/kailas-cloud/nearwiki/internal/logger"
	"github.com/kailas-cloud/nearwiki/internal/usecase/nearby"
)

// Service hosts map view sessions. Every call on a session holds that
// session's lock for its whole load-mutate-save cycle.
type Service struct {
	repo    Repository
	finder  Finder
	overlay Overlay
	locks   *keyedMutex
	now     func() time.Time
}

// New creates a session service.
func New(repo Repository, finder Finder, ov Overlay) *Service {
	return &Service{
		repo:    repo,
		finder:  finder,
		overlay: ov,
		locks:   newKeyedMutex(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create starts a session with an empty view showing extent.
func (s *Service) Create(ctx context.Context, extent geo.Extent) (*domsession.Session, error) {
	sess, err := domsession.New(extent, s.now())
	if err != nil {
		return nil, fmt.Errorf("create view: %w: %w", domain.ErrInvalidQuery, err)
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("create view: %w", err)
	}
	logger.FromContext(ctx).Info("view created", logger.ViewID(sess.ID()))
	return sess, nil
}

// Get returns a session.
func (s *Service) Get(ctx context.Context, id string) (*domsession.Session, error) {
	sess, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get view: %w", err)
	}
	return sess, nil
}

// Delete removes a session. A missing session returns domain.ErrViewNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	if _, err := s.repo.Load(ctx, id); err != nil {
		return fmt.Errorf("delete view: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete view: %w", err)
	}
	logger.FromContext(ctx).Info("view deleted", logger.ViewID(id))
	return nil
}

// SetExtent pans the view to extent.
func (s *Service) SetExtent(ctx context.Context, id string, extent geo.Extent) (*domsession.Session, error) {
	return s.mutate(ctx, id, "set extent", func(sess *domsession.Session) error {
		if err := sess.View().SetExtent(extent); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
		}
		return nil
	})
}

// Search runs the nearby pipeline on the current extent and replaces the
// session's markers with the new results. maxResults <= 0 uses the finder default.
// On failure the previous markers stay in place.
func (s *Service) Search(ctx context.Context, id string, maxResults int) (*domsession.Session, error) {
	return s.mutate(ctx, id, "search", func(sess *domsession.Session) error {
		v := sess.View()
		items, err := s.finder.FindNearbyItems(ctx, nearby.Options{View: v, MaxResults: maxResults})
		if err != nil {
			return err
		}
		s.overlay.ClearMarkers(v, sess.Markers())
		ms := s.overlay.AddMarkers(v, items)
		sess.SetResults(items, ms)
		return nil
	})
}

// Clear removes the session's markers from its view.
func (s *Service) Clear(ctx context.Context, id string) (*domsession.Session, error) {
	return s.mutate(ctx, id, "clear", func(sess *domsession.Session) error {
		s.overlay.ClearMarkers(sess.View(), sess.Markers())
		sess.ClearResults()
		return nil
	})
}

// Highlight moves the view to the marker of itemID and opens its popup.
// An unknown id returns domain.ErrMarkerNotFound and leaves the session unchanged.
func (s *Service) Highlight(
	ctx context.Context, id string, itemID domnearby.ItemID,
) (marker.Marker, *domsession.Session, error) {
	var mk marker.Marker
	sess, err := s.mutate(ctx, id, "highlight", func(sess *domsession.Session) error {
		var err error
		mk, err = s.overlay.HighlightMarker(ctx, sess.View(), itemID, sess.Markers())
		return err
	})
	if err != nil {
		return marker.Marker{}, nil, err
	}
	return mk, sess, nil
}

// mutate loads a session under its lock, applies fn and saves the result.
// Nothing is saved when fn fails.
func (s *Service) mutate(
	ctx context.Context, id, op string, fn func(*domsession.Session) error,
) (*domsession.Session, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	ctx = logger.With(ctx, logger.ViewID(id), logger.Op(op))
	sess, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := fn(sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sess.Touch(s.now())
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.FromContext(ctx).Debug("view updated", zap.Int("markers", len(sess.Markers())))
	return sess, nil
}
