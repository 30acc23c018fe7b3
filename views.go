package nearwiki

import (
	"context"

	domnearby "github.com/kailas-cloud/nearwiki/internal/domain/nearby"
	sessionuc "github.com/kailas-cloud/nearwiki/internal/usecase/session"
)

// ViewService manages map view sessions.
type ViewService struct {
	svc *sessionuc.Service
}

// Create opens a view showing extent. A zero WKID means Web Mercator.
func (s *ViewService) Create(ctx context.Context, extent Extent) (View, error) {
	sess, err := s.svc.Create(ctx, toInternalExtent(extent))
	if err != nil {
		return View{}, err
	}
	return fromInternalSession(sess), nil
}

// Get returns the current state of a view.
func (s *ViewService) Get(ctx context.Context, id string) (View, error) {
	sess, err := s.svc.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	return fromInternalSession(sess), nil
}

// Delete drops a view.
func (s *ViewService) Delete(ctx context.Context, id string) error {
	return s.svc.Delete(ctx, id)
}

// SetExtent pans or zooms a view.
func (s *ViewService) SetExtent(ctx context.Context, id string, extent Extent) (View, error) {
	sess, err := s.svc.SetExtent(ctx, id, toInternalExtent(extent))
	if err != nil {
		return View{}, err
	}
	return fromInternalSession(sess), nil
}

// Search finds articles in the visible extent and replaces the view's markers.
// limit <= 0 uses the client default.
func (s *ViewService) Search(ctx context.Context, id string, limit int) (View, error) {
	sess, err := s.svc.Search(ctx, id, limit)
	if err != nil {
		return View{}, err
	}
	return fromInternalSession(sess), nil
}

// Clear removes all markers from a view.
func (s *ViewService) Clear(ctx context.Context, id string) (View, error) {
	sess, err := s.svc.Clear(ctx, id)
	if err != nil {
		return View{}, err
	}
	return fromInternalSession(sess), nil
}

// Highlight centers the view on the marker of itemID and opens its popup.
func (s *ViewService) Highlight(ctx context.Context, id string, itemID int64) (Marker, View, error) {
	mk, sess, err := s.svc.Highlight(ctx, id, domnearby.ItemID(itemID))
	if err != nil {
		return Marker{}, View{}, err
	}
	return toMarker(mk), fromInternalSession(sess), nil
}
