package view

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/nearwiki/internal/domain/mapview"
	"github.com/kailas-cloud/nearwiki/internal/domain/marker"
	"github.com/kailas-cloud/nearwiki/internal/domain/nearby"
	domsession "github.com/kailas-cloud/nearwiki/internal/domain/session"
)

// sessionDoc is the stored JSON form of a session.
type sessionDoc struct {
	ID        string          `json:"id"`
	View      mapview.State   `json:"view"`
	Markers   []marker.Marker `json:"markers"`
	Results   []nearby.Item   `json:"results"`
	UpdatedAt int64           `json:"updated_at"`
}

func encodeSession(s *domsession.Session) ([]byte, error) {
	doc := sessionDoc{
		ID:        s.ID(),
		View:      s.View().Snapshot(),
		Markers:   s.Markers(),
		Results:   s.Results(),
		UpdatedAt: s.UpdatedAt().UnixMilli(),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return data, nil
}

func decodeSession(data []byte) (*domsession.Session, error) {
	var doc sessionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	v, err := mapview.Restore(doc.View)
	if err != nil {
		return nil, fmt.Errorf("restore view: %w", err)
	}
	return domsession.Reconstruct(doc.ID, v, doc.Markers, doc.Results, time.UnixMilli(doc.UpdatedAt)), nil
}
