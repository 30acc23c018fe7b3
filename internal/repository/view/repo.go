package view

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/nearwiki/internal/db"
	"github.com/kailas-cloud/nearwiki/internal/domain"
	domsession "github.com/kailas-cloud/nearwiki/internal/domain/session"
)

// DefaultKeyPrefix namespaces session keys.
const DefaultKeyPrefix = "nearwiki:"

// store is the consumer interface for view sessions (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/session.Repository as JSON blobs with a TTL.
type Repo struct {
	store  store
	prefix string
	ttl    time.Duration
}

// New creates a view session repository. Every Save refreshes the TTL.
func New(s store, prefix string, ttl time.Duration) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix, ttl: ttl}
}

// Save stores the session, replacing any previous version.
func (r *Repo) Save(ctx context.Context, s *domsession.Session) error {
	data, err := encodeSession(s)
	if err != nil {
		return err
	}
	if err := r.store.SetWithTTL(ctx, r.key(s.ID()), data, r.ttl); err != nil {
		return fmt.Errorf("save view %s: %w", s.ID(), err)
	}
	return nil
}

// Load reads a session. Missing or expired sessions return domain.ErrViewNotFound.
func (r *Repo) Load(ctx context.Context, id string) (*domsession.Session, error) {
	data, err := r.store.Get(ctx, r.key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrViewNotFound
		}
		return nil, fmt.Errorf("load view %s: %w", id, err)
	}
	s, err := decodeSession(data)
	if err != nil {
		return nil, fmt.Errorf("load view %s: %w", id, err)
	}
	return s, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("delete view %s: %w", id, err)
	}
	return nil
}

func (r *Repo) key(id string) string {
	return r.prefix + "view:" + id
}
