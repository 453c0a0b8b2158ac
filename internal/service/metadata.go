package service

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"acadrepo/internal/doi"
)

// Resolver fetches bibliographic metadata from an external registry.
type Resolver interface {
	Lookup(ctx context.Context, id string) (*doi.Metadata, error)
}

// MetadataService defines DOI enrichment. It never persists anything.
type MetadataService interface {
	Lookup(ctx context.Context, id string) (*doi.Metadata, error)
}

type metadataService struct {
	resolver Resolver
	cache    *expirable.LRU[string, *doi.Metadata]
}

// NewMetadataService wraps resolver with an expiring LRU of successful lookups.
// size <= 0 disables caching.
func NewMetadataService(resolver Resolver, size int, ttl time.Duration) MetadataService {
	s := &metadataService{resolver: resolver}
	if size > 0 {
		s.cache = expirable.NewLRU[string, *doi.Metadata](size, nil, ttl)
	}
	return s
}

func (s *metadataService) Lookup(ctx context.Context, id string) (*doi.Metadata, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, doi.ErrNotFound
	}
	id = strings.Clone(id)
	key := strings.ToLower(id)

	if s.cache != nil {
		if m, ok := s.cache.Get(key); ok {
			doiCacheHits.Inc()
			return m, nil
		}
		doiCacheMisses.Inc()
	}

	m, err := s.resolver.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Add(key, m)
	}
	return m, nil
}
