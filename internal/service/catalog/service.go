package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"storefront/internal/cache"
	"storefront/internal/domain"
)

const (
	collectionsPageSize = 50
	pagesPageSize       = 50
)

type gateway interface {
	Products(ctx context.Context) ([]domain.Product, error)
	ProductByHandle(ctx context.Context, handle string) (*domain.Product, error)
	Collections(ctx context.Context, first int) ([]domain.Collection, error)
	Shop(ctx context.Context) (*domain.Shop, error)
	Pages(ctx context.Context, first int) ([]domain.Page, error)
	Policies(ctx context.Context) (*domain.Policies, error)
}

// Service reads catalog data through the storefront gateway. Shop info,
// pages and policies change rarely and are served through a TTL cache when
// one is configured; product and collection listings always hit the API.
type Service struct {
	gw    gateway
	cache cache.Cache
	ttl   time.Duration
	log   *logrus.Entry
}

func New(gw gateway, c cache.Cache, ttl time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		gw:    gw,
		cache: c,
		ttl:   ttl,
		log:   logger.WithField("component", "catalog"),
	}
}

func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	return s.gw.Products(ctx)
}

func (s *Service) ProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	return s.gw.ProductByHandle(ctx, handle)
}

func (s *Service) Collections(ctx context.Context) ([]domain.Collection, error) {
	return s.gw.Collections(ctx, collectionsPageSize)
}

func (s *Service) Shop(ctx context.Context) (*domain.Shop, error) {
	var shop domain.Shop
	if ok := s.cached(ctx, "shop", &shop); ok {
		return &shop, nil
	}
	fresh, err := s.gw.Shop(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, "shop", fresh)
	return fresh, nil
}

func (s *Service) Pages(ctx context.Context) ([]domain.Page, error) {
	var pages []domain.Page
	if ok := s.cached(ctx, "pages", &pages); ok {
		return pages, nil
	}
	fresh, err := s.gw.Pages(ctx, pagesPageSize)
	if err != nil {
		return nil, err
	}
	s.store(ctx, "pages", fresh)
	return fresh, nil
}

func (s *Service) Policies(ctx context.Context) (*domain.Policies, error) {
	var policies domain.Policies
	if ok := s.cached(ctx, "policies", &policies); ok {
		return &policies, nil
	}
	fresh, err := s.gw.Policies(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, "policies", fresh)
	return fresh, nil
}

// cached loads a JSON value from the cache into out, reporting whether a
// usable hit was found. Cache failures degrade to a miss.
func (s *Service) cached(ctx context.Context, operation string, out interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, s.cache.GenerateKey(operation, "all"))
	if err != nil {
		s.log.WithError(err).Warnf("cache get %s", operation)
		return false
	}
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.log.WithError(err).Warnf("cache decode %s", operation)
		return false
	}
	return true
}

func (s *Service) store(ctx context.Context, operation string, value interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.WithError(err).Warnf("cache encode %s", operation)
		return
	}
	if err := s.cache.Set(ctx, s.cache.GenerateKey(operation, "all"), string(raw), s.ttl); err != nil {
		s.log.WithError(err).Warnf("cache set %s", operation)
	}
}
