package geocoding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"double-paws/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("place not found")
	// ErrUpstream: el provider falló o devolvió algo que no se pudo leer.
	ErrUpstream = errors.New("geocoding provider failed")
)

const (
	DefaultDebounce = 300 * time.Millisecond
	DefaultLimit    = 5
	DefaultCacheTTL = 24 * time.Hour

	// Con menos letras el provider devuelve ruido.
	MinQueryLength = 3
)

type Options struct {
	Debounce time.Duration
	Limit    int
	CacheTTL time.Duration
	Log      logger.Logger
}

type Service struct {
	provider Provider
	cache    Cache // opcional
	debounce *Debouncer[[]Place]
	limit    int
	cacheTTL time.Duration
	log      logger.Logger
}

func NewService(provider Provider, cache Cache, opts Options) *Service {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Log == nil {
		opts.Log = logger.NewNop()
	}
	return &Service{
		provider: provider,
		cache:    cache,
		debounce: NewDebouncer[[]Place](opts.Debounce),
		limit:    opts.Limit,
		cacheTTL: opts.CacheTTL,
		log:      opts.Log.With(map[string]any{"component": "geocoding"}),
	}
}

// Search es el autocompletado mientras el usuario escribe. Las llamadas se
// agrupan por clientKey; una llamada reemplazada devuelve ErrSuperseded y una
// respuesta que llega tarde devuelve ErrStale. Los fallos del provider se
// loguean y dan lista vacía.
func (s *Service) Search(ctx context.Context, clientKey, query string) ([]Place, error) {
	q := normalizeQuery(query)
	if len([]rune(q)) < MinQueryLength {
		return []Place{}, nil
	}
	if clientKey == "" {
		clientKey = "anonymous"
	}

	return s.debounce.Do(ctx, clientKey, func(ctx context.Context) ([]Place, error) {
		places, err := s.search(ctx, q)
		if err != nil {
			s.log.Warn("geocode search failed", map[string]any{"query": q, "error": err})
			return []Place{}, nil
		}
		return places, nil
	})
}

// Lookup resuelve una dirección a su mejor coincidencia, sin debounce.
func (s *Service) Lookup(ctx context.Context, query string) (Place, error) {
	q := normalizeQuery(query)
	if q == "" {
		return Place{}, ErrInvalidInput
	}
	places, err := s.search(ctx, q)
	if err != nil {
		s.log.Warn("geocode lookup failed", map[string]any{"query": q, "error": err})
		return Place{}, err
	}
	if len(places) == 0 {
		return Place{}, ErrNotFound
	}
	return places[0], nil
}

func (s *Service) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Place{}, ErrInvalidInput
	}
	p, err := s.provider.Reverse(ctx, lat, lng)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("geocode reverse failed", map[string]any{"lat": lat, "lng": lng, "error": err})
		}
		return Place{}, err
	}
	return p, nil
}

func (s *Service) search(ctx context.Context, q string) ([]Place, error) {
	key := cacheKey(q, s.limit)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Debug("geocode cache get", map[string]any{"key": key, "error": err})
		} else if ok {
			return cached, nil
		}
	}

	places, err := s.provider.Search(ctx, q, s.limit)
	if err != nil {
		return nil, err
	}
	if places == nil {
		places = []Place{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, places, s.cacheTTL); err != nil {
			s.log.Debug("geocode cache set", map[string]any{"key": key, "error": err})
		}
	}
	return places, nil
}

func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

func cacheKey(q string, limit int) string {
	return fmt.Sprintf("search:%d:%s", limit, q)
}
