package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pejotu/archicad-georef/internal/core/domain"
	"github.com/pejotu/archicad-georef/internal/core/ports"
)

// DefaultResolveCacheTTL is how long resolved metadata stays cached.
// EPSG records are effectively immutable; the bound just lets a corrected
// upstream record surface without a restart.
const DefaultResolveCacheTTL = 24 * 60 * 60

// ResolveService resolves an EPSG code to CRS metadata by folding an
// ordered list of sources left to right, filling only fields that are
// still empty. A failing source degrades to an empty partial result; the
// whole resolution fails only when no source produces a name.
type ResolveService struct {
	sources  []ports.CRSSource
	cache    ports.CacheService
	cacheTTL int
}

// NewResolveService creates a resolver over the given sources, tried in
// order. cache may be nil.
func NewResolveService(sources []ports.CRSSource, cache ports.CacheService) *ResolveService {
	return &ResolveService{sources: sources, cache: cache, cacheTTL: DefaultResolveCacheTTL}
}

// SetCacheTTL overrides the default cache TTL. Non-positive values are
// ignored.
func (s *ResolveService) SetCacheTTL(seconds int) {
	if seconds > 0 {
		s.cacheTTL = seconds
	}
}

// Resolve returns metadata for code, or *domain.ResolutionError when no
// source can name it. Later sources are skipped once both the name and the
// map zone are known; no single public source reliably supplies every
// field, so partial results are acceptable and left for manual correction.
func (s *ResolveService) Resolve(ctx context.Context, code int) (domain.CRSMetadata, error) {
	key := cacheKey(code)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var meta domain.CRSMetadata
			if err := json.Unmarshal(data, &meta); err == nil {
				return meta, nil
			}
		}
	}

	var merged domain.CRSMetadata
	for _, src := range s.sources {
		if merged.CRSName != "" && merged.MapZone != "" {
			break
		}
		meta, err := src.Lookup(ctx, code)
		if err != nil {
			// Degraded sub-result, not an error: one source having
			// nothing must not block a best-effort resolution.
			slog.Debug("crs source lookup failed", "source", src.Name(), "code", code, "error", err)
			continue
		}
		merged.Merge(meta)
	}

	if merged.CRSName == "" {
		return domain.CRSMetadata{}, &domain.ResolutionError{Code: code}
	}

	if s.cache != nil {
		if data, err := json.Marshal(merged); err == nil {
			_ = s.cache.Set(ctx, key, data, s.cacheTTL)
		}
	}

	return merged, nil
}

// Invalidate drops the cached metadata for code, forcing the next Resolve
// to query the sources again. A nil cache makes this a no-op.
func (s *ResolveService) Invalidate(ctx context.Context, code int) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, cacheKey(code))
}

func cacheKey(code int) string { return fmt.Sprintf("crs:meta:%d", code) }
