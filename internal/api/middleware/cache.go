package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/navina/travelguide/internal/domain/providers"
	"github.com/navina/travelguide/internal/infrastructure/observability"
)

const responseCachePrefix = "http:cache:"

// CacheRule enables response caching for a path
type CacheRule struct {
	// Path matches exactly, or as a prefix when it ends in "/"
	Path string
	// Exclude lists exact paths the rule does not cover
	Exclude    []string
	TTLSeconds int
}

// DefaultCacheRules caches reads of POI and tour records. Proximity and
// recommendation results depend on the caller and are not cached.
func DefaultCacheRules() []CacheRule {
	return []CacheRule{
		{Path: "/api/pois", TTLSeconds: 300},
		{Path: "/api/pois/", Exclude: []string{"/api/pois/nearby"}, TTLSeconds: 600},
		{Path: "/api/tours/", Exclude: []string{"/api/tours/recommended"}, TTLSeconds: 600},
	}
}

// CacheMiddleware provides HTTP response caching
type CacheMiddleware struct {
	cache   providers.CacheProvider
	rules   []CacheRule
	metrics *observability.Metrics
}

// NewCacheMiddleware creates a new cache middleware. A nil cache disables it.
func NewCacheMiddleware(cache providers.CacheProvider, rules []CacheRule, metrics *observability.Metrics) *CacheMiddleware {
	return &CacheMiddleware{
		cache:   cache,
		rules:   rules,
		metrics: metrics,
	}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		rule, ok := m.ruleFor(r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		logger := observability.LoggerFromContext(ctx)
		cacheKey := m.cacheKey(r)

		if cached, err := m.cache.Get(ctx, cacheKey); err == nil {
			observability.RecordCacheHit(ctx, m.metrics, responseCachePrefix)
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}

		observability.RecordCacheMiss(ctx, m.metrics, responseCachePrefix)
		w.Header().Set("X-Cache", "MISS")

		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(ctx, cacheKey, recorder.body.Bytes(), rule.TTLSeconds); err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("failed to cache response")
			}
		}
	})
}

func (m *CacheMiddleware) ruleFor(path string) (CacheRule, bool) {
	for _, rule := range m.rules {
		matched := path == rule.Path ||
			(strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) && len(path) > len(rule.Path))
		if !matched {
			continue
		}
		excluded := false
		for _, ex := range rule.Exclude {
			if path == ex {
				excluded = true
				break
			}
		}
		if !excluded {
			return rule, true
		}
	}
	return CacheRule{}, false
}

// cacheKey hashes method, path and query into a fixed-length key
func (m *CacheMiddleware) cacheKey(r *http.Request) string {
	key := fmt.Sprintf("%s:%s", r.Method, r.URL.Path)
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}

	hash := sha256.Sum256([]byte(key))
	return responseCachePrefix + hex.EncodeToString(hash[:])
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

// WriteHeader captures the status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

// Write captures the response body and writes to the client
func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
