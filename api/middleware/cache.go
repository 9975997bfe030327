package middleware

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/angelmondragon/mechanicshop-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const cacheHeader = "X-Cache"

// CacheStore persists cached responses under namespaced keys.
type CacheStore interface {
	Lookup(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(policy, resource string) string
}

// CachePolicy names a cached surface and how long its responses live.
type CachePolicy struct {
	Name         string
	TTL          time.Duration
	IncludeQuery bool
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        string `json:"body"`
}

// Cache serves successful GET responses from the store for the policy TTL. Store
// failures fall through to the handler.
func Cache(policy CachePolicy, store CacheStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || policy.TTL <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := store.CacheKey(policy.Name, cacheResource(r, policy.IncludeQuery))

			stored, found, err := store.Lookup(ctx, key)
			if err != nil {
				logError(ctx, logg, "cache.lookup_failed", err)
			} else if found {
				record, decodeErr := decodeCached(stored)
				if decodeErr == nil {
					w.Header().Set(cacheHeader, "HIT")
					writeCached(w, record)
					return
				}
				logError(ctx, logg, "cache.decode_failed", decodeErr)
			}

			w.Header().Set(cacheHeader, "MISS")
			rec := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if defaultStatus(rec.status) != http.StatusOK {
				return
			}
			record := cachedResponse{
				Status:      http.StatusOK,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        base64.StdEncoding.EncodeToString(rec.body.Bytes()),
			}
			payload, err := json.Marshal(record)
			if err != nil {
				logError(ctx, logg, "cache.marshal_failed", err)
				return
			}
			if err := store.Set(ctx, key, string(payload), policy.TTL); err != nil {
				logError(ctx, logg, "cache.store_failed", err)
			}
		})
	}
}

func cacheResource(r *http.Request, includeQuery bool) string {
	resource := r.URL.Path
	if includeQuery && r.URL.RawQuery != "" {
		resource += "?" + r.URL.RawQuery
	}
	return resource
}

func decodeCached(payload string) (*cachedResponse, error) {
	var record cachedResponse
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func writeCached(w http.ResponseWriter, record *cachedResponse) {
	if record.ContentType != "" {
		w.Header().Set("Content-Type", record.ContentType)
	}
	w.WriteHeader(defaultStatus(record.Status))
	if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

func defaultStatus(value int) int {
	if value == 0 {
		return http.StatusOK
	}
	return value
}

func routePattern(r *http.Request) string {
	if r == nil {
		return ""
	}
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		if pattern := ctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return ""
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
