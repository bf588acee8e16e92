package http

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PapaBear1981/supplyline-mro-suite/pkg/logger"
)

const reportCacheTTL = 5 * time.Minute

// cacheRecorder captures the response body so it can be stored after serving
type cacheRecorder struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (cr *cacheRecorder) WriteHeader(code int) {
	cr.statusCode = code
	cr.ResponseWriter.WriteHeader(code)
}

func (cr *cacheRecorder) Write(b []byte) (int, error) {
	cr.body.Write(b)
	return cr.ResponseWriter.Write(b)
}

// reportCache caches report responses in Redis under a hashed request key.
// A nil client disables caching. Reports tolerate short staleness; mutating
// endpoints are never cached.
func reportCache(redisClient *redis.Client, next http.HandlerFunc) http.HandlerFunc {
	if redisClient == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		cacheKey := reportCacheKey(r)
		ctx := r.Context()

		cached, err := redisClient.Get(ctx, cacheKey).Bytes()
		if err == nil && len(cached) > 0 {
			logger.Debug(ctx).
				Str("path", r.URL.Path).
				Str("cache_key", cacheKey).
				Msg("Report cache hit")
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.Write(cached)
			return
		}

		recorder := &cacheRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		recorder.Header().Set("X-Cache", "MISS")
		next.ServeHTTP(recorder, r)

		if recorder.statusCode != http.StatusOK {
			return
		}
		if err := redisClient.Set(ctx, cacheKey, recorder.body.Bytes(), reportCacheTTL).Err(); err != nil {
			logger.Warn(ctx).
				Err(err).
				Str("cache_key", cacheKey).
				Msg("Failed to cache report response")
		}
	}
}

// reportCacheKey hashes method, path and query into one key
func reportCacheKey(r *http.Request) string {
	components := fmt.Sprintf("%s:%s:%s", r.Method, r.URL.Path, r.URL.RawQuery)
	hash := sha256.Sum256([]byte(components))
	return fmt.Sprintf("cyclecount:report:%s", hex.EncodeToString(hash[:]))
}
