// Package middleware provides the Redis-backed response cache and rate
// limiter applied in front of the API.  Both are no-ops when Redis is
// unavailable so the engine keeps serving without it.
package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/smart-parking/internal/config"
)

// cachedResponse is the payload stored in Redis for each cache entry.
// Headers and body are stored verbatim so clients see byte-identical
// output on a hit.  json.Marshal base64-encodes the Body field.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// captureWriter tees the response body into a buffer while forwarding
// everything to the client.  Only a contiguous prefix up to limit bytes
// is buffered; size counts the full body so overflow is detectable.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int
	limit  int
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 {
		cw.buf.Write(b)
	} else if remain := cw.limit - cw.buf.Len(); remain > 0 {
		if len(b) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += len(b)
	return cw.ResponseWriter.Write(b)
}

// overflowed reports whether the response body exceeded the capture
// limit.  An overflowed capture holds only a truncated prefix and must
// never be stored: replaying it would serve clipped JSON as a 200.
func (cw *captureWriter) overflowed() bool {
	return cw.limit > 0 && cw.size > cw.limit
}

// cacheKey builds a stable key from the matched route and raw query so
// that /api/sessions/search?license_plate=A and ...=B cache separately.
func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum)
}

// restoreHeaders copies the cached headers onto the live response.
// Content-Length is skipped; Echo recomputes it for the replayed body.
func restoreHeaders(dst, src http.Header) {
	for k, vals := range src {
		if strings.EqualFold(k, "Content-Length") {
			continue
		}
		for _, v := range vals {
			dst.Add(k, v)
		}
	}
}

// NewResponseCache caches successful GET responses in Redis for the
// configured TTL.  Query-heavy read endpoints (active listing, search,
// reports) and the polled stats endpoint are served from cache between
// refreshes; mutations are POSTs and bypass the cache entirely.
// Responses larger than MaxBodyBytes pass through uncached.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cached cachedResponse
				if json.Unmarshal(raw, &cached) == nil {
					h := c.Response().Header()
					restoreHeaders(h, cached.Header)
					h.Set("X-Cache", "HIT")
					c.Response().WriteHeader(cached.Status)
					_, werr := c.Response().Write(cached.Body)
					return werr
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK && !cw.overflowed() {
				hdr := make(http.Header, len(c.Response().Header()))
				for k, vals := range c.Response().Header() {
					vv := make([]string, len(vals))
					copy(vv, vals)
					hdr[k] = vv
				}
				cached := cachedResponse{
					Status: cw.status,
					Header: hdr,
					Body:   cw.buf.Bytes(),
				}
				if raw, err := json.Marshal(cached); err == nil {
					// Detached context: the entry should be stored even if
					// the client has already gone away.
					_ = rdb.SetEx(context.Background(), key, raw, cfg.TTL).Err()
				}
			}
			return nil
		}
	}
}
