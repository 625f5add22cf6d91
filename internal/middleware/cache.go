package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/binary"
    "fmt"
    "net/http"
    "strings"
    "time"

    jsoniter "github.com/json-iterator/go"
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/sakila-rental-service/internal/config"
    "github.com/iliyamo/sakila-rental-service/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// bodyRecorder forwards the response to the client and keeps a copy of up
// to limit bytes (unbounded when limit <= 0).
type bodyRecorder struct {
    http.ResponseWriter
    status    int
    buf       bytes.Buffer
    limit     int64
    truncated bool
}

func (w *bodyRecorder) WriteHeader(code int) {
    w.status = code
    w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
    if w.limit > 0 && int64(w.buf.Len()+len(b)) > w.limit {
        w.truncated = true
    } else {
        w.buf.Write(b)
    }
    return w.ResponseWriter.Write(b)
}

// cacheKey derives a stable key from the route and, depending on the
// strategy, the method and raw query.
func cacheKey(cfg config.CacheConfig, method, route, uri string) string {
    var parts []string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        parts = []string{"route", route}
    case "method_route":
        parts = []string{"method", method, "route", route}
    case "method_route_query":
        parts = []string{"method", method, "route", route, "uri", uri}
    default: // route_query
        parts = []string{"route", route, "uri", uri}
    }
    sum := sha1.Sum([]byte(strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// encodeEntry packs [4 bytes status][4 bytes header length][header JSON][body].
func encodeEntry(status int, header http.Header, body []byte) ([]byte, error) {
    hdr, err := json.Marshal(header)
    if err != nil {
        return nil, err
    }
    out := make([]byte, 8+len(hdr)+len(body))
    binary.BigEndian.PutUint32(out[0:4], uint32(status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(hdr)))
    copy(out[8:], hdr)
    copy(out[8+len(hdr):], body)
    return out, nil
}

func decodeEntry(bs []byte) (status int, header http.Header, body []byte, ok bool) {
    if len(bs) < 8 {
        return 0, nil, nil, false
    }
    status = int(binary.BigEndian.Uint32(bs[0:4]))
    hlen := int(binary.BigEndian.Uint32(bs[4:8]))
    if hlen < 0 || 8+hlen > len(bs) {
        return 0, nil, nil, false
    }
    header = make(http.Header)
    if hlen > 0 {
        if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
            return 0, nil, nil, false
        }
    }
    return status, header, bs[8+hlen:], true
}

// ResponseCache caches successful responses of the routes it wraps in
// Redis.  It is mounted on the film search group only; rankings, details
// and customer data are always read live.  With caching disabled or no
// Redis client it is a pass-through.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client, log *logger.Logger) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            req := c.Request()
            if !cfg.Methods[strings.ToUpper(req.Method)] {
                return next(c)
            }
            key := cacheKey(cfg, req.Method, c.Path(), req.URL.RequestURI())

            bs, err := rdb.Get(req.Context(), key).Bytes()
            if err == nil {
                if status, hdr, body, ok := decodeEntry(bs); ok {
                    for k, vals := range hdr {
                        if strings.EqualFold(k, echo.HeaderContentLength) {
                            continue
                        }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    return c.Blob(status, hdr.Get(echo.HeaderContentType), body)
                }
            } else if err != redis.Nil {
                log.Warn("cache read failed", "key", key, "error", err)
            }

            rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
            c.Response().Writer = rec
            c.Response().Header().Set("X-Cache", "MISS")
            if err := next(c); err != nil {
                return err
            }
            if rec.status != http.StatusOK || rec.truncated {
                return nil
            }

            hdr := c.Response().Header().Clone()
            hdr.Del("X-Cache")
            entry, err := encodeEntry(rec.status, hdr, rec.buf.Bytes())
            if err != nil {
                return nil
            }
            if err := rdb.Set(context.WithoutCancel(req.Context()), key, entry, ttl).Err(); err != nil {
                log.Warn("cache write failed", "key", key, "error", err)
            }
            return nil
        }
    }
}
