package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mohib357/mamstar-plan/api/responses"
	pkgerrors "github.com/mohib357/mamstar-plan/pkg/errors"
	"github.com/mohib357/mamstar-plan/pkg/logger"
	pkgredis "github.com/mohib357/mamstar-plan/pkg/redis"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	defaultIdempotencyTTL  = 24 * time.Hour
	maxIdempotencyBodySize = 2 << 20
)

// Creation endpoints whose retries must not mint a second record, keyed by
// "METHOD pattern".
var idempotentRoutes = map[string]struct{}{
	http.MethodPost + " /api/products": {},
	http.MethodPost + " /api/orders":   {},
}

// storedResponse is what a replay writes back. Body is base64 in JSON.
type storedResponse struct {
	RequestHash string `json:"request_hash"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
}

type idempotencyGuard struct {
	store pkgredis.IdempotencyStore
	ttl   time.Duration
	logg  *logger.Logger
}

// Idempotency replays the stored response when a covered request repeats an
// Idempotency-Key with the same body, and rejects reuse with a different body.
// Requests without the header pass through untouched.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	g := &idempotencyGuard{store: store, ttl: ttl, logg: logg}
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
			pattern := matchedPattern(r)
			if key == "" || !covered(r.Method, pattern) {
				next.ServeHTTP(w, r)
				return
			}
			g.serve(w, r, next, key, pattern)
		})
	}
}

func (g *idempotencyGuard) serve(w http.ResponseWriter, r *http.Request, next http.Handler, idemKey, pattern string) {
	ctx := r.Context()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxIdempotencyBodySize))
	if err != nil {
		responses.WriteError(ctx, g.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	sum := sha256.Sum256(body)
	hash := hex.EncodeToString(sum[:])
	scope := strings.Join([]string{UserIDFromContext(ctx), r.Method, pattern}, "|")
	storeKey := g.store.IdempotencyKey(scope, idemKey)

	prior, err := g.lookup(ctx, storeKey)
	if err != nil {
		responses.WriteError(ctx, g.logg, w, err)
		return
	}
	if prior != nil {
		if prior.RequestHash != hash {
			responses.WriteError(ctx, g.logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
			return
		}
		if g.logg != nil {
			g.logg.Info(g.logg.WithField(ctx, "status", prior.Status), "idempotency.replayed")
		}
		prior.replay(w)
		return
	}

	capture := &bodyCapture{statusRecorder: statusRecorder{ResponseWriter: w}}
	next.ServeHTTP(capture, r)

	// Server errors stay retryable under the same key.
	if capture.code() >= http.StatusInternalServerError {
		return
	}
	g.remember(ctx, storeKey, storedResponse{
		RequestHash: hash,
		Status:      capture.code(),
		ContentType: capture.Header().Get("Content-Type"),
		Body:        capture.body.Bytes(),
	})
}

func (g *idempotencyGuard) lookup(ctx context.Context, key string) (*storedResponse, error) {
	raw, err := g.store.Get(ctx, key)
	if pkgredis.IsNil(err) || (err == nil && raw == "") {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency")
	}
	var resp storedResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record")
	}
	return &resp, nil
}

func (g *idempotencyGuard) remember(ctx context.Context, key string, resp storedResponse) {
	payload, err := json.Marshal(resp)
	if err == nil {
		_, err = g.store.SetNX(ctx, key, string(payload), g.ttl)
	}
	if err != nil && g.logg != nil {
		g.logg.Error(ctx, "idempotency.store_failed", err)
	}
}

func (s *storedResponse) replay(w http.ResponseWriter) {
	if s.ContentType != "" {
		w.Header().Set("Content-Type", s.ContentType)
	}
	w.WriteHeader(s.Status)
	_, _ = w.Write(s.Body)
}

func covered(method, pattern string) bool {
	_, ok := idempotentRoutes[method+" "+pattern]
	return ok
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// matchedPattern is routePattern without a trailing slash, so "/api/orders/"
// mounted through a sub-router compares equal to "/api/orders".
func matchedPattern(r *http.Request) string {
	pattern := routePattern(r)
	if len(pattern) > 1 {
		pattern = strings.TrimRight(pattern, "/")
	}
	return pattern
}

type bodyCapture struct {
	statusRecorder
	body bytes.Buffer
}

func (c *bodyCapture) Write(b []byte) (int, error) {
	c.body.Write(b)
	return c.statusRecorder.Write(b)
}
