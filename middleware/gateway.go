package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"github.com/Mediamoney08/mediamoney-gateway/services"
	"github.com/Mediamoney08/mediamoney-gateway/utils"
)

type gwContextKey string

const apiKeyContextKey gwContextKey = "api_key"

// APIKeyFromContext returns the authenticated key installed by the
// Authenticate middleware.
func APIKeyFromContext(ctx context.Context) (*models.APIKey, bool) {
	key, ok := ctx.Value(apiKeyContextKey).(*models.APIKey)
	return key, ok
}

// ErrorWriter serializes a failure into the gateway's envelope. The
// customer and admin gateways install different writers.
type ErrorWriter func(w http.ResponseWriter, err error)

// Gateway carries the per-request pipeline for one gateway family:
// Authenticate -> UsageLog -> RateLimit -> Authorize -> Execute. A failure
// at any stage short-circuits into the envelope; no stage is retried.
type Gateway struct {
	auth       *services.Authenticator
	limiter    *services.RateLimiter
	usage      *services.UsageService
	family     models.KeyVersion
	writeError ErrorWriter
}

func CreateGateway(auth *services.Authenticator, limiter *services.RateLimiter, usage *services.UsageService, family models.KeyVersion, writeError ErrorWriter) *Gateway {
	return &Gateway{
		auth:       auth,
		limiter:    limiter,
		usage:      usage,
		family:     family,
		writeError: writeError,
	}
}

func (g *Gateway) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := g.auth.Authenticate(r.Context(), ExtractToken(r), g.family)
		if err != nil {
			g.writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), apiKeyContextKey, key)
		ctx = utils.WithAPIKeyID(ctx, key.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

const maxErrorCapture = 512

// usageRecorder keeps a bounded copy of error response bodies so the usage
// entry can carry the envelope's message instead of the bare status text.
type usageRecorder struct {
	*responseWriter
	errorBody []byte
}

func (r *usageRecorder) Write(p []byte) (int, error) {
	if r.statusCode >= 400 && len(r.errorBody) < maxErrorCapture {
		remaining := maxErrorCapture - len(r.errorBody)
		if remaining > len(p) {
			remaining = len(p)
		}
		r.errorBody = append(r.errorBody, p[:remaining]...)
	}
	return r.ResponseWriter.Write(p)
}

// errorMessage pulls the message field both envelopes carry; a body that is
// not an envelope falls back to the status text.
func (r *usageRecorder) errorMessage() string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(r.errorBody, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return http.StatusText(r.statusCode)
}

// UsageLogging sits inside Authenticate so every entry carries the key id,
// and outside rate limiting and authorization so 429s and 403s are still
// billed with their status codes.
func (g *Gateway) UsageLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &usageRecorder{responseWriter: &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}}

		next.ServeHTTP(rw, r)

		key, ok := APIKeyFromContext(r.Context())
		if !ok {
			return
		}

		entry := &models.UsageLog{
			APIKeyID:       key.ID,
			Endpoint:       r.URL.Path,
			Method:         r.Method,
			StatusCode:     rw.statusCode,
			ResponseTimeMs: time.Since(start).Milliseconds(),
		}
		if rw.statusCode >= 400 {
			entry.ErrorMessage = rw.errorMessage()
		}

		g.usage.Record(entry)
	})
}

func (g *Gateway) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok := APIKeyFromContext(r.Context())
		if !ok {
			g.writeError(w, utils.ErrInternal)
			return
		}

		if err := g.limiter.Check(r.Context(), key.ID, services.LimitsForKey(key)); err != nil {
			g.writeError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequirePermission guards one route with a (domain, action) claim. The
// denial names the missing pair.
func (g *Gateway) RequirePermission(domain, action string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := APIKeyFromContext(r.Context())
		if !ok {
			g.writeError(w, utils.ErrInternal)
			return
		}

		if !key.Permissions.Allows(domain, action) {
			g.writeError(w, utils.PermissionError(domain, action))
			return
		}

		next(w, r)
	}
}

// ExtractToken pulls the raw API key from X-API-Key or a Bearer token.
func ExtractToken(r *http.Request) string {
	if token := r.Header.Get("X-API-Key"); token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
