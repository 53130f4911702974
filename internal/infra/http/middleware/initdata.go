package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/partners-miniapp/internal/entity"
	"github.com/xavierca1/partners-miniapp/internal/infra/telegram"
)

const InitDataHeader = "X-Telegram-Init-Data"

type contextKey struct{}

// InitData authenticates the Mini App host from its signed init data and
// stores the Telegram user in the request context.
func InitData(botToken string, maxAge time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := telegram.ParseInitData(rawInitData(r), botToken, maxAge, time.Now())
			if err != nil {
				authFailures.Inc()
				logger.Warn("rejected init data", zap.String("path", r.URL.Path), zap.Error(err))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, data.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func rawInitData(r *http.Request) string {
	if raw := r.Header.Get(InitDataHeader); raw != "" {
		return raw
	}

	auth := r.Header.Get("Authorization")
	if scheme, raw, ok := strings.Cut(auth, " "); ok && strings.EqualFold(scheme, "tma") {
		return strings.TrimSpace(raw)
	}
	return ""
}

// UserFromContext returns the user stored by InitData.
func UserFromContext(ctx context.Context) (entity.HostUser, bool) {
	user, ok := ctx.Value(contextKey{}).(entity.HostUser)
	return user, ok
}
