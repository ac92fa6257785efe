package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	msgMissingUser = "отсутствует или некорректен X-User-ID / X-User-Role"
)

type ctxKey int

const actorKey ctxKey = iota

// Auth читает X-User-ID и X-User-Role и кладёт actor в контекст.
// Заголовки выставляет gateway, сервис им доверяет.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromHeaders(r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"code":    http.StatusUnauthorized,
				"message": msgMissingUser,
			})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

func actorFromHeaders(r *http.Request) (domain.Actor, error) {
	role, err := domain.ParseRole(r.Header.Get(HeaderUserRole))
	if err != nil {
		return nil, err
	}

	var userID int64
	if raw := r.Header.Get(HeaderUserID); raw != "" {
		userID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
	}

	return domain.NewActor(userID, role)
}

// WithActor кладёт actor в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor достаёт actor из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// GetUserID ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	actor, ok := GetActor(ctx)
	if !ok {
		return 0, false
	}
	return actor.UserID(), true
}
