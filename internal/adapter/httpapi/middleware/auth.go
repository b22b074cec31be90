package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ContextKey avoids collisions with other packages' context values.
type ContextKey string

const ActorCtxKey = ContextKey("actor")

// Claims is the token payload issued by the account service. Older tokens
// carry the subject under "id" instead of "user_id".
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	ID     string `json:"id,omitempty"`
	Role   string `json:"role"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) subject() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.ID
}

func (c *Claims) isAdmin() bool {
	return c.Role == "admin" || c.Role == "superadmin"
}

// ErrorWriter renders an authentication failure. It matches the JSON
// envelope used by the handlers.
type ErrorWriter func(w http.ResponseWriter, status int, message string)

// JWTAuth rejects requests without a valid bearer token and stores the
// resulting domain.Actor in the request context.
func JWTAuth(jwtSecret string, log *logger.Logger, writeErr ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				log.Debug("JWTAuth: bearer token not found", zap.String("path", r.URL.Path))
				writeErr(w, http.StatusUnauthorized, "Tidak ada akses. Token tidak ditemukan")
				return
			}

			actor, err := ParseToken(tokenString, jwtSecret)
			if err != nil {
				log.Warn("JWTAuth: token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				writeErr(w, http.StatusUnauthorized, "Token tidak valid")
				return
			}

			ctx := context.WithValue(r.Context(), ActorCtxKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the actor when a valid token is present and lets
// anonymous requests through unchanged.
func OptionalAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenString, ok := bearerToken(r); ok {
				if actor, err := ParseToken(tokenString, jwtSecret); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), ActorCtxKey, actor))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly must run after JWTAuth.
func AdminOnly(writeErr ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok || !actor.IsAdmin {
				writeErr(w, http.StatusForbidden, "Akses ditolak. Hanya admin yang bisa mengakses")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(ActorCtxKey).(domain.Actor)
	return actor, ok
}

// ParseToken validates an HMAC-signed token and maps its claims to an actor.
func ParseToken(tokenString, jwtSecret string) (domain.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return domain.Actor{}, err
	}
	if !token.Valid {
		return domain.Actor{}, errors.New("token is not valid")
	}
	if claims.subject() == "" {
		return domain.Actor{}, errors.New("user id not found in token claims")
	}
	return domain.Actor{
		UserID:  claims.subject(),
		Name:    claims.Name,
		IsAdmin: claims.isAdmin(),
	}, nil
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], parts[1] != ""
}
