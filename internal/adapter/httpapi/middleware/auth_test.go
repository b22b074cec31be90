package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "s3cret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestParseToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	actor, err := ParseToken(sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		"user_id": "u1", "role": "user", "name": "Sari", "exp": exp,
	}), secret)
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{UserID: "u1", Name: "Sari"}, actor)

	actor, err = ParseToken(sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		"id": "a1", "role": "superadmin", "exp": exp,
	}), secret)
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{UserID: "a1", IsAdmin: true}, actor)
}

func TestParseToken_Rejects(t *testing.T) {
	cases := map[string]string{
		"wrong secret": sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"id": "u1"}),
		"expired":      sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"id": "u1", "exp": time.Now().Add(-time.Minute).Unix()}),
		"no subject":   sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"role": "admin"}),
		"alg none":     sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"id": "u1"}),
		"garbage":      "abc.def.ghi",
	}
	for name, tok := range cases {
		_, err := ParseToken(tok, secret)
		assert.Error(t, err, name)
	}
}

func writeTestError(w http.ResponseWriter, status int, message string) {
	http.Error(w, message, status)
}

func TestJWTAuthAndAdminOnly(t *testing.T) {
	var seen domain.Actor
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := JWTAuth(secret, logger.NewNop(), writeTestError)(AdminOnly(writeTestError)(final))

	serve := func(authz string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	userTok := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"id": "u1", "role": "user"})
	adminTok := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"id": "a1", "role": "admin"})

	assert.Equal(t, http.StatusUnauthorized, serve(""))
	assert.Equal(t, http.StatusUnauthorized, serve("Token "+userTok))
	assert.Equal(t, http.StatusForbidden, serve("Bearer "+userTok))
	assert.Equal(t, http.StatusNoContent, serve("bearer "+adminTok))
	assert.Equal(t, "a1", seen.UserID)
}

func TestOptionalAuth(t *testing.T) {
	var ok bool
	h := OptionalAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = ActorFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer broken")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, ok)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"id": "u1"}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, ok)
}
