package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://clerk.boardchampions.test"

func jwksServer(t *testing.T, kid string, pub *rsa.PublicKey, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		_ = json.NewEncoder(w).Encode(JWKS{Keys: []JSONWebKey{{
			Kid: kid,
			Kty: "RSA",
			Alg: "RS256",
			Use: "sig",
			N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}}})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims SessionClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	var hits int32
	srv := jwksServer(t, "ins_1", &key.PublicKey, &hits)
	verifier := NewVerifier(NewProvider(srv.URL, srv.Client()), testIssuer)

	valid := SessionClaims{
		Email: "jane@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_2abc",
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	t.Run("valid token", func(t *testing.T) {
		claims, err := verifier.Verify(signToken(t, key, "ins_1", valid))
		require.NoError(t, err)
		assert.Equal(t, "user_2abc", claims.Subject)
		assert.Equal(t, "jane@example.com", claims.Email)
	})

	t.Run("keys are cached", func(t *testing.T) {
		before := atomic.LoadInt32(&hits)
		_, err := verifier.Verify(signToken(t, key, "ins_1", valid))
		require.NoError(t, err)
		assert.Equal(t, before, atomic.LoadInt32(&hits))
	})

	t.Run("expired token", func(t *testing.T) {
		expired := valid
		expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := verifier.Verify(signToken(t, key, "ins_1", expired))
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := valid
		other.Issuer = "https://evil.example.com"
		_, err := verifier.Verify(signToken(t, key, "ins_1", other))
		assert.Error(t, err)
	})

	t.Run("unknown kid", func(t *testing.T) {
		_, err := verifier.Verify(signToken(t, key, "ins_unknown", valid))
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("hmac token rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, valid)
		signed, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = verifier.Verify(signed)
		assert.Error(t, err)
	})
}
