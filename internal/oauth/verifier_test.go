package oauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testKid      = "key-1"
	testIssuer   = "https://issuer.test"
	testAudience = "client-123"
)

type jwksServer struct {
	*httptest.Server
	hits atomic.Int32

	mu  sync.Mutex
	kid string
	key *rsa.PrivateKey
}

func newJWKSServer(t *testing.T) *jwksServer {
	t.Helper()
	s := &jwksServer{}
	s.rotate(t, testKid)
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.mu.Lock()
		kid, pub := s.kid, s.key.PublicKey
		s.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"keys": []map[string]string{{
			"kty": "RSA",
			"kid": kid,
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}}})
	}))
	t.Cleanup(s.Close)
	return s
}

// rotate replaces the published signing key.
func (s *jwksServer) rotate(t *testing.T, kid string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	s.mu.Lock()
	s.kid, s.key = kid, key
	s.mu.Unlock()
}

func (s *jwksServer) sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s.mu.Lock()
	kid, key := s.kid, s.key
	s.mu.Unlock()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":            testIssuer,
		"aud":            testAudience,
		"sub":            "subject-1",
		"email":          "Ada@Example.com",
		"email_verified": "true",
		"name":           "Ada",
		"exp":            time.Now().Add(time.Hour).Unix(),
		"iat":            time.Now().Unix(),
	}
}

func newTestVerifier(t *testing.T, s *jwksServer, audiences ...string) *Verifier {
	t.Helper()
	v := NewVerifier(s.Client(), Provider{
		Name:      "test",
		JWKSURL:   s.URL,
		Issuers:   []string{testIssuer},
		Audiences: audiences,
	})
	t.Cleanup(v.Close)
	return v
}

func TestVerifyValidToken(t *testing.T) {
	s := newJWKSServer(t)
	v := newTestVerifier(t, s, testAudience)

	id, err := v.Verify(context.Background(), "test", s.sign(t, validClaims()))
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if id.Subject != "subject-1" || id.Email != "ada@example.com" || !id.EmailVerified || id.Name != "Ada" {
		t.Errorf("identity = %+v", id)
	}

	if _, err := v.Verify(context.Background(), "test", s.sign(t, validClaims())); err != nil {
		t.Fatal(err)
	}
	if got := s.hits.Load(); got != 1 {
		t.Errorf("jwks fetched %d times, want cached after the first", got)
	}
}

func TestVerifyRefetchesOnUnknownKid(t *testing.T) {
	s := newJWKSServer(t)
	v := newTestVerifier(t, s, testAudience)

	if _, err := v.Verify(context.Background(), "test", s.sign(t, validClaims())); err != nil {
		t.Fatal(err)
	}

	s.rotate(t, "key-2")
	if _, err := v.Verify(context.Background(), "test", s.sign(t, validClaims())); err != nil {
		t.Fatalf("Verify() after rotation error = %v", err)
	}
	if got := s.hits.Load(); got != 2 {
		t.Errorf("jwks fetched %d times, want 2", got)
	}
}

func TestVerifyUnreachableJWKS(t *testing.T) {
	s := newJWKSServer(t)
	token := s.sign(t, validClaims())
	v := newTestVerifier(t, s, testAudience)
	s.Close()

	if _, err := v.Verify(context.Background(), "test", token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejects(t *testing.T) {
	s := newJWKSServer(t)
	v := newTestVerifier(t, s, testAudience)

	tests := []struct {
		name   string
		mutate func(jwt.MapClaims)
	}{
		{"wrong audience", func(c jwt.MapClaims) { c["aud"] = "someone-else" }},
		{"wrong issuer", func(c jwt.MapClaims) { c["iss"] = "https://evil.test" }},
		{"expired", func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Hour).Unix() }},
		{"no expiry", func(c jwt.MapClaims) { delete(c, "exp") }},
		{"no subject", func(c jwt.MapClaims) { delete(c, "sub") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := validClaims()
			tt.mutate(claims)
			if _, err := v.Verify(context.Background(), "test", s.sign(t, claims)); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestVerifyRejectsHMAC(t *testing.T) {
	s := newJWKSServer(t)
	v := newTestVerifier(t, s, testAudience)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
	token.Header["kid"] = testKid
	raw, _ := token.SignedString([]byte("secret"))

	if _, err := v.Verify(context.Background(), "test", raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyProviderErrors(t *testing.T) {
	s := newJWKSServer(t)

	if _, err := newTestVerifier(t, s, testAudience).Verify(context.Background(), "github", "x"); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("unknown provider error = %v", err)
	}
	if _, err := newTestVerifier(t, s).Verify(context.Background(), "test", "x"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("no audiences error = %v", err)
	}
}

func TestTruthy(t *testing.T) {
	for v, want := range map[any]bool{true: true, false: false, "true": true, "false": false, nil: false} {
		if got := truthy(v); got != want {
			t.Errorf("truthy(%v) = %v, want %v", v, got, want)
		}
	}
}
