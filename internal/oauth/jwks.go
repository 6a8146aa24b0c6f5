package oauth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// keySet loads a provider's JWKS on first use. After that keyfunc refreshes
// it in the background on an interval and whenever an unknown kid shows up.
type keySet struct {
	url    string
	client *http.Client
	ctx    context.Context

	mu   sync.Mutex
	jwks *keyfunc.JWKS
}

func newKeySet(ctx context.Context, url string, client *http.Client) *keySet {
	return &keySet{url: url, client: client, ctx: ctx}
}

func (k *keySet) load() (*keyfunc.JWKS, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.jwks != nil {
		return k.jwks, nil
	}

	jwks, err := keyfunc.Get(k.url, keyfunc.Options{
		Ctx:               k.ctx,
		Client:            k.client,
		RefreshInterval:   12 * time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			slog.Warn("jwks refresh failed", "url", k.url, "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	k.jwks = jwks
	return jwks, nil
}

// Keyfunc resolves the token's signing key, fetching the JWKS if needed.
func (k *keySet) Keyfunc(t *jwt.Token) (any, error) {
	jwks, err := k.load()
	if err != nil {
		return nil, err
	}
	return jwks.Keyfunc(t)
}

func (k *keySet) close() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.jwks != nil {
		k.jwks.EndBackground()
	}
}
