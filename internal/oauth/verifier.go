// Package oauth verifies OpenID Connect ID tokens issued by the supported
// sign-in providers.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ProviderGoogle = "google"
	ProviderApple  = "apple"
)

var (
	ErrUnknownProvider = errors.New("unsupported oauth provider")
	ErrNotConfigured   = errors.New("oauth provider is not configured")
	ErrInvalidToken    = errors.New("invalid identity token")
)

// Identity is what a verified ID token says about the account holder.
type Identity struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// Provider describes one issuer: where its keys live, which iss values it
// uses and which client ids are accepted as audience.
type Provider struct {
	Name      string
	JWKSURL   string
	Issuers   []string
	Audiences []string
}

func Google(audiences []string) Provider {
	return Provider{
		Name:      ProviderGoogle,
		JWKSURL:   "https://www.googleapis.com/oauth2/v3/certs",
		Issuers:   []string{"https://accounts.google.com", "accounts.google.com"},
		Audiences: audiences,
	}
}

func Apple(audiences []string) Provider {
	return Provider{
		Name:      ProviderApple,
		JWKSURL:   "https://appleid.apple.com/auth/keys",
		Issuers:   []string{"https://appleid.apple.com"},
		Audiences: audiences,
	}
}

type idClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified any    `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type entry struct {
	provider Provider
	keys     *keySet
}

type Verifier struct {
	providers map[string]entry
	cancel    context.CancelFunc
}

// NewVerifier registers providers. Keys are fetched lazily, so a provider
// nobody signs in with never costs a request. Call Close to stop refreshes.
func NewVerifier(httpClient *http.Client, providers ...Provider) *Verifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	ctx, cancel := context.WithCancel(context.Background())
	v := &Verifier{providers: make(map[string]entry, len(providers)), cancel: cancel}
	for _, p := range providers {
		v.providers[p.Name] = entry{provider: p, keys: newKeySet(ctx, p.JWKSURL, httpClient)}
	}
	return v
}

// Close stops the background key refreshes.
func (v *Verifier) Close() {
	for _, e := range v.providers {
		e.keys.close()
	}
	v.cancel()
}

// Verify checks signature, issuer, audience and expiry of rawToken.
func (v *Verifier) Verify(ctx context.Context, provider, rawToken string) (*Identity, error) {
	e, ok := v.providers[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}
	if len(e.provider.Audiences) == 0 {
		return nil, ErrNotConfigured
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	claims := &idClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, e.keys.Keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !slices.Contains(e.provider.Issuers, claims.Issuer) {
		return nil, fmt.Errorf("%w: issuer %q", ErrInvalidToken, claims.Issuer)
	}
	if !audienceMatches(claims.Audience, e.provider.Audiences) {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return &Identity{
		Provider:      provider,
		Subject:       claims.Subject,
		Email:         strings.ToLower(strings.TrimSpace(claims.Email)),
		EmailVerified: truthy(claims.EmailVerified),
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}

// Apple sends email_verified as the string "true"; Google as a bool.
func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	default:
		return false
	}
}

func audienceMatches(got jwt.ClaimStrings, allowed []string) bool {
	for _, a := range got {
		if slices.Contains(allowed, a) {
			return true
		}
	}
	return false
}
