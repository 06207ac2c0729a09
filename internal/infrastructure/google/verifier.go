package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
)

var (
	ErrInvalidIDToken = errors.New("invalid google id token")
	ErrEmailNotShared = errors.New("google account has no verified email")
)

var validIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

const (
	keyCacheTTL = time.Hour
	clockLeeway = time.Minute
)

// Identity is the verified subset of a Google ID token.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

type googleClaims struct {
	Email         string       `json:"email"`
	EmailVerified flexibleBool `json:"email_verified"`
	Name          string       `json:"name"`
}

// flexibleBool accepts both true and "true".
type flexibleBool bool

func (b *flexibleBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	*b = flexibleBool(s == "true")
	return nil
}

// Verifier checks Google ID tokens against Google's published signing keys.
type Verifier struct {
	clientID string
	jwksURL  string
	client   *http.Client
	now      func() time.Time

	mu        sync.Mutex
	keys      *jose.JSONWebKeySet
	fetchedAt time.Time
}

func NewVerifier(clientID, jwksURL string) *Verifier {
	return &Verifier{
		clientID: clientID,
		jwksURL:  jwksURL,
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
}

// Verify validates the signature, issuer, audience and expiry of idToken.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	if v.clientID == "" {
		return nil, fmt.Errorf("%w: google sign-in is not configured", ErrInvalidIDToken)
	}

	tok, err := jwt.ParseSigned(idToken)
	if err != nil || len(tok.Headers) == 0 {
		return nil, ErrInvalidIDToken
	}
	kid := tok.Headers[0].KeyID

	key, err := v.key(ctx, kid)
	if err != nil {
		return nil, err
	}

	var std jwt.Claims
	var extra googleClaims
	if err := tok.Claims(key.Key, &std, &extra); err != nil {
		return nil, ErrInvalidIDToken
	}

	if err := std.ValidateWithLeeway(jwt.Expected{
		Audience: jwt.Audience{v.clientID},
		Time:     v.now(),
	}, clockLeeway); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	if !validIssuer(std.Issuer) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidIDToken, std.Issuer)
	}
	if extra.Email == "" || !bool(extra.EmailVerified) {
		return nil, ErrEmailNotShared
	}

	return &Identity{
		Subject:       std.Subject,
		Email:         strings.ToLower(extra.Email),
		EmailVerified: bool(extra.EmailVerified),
		Name:          extra.Name,
	}, nil
}

func (v *Verifier) key(ctx context.Context, kid string) (*jose.JSONWebKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	stale := v.keys == nil || v.now().Sub(v.fetchedAt) > keyCacheTTL
	if !stale {
		if keys := v.keys.Key(kid); len(keys) > 0 {
			return &keys[0], nil
		}
	}

	// Google rotates keys; an unknown kid triggers one refetch.
	set, err := v.fetchKeys(ctx)
	if err != nil {
		return nil, err
	}
	v.keys = set
	v.fetchedAt = v.now()

	keys := set.Key(kid)
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: unknown key id %q", ErrInvalidIDToken, kid)
	}
	return &keys[0], nil
}

func (v *Verifier) fetchKeys(ctx context.Context) (*jose.JSONWebKeySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google keys: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch google keys: status %d", resp.StatusCode)
	}

	var set jose.JSONWebKeySet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to decode google keys: %w", err)
	}
	return &set, nil
}

func validIssuer(iss string) bool {
	for _, v := range validIssuers {
		if iss == v {
			return true
		}
	}
	return false
}
