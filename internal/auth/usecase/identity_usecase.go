package usecase

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/big"
	"net/http"
	"sync"
	"time"

	authdomain "quotepush-backend/internal/auth/domain"
	subdomain "quotepush-backend/internal/subscription/domain"

	"github.com/golang-jwt/jwt/v5"
)

const (
	googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo?id_token=%s"
	appleKeysURL       = "https://appleid.apple.com/auth/keys"
	appleIssuer        = "https://appleid.apple.com"

	appleKeysTTL = time.Hour
)

// IdentityUsecase verifies provider-issued identity tokens.
type IdentityUsecase interface {
	VerifyIdentityToken(provider subdomain.AuthProvider, token string) (*authdomain.VerifiedProfile, error)
}

// identityUsecase implements IdentityUsecase interface
type identityUsecase struct {
	googleAudiences []string
	appleAudiences  []string
	client          *http.Client

	mu             sync.Mutex
	appleKeys      map[string]*rsa.PublicKey
	appleKeysFetch time.Time
}

// NewIdentityUsecase creates a new instance of identityUsecase
func NewIdentityUsecase(googleAudiences, appleAudiences []string) IdentityUsecase {
	return &identityUsecase{
		googleAudiences: googleAudiences,
		appleAudiences:  appleAudiences,
		client:          &http.Client{Timeout: 10 * time.Second},
	}
}

func (u *identityUsecase) VerifyIdentityToken(provider subdomain.AuthProvider, token string) (*authdomain.VerifiedProfile, error) {
	switch provider {
	case subdomain.ProviderGoogle:
		return u.verifyGoogleToken(token)
	case subdomain.ProviderApple:
		return u.verifyAppleToken(token)
	default:
		return nil, fmt.Errorf("unsupported auth provider %q: %w", provider, authdomain.ErrUnauthorized)
	}
}

// googleTokenInfo represents the response from Google's tokeninfo endpoint
type googleTokenInfo struct {
	Sub           string `json:"sub"`
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified string `json:"email_verified"` // Google returns this as string "true" or "false"
}

// verifyGoogleToken validates an id token against Google's tokeninfo endpoint.
// The endpoint rejects expired and badly-signed tokens with a non-200 status,
// so only the audience and subject need checking here.
func (u *identityUsecase) verifyGoogleToken(token string) (*authdomain.VerifiedProfile, error) {
	resp, err := u.client.Get(fmt.Sprintf(googleTokenInfoURL, token))
	if err != nil {
		log.Printf("[Auth] Failed to reach Google tokeninfo: %v", err)
		return nil, authdomain.ErrUnauthorized
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[Auth] Google token rejected: status %d, body: %s", resp.StatusCode, string(body))
		return nil, authdomain.ErrUnauthorized
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		log.Printf("[Auth] Failed to decode Google tokeninfo response: %v", err)
		return nil, authdomain.ErrUnauthorized
	}

	if info.Sub == "" || !containsString(u.googleAudiences, info.Aud) {
		log.Printf("[Auth] Google token has missing subject or unexpected audience")
		return nil, authdomain.ErrUnauthorized
	}

	return &authdomain.VerifiedProfile{
		ProviderUserID: info.Sub,
		Email:          info.Email,
		FullName:       info.Name,
	}, nil
}

type appleClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// verifyAppleToken validates an Apple id token signature against Apple's
// published signing keys and checks issuer and audience.
func (u *identityUsecase) verifyAppleToken(token string) (*authdomain.VerifiedProfile, error) {
	var claims appleClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, u.appleKeyFunc,
		jwt.WithIssuer(appleIssuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		log.Printf("[Auth] Failed to verify Apple identity token: %v", err)
		return nil, authdomain.ErrUnauthorized
	}

	if claims.Subject == "" || !audienceMatches(claims.Audience, u.appleAudiences) {
		log.Printf("[Auth] Apple token has missing subject or unexpected audience")
		return nil, authdomain.ErrUnauthorized
	}

	return &authdomain.VerifiedProfile{
		ProviderUserID: claims.Subject,
		Email:          claims.Email,
	}, nil
}

// appleKeyFunc resolves the RSA public key matching the token's kid header,
// refreshing the cached JWKS from Apple when needed.
func (u *identityUsecase) appleKeyFunc(token *jwt.Token) (interface{}, error) {
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, errors.New("apple token missing kid header")
	}

	keys, err := u.applePublicKeys()
	if err != nil {
		return nil, err
	}
	key, ok := keys[kid]
	if !ok {
		return nil, fmt.Errorf("no apple signing key for kid %q", kid)
	}
	return key, nil
}

type appleJWKS struct {
	Keys []struct {
		Kid string `json:"kid"`
		Kty string `json:"kty"`
		N   string `json:"n"`
		E   string `json:"e"`
	} `json:"keys"`
}

func (u *identityUsecase) applePublicKeys() (map[string]*rsa.PublicKey, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.appleKeys != nil && time.Since(u.appleKeysFetch) < appleKeysTTL {
		return u.appleKeys, nil
	}

	resp, err := u.client.Get(appleKeysURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch apple signing keys: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("apple signing keys request failed with status %d", resp.StatusCode)
	}

	var jwks appleJWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("failed to decode apple signing keys: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, k := range jwks.Keys {
		if k.Kty != "RSA" {
			continue
		}
		nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
		if err != nil {
			continue
		}
		eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
		if err != nil {
			continue
		}
		keys[k.Kid] = &rsa.PublicKey{
			N: new(big.Int).SetBytes(nBytes),
			E: int(new(big.Int).SetBytes(eBytes).Int64()),
		}
	}
	if len(keys) == 0 {
		return nil, errors.New("apple signing key set is empty")
	}

	u.appleKeys = keys
	u.appleKeysFetch = time.Now()
	return keys, nil
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func audienceMatches(audience jwt.ClaimStrings, allowed []string) bool {
	for _, aud := range audience {
		if containsString(allowed, aud) {
			return true
		}
	}
	return false
}
