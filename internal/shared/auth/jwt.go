package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Claims represents the identity contained in a session token.
type Claims struct {
	Sub   string `json:"sub"`
	Sid   string `json:"sid"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Exp   int64  `json:"exp,omitempty"`
	Iat   int64  `json:"iat,omitempty"`
}

var (
	ErrMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

const devSecret = "dev-secret"

// Signer issues and verifies HS256 tokens.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// NewSigner returns a Signer for secret. Outside dev-like environments an
// empty secret is an error; in dev it falls back to a fixed value.
func NewSigner(secret string, devLike bool) (*Signer, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		if !devLike {
			return nil, ErrMissingSecret
		}
		secret = devSecret
	}
	return &Signer{secret: []byte(secret), now: time.Now}, nil
}

// Sign encodes claims. Iat defaults to now and Exp to now+ttl.
func (s *Signer) Sign(claims Claims, ttl time.Duration) (string, error) {
	if claims.Sub == "" || claims.Sid == "" {
		return "", errors.New("sub and sid are required")
	}
	now := s.now().UTC()
	if claims.Iat == 0 {
		claims.Iat = now.Unix()
	}
	if claims.Exp == 0 {
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		claims.Exp = now.Add(ttl).Unix()
	}

	headerJSON, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		return "", err
	}
	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	signingInput := base64.RawURLEncoding.EncodeToString(headerJSON) + "." +
		base64.RawURLEncoding.EncodeToString(payloadJSON)
	return signingInput + "." + s.mac(signingInput), nil
}

// Verify checks the signature and expiry and returns the claims.
func (s *Signer) Verify(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrInvalidToken
	}

	expected := s.mac(parts[0] + "." + parts[1])
	if !hmac.Equal([]byte(parts[2]), []byte(expected)) {
		return Claims{}, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, ErrInvalidToken
	}
	if claims.Sub == "" || claims.Sid == "" {
		return Claims{}, ErrInvalidToken
	}
	if claims.Exp > 0 && s.now().UTC().Unix() > claims.Exp {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func (s *Signer) mac(input string) string {
	m := hmac.New(sha256.New, s.secret)
	m.Write([]byte(input))
	return base64.RawURLEncoding.EncodeToString(m.Sum(nil))
}
