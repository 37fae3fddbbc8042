// Package token mints and checks the bearer tokens issued by the dev
// backend, and peeks at tokens on the client side for display.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind separates tokens minted by the login endpoint from those embedded in
// hospital entry links.
type Kind string

const (
	KindSession Kind = "session"
	KindEntry   Kind = "entry"
)

const (
	defaultIssuer = "viewer-devbackend"
	defaultTTL    = 12 * time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
	ErrWrongKind    = errors.New("token kind mismatch")
)

// Claims carried by every issued token.
type Claims struct {
	jwt.RegisteredClaims
	Kind  Kind   `json:"kind"`
	Label string `json:"label,omitempty"`
	Email string `json:"email,omitempty"`
}

// Issuer signs tokens with a shared HMAC secret.
type Issuer struct {
	secret  []byte
	issuer  string
	ttl     time.Duration
	denied  Denylist
	nowFunc func() time.Time
}

// IssuerOption defines a function type to modify the Issuer instance.
type IssuerOption func(*Issuer)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = nowFunc
	}
}

// WithTTL sets how long issued tokens stay valid.
func WithTTL(ttl time.Duration) IssuerOption {
	return func(i *Issuer) {
		if ttl > 0 {
			i.ttl = ttl
		}
	}
}

// WithDenylist replaces the in-memory denylist.
func WithDenylist(d Denylist) IssuerOption {
	return func(i *Issuer) {
		if d != nil {
			i.denied = d
		}
	}
}

func NewIssuer(secret []byte, options ...IssuerOption) (*Issuer, error) {
	if len(secret) < 16 {
		return nil, errors.New("[NewIssuer] secret must be at least 16 bytes")
	}
	i := &Issuer{
		secret:  secret,
		issuer:  defaultIssuer,
		ttl:     defaultTTL,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(i)
	}
	if i.denied == nil {
		i.denied = NewMemoryDenylist(i.nowFunc)
	}
	return i, nil
}

// Issue mints a token of kind for subject.
func (i *Issuer) Issue(kind Kind, subject, email, label string) (string, error) {
	now := i.nowFunc()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.New().String(),
		},
		Kind:  kind,
		Label: label,
		Email: email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies raw and checks it is of the expected kind and not revoked.
func (i *Issuer) Parse(raw string, kind Kind) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.nowFunc),
		jwt.WithExpirationRequired(),
	)
	var claims Claims
	if _, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Kind != kind {
		return nil, ErrWrongKind
	}
	if i.denied.Denied(claims.ID) {
		return nil, ErrTokenRevoked
	}
	return &claims, nil
}

// Revoke rejects raw from now on. Unparseable tokens are ignored.
func (i *Issuer) Revoke(raw string) error {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	exp := i.nowFunc().Add(i.ttl)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	i.denied.Deny(claims.ID, exp)
	return nil
}

// Info is what the client can learn from a token without the signing key.
type Info struct {
	Subject   string
	Kind      Kind
	Label     string
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim is before now. Tokens
// without exp never report expired.
func (in Info) Expired(now time.Time) bool {
	return !in.ExpiresAt.IsZero() && in.ExpiresAt.Before(now)
}

// Peek decodes raw without verifying its signature. Opaque (non-JWT)
// tokens return ErrInvalidToken; callers should show them as opaque.
func Peek(raw string) (*Info, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	info := &Info{Subject: claims.Subject, Kind: claims.Kind, Label: claims.Label}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
