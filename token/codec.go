// Package token creates and verifies the signed session tokens that carry
// an authenticated subject between requests. Tokens are self-contained and
// never stored server-side.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NowFunc returns the current time. It can be overridden in tests.
var NowFunc = time.Now

// Kind discriminates the two token types. A token presented in the wrong
// protocol slot is rejected even when its signature is valid.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Token lifetimes are fixed per kind.
const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

var (
	// ErrInvalidToken is returned when a token is empty, malformed, or its
	// signature does not verify.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a structurally valid token has
	// passed its expiry.
	ErrExpiredToken = errors.New("token expired")
)

// claims is the wire shape of a session token.
type claims struct {
	Kind Kind `json:"kind"`
	jwtlib.RegisteredClaims
}

// Session holds the verified contents of a token.
type Session struct {
	SubjectID string
	Kind      Kind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec mints and verifies session tokens signed with a shared HMAC secret.
type Codec struct {
	secret []byte
}

// NewCodec creates a Codec. The signing secret must not be empty.
func NewCodec(secret string) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("[NewCodec] signing secret is required")
	}
	return &Codec{secret: []byte(secret)}, nil
}

// MintAccess creates a signed access token for the subject.
func (c *Codec) MintAccess(subjectID string) (string, error) {
	return c.mint(subjectID, KindAccess, AccessTTL)
}

// MintRefresh creates a signed refresh token for the subject.
func (c *Codec) MintRefresh(subjectID string) (string, error) {
	return c.mint(subjectID, KindRefresh, RefreshTTL)
}

func (c *Codec) mint(subjectID string, kind Kind, ttl time.Duration) (string, error) {
	now := NowFunc()
	cl := claims{
		Kind: kind,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
		},
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, cl).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a raw token and returns its
// contents. It distinguishes ErrExpiredToken from ErrInvalidToken so callers
// can match with errors.Is; it has no side effects.
func (c *Codec) Verify(raw string) (*Session, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrInvalidToken
	}

	cl := &claims{}
	parsed, err := jwtlib.ParseWithClaims(raw, cl, c.verificationKey,
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(func() time.Time { return NowFunc() }),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if cl.Kind != KindAccess && cl.Kind != KindRefresh {
		return nil, ErrInvalidToken
	}
	if cl.Subject == "" || cl.ExpiresAt == nil || cl.IssuedAt == nil {
		return nil, ErrInvalidToken
	}

	return &Session{
		SubjectID: cl.Subject,
		Kind:      cl.Kind,
		IssuedAt:  cl.IssuedAt.Time,
		ExpiresAt: cl.ExpiresAt.Time,
	}, nil
}

func (c *Codec) verificationKey(t *jwtlib.Token) (any, error) {
	return c.secret, nil
}
