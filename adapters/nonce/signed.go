package nonce

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/layer-3/x403auth/core"
)

// AudienceChallenge scopes signed challenges so other ES256 tokens are not accepted
const AudienceChallenge = "x403:challenge"

// expiryLeeway covers exp being encoded in whole seconds while the advertised
// expiry carries milliseconds
const expiryLeeway = time.Second

// ChallengeClaims combines standard claims with the random nonce
type ChallengeClaims struct {
	jwt.RegisteredClaims
	Nonce string `json:"nonce"`
}

// SignedChallenges issues challenges as ES256 tokens carrying their own expiry,
// so staleness and forgery can be checked without a server-side nonce store.
type SignedChallenges struct {
	signKey *ecdsa.PrivateKey
	ttl     time.Duration
	now     func() time.Time
}

// SignedOption configures SignedChallenges
type SignedOption func(*SignedChallenges)

// WithClock sets the clock used to stamp issued challenges. It should be the
// same clock the authenticator advertises expiry with.
func WithClock(now func() time.Time) SignedOption {
	return func(s *SignedChallenges) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSignedChallenges creates a signed challenge generator and validator
func NewSignedChallenges(signKey *ecdsa.PrivateKey, ttl time.Duration, opts ...SignedOption) *SignedChallenges {
	s := &SignedChallenges{
		signKey: signKey,
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate issues a new challenge token
func (s *SignedChallenges) Generate() (string, error) {
	nonce, err := generateNonce(DefaultSize)
	if err != nil {
		return "", err
	}

	now := s.now()
	claims := ChallengeClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Audience:  jwt.ClaimStrings{AudienceChallenge},
		},
		Nonce: nonce,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)

	signedToken, err := token.SignedString(s.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign challenge: %w", err)
	}

	return signedToken, nil
}

// Validate checks that challenge was signed by this key and has not expired at now
func (s *SignedChallenges) Validate(challenge string, now time.Time) error {
	token, err := jwt.ParseWithClaims(challenge, &ChallengeClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &s.signKey.PublicKey, nil
	},
		jwt.WithAudience(AudienceChallenge),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(expiryLeeway),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return core.ErrChallengeExpired
		}
		return fmt.Errorf("%w: %v", core.ErrInvalidChallenge, err)
	}

	if !token.Valid {
		return core.ErrInvalidChallenge
	}

	claims, ok := token.Claims.(*ChallengeClaims)
	if !ok || claims.Nonce == "" {
		return core.ErrInvalidChallenge
	}

	return nil
}
