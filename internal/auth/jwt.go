package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNotInitialized = errors.New("JWT secret not initialized")

// JWTClaims represents the JWT token claims
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Provider issues and validates session tokens. Until a secret is set the
// provider is loading and every session it resolves is pending.
type Provider struct {
	mu     sync.RWMutex
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	ready  chan struct{}
}

// NewProvider creates a provider whose tokens expire after ttl
func NewProvider(ttl time.Duration) *Provider {
	return &Provider{
		ttl:   ttl,
		now:   time.Now,
		ready: make(chan struct{}),
	}
}

// Initialize sets the signing secret. The first call resolves the loading
// latch; later calls rotate the secret.
func (p *Provider) Initialize(secret string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	first := len(p.secret) == 0
	p.secret = []byte(secret)
	if first {
		close(p.ready)
	}
}

// Ready reports whether a secret has been set
func (p *Provider) Ready() bool {
	select {
	case <-p.ready:
		return true
	default:
		return false
	}
}

// Done is closed once the provider has a secret
func (p *Provider) Done() <-chan struct{} {
	return p.ready
}

// GenerateToken creates a new JWT token for a user
func (p *Provider) GenerateToken(userID, email, name, role string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.secret) == 0 {
		return "", ErrNotInitialized
	}

	now := p.now()
	claims := JWTClaims{
		UserID: userID,
		Email:  email,
		Name:   name,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// ValidateToken validates a JWT token and returns the claims
func (p *Provider) ValidateToken(tokenString string) (*JWTClaims, error) {
	p.mu.RLock()
	secret := p.secret
	p.mu.RUnlock()

	if len(secret) == 0 {
		return nil, ErrNotInitialized
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(p.now))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
