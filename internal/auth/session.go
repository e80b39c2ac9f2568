package auth

import (
	"fmt"

	"github.com/wanderlust-tours/wanderlust/internal/access"
)

// Resolve turns a session token into the session the access gate reads. An
// empty token is an anonymous visitor. The returned error explains why a
// non-empty token was rejected; the session is still usable as anonymous.
func (p *Provider) Resolve(token string) (access.Session, *JWTClaims, error) {
	if !p.Ready() {
		return access.Loading(), nil, nil
	}
	if token == "" {
		return access.Anonymous(), nil, nil
	}

	claims, err := p.ValidateToken(token)
	if err != nil {
		return access.Anonymous(), nil, err
	}

	role := access.Role(claims.Role)
	if !role.Valid() {
		return access.Anonymous(), nil, fmt.Errorf("unknown role %q", claims.Role)
	}

	return access.Session{
		Status:      access.StatusAuthenticated,
		Role:        role,
		DisplayName: claims.Name,
		UserID:      claims.UserID,
	}, claims, nil
}
