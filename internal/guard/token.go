package guard

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// roleClaims is the payload of a minted capability token.
type roleClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// mintToken issues a short-lived token carrying the role, so the frontend
// does not have to keep resending the shared secret.
func (g *Guard) mintToken(role Role) (string, error) {
	ttl := time.Duration(g.auth.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := g.Now()
	claims := &roleClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(g.auth.TokenSecret))
}

// VerifyToken parses a capability token and returns the role it grants.
func (g *Guard) VerifyToken(tokenStr string) (Role, error) {
	if g.auth.TokenSecret == "" {
		return "", ErrUnauthorized
	}
	token, err := jwt.ParseWithClaims(tokenStr, &roleClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(g.auth.TokenSecret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrUnauthorized
	}
	claims, ok := token.Claims.(*roleClaims)
	if !ok {
		return "", ErrUnauthorized
	}
	switch Role(claims.Role) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleGuest:
		return RoleGuest, nil
	}
	return "", ErrUnauthorized
}
