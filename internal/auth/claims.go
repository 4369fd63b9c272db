package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleReporter = "reporter"
	RoleAdmin    = "admin"
)

// UserClaims is the identity carried in a Beacon access token. Session
// issuance lives in the auth service; this package only reads the result.
type UserClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *UserClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

type contextKey string

const userClaimsKey contextKey = "user_claims"

func SetUserClaims(ctx context.Context, claims *UserClaims) context.Context {
	return context.WithValue(ctx, userClaimsKey, claims)
}

// GetUserClaims returns the claims stored by the auth middleware, or nil.
func GetUserClaims(ctx context.Context) *UserClaims {
	if claims, ok := ctx.Value(userClaimsKey).(*UserClaims); ok {
		return claims
	}
	return nil
}
