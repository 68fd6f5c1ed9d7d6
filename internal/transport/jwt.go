package transport

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpggio/bidboard/internal/domain/account"
)

// Claims are the token claims: the subject is the owner and kind is the
// account kind ("client" or "freelancer", defaulting to freelancer).
type Claims struct {
	jwt.RegisteredClaims
	Kind string `json:"kind,omitempty"`
}

// JWTResolver resolves owners from HS256 tokens whose subject is the owner.
type JWTResolver struct {
	secret []byte
	issuer string
}

// NewJWTResolver creates a resolver verifying tokens with secret. A non-empty
// issuer is required to match the iss claim.
func NewJWTResolver(secret, issuer string) (*JWTResolver, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &JWTResolver{secret: []byte(secret), issuer: issuer}, nil
}

// ResolveOwner verifies token and returns the identity it names.
func (r *JWTResolver) ResolveOwner(_ context.Context, token string) (account.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if r.issuer != "" {
		opts = append(opts, jwt.WithIssuer(r.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	}, opts...)
	if err != nil {
		return account.Identity{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return account.Identity{}, fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	kind, err := account.ParseKind(claims.Kind)
	if err != nil {
		return account.Identity{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	id := account.Identity{Owner: claims.Subject, Kind: kind}
	if err := id.Validate(); err != nil {
		return account.Identity{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return id, nil
}

// Sign issues an HS256 token for claims, defaulting the issuer.
func (r *JWTResolver) Sign(claims Claims) (string, error) {
	if r.issuer != "" && claims.Issuer == "" {
		claims.Issuer = r.issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}
