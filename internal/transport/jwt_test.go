package transport

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpggio/bidboard/internal/domain/account"
	"github.com/stretchr/testify/require"
)

func claimsFor(subject, kind string, ttl time.Duration) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		Kind: kind,
	}
}

func TestJWTResolver(t *testing.T) {
	resolver, err := NewJWTResolver("s3cret", "bidboard")
	require.NoError(t, err)
	ctx := context.Background()

	token, err := resolver.Sign(claimsFor("0xclient", "client", time.Hour))
	require.NoError(t, err)

	id, err := resolver.ResolveOwner(ctx, token)
	require.NoError(t, err)
	require.Equal(t, account.Identity{Owner: "0xclient", Kind: account.KindClient}, id)

	expired, err := resolver.Sign(claimsFor("0xclient", "", -time.Hour))
	require.NoError(t, err)
	_, err = resolver.ResolveOwner(ctx, expired)
	require.ErrorIs(t, err, ErrUnauthorized)

	noSubject, err := resolver.Sign(claimsFor("", "", time.Hour))
	require.NoError(t, err)
	_, err = resolver.ResolveOwner(ctx, noSubject)
	require.ErrorIs(t, err, ErrUnauthorized)

	other, err := NewJWTResolver("different", "bidboard")
	require.NoError(t, err)
	forged, err := other.Sign(claimsFor("0xclient", "", time.Hour))
	require.NoError(t, err)
	_, err = resolver.ResolveOwner(ctx, forged)
	require.ErrorIs(t, err, ErrUnauthorized)

	wrongIssuer, err := NewJWTResolver("s3cret", "someone-else")
	require.NoError(t, err)
	_, err = wrongIssuer.ResolveOwner(ctx, token)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestJWTResolver_Kind(t *testing.T) {
	resolver, err := NewJWTResolver("s3cret", "")
	require.NoError(t, err)
	ctx := context.Background()

	noKind, err := resolver.Sign(claimsFor("0xdev", "", time.Hour))
	require.NoError(t, err)
	id, err := resolver.ResolveOwner(ctx, noKind)
	require.NoError(t, err)
	require.True(t, id.IsFreelancer())

	short, err := resolver.Sign(claimsFor("0xclient", "CL", time.Hour))
	require.NoError(t, err)
	id, err = resolver.ResolveOwner(ctx, short)
	require.NoError(t, err)
	require.True(t, id.IsClient())

	unknown, err := resolver.Sign(claimsFor("0xadmin", "admin", time.Hour))
	require.NoError(t, err)
	_, err = resolver.ResolveOwner(ctx, unknown)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestNewJWTResolver_RequiresSecret(t *testing.T) {
	_, err := NewJWTResolver(" ", "")
	require.Error(t, err)
}
