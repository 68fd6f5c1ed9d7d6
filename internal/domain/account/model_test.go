package account_test

import (
	"context"
	"testing"

	"github.com/rpggio/bidboard/internal/domain/account"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	cases := map[string]account.Kind{
		"":           account.KindFreelancer,
		"client":     account.KindClient,
		"CL":         account.KindClient,
		" Client ":   account.KindClient,
		"freelancer": account.KindFreelancer,
		"fl":         account.KindFreelancer,
	}
	for in, want := range cases {
		got, err := account.ParseKind(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := account.ParseKind("admin")
	require.ErrorIs(t, err, account.ErrInvalidKind)
}

func TestIdentity_KindPredicates(t *testing.T) {
	client := account.Identity{Owner: "0xclient", Kind: account.KindClient}
	require.True(t, client.IsClient())
	require.False(t, client.IsFreelancer())

	freelancer := account.Identity{Owner: "0xdev", Kind: account.KindFreelancer}
	require.True(t, freelancer.IsFreelancer())
	require.False(t, freelancer.IsClient())
}

func TestIdentity_Validate(t *testing.T) {
	require.NoError(t, account.Identity{Owner: "0xclient", Kind: account.KindClient}.Validate())
	require.ErrorIs(t, account.Identity{Kind: account.KindClient}.Validate(), account.ErrInvalidOwner)
	require.ErrorIs(t, account.Identity{Owner: "a\x00b", Kind: account.KindClient}.Validate(), account.ErrInvalidOwner)
	require.ErrorIs(t, account.Identity{Owner: "0xclient", Kind: "admin"}.Validate(), account.ErrInvalidKind)
}

func TestContext(t *testing.T) {
	_, ok := account.FromContext(context.Background())
	require.False(t, ok)

	id := account.Identity{Owner: "0xclient", Kind: account.KindClient}
	got, ok := account.FromContext(account.NewContext(context.Background(), id))
	require.True(t, ok)
	require.Equal(t, id, got)
}
