package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/bidboard/internal/domain/history"
	"github.com/rpggio/bidboard/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func TestHistoryRepository_LogAndList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewHistoryRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	entries := []history.Entry{
		{ProjectID: 1, Type: project.EventCreated, Summary: "created 1", CreatedAt: base},
		{ProjectID: 1, Type: project.EventUpdated, Summary: "updated 1", CreatedAt: base.Add(time.Minute)},
		{ProjectID: 2, Type: project.EventCreated, Summary: "created 2", CreatedAt: base.Add(2 * time.Minute)},
	}
	for i := range entries {
		require.NoError(t, repo.Log(ctx, "0xclient", &entries[i]))
		require.NotZero(t, entries[i].ID)
		require.Equal(t, "0xclient", entries[i].Owner)
	}
	require.NoError(t, repo.Log(ctx, "0xother", &history.Entry{ProjectID: 1, Type: project.EventCreated, Summary: "x"}))

	all, err := repo.List(ctx, "0xclient", history.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "created 2", all[0].Summary)

	forOne, err := repo.List(ctx, "0xclient", history.ListOptions{ProjectID: 1})
	require.NoError(t, err)
	require.Len(t, forOne, 2)
	require.Equal(t, project.EventUpdated, forOne[0].Type)

	created := project.EventCreated
	onlyCreated, err := repo.List(ctx, "0xclient", history.ListOptions{Type: &created, Limit: 1})
	require.NoError(t, err)
	require.Len(t, onlyCreated, 1)
	require.Equal(t, int64(2), onlyCreated[0].ProjectID)

	skipped, err := repo.List(ctx, "0xclient", history.ListOptions{Offset: 2})
	require.NoError(t, err)
	require.Len(t, skipped, 1)
	require.Equal(t, "created 1", skipped[0].Summary)
}
