package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/bidboard/internal/domain/account"
	"github.com/rpggio/bidboard/internal/domain/history"
	"github.com/rpggio/bidboard/internal/domain/project"
	"github.com/rpggio/bidboard/internal/repository"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "bidboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func newProject(title, skills string) *project.Project {
	now := time.Now().UTC()
	return &project.Project{
		Title:       title,
		Description: "The Description",
		Skills:      skills,
		PriceLow:    10,
		PriceHigh:   15,
		DueDate:     1600885800,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestProjectRepository_Lifecycle(t *testing.T) {
	repo := NewProjectRepository(newTestStore(t))
	ctx := context.Background()

	first := newProject("The Title", "Javascript")
	require.NoError(t, repo.Create(ctx, "0xclient", first))
	require.Equal(t, int64(1), first.ID)

	second := newProject("Other", "Go, SQL")
	require.NoError(t, repo.Create(ctx, "0xclient", second))
	require.Equal(t, int64(2), second.ID)

	elsewhere := newProject("Elsewhere", "Go")
	require.NoError(t, repo.Create(ctx, "0xother", elsewhere))
	require.Equal(t, int64(1), elsewhere.ID)

	got, err := repo.Get(ctx, "0xclient", 1)
	require.NoError(t, err)
	require.Equal(t, "The Title", got.Title)
	require.Equal(t, "0xclient", got.Owner)
	require.True(t, first.CreatedAt.Equal(got.CreatedAt))

	first.Title = "New Title"
	first.PriceHigh = 19
	require.NoError(t, repo.Update(ctx, "0xclient", first))
	got, err = repo.Get(ctx, "0xclient", 1)
	require.NoError(t, err)
	require.Equal(t, "New Title", got.Title)
	require.Equal(t, int64(19), got.PriceHigh)

	missing := newProject("x", "y")
	missing.ID = 7
	require.Equal(t, repository.ErrNotFound, repo.Update(ctx, "0xclient", missing))

	_, err = repo.Get(ctx, "0xother", 2)
	require.Equal(t, repository.ErrNotFound, err)

	require.NoError(t, repo.Delete(ctx, "0xclient", 1))
	require.Equal(t, repository.ErrNotFound, repo.Delete(ctx, "0xclient", 1))

	third := newProject("Third", "go")
	require.NoError(t, repo.Create(ctx, "0xclient", third))
	require.Equal(t, int64(3), third.ID)

	count, err := repo.ClientCount(ctx, "0xclient")
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	count, err = repo.ClientCount(ctx, "0xnobody")
	require.NoError(t, err)
	require.Zero(t, count)

	list, err := repo.List(ctx, "0xclient", project.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, int64(2), list[0].ID)
	require.Equal(t, int64(3), list[1].ID)

	goOnly, err := repo.List(ctx, "0xclient", project.ListOptions{Skill: "Go", Limit: 1})
	require.NoError(t, err)
	require.Len(t, goOnly, 1)
	require.Equal(t, "Other", goOnly[0].Title)
}

func TestProjectRepository_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bidboard.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, NewProjectRepository(store).Create(ctx, "0xclient", newProject("A", "Go")))
	address, err := NewComponentRepository(store).Address(ctx, "ProjectStore")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	next := newProject("B", "Go")
	require.NoError(t, NewProjectRepository(store).Create(ctx, "0xclient", next))
	require.Equal(t, int64(2), next.ID)

	again, err := NewComponentRepository(store).Address(ctx, "ProjectStore")
	require.NoError(t, err)
	require.Equal(t, address, again)
}

func TestHistoryRepository_LogAndList(t *testing.T) {
	repo := NewHistoryRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Log(ctx, "0xclient", &history.Entry{ProjectID: 1, Type: project.EventCreated, Summary: "created 1"}))
	require.NoError(t, repo.Log(ctx, "0xclient", &history.Entry{ProjectID: 1, Type: project.EventUpdated, Summary: "updated 1"}))
	require.NoError(t, repo.Log(ctx, "0xother", &history.Entry{ProjectID: 1, Type: project.EventCreated, Summary: "other"}))
	require.NoError(t, repo.Log(ctx, "0xclient", &history.Entry{ProjectID: 2, Type: project.EventCreated, Summary: "created 2"}))

	all, err := repo.List(ctx, "0xclient", history.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "created 2", all[0].Summary)
	require.Equal(t, "created 1", all[2].Summary)

	forOne, err := repo.List(ctx, "0xclient", history.ListOptions{ProjectID: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, forOne, 1)
	require.Equal(t, "updated 1", forOne[0].Summary)

	created := project.EventCreated
	onlyCreated, err := repo.List(ctx, "0xclient", history.ListOptions{Type: &created, Offset: 1})
	require.NoError(t, err)
	require.Len(t, onlyCreated, 1)
	require.Equal(t, int64(1), onlyCreated[0].ProjectID)

	other, err := repo.List(ctx, "0xother", history.ListOptions{})
	require.NoError(t, err)
	require.Len(t, other, 1)
}

func TestAPIKeyRepository_Resolve(t *testing.T) {
	repo := NewAPIKeyRepository(newTestStore(t))
	ctx := context.Background()

	client := account.Identity{Owner: "0xclient", Kind: account.KindClient}
	require.NoError(t, repo.Add(ctx, "secret", client, "test key"))

	err := repo.Add(ctx, "secret", account.Identity{Owner: "0xother", Kind: account.KindFreelancer}, "dup")
	require.ErrorIs(t, err, repository.ErrConflict)

	id, err := repo.ResolveOwner(ctx, "secret")
	require.NoError(t, err)
	require.Equal(t, client, id)

	_, err = repo.ResolveOwner(ctx, "wrong")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, repo.Add(ctx, "k2", account.Identity{Owner: "0xdev", Kind: "admin"}, ""), account.ErrInvalidKind)
}

func TestOwnerRangesDoNotOverlap(t *testing.T) {
	store := newTestStore(t)
	projects := NewProjectRepository(store)
	hist := NewHistoryRepository(store)
	ctx := context.Background()

	// "a" is a byte prefix of every other owner here.
	owners := []string{"a", "a\x00b", "a\x00", "ab"}
	for _, owner := range owners {
		require.NoError(t, projects.Create(ctx, owner, newProject("for "+owner, "Go")))
		require.NoError(t, hist.Log(ctx, owner, &history.Entry{ProjectID: 1, Type: project.EventCreated, Summary: owner}))
	}

	for _, owner := range owners {
		list, err := projects.List(ctx, owner, project.ListOptions{})
		require.NoError(t, err)
		require.Len(t, list, 1, "owner %q", owner)
		require.Equal(t, owner, list[0].Owner)

		entries, err := hist.List(ctx, owner, history.ListOptions{})
		require.NoError(t, err)
		require.Len(t, entries, 1, "owner %q", owner)
		require.Equal(t, owner, entries[0].Summary)
	}
}

func TestPrefixEnd(t *testing.T) {
	require.Equal(t, []byte{0x01, 'b'}, prefixEnd([]byte{0x01, 'a'}))
	require.Equal(t, []byte{0x02}, prefixEnd([]byte{0x01, 0xff}))
	require.Nil(t, prefixEnd([]byte{0xff, 0xff}))
}
