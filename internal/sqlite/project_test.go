package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/bidboard/internal/domain/project"
	"github.com/rpggio/bidboard/internal/repository"
	"github.com/stretchr/testify/require"
)

func newProject(title, skills string) *project.Project {
	now := time.Now()
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

func TestProjectRepository_Create(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := newProject("The Title", "Javascript")
	err := repo.Create(ctx, "0xclient", proj)
	require.NoError(t, err)
	require.Equal(t, int64(1), proj.ID)
	require.Equal(t, "0xclient", proj.Owner)

	retrieved, err := repo.Get(ctx, "0xclient", 1)
	require.NoError(t, err)
	require.Equal(t, proj.Title, retrieved.Title)
	require.Equal(t, proj.Description, retrieved.Description)
	require.Equal(t, proj.Skills, retrieved.Skills)
	require.Equal(t, proj.PriceLow, retrieved.PriceLow)
	require.Equal(t, proj.PriceHigh, retrieved.PriceHigh)
	require.Equal(t, proj.DueDate, retrieved.DueDate)

	count, err := repo.ClientCount(ctx, "0xclient")
	require.NoError(t, err)
	require.Equal(t, proj.ID, count)
}

func TestProjectRepository_SequentialIDsPerOwner(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		proj := newProject("A", "Go")
		require.NoError(t, repo.Create(ctx, "0xalice", proj))
		require.Equal(t, i, proj.ID)
	}

	other := newProject("B", "Go")
	require.NoError(t, repo.Create(ctx, "0xbob", other))
	require.Equal(t, int64(1), other.ID)

	count, err := repo.ClientCount(ctx, "0xalice")
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
}

func TestProjectRepository_OwnerIsolation(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "0xalice", newProject("A", "Go")))

	_, err := repo.Get(ctx, "0xbob", 1)
	require.Equal(t, repository.ErrNotFound, err)

	err = repo.Delete(ctx, "0xbob", 1)
	require.Equal(t, repository.ErrNotFound, err)
}

func TestProjectRepository_Update(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := newProject("The Title", "Javascript")
	require.NoError(t, repo.Create(ctx, "0xclient", proj))

	proj.Title = "New Title"
	proj.Skills = "Python"
	proj.PriceLow = 12
	proj.PriceHigh = 19
	proj.DueDate = 1610562600
	require.NoError(t, repo.Update(ctx, "0xclient", proj))

	retrieved, err := repo.Get(ctx, "0xclient", 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), retrieved.ID)
	require.Equal(t, "New Title", retrieved.Title)
	require.Equal(t, "Python", retrieved.Skills)
	require.Equal(t, int64(12), retrieved.PriceLow)
	require.Equal(t, int64(19), retrieved.PriceHigh)
	require.Equal(t, int64(1610562600), retrieved.DueDate)

	missing := newProject("x", "y")
	missing.ID = 99
	require.Equal(t, repository.ErrNotFound, repo.Update(ctx, "0xclient", missing))
}

func TestProjectRepository_DeleteDoesNotReuseIDs(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "0xclient", newProject("A", "Go")))
	require.NoError(t, repo.Delete(ctx, "0xclient", 1))
	require.Equal(t, repository.ErrNotFound, repo.Delete(ctx, "0xclient", 1))
	require.Equal(t, repository.ErrNotFound, repo.Delete(ctx, "0xclient", 99))

	_, err := repo.Get(ctx, "0xclient", 1)
	require.Equal(t, repository.ErrNotFound, err)

	next := newProject("B", "Go")
	require.NoError(t, repo.Create(ctx, "0xclient", next))
	require.Equal(t, int64(2), next.ID)

	count, err := repo.ClientCount(ctx, "0xclient")
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestProjectRepository_List(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "0xclient", newProject("A", "Go, SQL")))
	require.NoError(t, repo.Create(ctx, "0xclient", newProject("B", "Python")))
	require.NoError(t, repo.Create(ctx, "0xclient", newProject("C", "go")))
	require.NoError(t, repo.Create(ctx, "0xother", newProject("D", "Go")))

	all, err := repo.List(ctx, "0xclient", project.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, int64(1), all[0].ID)
	require.Equal(t, int64(3), all[2].ID)

	page, err := repo.List(ctx, "0xclient", project.ListOptions{Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "B", page[0].Title)

	page, err = repo.List(ctx, "0xclient", project.ListOptions{Limit: 1, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "C", page[0].Title)

	goProjects, err := repo.List(ctx, "0xclient", project.ListOptions{Skill: "GO"})
	require.NoError(t, err)
	require.Len(t, goProjects, 2)
	require.Equal(t, "A", goProjects[0].Title)
	require.Equal(t, "C", goProjects[1].Title)
}

func TestProjectRepository_ClientCountUnknownOwner(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	count, err := repo.ClientCount(context.Background(), "0xnobody")
	require.NoError(t, err)
	require.Zero(t, count)
}
