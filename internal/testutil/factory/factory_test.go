package factory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devlog-backend/internal/domains/user"
	"devlog-backend/internal/testutil/factory"
)

const batchSize = 15

func TestUserFactory_Batch(t *testing.T) {
	f := factory.New(factory.NewEnv())

	seen := make(map[string]int)
	for i := 0; i < batchSize; i++ {
		u := f.User(t)
		assert.NotEqual(t, uuid.Nil, u.ID)
		assert.NotEmpty(t, u.Username)
		assert.True(t, user.IsValidUsername(u.Username))
		seen[u.Username]++
	}

	for username, count := range seen {
		assert.Equal(t, 1, count, "username %s reused", username)
	}
}

func TestUserFactory_Superuser(t *testing.T) {
	f := factory.New(factory.NewEnv())

	u := f.User(t, factory.Superuser())
	assert.True(t, u.IsStaff)
	assert.True(t, u.IsSuperuser)
}

func TestProjectFactory_Batch(t *testing.T) {
	f := factory.New(factory.NewEnv())

	names := make(map[string]int)
	for i := 0; i < batchSize; i++ {
		p := f.Project(t)
		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.NotEqual(t, uuid.Nil, p.AdminID)
		assert.NotEmpty(t, p.Slug)
		assert.LessOrEqual(t, len(p.Description), 200)
		names[p.Name]++
	}

	for name, count := range names {
		assert.Equal(t, 1, count, "project name %s reused", name)
	}
}

func TestProjectFactory_WithContributors(t *testing.T) {
	env := factory.NewEnv()
	f := factory.New(env)

	users := make([]*user.User, 0, batchSize)
	ids := make([]uuid.UUID, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		u := f.User(t)
		users = append(users, u)
		ids = append(ids, u.ID)
	}

	p := f.Project(t, factory.WithContributors(users...))
	assert.Equal(t, ids, p.ContributorIDs)

	stored, err := env.Projects.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, ids, stored.ContributorIDs)
}

func TestUserFactory_InProject(t *testing.T) {
	f := factory.New(factory.NewEnv())

	p := f.Project(t)
	u := f.User(t, factory.InProject(p))

	assert.True(t, p.HasContributor(u.ID))
	assert.True(t, p.IsMember(u.ID))
}

func TestLogFactory(t *testing.T) {
	env := factory.NewEnv()
	f := factory.New(env)

	l := f.Log(t)

	assert.NotEqual(t, uuid.Nil, l.ID)
	assert.NotEmpty(t, l.Content)
	assert.LessOrEqual(t, len(l.Content), 256)

	p, err := env.Projects.GetByID(context.Background(), l.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, p.AdminID, l.AuthorID)
}
