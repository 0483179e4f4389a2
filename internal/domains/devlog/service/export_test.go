package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devlog-backend/internal/domains/project"
	"devlog-backend/internal/testutil/factory"
)

func TestExportProjectLogs(t *testing.T) {
	env, f := setup(t)
	p := f.Project(t)
	first := f.Log(t, factory.ForProject(p), factory.WithContent("first entry"))
	f.Log(t, factory.ForProject(p), factory.WithContent("second entry"), factory.Important())

	file, err := env.Logs.ExportProjectLogs(context.Background(), p.ID)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("Logs")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"ID", "Slug", "Date", "Author ID", "Content", "Important"}, rows[0])
	assert.Equal(t, first.ID.String(), rows[1][0])
	assert.Equal(t, first.Slug, rows[1][1])
	assert.Equal(t, "first entry", rows[1][4])
	assert.Equal(t, "second entry", rows[2][4])
	assert.Equal(t, "no", rows[1][5])
	assert.Equal(t, "yes", rows[2][5])
}

func TestExportProjectLogs_UnknownProject(t *testing.T) {
	env, _ := setup(t)

	_, err := env.Logs.ExportProjectLogs(context.Background(), uuid.New())
	assert.ErrorIs(t, err, project.ErrProjectNotFound)
}
