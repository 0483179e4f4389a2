package service_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devlog-backend/internal/domains/devlog"
	"devlog-backend/internal/domains/project"
	"devlog-backend/internal/testutil/factory"
)

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9]{6}$`)

func setup(t *testing.T) (*factory.Env, *factory.Factory) {
	t.Helper()
	env := factory.NewEnv()
	return env, factory.New(env)
}

func ptr[T any](v T) *T { return &v }

// ========================================
// SLUGS
// ========================================

func TestCreate_AssignsRandomSlug(t *testing.T) {
	env, f := setup(t)

	l := f.Log(t)
	assert.Regexp(t, slugPattern, l.Slug)

	stored, err := env.Logs.GetBySlug(context.Background(), l.Slug)
	require.NoError(t, err)
	assert.Equal(t, l.ID, stored.ID)
}

func TestSlug_UnaffectedByUpdates(t *testing.T) {
	env, f := setup(t)
	ctx := context.Background()

	l := f.Log(t)
	updated, _, err := env.Logs.Update(ctx, l.ID, devlog.UpdateLogRequest{
		Content:   ptr("rewritten"),
		Important: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, l.Slug, updated.Slug)
}

func TestCreate_SlugFailureKeepsLog(t *testing.T) {
	env, f := setup(t)
	ctx := context.Background()
	p := f.Project(t)

	env.LogRepo.AssignSlugErr = errors.New("connection reset")
	l := f.Log(t, factory.ForProject(p))
	assert.Empty(t, l.Slug)

	env.LogRepo.AssignSlugErr = nil
	n, err := env.Logs.AssignMissingSlugs(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := env.Logs.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Regexp(t, slugPattern, stored.Slug)

	n, err = env.Logs.AssignMissingSlugs(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// ========================================
// VALIDATION
// ========================================

func TestSave_ProjectChangeRejected(t *testing.T) {
	env, f := setup(t)
	ctx := context.Background()

	l := f.Log(t, factory.WithContent("init"))
	other := f.Project(t)

	changed := *l
	changed.ProjectID = other.ID
	_, _, err := env.Logs.Save(ctx, &changed, devlog.NewFieldSet(devlog.FieldProject))

	var immutable *devlog.ImmutableFieldError
	require.ErrorAs(t, err, &immutable)
	assert.Equal(t, "project", immutable.Field)

	stored, err := env.Logs.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.ProjectID, stored.ProjectID)
}

func TestSave_AuthorChangeRejected(t *testing.T) {
	env, f := setup(t)
	ctx := context.Background()

	l := f.Log(t)
	p, err := env.Projects.GetByID(ctx, l.ProjectID)
	require.NoError(t, err)
	member := f.User(t, factory.InProject(p))

	changed := *l
	changed.AuthorID = member.ID
	_, _, err = env.Logs.Save(ctx, &changed, devlog.NewFieldSet(devlog.FieldAuthor))

	var immutable *devlog.ImmutableFieldError
	require.ErrorAs(t, err, &immutable)
	assert.Equal(t, "author", immutable.Field)
}

func TestCreate_AuthorNotInProject(t *testing.T) {
	_, f := setup(t)

	p := f.Project(t)
	outsider := f.User(t)

	_, err := f.TryLog(t, factory.ForProject(p), factory.ByAuthor(outsider), factory.WithContent("test"))

	var authz *devlog.AuthorizationError
	require.ErrorAs(t, err, &authz)
	assert.EqualError(t, err, "author not in the project")
}

func TestCreate_ContributorMayAuthor(t *testing.T) {
	_, f := setup(t)

	member := f.User(t)
	p := f.Project(t, factory.WithContributors(member))

	l := f.Log(t, factory.ForProject(p), factory.ByAuthor(member))
	assert.Equal(t, member.ID, l.AuthorID)
}

func TestSave_UnsavedLogChecksMembership(t *testing.T) {
	env, f := setup(t)
	ctx := context.Background()

	l := f.Log(t)
	outsider := f.User(t)

	unsaved := &devlog.Log{ProjectID: l.ProjectID, AuthorID: outsider.ID, Content: "test"}
	_, _, err := env.Logs.Save(ctx, unsaved, devlog.NewFieldSet(devlog.FieldAuthor))

	var authz *devlog.AuthorizationError
	require.ErrorAs(t, err, &authz)
	assert.EqualError(t, err, "author not in the project")
}

func TestSave_UnsavedLogByMemberNotFound(t *testing.T) {
	env, f := setup(t)

	l := f.Log(t)
	unsaved := &devlog.Log{ProjectID: l.ProjectID, AuthorID: l.AuthorID, Content: "test"}

	_, _, err := env.Logs.Save(context.Background(), unsaved, devlog.NewFieldSet(devlog.FieldAuthor))
	assert.ErrorIs(t, err, devlog.ErrLogNotFound)
}

func TestCreate_UnknownProject(t *testing.T) {
	env, f := setup(t)
	u := f.User(t)

	_, err := env.Logs.Create(context.Background(), devlog.CreateLogRequest{
		ProjectID: uuid.New(),
		AuthorID:  u.ID,
		Content:   "orphan",
	})
	assert.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestCreate_ContentTooLong(t *testing.T) {
	env, f := setup(t)
	p := f.Project(t)

	long := make([]byte, devlog.MaxContentLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err := env.Logs.Create(context.Background(), devlog.CreateLogRequest{
		ProjectID: p.ID,
		AuthorID:  p.AdminID,
		Content:   string(long),
	})
	assert.Error(t, err)
}

// ========================================
// NOTIFICATIONS
// ========================================

func TestUpdate_ContentChangeNotifies(t *testing.T) {
	env, f := setup(t)
	ctx := context.Background()

	l := f.Log(t, factory.WithContent("a"))

	updated, notifications, err := env.Logs.Update(ctx, l.ID, devlog.UpdateLogRequest{Content: ptr("b")})
	require.NoError(t, err)
	assert.Equal(t, "b", updated.Content)

	require.Len(t, notifications, 1)
	assert.Equal(t, "a", notifications[0].Previous)
	assert.Equal(t, "b", notifications[0].Current)

	published := env.Published.All()
	require.Len(t, published, 1)
	assert.Equal(t, l.ID, published[0].LogID)
}

func TestUpdate_EmptyContentAllowed(t *testing.T) {
	env, f := setup(t)

	l := f.Log(t)
	updated, notifications, err := env.Logs.Update(context.Background(), l.ID, devlog.UpdateLogRequest{Content: ptr("")})
	require.NoError(t, err)
	assert.Empty(t, updated.Content)
	assert.Len(t, notifications, 1)
}

func TestUpdate_RejectedUpdatePublishesNothing(t *testing.T) {
	env, f := setup(t)
	ctx := context.Background()

	l := f.Log(t, factory.WithContent("a"))
	other := f.Project(t)

	_, _, err := env.Logs.Update(ctx, l.ID, devlog.UpdateLogRequest{
		Content:   ptr("b"),
		ProjectID: &other.ID,
	})
	require.Error(t, err)
	assert.Empty(t, env.Published.All())

	stored, err := env.Logs.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", stored.Content)
}

func TestUpdate_NoChanges(t *testing.T) {
	env, f := setup(t)
	l := f.Log(t)

	_, _, err := env.Logs.Update(context.Background(), l.ID, devlog.UpdateLogRequest{})
	assert.ErrorIs(t, err, devlog.ErrNoChanges)
}

func TestUpdate_NotifierFailureDoesNotFailUpdate(t *testing.T) {
	env, f := setup(t)
	ctx := context.Background()
	l := f.Log(t, factory.WithContent("a"))

	failing := devlog.NotifierFunc(func(context.Context, devlog.ChangeNotification) error {
		return errors.New("queue down")
	})
	svc := newServiceWithNotifier(env, failing)

	updated, notifications, err := svc.Update(ctx, l.ID, devlog.UpdateLogRequest{Content: ptr("b")})
	require.NoError(t, err)
	assert.Equal(t, "b", updated.Content)
	assert.Len(t, notifications, 1)
}

// ========================================
// READS
// ========================================

func TestList_OrderedByDate(t *testing.T) {
	env, f := setup(t)
	p := f.Project(t)

	first := f.Log(t, factory.ForProject(p))
	second := f.Log(t, factory.ForProject(p), factory.Important())
	f.Log(t) // other project

	logs, err := env.Logs.List(context.Background(), devlog.LogFilter{ProjectID: &p.ID})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, first.ID, logs[0].ID)
	assert.Equal(t, second.ID, logs[1].ID)

	important, err := env.Logs.List(context.Background(), devlog.LogFilter{ImportantOnly: true})
	require.NoError(t, err)
	require.Len(t, important, 1)
	assert.Equal(t, second.ID, important[0].ID)
}

func TestHistory_RecordsPreviousContent(t *testing.T) {
	env, f := setup(t)
	ctx := context.Background()
	l := f.Log(t, factory.WithContent("v1"))

	for _, content := range []string{"v2", "v3"} {
		_, notifications, err := env.Logs.Update(ctx, l.ID, devlog.UpdateLogRequest{Content: ptr(content)})
		require.NoError(t, err)
		for _, n := range notifications {
			_, err := env.Tracker.Change(ctx, n.LogID, n.Previous)
			require.NoError(t, err)
		}
	}

	changes, err := env.Logs.History(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "v1", changes[0].Previous)
	assert.Nil(t, changes[0].LastChangeID)
	assert.Equal(t, "v2", changes[1].Previous)
	require.NotNil(t, changes[1].LastChangeID)
	assert.Equal(t, changes[0].ID, *changes[1].LastChangeID)
}

func TestHistory_UnknownLog(t *testing.T) {
	env, _ := setup(t)

	_, err := env.Logs.History(context.Background(), uuid.New())
	assert.ErrorIs(t, err, devlog.ErrLogNotFound)
}
