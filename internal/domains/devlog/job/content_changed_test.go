package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"devlog-backend/internal/domains/devlog"
	"devlog-backend/internal/domains/history"
	"devlog-backend/internal/shared"
	"devlog-backend/internal/testutil/memstore"
)

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, opts)
	info, _ := args.Get(0).(*asynq.TaskInfo)
	return info, args.Error(1)
}

func contentNotification() devlog.ChangeNotification {
	return devlog.ChangeNotification{
		LogID:    uuid.New(),
		Field:    devlog.FieldContent,
		Previous: "a",
		Current:  "b",
		At:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestQueueNotifier_EnqueuesContentChange(t *testing.T) {
	n := contentNotification()
	enq := &mockEnqueuer{}
	enq.On("EnqueueContext", mock.Anything, mock.MatchedBy(func(task *asynq.Task) bool {
		var p ContentChangedPayload
		if task.Type() != shared.TypeLogContentChanged || json.Unmarshal(task.Payload(), &p) != nil {
			return false
		}
		return p.LogID == n.LogID && p.Previous == "a" && p.Current == "b"
	}), mock.Anything).Return(&asynq.TaskInfo{ID: "task-1"}, nil).Once()

	err := NewQueueNotifier(enq, 3).Notify(context.Background(), n)
	require.NoError(t, err)
	enq.AssertExpectations(t)
}

func TestQueueNotifier_IgnoresOtherFields(t *testing.T) {
	enq := &mockEnqueuer{}
	n := contentNotification()
	n.Field = devlog.FieldImportant

	require.NoError(t, NewQueueNotifier(enq, 3).Notify(context.Background(), n))
	enq.AssertNotCalled(t, "EnqueueContext", mock.Anything, mock.Anything, mock.Anything)
}

func TestQueueNotifier_EnqueueError(t *testing.T) {
	enq := &mockEnqueuer{}
	enq.On("EnqueueContext", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))

	err := NewQueueNotifier(enq, 3).Notify(context.Background(), contentNotification())
	assert.ErrorContains(t, err, "redis down")
}

func TestContentChangedHandler_BuildsChain(t *testing.T) {
	store := memstore.NewHistory[string]()
	h := NewContentChangedHandler(history.NewTracker[string](store))
	logID := uuid.New()

	for _, prev := range []string{"a", "b"} {
		payload, err := json.Marshal(ContentChangedPayload{LogID: logID, Previous: prev})
		require.NoError(t, err)
		require.NoError(t, h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeLogContentChanged, payload)))
	}

	changes, err := store.List(context.Background(), logID)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.True(t, changes[0].IsFirst())
	assert.Equal(t, changes[0].ID, *changes[1].LastChangeID)
	assert.Equal(t, "b", changes[1].Previous)
}

func TestContentChangedHandler_OrdersByChangeTime(t *testing.T) {
	store := memstore.NewHistory[string]()
	h := NewContentChangedHandler(history.NewTracker[string](store))
	logID := uuid.New()
	earlier := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Minute)

	// the earlier change is retried and processed last
	for _, p := range []ContentChangedPayload{
		{LogID: logID, Previous: "second", ChangedAt: later},
		{LogID: logID, Previous: "first", ChangedAt: earlier},
	} {
		payload, err := json.Marshal(p)
		require.NoError(t, err)
		require.NoError(t, h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeLogContentChanged, payload)))
	}

	changes, err := store.List(context.Background(), logID)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "first", changes[0].Previous)
	assert.Equal(t, earlier, changes[0].Date)
	assert.True(t, changes[0].IsFirst())
	assert.Equal(t, "second", changes[1].Previous)
	require.NotNil(t, changes[1].LastChangeID)
	assert.Equal(t, changes[0].ID, *changes[1].LastChangeID)
}

func TestContentChangedHandler_BadPayloadSkipsRetry(t *testing.T) {
	h := NewContentChangedHandler(history.NewTracker[string](memstore.NewHistory[string]()))

	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeLogContentChanged, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeLogContentChanged, []byte(`{"previous":"a"}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHistoryNotifier(t *testing.T) {
	store := memstore.NewHistory[string]()
	n := contentNotification()

	require.NoError(t, NewHistoryNotifier(history.NewTracker[string](store)).Notify(context.Background(), n))

	changes, err := store.List(context.Background(), n.LogID)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "a", changes[0].Previous)
	assert.Equal(t, n.At, changes[0].Date)
}

type countingBackfiller struct {
	assigned int
	err      error
	limit    int
}

func (c *countingBackfiller) AssignMissingSlugs(_ context.Context, limit int) (int, error) {
	c.limit = limit
	return c.assigned, c.err
}

func TestBackfillSlugsHandler(t *testing.T) {
	projects := &countingBackfiller{assigned: 2}
	logs := &countingBackfiller{err: errors.New("db gone")}
	h := NewBackfillSlugsHandler(map[string]SlugBackfiller{"projects": projects, "logs": logs})

	task, err := NewBackfillSlugsTask(0)
	require.NoError(t, err)

	err = h.ProcessTask(context.Background(), task)
	assert.ErrorContains(t, err, "logs: db gone")
	assert.Equal(t, defaultBackfillBatch, projects.limit)
	assert.Equal(t, defaultBackfillBatch, logs.limit)
}
