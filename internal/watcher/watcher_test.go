package watcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitx-app/habitx-cli/internal/models"
	"github.com/habitx-app/habitx-cli/internal/notifier"
	"github.com/habitx-app/habitx-cli/internal/storage"
)

type fakeAPI struct {
	mu    sync.Mutex
	list  models.FriendRequestList
	err   error
	calls int
}

func (f *fakeAPI) FriendRequests(ctx context.Context) (models.FriendRequestList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return models.FriendRequestList{}, f.err
	}
	return f.list, nil
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStore struct {
	mu       sync.Mutex
	settings storage.Settings
	state    storage.ClientState
	saveErr  error
	saves    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{settings: storage.DefaultSettings()}
}

func (f *fakeStore) GetSettings() (storage.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings, nil
}

func (f *fakeStore) GetState() (storage.ClientState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, nil
}

func (f *fakeStore) SaveState(state storage.ClientState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.state = state
	f.saves++
	return nil
}

func (f *fakeStore) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.LastFriendRequestCount
}

type notifyRecorder struct {
	mu    sync.Mutex
	err   error
	calls []string
}

func (n *notifyRecorder) fn(kind notifier.Kind, title, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.calls = append(n.calls, text)
	return nil
}

func (n *notifyRecorder) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func (n *notifyRecorder) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.calls) == 0 {
		return ""
	}
	return n.calls[len(n.calls)-1]
}

func requestsFrom(names ...string) models.FriendRequestList {
	list := models.FriendRequestList{ReceivedCount: len(names)}
	for i, name := range names {
		list.Received = append(list.Received, models.FriendRequest{
			ID:        name,
			Requester: models.User{Username: name},
			Status:    models.FriendRequestPending,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Minute),
		})
	}
	return list
}

func TestNotifiesOnSingleNewRequestWithName(t *testing.T) {
	api := &fakeAPI{list: requestsFrom("ada")}
	store := newFakeStore()
	rec := &notifyRecorder{}

	w := New(api, store, rec.fn)
	w.settings = store.settings
	w.pollOnce(context.Background())

	assert.Equal(t, 1, rec.count())
	assert.Equal(t, "ada sent you a friend request", rec.last())
	assert.Equal(t, 1, store.savedCount())
}

func TestNotifiesGenericCopyOnMultipleNewRequests(t *testing.T) {
	api := &fakeAPI{list: requestsFrom("ada", "grace", "edsger")}
	store := newFakeStore()
	store.state.LastFriendRequestCount = 1
	rec := &notifyRecorder{}

	w := New(api, store, rec.fn)
	w.settings = store.settings
	w.pollOnce(context.Background())

	assert.Equal(t, 1, rec.count())
	assert.Equal(t, "You have 2 new friend requests", rec.last())
	assert.Equal(t, 3, store.savedCount())
}

func TestNoNotificationWhenCountUnchangedOrLower(t *testing.T) {
	api := &fakeAPI{list: requestsFrom("ada")}
	store := newFakeStore()
	store.state.LastFriendRequestCount = 3
	rec := &notifyRecorder{}

	w := New(api, store, rec.fn)
	w.settings = store.settings
	w.pollOnce(context.Background())

	assert.Zero(t, rec.count())
	// Count is still persisted downward so a cancelled request does not
	// replay as "new" later.
	assert.Equal(t, 1, store.savedCount())
}

func TestNotificationFailureSkipsPersistence(t *testing.T) {
	api := &fakeAPI{list: requestsFrom("ada")}
	store := newFakeStore()
	rec := &notifyRecorder{err: errors.New("tray app gone")}

	w := New(api, store, rec.fn)
	w.settings = store.settings
	w.pollOnce(context.Background())

	// Persisted count is stale, so the next successful tick re-detects the
	// same delta (at-least-once delivery).
	assert.Equal(t, 0, store.savedCount())

	rec.mu.Lock()
	rec.err = nil
	rec.mu.Unlock()

	w.pollOnce(context.Background())
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, 1, store.savedCount())
}

func TestFetchFailureLeavesStateUntouched(t *testing.T) {
	api := &fakeAPI{err: errors.New("backend down")}
	store := newFakeStore()
	store.state.LastFriendRequestCount = 2
	rec := &notifyRecorder{}

	w := New(api, store, rec.fn)
	w.settings = store.settings
	w.pollOnce(context.Background())

	assert.Zero(t, rec.count())
	assert.Equal(t, 2, store.savedCount())
}

func TestDisabledAlertsSuppressNotificationButPersistCount(t *testing.T) {
	api := &fakeAPI{list: requestsFrom("ada", "grace")}
	store := newFakeStore()
	store.settings.FriendRequestAlerts = false
	rec := &notifyRecorder{}

	w := New(api, store, rec.fn)
	w.settings = store.settings
	w.pollOnce(context.Background())

	assert.Zero(t, rec.count())
	assert.Equal(t, 2, store.savedCount())
}

func TestLifecycle(t *testing.T) {
	api := &fakeAPI{list: requestsFrom()}
	store := newFakeStore()
	rec := &notifyRecorder{}

	w := New(api, store, rec.fn, WithInterval(10*time.Millisecond))
	require.Equal(t, StateUninitialized, w.State())

	require.NoError(t, w.Init(context.Background()))
	require.Equal(t, StatePolling, w.State())
	require.Error(t, w.Init(context.Background()), "double init must fail")

	// The immediate poll plus at least one tick.
	require.Eventually(t, func() bool { return api.callCount() >= 2 }, time.Second, 5*time.Millisecond)

	w.Pause()
	assert.Equal(t, StatePaused, w.State())
	paused := api.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, api.callCount(), paused+1, "paused watcher must not keep polling")

	w.Resume(context.Background())
	assert.Equal(t, StatePolling, w.State())
	require.Eventually(t, func() bool { return api.callCount() > paused }, time.Second, 5*time.Millisecond)

	w.Close()
	assert.Equal(t, StateStopped, w.State())
}

func TestPokeTriggersOutOfBandPoll(t *testing.T) {
	api := &fakeAPI{list: requestsFrom("ada")}
	store := newFakeStore()
	rec := &notifyRecorder{}

	w := New(api, store, rec.fn, WithInterval(time.Hour))
	require.NoError(t, w.Init(context.Background()))
	first := api.callCount()

	w.Poke(context.Background())
	require.Eventually(t, func() bool { return api.callCount() > first }, time.Second, 5*time.Millisecond)

	w.Close()
}
