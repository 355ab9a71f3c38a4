// Package watcher polls the backend for newly arrived friend requests while
// the app is in the foreground and surfaces local notifications on detected
// deltas.
package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/habitx-app/habitx-cli/internal/constants"
	"github.com/habitx-app/habitx-cli/internal/logger"
	"github.com/habitx-app/habitx-cli/internal/models"
	"github.com/habitx-app/habitx-cli/internal/notifier"
	"github.com/habitx-app/habitx-cli/internal/storage"
)

// State is the watcher lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StatePolling
	StatePaused
	StateStopped
)

// API is the slice of the backend client the watcher needs.
type API interface {
	FriendRequests(ctx context.Context) (models.FriendRequestList, error)
}

// Store is the slice of the state store the watcher needs.
type Store interface {
	GetSettings() (storage.Settings, error)
	GetState() (storage.ClientState, error)
	SaveState(storage.ClientState) error
}

// NotifyFunc delivers one local notification.
type NotifyFunc func(kind notifier.Kind, title, text string) error

// Watcher periodically fetches the friend-request list, diffs the received
// count against the last persisted count, and notifies on increases.
// Construct with New; instances are independent, there is no package-level
// singleton.
type Watcher struct {
	api      API
	store    Store
	notify   NotifyFunc
	interval time.Duration

	mu       sync.Mutex
	state    State
	settings storage.Settings

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval overrides the poll interval (tests).
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) { w.interval = d }
}

// New returns an uninitialized Watcher.
func New(api API, store Store, notify NotifyFunc, opts ...Option) *Watcher {
	w := &Watcher{
		api:      api,
		store:    store,
		notify:   notify,
		interval: constants.WatchPollInterval,
		state:    StateUninitialized,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the current lifecycle state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Init loads persisted settings, starts the poll loop, and performs one
// immediate poll. Calling Init on an already-initialized watcher is an error.
func (w *Watcher) Init(ctx context.Context) error {
	w.mu.Lock()
	if w.state != StateUninitialized {
		w.mu.Unlock()
		return fmt.Errorf("watcher already initialized")
	}
	w.state = StateInitializing
	w.mu.Unlock()

	settings, err := w.store.GetSettings()
	if err != nil {
		// Fall back to defaults rather than refusing to start; the poll
		// loop still keeps the persisted count current.
		logger.Warn("Failed to load notification settings, using defaults", "error", err)
		settings = storage.DefaultSettings()
	}

	loopCtx, cancel := context.WithCancel(ctx)

	w.mu.Lock()
	w.settings = settings
	w.cancel = cancel
	w.state = StatePolling
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(loopCtx)

	// Immediate first poll so a fresh foreground session reflects reality
	// without waiting a full interval.
	w.pollOnce(loopCtx)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.State() != StatePolling {
				continue
			}
			w.pollOnce(ctx)
		}
	}
}

// Pause suspends interval polling (app backgrounded).
func (w *Watcher) Pause() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StatePolling {
		w.state = StatePaused
	}
}

// Resume restarts interval polling and triggers an out-of-band poll (app
// returned to foreground).
func (w *Watcher) Resume(ctx context.Context) {
	w.mu.Lock()
	if w.state != StatePaused {
		w.mu.Unlock()
		return
	}
	w.state = StatePolling
	w.mu.Unlock()

	w.Poke(ctx)
}

// Poke triggers one out-of-band poll. Overlapping polls are not
// de-duplicated; the last completed poll's persistence wins.
func (w *Watcher) Poke(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollOnce(ctx)
	}()
}

// Close stops the poll loop and cancels any in-flight fetch.
func (w *Watcher) Close() {
	w.mu.Lock()
	if w.state == StateStopped {
		w.mu.Unlock()
		return
	}
	w.state = StateStopped
	cancel := w.cancel
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}

// pollOnce runs a single poll tick: fetch, diff, notify, persist. The
// notification happens-before persistence; a notification failure skips
// persistence for this tick so the next tick recomputes the same delta
// (at-least-once, not exactly-once).
func (w *Watcher) pollOnce(ctx context.Context) {
	list, err := w.api.FriendRequests(ctx)
	if err != nil {
		// Breaker-open and transport failures both land here. Nothing to
		// surface; the next tick retries.
		logger.Debug("Friend request poll failed", "error", err)
		return
	}

	state, err := w.store.GetState()
	if err != nil {
		logger.Warn("Failed to read persisted friend request count", "error", err)
		return
	}

	current := list.ReceivedCount
	previous := state.LastFriendRequestCount

	if current > previous && w.alertsEnabled() {
		delta := current - previous
		title, text := requestCopy(delta, list.Received)
		if err := w.notify(notifier.KindFriendRequest, title, text); err != nil {
			// Skip persistence so the delta is re-detected next tick.
			logger.Warn("Friend request notification failed", "error", err)
			return
		}
	}

	state.LastFriendRequestCount = current
	if err := w.store.SaveState(state); err != nil {
		logger.Warn("Failed to persist friend request count", "error", err)
	}
}

func (w *Watcher) alertsEnabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.settings.NotificationsEnabled && w.settings.FriendRequestAlerts
}

// requestCopy builds the notification for a detected delta: the single new
// requester's name when exactly one arrived, a generic count otherwise.
func requestCopy(delta int, received []models.FriendRequest) (title, text string) {
	title = "New friend request"
	if delta == 1 && len(received) > 0 {
		latest := received[len(received)-1]
		name := latest.Requester.DisplayName
		if name == "" {
			name = latest.Requester.Username
		}
		return title, fmt.Sprintf("%s sent you a friend request", name)
	}
	return "New friend requests", fmt.Sprintf("You have %d new friend requests", delta)
}
