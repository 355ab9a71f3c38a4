// Package tui is the interactive dashboard: habit list with server-backed
// toggling, pending friend-request badge, leaderboard, and settings. Terminal
// focus and blur drive the friend-request watcher the way the mobile app's
// foreground and background transitions do.
package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/habitx-app/habitx-cli/internal/api"
	"github.com/habitx-app/habitx-cli/internal/constants"
	"github.com/habitx-app/habitx-cli/internal/models"
	"github.com/habitx-app/habitx-cli/internal/notifier"
	"github.com/habitx-app/habitx-cli/internal/sequencer"
	"github.com/habitx-app/habitx-cli/internal/storage"
	"github.com/habitx-app/habitx-cli/internal/tui/components/habits"
	"github.com/habitx-app/habitx-cli/internal/watcher"
)

type HabitFormModel struct {
	Name      string
	Category  string
	Frequency string
}

type SettingsFormModel struct {
	NotificationsEnabled bool
	FriendRequestAlerts  bool
	StreakAlerts         bool
	DailyReminder        bool
	ReminderTime         string
}

// lineQueue is a concurrency-safe line buffer. The sequencer's celebration
// hooks and the watcher's notify fallback push from their goroutines; the
// update loop drains on its own schedule.
type lineQueue struct {
	mu    sync.Mutex
	lines []string
}

func (q *lineQueue) push(line string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.lines = append(q.lines, line)
}

func (q *lineQueue) drain() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.lines
	q.lines = nil
	return out
}

type habitsMsg struct {
	habits []models.Habit
	err    error
}

type toggleDoneMsg struct {
	id  string
	err error
}

type requestsMsg struct {
	list models.FriendRequestList
	err  error
}

type requestActionMsg struct {
	err error
}

type leaderboardMsg struct {
	entries []models.LeaderboardEntry
	err     error
}

type badgeTickMsg time.Time

type Model struct {
	api   *api.Client
	store storage.Provider
	notif *notifier.Notifier

	seq          *sequencer.Sequencer
	watch        *watcher.Watcher
	watchCtx     context.Context
	watchCancel  context.CancelFunc
	celebrations *lineQueue

	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	habitsModel   habits.Model

	requests         models.FriendRequestList
	requestCursor    int
	leaderboard      []models.LeaderboardEntry
	leaderboardScope models.LeaderboardScope
	settings         storage.Settings

	form          *huh.Form
	formError     string
	habitForm     *HabitFormModel
	settingsForm  *SettingsFormModel
	habitToDelete string

	pendingCount int
	celebration  string
	toast        string
	toastIsError bool
	quitting     bool
	width        int
	height       int
}

func NewModel(apiClient *api.Client, store storage.Provider, notif *notifier.Notifier) Model {
	queue := &lineQueue{}

	settings, err := store.GetSettings()
	if err != nil {
		settings = storage.DefaultSettings()
	}

	seq := sequencer.New(apiClient, celebrationHooks(queue, notif, settings))

	watchCtx, watchCancel := context.WithCancel(context.Background())
	w := watcher.New(apiClient, store, func(kind notifier.Kind, title, text string) error {
		if err := notif.Notify(kind, title, text); err != nil {
			// Surface in the dashboard instead; still counts as delivered.
			queue.push(text)
		}
		return nil
	})

	state, _ := store.GetState()
	if !state.SplashShown {
		queue.push("Welcome to HabitX! Press ? for help, 'a' to add your first habit.")
		state.SplashShown = true
		_ = store.SaveState(state)
	}

	return Model{
		api:              apiClient,
		store:            store,
		notif:            notif,
		seq:              seq,
		watch:            w,
		watchCtx:         watchCtx,
		watchCancel:      watchCancel,
		celebrations:     queue,
		state:            constants.StateHabits,
		keys:             DefaultKeyMap(),
		help:             help.New(),
		habitsModel:      habits.New(nil, nil, 0, 0),
		leaderboardScope: models.LeaderboardGlobal,
		settings:         settings,
		pendingCount:     state.LastFriendRequestCount,
	}
}

// celebrationHooks routes reward feedback into the dashboard's celebration
// line and mirrors streak events to the tray when the settings allow it.
func celebrationHooks(queue *lineQueue, notif *notifier.Notifier, settings storage.Settings) sequencer.Celebrations {
	streakAlerts := settings.NotificationsEnabled && settings.StreakAlerts
	return sequencer.Celebrations{
		XP: func(awarded int, leveledUp bool, newLevel int) {
			line := fmt.Sprintf("+%d XP", awarded)
			if leveledUp {
				line = fmt.Sprintf("+%d XP · Level %d reached!", awarded, newLevel)
			}
			queue.push(line)
		},
		StreakMilestone: func(h models.Habit, bonus int) {
			line := fmt.Sprintf("🔥 %d-day streak on %q", h.Streak, h.Name)
			if bonus > 0 {
				line += fmt.Sprintf(" (+%d bonus XP)", bonus)
			}
			queue.push(line)
			if streakAlerts {
				_ = notif.Notify(notifier.KindStreak, "Streak milestone", line)
			}
		},
		PerfectDay: func(count int) {
			line := fmt.Sprintf("⭐ Perfect day! All %d habits completed.", count)
			queue.push(line)
			if streakAlerts {
				_ = notif.Notify(notifier.KindPerfectDay, "Perfect Day", line)
			}
		},
		Achievement: func(a models.Achievement) {
			queue.push(fmt.Sprintf("🏆 Achievement unlocked: %s", a.Name))
			if streakAlerts {
				_ = notif.Notify(notifier.KindAchievement, "Achievement unlocked", a.Name)
			}
		},
		Error: func(msg string) {
			queue.push("!" + msg)
		},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadHabits(),
		m.startWatcher(),
		badgeTick(),
	)
}

func (m Model) loadHabits() tea.Cmd {
	return func() tea.Msg {
		err := m.seq.Refresh(context.Background())
		return habitsMsg{habits: m.seq.Habits(), err: err}
	}
}

func (m Model) toggleHabit(id string) tea.Cmd {
	return func() tea.Msg {
		err := m.seq.Toggle(context.Background(), id)
		return toggleDoneMsg{id: id, err: err}
	}
}

func (m Model) loadRequests() tea.Cmd {
	return func() tea.Msg {
		list, err := m.api.FriendRequests(context.Background())
		return requestsMsg{list: list, err: err}
	}
}

func (m Model) loadLeaderboard() tea.Cmd {
	scope := m.leaderboardScope
	return func() tea.Msg {
		entries, err := m.api.Leaderboard(context.Background(), scope)
		return leaderboardMsg{entries: entries, err: err}
	}
}

func (m Model) startWatcher() tea.Cmd {
	return func() tea.Msg {
		_ = m.watch.Init(m.watchCtx)
		return nil
	}
}

// badgeTick refreshes the pending-request badge and drains queued
// celebration lines once a second.
func badgeTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return badgeTickMsg(t)
	})
}

func (m Model) inFlightSet() map[string]bool {
	set := make(map[string]bool)
	for _, h := range m.seq.Habits() {
		if m.seq.Toggling(h.ID) {
			set[h.ID] = true
		}
	}
	return set
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Refresh, m.keys.Quit, m.keys.Help}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Refresh, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter}
	return [][]key.Binding{global, navigation}
}
