package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/habitx-app/habitx-cli/internal/api"
	"github.com/habitx-app/habitx-cli/internal/breaker"
	"github.com/habitx-app/habitx-cli/internal/constants"
	"github.com/habitx-app/habitx-cli/internal/models"
	"github.com/habitx-app/habitx-cli/internal/storage"
	"github.com/habitx-app/habitx-cli/internal/tui/components/habits"
	"github.com/habitx-app/habitx-cli/internal/validation"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.habitsModel.SetSize(msg.Width, msg.Height-6)
		return m, nil

	case tea.FocusMsg:
		// Foreground again: resume polling and catch up immediately.
		m.watch.Resume(m.watchCtx)
		return m, nil

	case tea.BlurMsg:
		m.watch.Pause()
		return m, nil

	case habitsMsg:
		if msg.err != nil {
			m.toast = api.UserMessage(msg.err)
			m.toastIsError = true
		} else {
			m.toast = ""
			m.toastIsError = false
		}
		m.habitsModel.SetHabits(m.seq.Habits(), m.inFlightSet())
		m.drainCelebrations()
		return m, nil

	case toggleDoneMsg:
		// Toggle errors were already routed through the celebration hooks;
		// here we only re-render the authoritative list.
		m.habitsModel.SetHabits(m.seq.Habits(), m.inFlightSet())
		m.drainCelebrations()
		return m, nil

	case requestsMsg:
		if msg.err != nil {
			if errors.Is(msg.err, breaker.ErrOpen) {
				m.toast = "Friend requests are temporarily unavailable. Try again shortly."
			} else {
				m.toast = api.UserMessage(msg.err)
			}
			m.toastIsError = true
			return m, nil
		}
		m.toast = ""
		m.toastIsError = false
		m.requests = msg.list
		if m.requestCursor >= len(m.requests.Received) {
			m.requestCursor = 0
		}
		return m, nil

	case requestActionMsg:
		if msg.err != nil {
			m.toast = api.UserMessage(msg.err)
			m.toastIsError = true
			return m, nil
		}
		return m, m.loadRequests()

	case leaderboardMsg:
		if msg.err != nil {
			m.toast = api.UserMessage(msg.err)
			m.toastIsError = true
			return m, nil
		}
		m.toast = ""
		m.toastIsError = false
		m.leaderboard = msg.entries
		return m, nil

	case badgeTickMsg:
		if state, err := m.store.GetState(); err == nil {
			m.pendingCount = state.LastFriendRequestCount
		}
		m.drainCelebrations()
		return m, badgeTick()

	case habits.AddHabitMsg:
		m.habitForm = &HabitFormModel{
			Category:  string(models.CategoryOther),
			Frequency: string(models.FrequencyDaily),
		}
		m.form = newHabitForm(m.habitForm)
		m.formError = ""
		m.previousState = m.state
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case habits.ToggleHabitMsg:
		if m.seq.Toggling(msg.ID) {
			return m, nil
		}
		inFlight := m.inFlightSet()
		inFlight[msg.ID] = true
		m.habitsModel.SetHabits(m.seq.Habits(), inFlight)
		return m, m.toggleHabit(msg.ID)

	case habits.DeleteHabitMsg:
		m.habitToDelete = msg.ID
		m.previousState = m.state
		m.state = constants.StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == constants.StateAddHabit || m.state == constants.StateEditSettings {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case constants.StateAddHabit, constants.StateEditSettings:
		if msg.Type == tea.KeyEsc {
			m.state = m.previousState
			m.form = nil
			m.formError = ""
			return m, nil
		}
		return m.updateForm(msg)

	case constants.StateConfirmDelete:
		switch msg.String() {
		case "y":
			id := m.habitToDelete
			m.habitToDelete = ""
			m.state = m.previousState
			return m, m.deleteHabit(id)
		case "n", "esc":
			m.habitToDelete = ""
			m.state = m.previousState
			return m, nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.watchCancel()
		m.watch.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		return m, m.setTab((m.state + 1) % constants.NumMainTabs)
	case key.Matches(msg, m.keys.ShiftTab):
		return m, m.setTab((m.state - 1 + constants.NumMainTabs) % constants.NumMainTabs)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.setTab(m.state)
	}

	switch m.state {
	case constants.StateHabits:
		var cmd tea.Cmd
		m.habitsModel, cmd = m.habitsModel.Update(msg)
		return m, cmd

	case constants.StateFriends:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.requestCursor > 0 {
				m.requestCursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.requestCursor < len(m.requests.Received)-1 {
				m.requestCursor++
			}
		default:
			switch msg.String() {
			case "a":
				if r, ok := m.selectedRequest(); ok {
					return m, m.respondRequest(r.ID, true)
				}
			case "d":
				if r, ok := m.selectedRequest(); ok {
					return m, m.respondRequest(r.ID, false)
				}
			}
		}
		return m, nil

	case constants.StateLeaderboard:
		if msg.String() == "s" {
			if m.leaderboardScope == models.LeaderboardGlobal {
				m.leaderboardScope = models.LeaderboardFriends
			} else {
				m.leaderboardScope = models.LeaderboardGlobal
			}
			return m, m.loadLeaderboard()
		}
		return m, nil

	case constants.StateSettings:
		if key.Matches(msg, m.keys.Enter) || msg.String() == "e" {
			m.settingsForm = &SettingsFormModel{
				NotificationsEnabled: m.settings.NotificationsEnabled,
				FriendRequestAlerts:  m.settings.FriendRequestAlerts,
				StreakAlerts:         m.settings.StreakAlerts,
				DailyReminder:        m.settings.DailyReminder,
				ReminderTime:         m.settings.ReminderTime,
			}
			m.form = newSettingsForm(m.settingsForm)
			m.formError = ""
			m.previousState = m.state
			m.state = constants.StateEditSettings
			return m, m.form.Init()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.state = m.previousState
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		switch m.state {
		case constants.StateAddHabit:
			req := api.CreateHabitRequest{
				Name:      strings.TrimSpace(m.habitForm.Name),
				Category:  models.HabitCategory(m.habitForm.Category),
				Frequency: models.HabitFrequency(m.habitForm.Frequency),
			}
			m.form = nil
			m.state = m.previousState
			cmds = append(cmds, m.addHabit(req))

		case constants.StateEditSettings:
			updated := storage.Settings{
				NotificationsEnabled: m.settingsForm.NotificationsEnabled,
				FriendRequestAlerts:  m.settingsForm.FriendRequestAlerts,
				StreakAlerts:         m.settingsForm.StreakAlerts,
				DailyReminder:        m.settingsForm.DailyReminder,
				ReminderTime:         m.settingsForm.ReminderTime,
			}
			if err := m.store.SaveSettings(updated); err != nil {
				m.formError = "Failed to save settings: " + err.Error()
				m.form.State = huh.StateNormal
				return m, tea.Batch(cmds...)
			}
			m.settings = updated
			m.form = nil
			m.formError = ""
			m.state = m.previousState
		}

	case huh.StateAborted:
		m.form = nil
		m.formError = ""
		m.state = m.previousState
	}

	return m, tea.Batch(cmds...)
}

func (m Model) addHabit(req api.CreateHabitRequest) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.seq.Refresh(ctx); err != nil {
			return habitsMsg{err: err}
		}
		_, wasFirst, err := m.seq.Add(ctx, req)
		if err != nil {
			return habitsMsg{err: err}
		}
		if wasFirst {
			m.celebrations.push("🎉 First habit created. Show up tomorrow to start a streak.")
		}
		return habitsMsg{habits: m.seq.Habits()}
	}
}

func (m Model) deleteHabit(id string) tea.Cmd {
	return func() tea.Msg {
		err := m.seq.Delete(context.Background(), id)
		return habitsMsg{habits: m.seq.Habits(), err: err}
	}
}

func (m Model) respondRequest(requestID string, accept bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if accept {
			err = m.api.AcceptFriendRequest(context.Background(), requestID)
		} else {
			err = m.api.DeclineFriendRequest(context.Background(), requestID)
		}
		return requestActionMsg{err: err}
	}
}

func (m Model) selectedRequest() (models.FriendRequest, bool) {
	if m.requestCursor < 0 || m.requestCursor >= len(m.requests.Received) {
		return models.FriendRequest{}, false
	}
	return m.requests.Received[m.requestCursor], true
}

// setTab switches the active main tab and kicks off that tab's data load.
func (m *Model) setTab(state constants.SessionState) tea.Cmd {
	m.state = state
	m.toast = ""
	m.toastIsError = false
	switch state {
	case constants.StateHabits:
		return m.loadHabits()
	case constants.StateFriends:
		return m.loadRequests()
	case constants.StateLeaderboard:
		return m.loadLeaderboard()
	case constants.StateSettings:
		if s, err := m.store.GetSettings(); err == nil {
			m.settings = s
		}
	}
	return nil
}

// drainCelebrations moves queued reward lines into the visible celebration
// slot. Error lines (pushed with a "!" prefix) land in the toast instead.
func (m *Model) drainCelebrations() {
	var kept []string
	for _, line := range m.celebrations.drain() {
		if strings.HasPrefix(line, "!") {
			m.toast = strings.TrimPrefix(line, "!")
			m.toastIsError = true
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) > 0 {
		m.celebration = strings.Join(kept, "  ")
	}
}

func newHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(validation.HabitName),
			huh.NewSelect[string]().
				Title("Category").
				Options(
					huh.NewOption("Health", string(models.CategoryHealth)),
					huh.NewOption("Fitness", string(models.CategoryFitness)),
					huh.NewOption("Mindfulness", string(models.CategoryMindfulness)),
					huh.NewOption("Productivity", string(models.CategoryProductivity)),
					huh.NewOption("Learning", string(models.CategoryLearning)),
					huh.NewOption("Other", string(models.CategoryOther)),
				).
				Value(&fm.Category),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", string(models.FrequencyDaily)),
					huh.NewOption("Weekly", string(models.FrequencyWeekly)),
				).
				Value(&fm.Frequency),
		),
	).WithTheme(huh.ThemeDracula())
}

func newSettingsForm(fm *SettingsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Notifications Enabled").
				Value(&fm.NotificationsEnabled),
			huh.NewConfirm().
				Title("Friend Request Alerts").
				Value(&fm.FriendRequestAlerts),
			huh.NewConfirm().
				Title("Streak Alerts").
				Value(&fm.StreakAlerts),
			huh.NewConfirm().
				Title("Daily Reminder").
				Value(&fm.DailyReminder),
			huh.NewInput().
				Title("Reminder Time (HH:MM)").
				Value(&fm.ReminderTime).
				Validate(validation.ReminderTime),
		),
	).WithTheme(huh.ThemeDracula())
}
