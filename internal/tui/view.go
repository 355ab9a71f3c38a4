package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/habitx-app/habitx-cli/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateHabits:
		content = m.viewHabits()
	case constants.StateFriends:
		content = m.viewFriends()
	case constants.StateLeaderboard:
		content = m.viewLeaderboard()
	case constants.StateSettings:
		content = m.viewSettings()
	case constants.StateAddHabit, constants.StateEditSettings:
		content = m.viewForm()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	titles := []string{"Habits", "Friends", "Leaderboard", "Settings"}
	if m.pendingCount > 0 {
		titles[constants.StateFriends] += " " + badgeStyle.Render(fmt.Sprintf("%d", m.pendingCount))
	}

	var tabs []string
	for i, title := range titles {
		if m.state == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// viewStatus is the single line under the content: reward feedback when
// there is some, error copy when something failed.
func (m Model) viewStatus() string {
	switch {
	case m.toast != "" && m.toastIsError:
		return errorStyle.Render(m.toast)
	case m.toast != "":
		return subtleStyle.Render(m.toast)
	case m.celebration != "":
		return celebrationStyle.Render(m.celebration)
	}
	return ""
}

func (m Model) viewHabits() string {
	return docStyle.Render(m.habitsModel.View())
}

func (m Model) viewFriends() string {
	var b strings.Builder

	received := m.requests.Received
	if len(received) == 0 {
		b.WriteString(subtleStyle.Render("No pending friend requests."))
	} else {
		b.WriteString(fmt.Sprintf("Pending requests (%d):\n\n", len(received)))
		for i, r := range received {
			name := r.Requester.DisplayName
			if name == "" {
				name = r.Requester.Username
			}
			cursor := "  "
			if i == m.requestCursor {
				cursor = "→ "
			}
			b.WriteString(fmt.Sprintf("%s%s (@%s)\n", cursor, name, r.Requester.Username))
		}
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render("[a] accept · [d] decline"))
	}

	if len(m.requests.Sent) > 0 {
		b.WriteString(fmt.Sprintf("\n\nSent (%d):\n", len(m.requests.Sent)))
		for _, r := range m.requests.Sent {
			b.WriteString(fmt.Sprintf("  @%s (pending)\n", r.Recipient.Username))
		}
	}

	return docStyle.Render(b.String())
}

func (m Model) viewLeaderboard() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Leaderboard — %s", m.leaderboardScope))
	b.WriteString(subtleStyle.Render("  ([s] switch scope)"))
	b.WriteString("\n\n")

	if len(m.leaderboard) == 0 {
		b.WriteString(subtleStyle.Render("Nothing here yet."))
		return docStyle.Render(b.String())
	}

	for _, e := range m.leaderboard {
		line := fmt.Sprintf("%3d. %-20s Lv %-3d %6d XP  🔥 %d", e.Rank, e.Username, e.Level, e.XP, e.Streak)
		if e.IsSelf {
			line = activeTabStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	return docStyle.Render(b.String())
}

func (m Model) viewSettings() string {
	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}

	var b strings.Builder
	b.WriteString("Notification Settings:\n\n")
	b.WriteString(fmt.Sprintf("  Notifications:          %s\n", onOff(m.settings.NotificationsEnabled)))
	b.WriteString(fmt.Sprintf("  Friend request alerts:  %s\n", onOff(m.settings.FriendRequestAlerts)))
	b.WriteString(fmt.Sprintf("  Streak alerts:          %s\n", onOff(m.settings.StreakAlerts)))
	b.WriteString(fmt.Sprintf("  Daily reminder:         %s\n", onOff(m.settings.DailyReminder)))
	b.WriteString(fmt.Sprintf("  Reminder time:          %s\n", m.settings.ReminderTime))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("[enter] edit"))
	return docStyle.Render(b.String())
}

func (m Model) viewForm() string {
	if m.form == nil {
		return ""
	}
	view := m.form.View()
	if m.formError != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, errorStyle.Render(m.formError), view)
	}
	return docStyle.Render(view)
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Delete this habit? Its streak history goes with it."),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
