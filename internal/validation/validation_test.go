package validation

import (
	"strings"
	"testing"
)

func TestHabitName(t *testing.T) {
	if err := HabitName("Read 20 pages"); err != nil {
		t.Errorf("expected valid name, got %v", err)
	}
	if err := HabitName("   "); err == nil {
		t.Error("expected error for blank name")
	}
	if err := HabitName(strings.Repeat("x", 81)); err == nil {
		t.Error("expected error for overlong name")
	}
}

func TestHabitCategory(t *testing.T) {
	for _, c := range []string{"health", "fitness", "mindfulness", "productivity", "learning", "other"} {
		if err := HabitCategory(c); err != nil {
			t.Errorf("expected %q valid, got %v", c, err)
		}
	}
	if err := HabitCategory("sports"); err == nil {
		t.Error("expected error for unknown category")
	}
	if err := HabitCategory(""); err == nil {
		t.Error("expected error for empty category")
	}
}

func TestHabitFrequency(t *testing.T) {
	if err := HabitFrequency("daily"); err != nil {
		t.Errorf("expected daily valid, got %v", err)
	}
	if err := HabitFrequency("weekly"); err != nil {
		t.Errorf("expected weekly valid, got %v", err)
	}
	if err := HabitFrequency("monthly"); err == nil {
		t.Error("expected error for monthly")
	}
}

func TestEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com"}
	for _, e := range valid {
		if err := Email(e); err != nil {
			t.Errorf("expected %q valid, got %v", e, err)
		}
	}
	invalid := []string{"", "plain", "a@b", "a b@c.d", "@example.com"}
	for _, e := range invalid {
		if err := Email(e); err == nil {
			t.Errorf("expected error for %q", e)
		}
	}
}

func TestUsername(t *testing.T) {
	if err := Username("habit_fan42"); err != nil {
		t.Errorf("expected valid username, got %v", err)
	}
	for _, u := range []string{"ab", "has space", "dash-ed", strings.Repeat("a", 25)} {
		if err := Username(u); err == nil {
			t.Errorf("expected error for %q", u)
		}
	}
}

func TestPassword(t *testing.T) {
	if err := Password("longenough"); err != nil {
		t.Errorf("expected valid password, got %v", err)
	}
	if err := Password("short"); err == nil {
		t.Error("expected error for short password")
	}
}

func TestReminderTime(t *testing.T) {
	if err := ReminderTime("09:30"); err != nil {
		t.Errorf("expected valid time, got %v", err)
	}
	for _, v := range []string{"0930", "25:00", "09:60", "noon", ""} {
		if err := ReminderTime(v); err == nil {
			t.Errorf("expected error for %q", v)
		}
	}
}

func TestDate(t *testing.T) {
	if err := Date("2026-08-29"); err != nil {
		t.Errorf("expected valid date, got %v", err)
	}
	for _, v := range []string{"08/29/2026", "2026-13-01", ""} {
		if err := Date(v); err == nil {
			t.Errorf("expected error for %q", v)
		}
	}
}
