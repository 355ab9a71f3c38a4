package sequencer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitx-app/habitx-cli/internal/api"
	"github.com/habitx-app/habitx-cli/internal/models"
)

const testToday = "2026-08-29"

var testNow = time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

type fakeAPI struct {
	mu sync.Mutex

	habits       []models.Habit
	toggleResult models.ToggleResult
	toggleErr    error
	toggleDelay  time.Duration
	listErr      error
	unlocked     []models.Achievement
	checkErr     error
	createErr    error

	toggleCalls []string // idempotency keys, in order
	listCalls   int
	checkCalls  int
}

func (f *fakeAPI) ListHabits(_ context.Context) ([]models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Habit, len(f.habits))
	copy(out, f.habits)
	return out, nil
}

func (f *fakeAPI) CreateHabit(_ context.Context, req api.CreateHabitRequest) (models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.Habit{}, f.createErr
	}
	return models.Habit{ID: "new", Name: req.Name, Category: req.Category, Frequency: req.Frequency}, nil
}

func (f *fakeAPI) ToggleHabit(_ context.Context, _, idempotencyKey string) (models.ToggleResult, error) {
	f.mu.Lock()
	delay := f.toggleDelay
	f.toggleCalls = append(f.toggleCalls, idempotencyKey)
	result, err := f.toggleResult, f.toggleErr
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	return result, err
}

func (f *fakeAPI) DeleteHabit(_ context.Context, _ string) error { return nil }

func (f *fakeAPI) CheckAchievements(_ context.Context) ([]models.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkCalls++
	return f.unlocked, f.checkErr
}

func (f *fakeAPI) toggleCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.toggleCalls)
}

// recorder collects celebration invocations so tests can assert on the
// cascade without a UI.
type recorder struct {
	mu         sync.Mutex
	xp         []int
	levelUps   []int
	milestones []int
	perfect    []int
	unlocked   []string
	errs       []string
}

func (r *recorder) hooks() Celebrations {
	return Celebrations{
		XP: func(awarded int, leveledUp bool, newLevel int) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.xp = append(r.xp, awarded)
			if leveledUp {
				r.levelUps = append(r.levelUps, newLevel)
			}
		},
		StreakMilestone: func(h models.Habit, _ int) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.milestones = append(r.milestones, h.Streak)
		},
		PerfectDay: func(count int) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.perfect = append(r.perfect, count)
		},
		Achievement: func(a models.Achievement) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.unlocked = append(r.unlocked, a.Name)
		},
		Error: func(msg string) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.errs = append(r.errs, msg)
		},
	}
}

func newTestSequencer(f *fakeAPI, r *recorder) *Sequencer {
	s := New(f, r.hooks())
	s.now = func() time.Time { return testNow }
	s.mu.Lock()
	s.habits = make([]models.Habit, len(f.habits))
	copy(s.habits, f.habits)
	s.mu.Unlock()
	return s
}

func TestToggleFreshCompletionRunsCascadeOnce(t *testing.T) {
	f := &fakeAPI{
		habits: []models.Habit{
			{ID: "h1", Name: "Read", Streak: 6},
			{ID: "h2", Name: "Run", LastCompletedOn: testToday, Streak: 3},
		},
		toggleResult: models.ToggleResult{
			Habit:          models.Habit{ID: "h1", Name: "Read", LastCompletedOn: testToday, Streak: 7},
			XPAwarded:      25,
			MilestoneBonus: 50,
			LeveledUp:      true,
			NewLevel:       4,
		},
		unlocked: []models.Achievement{{ID: "a1", Name: "Week Warrior"}},
	}
	r := &recorder{}
	s := newTestSequencer(f, r)

	require.NoError(t, s.Toggle(context.Background(), "h1"))

	assert.Equal(t, []int{25}, r.xp)
	assert.Equal(t, []int{4}, r.levelUps)
	assert.Equal(t, []int{7}, r.milestones, "streak of exactly 7 is a milestone")
	assert.Equal(t, []int{2}, r.perfect, "both habits complete today")
	assert.Equal(t, []string{"Week Warrior"}, r.unlocked)
	assert.Empty(t, r.errs)

	for _, h := range s.Habits() {
		if h.ID == "h1" {
			assert.Equal(t, 7, h.Streak, "server habit replaces local copy")
			assert.Equal(t, testToday, h.LastCompletedOn)
		}
	}
}

func TestToggleUncompleteSkipsCascade(t *testing.T) {
	f := &fakeAPI{
		habits: []models.Habit{{ID: "h1", LastCompletedOn: testToday, Streak: 7}},
		toggleResult: models.ToggleResult{
			Habit: models.Habit{ID: "h1", LastCompletedOn: "2026-08-28", Streak: 6},
		},
	}
	r := &recorder{}
	s := newTestSequencer(f, r)

	require.NoError(t, s.Toggle(context.Background(), "h1"))

	assert.Empty(t, r.xp)
	assert.Empty(t, r.milestones)
	assert.Empty(t, r.perfect)
	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Zero(t, f.checkCalls, "no achievement scan on un-complete")
}

func TestToggleIdempotencyKey(t *testing.T) {
	f := &fakeAPI{
		habits:       []models.Habit{{ID: "h1"}},
		toggleResult: models.ToggleResult{Habit: models.Habit{ID: "h1", LastCompletedOn: testToday, Streak: 1}},
	}
	r := &recorder{}
	s := newTestSequencer(f, r)

	require.NoError(t, s.Toggle(context.Background(), "h1"))

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.toggleCalls, 1)
	assert.Equal(t, "h1:"+testToday, f.toggleCalls[0])
}

func TestToggleInFlightGuard(t *testing.T) {
	f := &fakeAPI{
		habits:       []models.Habit{{ID: "h1"}},
		toggleResult: models.ToggleResult{Habit: models.Habit{ID: "h1", LastCompletedOn: testToday, Streak: 1}},
		toggleDelay:  50 * time.Millisecond,
	}
	r := &recorder{}
	s := newTestSequencer(f, r)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Toggle(context.Background(), "h1")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.toggleCount(), "overlapping toggles of one habit collapse to a single request")
	assert.False(t, s.Toggling("h1"), "in-flight flag cleared after completion")
}

func TestToggleDistinctHabitsRunConcurrently(t *testing.T) {
	f := &fakeAPI{
		habits: []models.Habit{{ID: "h1"}, {ID: "h2"}},
		toggleResult: models.ToggleResult{
			Habit: models.Habit{ID: "h1", LastCompletedOn: "2026-01-01"},
		},
	}
	r := &recorder{}
	s := newTestSequencer(f, r)

	var wg sync.WaitGroup
	for _, id := range []string{"h1", "h2"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_ = s.Toggle(context.Background(), id)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 2, f.toggleCount(), "guard is per habit, not global")
}

func TestToggleFailureShowsCopyAndRefreshes(t *testing.T) {
	f := &fakeAPI{
		habits:    []models.Habit{{ID: "h1"}},
		toggleErr: &api.NetworkError{Op: "POST /habits/h1/toggle", Err: errors.New("dial tcp: timeout")},
	}
	r := &recorder{}
	s := newTestSequencer(f, r)

	err := s.Toggle(context.Background(), "h1")
	require.Error(t, err)

	require.Len(t, r.errs, 1)
	assert.Contains(t, r.errs[0], "connection", "network failure gets the connectivity copy")
	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, 1, f.listCalls, "failed toggle triggers a resync fetch")
}

func TestToggleUnknownHabit(t *testing.T) {
	f := &fakeAPI{}
	r := &recorder{}
	s := newTestSequencer(f, r)

	err := s.Toggle(context.Background(), "ghost")
	require.Error(t, err)
	assert.Zero(t, f.toggleCount())
	require.Len(t, r.errs, 1)
}

func TestCascadeAchievementFailureRefreshes(t *testing.T) {
	f := &fakeAPI{
		habits: []models.Habit{{ID: "h1", Streak: 0}},
		toggleResult: models.ToggleResult{
			Habit:     models.Habit{ID: "h1", LastCompletedOn: testToday, Streak: 1},
			XPAwarded: 10,
		},
		checkErr: errors.New("boom"),
	}
	r := &recorder{}
	s := newTestSequencer(f, r)

	require.NoError(t, s.Toggle(context.Background(), "h1"))

	assert.Equal(t, []int{10}, r.xp, "earlier cascade steps still fire")
	assert.Empty(t, r.unlocked)
	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, 1, f.listCalls, "a failed cascade step resynchronizes from the server")
}

func TestCascadeNoMilestoneOffValues(t *testing.T) {
	for _, streak := range []int{1, 6, 8, 29, 31, 99, 101} {
		f := &fakeAPI{
			habits: []models.Habit{{ID: "h1"}},
			toggleResult: models.ToggleResult{
				Habit: models.Habit{ID: "h1", LastCompletedOn: testToday, Streak: streak},
			},
		}
		r := &recorder{}
		s := newTestSequencer(f, r)

		require.NoError(t, s.Toggle(context.Background(), "h1"))
		assert.Empty(t, r.milestones, "streak %d is not a milestone", streak)
	}
}

func TestCascadeNoPerfectDayWhenIncomplete(t *testing.T) {
	f := &fakeAPI{
		habits: []models.Habit{{ID: "h1"}, {ID: "h2"}},
		toggleResult: models.ToggleResult{
			Habit: models.Habit{ID: "h1", LastCompletedOn: testToday, Streak: 1},
		},
	}
	r := &recorder{}
	s := newTestSequencer(f, r)

	require.NoError(t, s.Toggle(context.Background(), "h1"))
	assert.Empty(t, r.perfect, "h2 still incomplete")
}

func TestIsMilestone(t *testing.T) {
	assert.True(t, IsMilestone(7))
	assert.True(t, IsMilestone(30))
	assert.True(t, IsMilestone(100))
	assert.False(t, IsMilestone(0))
	assert.False(t, IsMilestone(14))
}

func TestAddReportsFirstHabit(t *testing.T) {
	f := &fakeAPI{}
	r := &recorder{}
	s := newTestSequencer(f, r)

	habit, first, err := s.Add(context.Background(), api.CreateHabitRequest{Name: "Meditate", Category: models.CategoryMindfulness, Frequency: models.FrequencyDaily})
	require.NoError(t, err)
	assert.True(t, first, "empty list means welcome-state transition")
	assert.Zero(t, habit.Streak)

	_, first, err = s.Add(context.Background(), api.CreateHabitRequest{Name: "Run"})
	require.NoError(t, err)
	assert.False(t, first)
	assert.Len(t, s.Habits(), 2)
}

func TestDeleteRemovesLocally(t *testing.T) {
	f := &fakeAPI{habits: []models.Habit{{ID: "h1"}, {ID: "h2"}}}
	r := &recorder{}
	s := newTestSequencer(f, r)

	require.NoError(t, s.Delete(context.Background(), "h1"))
	habits := s.Habits()
	require.Len(t, habits, 1)
	assert.Equal(t, "h2", habits[0].ID)
}

func TestRefreshReplacesLocalState(t *testing.T) {
	f := &fakeAPI{habits: []models.Habit{{ID: "h1"}, {ID: "h2"}, {ID: "h3"}}}
	r := &recorder{}
	s := New(f, r.hooks())

	require.NoError(t, s.Refresh(context.Background()))
	assert.Len(t, s.Habits(), 3)

	f.mu.Lock()
	f.listErr = errors.New("boom")
	f.mu.Unlock()
	require.Error(t, s.Refresh(context.Background()))
	assert.Len(t, s.Habits(), 3, "failed refresh leaves prior state intact")
}
