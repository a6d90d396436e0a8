package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moovie-discover/internal/model"
)

func TestDebouncerOnlyLastValueFires(t *testing.T) {
	var mu sync.Mutex
	var fired []int
	d := NewDebouncer(30*time.Millisecond, func(v int) {
		mu.Lock()
		fired = append(fired, v)
		mu.Unlock()
	})

	for i := 1; i <= 5; i++ {
		d.Push(i)
		time.Sleep(5 * time.Millisecond)
	}
	assert.True(t, d.Pending())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(fired) == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, []int{5}, fired)
	mu.Unlock()
	assert.False(t, d.Pending())
}

func TestDebouncerStop(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func(int) { calls.Add(1) })
	d.Push(1)
	d.Stop()
	d.Push(2)
	time.Sleep(40 * time.Millisecond)
	assert.EqualValues(t, 0, calls.Load())
}

func TestFilterStateDraftLifecycle(t *testing.T) {
	var committed []model.MovieFilters
	s := NewFilterState(func(f model.MovieFilters) { committed = append(committed, f) })
	assert.Equal(t, PhaseCommitted, s.Phase())

	assert.ErrorIs(t, s.ToggleGenre("28"), ErrNoDraft)
	_, err := s.Commit()
	assert.ErrorIs(t, err, ErrNoDraft)

	s.Edit()
	assert.Equal(t, PhaseDraft, s.Phase())
	_, err = s.Commit()
	assert.ErrorIs(t, err, ErrDraftUnchanged)

	require.NoError(t, s.ToggleGenre("28"))
	require.NoError(t, s.ToggleGenre("12"))
	require.NoError(t, s.ToggleGenre("12"))
	require.NoError(t, s.ToggleRating(7))
	require.NoError(t, s.ToggleDecade(model.YearRange{Min: 1990, Max: 1999}))

	draft, dirty, ok := s.Draft()
	require.True(t, ok)
	assert.True(t, dirty)
	assert.Equal(t, []string{"28"}, draft.Genres)
	assert.Empty(t, s.Committed().Genres, "draft changes are invisible until commit")

	f, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, PhaseCommitted, s.Phase())
	assert.Equal(t, 7.0, f.UserRating)
	assert.Equal(t, model.YearRange{Min: 1990, Max: 1999}, s.Committed().ReleaseYear)
	require.Len(t, committed, 1)
	assert.True(t, committed[0].Equal(f))
}

func TestFilterStateDiscard(t *testing.T) {
	s := NewFilterState(nil)
	s.Edit()
	require.NoError(t, s.ToggleRating(8))
	s.Discard()

	assert.Equal(t, PhaseCommitted, s.Phase())
	assert.Equal(t, 0.0, s.Committed().UserRating)
	_, _, ok := s.Draft()
	assert.False(t, ok)
}

func TestFilterStateToggles(t *testing.T) {
	s := NewFilterState(nil)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	s.Edit()

	require.NoError(t, s.ToggleRating(6))
	require.NoError(t, s.ToggleRating(6))
	draft, _, _ := s.Draft()
	assert.Equal(t, 0.0, draft.UserRating)

	seventies := model.YearRange{Min: 1970, Max: 1979}
	require.NoError(t, s.ToggleDecade(seventies))
	require.NoError(t, s.ToggleDecade(seventies))
	draft, _, _ = s.Draft()
	assert.Equal(t, model.YearRange{Min: 1950, Max: 2024}, draft.ReleaseYear)

	require.NoError(t, s.SetYearRange(model.YearRange{Min: 2000, Max: 1990}))
	_, err := s.Commit()
	assert.ErrorIs(t, err, model.ErrInvalidYearRange)
	assert.Equal(t, PhaseDraft, s.Phase(), "invalid draft stays open")

	require.NoError(t, s.Reset())
	draft, _, _ = s.Draft()
	assert.True(t, draft.Equal(model.DefaultMovieFilters()))
}
