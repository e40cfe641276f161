package combat_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

func TestScheduler_FiresInDueOrder(t *testing.T) {
	s := combat.NewScheduler()
	var got []string
	s.After(30*time.Millisecond, func() { got = append(got, "c") })
	s.After(10*time.Millisecond, func() { got = append(got, "a") })
	s.After(10*time.Millisecond, func() { got = append(got, "b") })

	assert.Equal(t, 0, s.Advance(5*time.Millisecond))
	assert.Equal(t, 2, s.Advance(10*time.Millisecond))
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, s.Advance(time.Second))
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 1015*time.Millisecond, s.Now())
}

func TestScheduler_StopPreventsCallback(t *testing.T) {
	s := combat.NewScheduler()
	called := false
	tm := s.After(10*time.Millisecond, func() { called = true })
	assert.True(t, tm.Active())
	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop(), "second Stop reports already stopped")
	assert.False(t, tm.Active())
	s.Advance(time.Second)
	assert.False(t, called)
	assert.Zero(t, s.Pending())
}

func TestScheduler_CallbackSeesDueTime(t *testing.T) {
	s := combat.NewScheduler()
	var at time.Duration
	s.After(40*time.Millisecond, func() { at = s.Now() })
	s.Advance(100 * time.Millisecond)
	assert.Equal(t, 40*time.Millisecond, at)
}

func TestScheduler_ChainedTimerFiresWithinWindow(t *testing.T) {
	s := combat.NewScheduler()
	n := 0
	s.After(10*time.Millisecond, func() {
		n++
		s.After(10*time.Millisecond, func() { n++ })
	})
	assert.Equal(t, 2, s.Advance(25*time.Millisecond))
	assert.Equal(t, 2, n)
}

func TestTimer_NilIsInactive(t *testing.T) {
	var tm *combat.Timer
	assert.False(t, tm.Active())
	assert.False(t, tm.Stop())
}
