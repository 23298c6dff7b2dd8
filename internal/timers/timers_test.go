package timers

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGroup_TickFires(t *testing.T) {
	group := NewGroup(10 * time.Millisecond)
	defer group.StopAll()

	var ticks atomic.Int32
	group.Start("t1", func(string) bool {
		ticks.Add(1)
		return true
	})

	assert.Eventually(t, func() bool {
		return ticks.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestGroup_CallbackFalseStopsTimer(t *testing.T) {
	group := NewGroup(5 * time.Millisecond)
	defer group.StopAll()

	var ticks atomic.Int32
	group.Start("t1", func(string) bool {
		return ticks.Add(1) < 3
	})

	assert.Eventually(t, func() bool {
		return group.Active() == 0
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(3), ticks.Load())
}

func TestGroup_StopAllIdempotent(t *testing.T) {
	group := NewGroup(5 * time.Millisecond)

	group.Start("t1", func(string) bool { return true })
	group.Start("t2", func(string) bool { return true })
	assert.Equal(t, 2, group.Active())

	group.StopAll()
	assert.Zero(t, group.Active())

	// A second teardown must be safe.
	group.StopAll()
	assert.Zero(t, group.Active())
}

func TestGroup_StopSingle(t *testing.T) {
	group := NewGroup(5 * time.Millisecond)
	defer group.StopAll()

	group.Start("t1", func(string) bool { return true })
	group.Start("t2", func(string) bool { return true })

	group.Stop("t1")
	assert.Equal(t, 1, group.Active())
}

func TestGroup_RestartReplacesTimer(t *testing.T) {
	group := NewGroup(5 * time.Millisecond)
	defer group.StopAll()

	group.Start("t1", func(string) bool { return true })
	group.Start("t1", func(string) bool { return true })

	assert.Equal(t, 1, group.Active())
}
