package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameQueue_TickRunsPending(t *testing.T) {
	q := NewFrameQueue()
	var got []string

	q.RequestFrame(func(time.Time) { got = append(got, "a") })
	id := q.RequestFrame(func(time.Time) { got = append(got, "b") })
	q.RequestFrame(func(time.Time) { got = append(got, "c") })
	q.CancelFrame(id)
	assert.Equal(t, 2, q.Pending())

	assert.Equal(t, 2, q.Tick(time.Unix(0, 0)))
	assert.Equal(t, []string{"a", "c"}, got)
	assert.Zero(t, q.Pending())
	assert.Zero(t, q.Tick(time.Unix(1, 0)))
}

func TestFrameQueue_RequestDuringTickWaits(t *testing.T) {
	q := NewFrameQueue()
	calls := 0
	var loop func(time.Time)
	loop = func(time.Time) {
		calls++
		q.RequestFrame(loop)
	}
	q.RequestFrame(loop)

	q.Tick(time.Unix(0, 0))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, q.Pending())

	q.Tick(time.Unix(1, 0))
	assert.Equal(t, 2, calls)
}

func TestFrameQueue_CancelFromCallback(t *testing.T) {
	q := NewFrameQueue()
	ran := false
	var second FrameID
	q.RequestFrame(func(time.Time) { q.CancelFrame(second) })
	second = q.RequestFrame(func(time.Time) { ran = true })

	assert.Equal(t, 1, q.Tick(time.Unix(0, 0)))
	assert.False(t, ran)
}

func TestFrameQueue_PassesTimestamp(t *testing.T) {
	q := NewFrameQueue()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	var got time.Time
	q.RequestFrame(func(t time.Time) { got = t })
	q.Tick(now)
	assert.Equal(t, now, got)
}

func TestFrameQueue_CancelUnknownIsIgnored(t *testing.T) {
	q := NewFrameQueue()
	q.CancelFrame(42)
	q.CancelFrame(0)
	assert.Zero(t, q.Pending())
}
