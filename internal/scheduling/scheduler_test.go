package scheduling

import (
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fundwatch/fundwatch/internal/logger"
	"github.com/stretchr/testify/assert"
)

func testLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, nil)
}

func TestTimerScheduler_FiresDueJob(t *testing.T) {
	s := NewTimerScheduler(testLogger())
	defer s.Stop()

	fired := make(chan struct{})
	s.Schedule("job", time.Now().Add(10*time.Millisecond), func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("job never fired")
	}
}

func TestTimerScheduler_PastFireTimeFiresImmediately(t *testing.T) {
	s := NewTimerScheduler(testLogger())
	defer s.Stop()

	fired := make(chan struct{})
	s.Schedule("job", time.Now().Add(-time.Hour), func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("past-due job never fired")
	}
}

func TestTimerScheduler_CancelPreventsFire(t *testing.T) {
	s := NewTimerScheduler(testLogger())
	defer s.Stop()

	var count atomic.Int32
	s.Schedule("job", time.Now().Add(50*time.Millisecond), func() { count.Add(1) })
	s.Cancel("job")

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, count.Load())
}

func TestTimerScheduler_RescheduleReplacesTimer(t *testing.T) {
	s := NewTimerScheduler(testLogger())
	defer s.Stop()

	var first atomic.Int32
	fired := make(chan struct{})
	s.Schedule("job", time.Now().Add(50*time.Millisecond), func() { first.Add(1) })
	s.Schedule("job", time.Now().Add(10*time.Millisecond), func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("replacement job never fired")
	}
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, first.Load(), "original timer must not fire after reschedule")
}
