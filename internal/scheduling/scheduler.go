package scheduling

import (
	"sync"
	"time"

	"github.com/fundwatch/fundwatch/internal/logger"
)

// JobScheduler registers one-shot jobs keyed by id. Re-scheduling an id
// replaces its pending timer.
type JobScheduler interface {
	Schedule(id string, fireAt time.Time, fire func())
	Cancel(id string)
}

// TimerScheduler implements JobScheduler with one time.Timer per job.
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	log    logger.Logger
}

// NewTimerScheduler creates an empty scheduler.
func NewTimerScheduler(log logger.Logger) *TimerScheduler {
	return &TimerScheduler{timers: make(map[string]*time.Timer), log: log}
}

// Schedule arms a timer for the job. A fire time in the past fires almost
// immediately. The callback runs on the timer's goroutine.
func (s *TimerScheduler) Schedule(id string, fireAt time.Time, fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.timers[id]; ok {
		existing.Stop()
	}
	delay := time.Until(fireAt)
	if delay < 0 {
		delay = 0
	}
	s.timers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		fire()
	})
	s.log.Debug("job scheduled",
		logger.String("id", id),
		logger.Time("fire_at", fireAt))
}

// Cancel stops the job's pending timer, if any.
func (s *TimerScheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
		s.log.Debug("job cancelled", logger.String("id", id))
	}
}

// Stop cancels every pending timer. Jobs already firing are not waited on.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}
