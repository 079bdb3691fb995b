package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/fundwatch/fundwatch/internal/datastore"
	"github.com/fundwatch/fundwatch/internal/datastore/entities"
	"github.com/fundwatch/fundwatch/internal/errors"
	"github.com/google/uuid"
)

// scheduleStore implements ScheduleStore over a DocumentStore.
type scheduleStore struct {
	docs datastore.DocumentStore

	mu        sync.RWMutex
	schedules []entities.ScheduledNotification
}

// NewScheduleStore loads the scheduled notification collection.
func NewScheduleStore(ctx context.Context, docs datastore.DocumentStore) (ScheduleStore, error) {
	s := &scheduleStore{docs: docs}
	data, err := docs.Get(ctx, docKeySchedules)
	if err != nil {
		if errors.Is(err, datastore.ErrDocumentNotFound) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to load scheduled notifications: %w", err)
	}
	if err := json.Unmarshal(data, &s.schedules); err != nil {
		return nil, fmt.Errorf("failed to decode scheduled notifications: %w", err)
	}
	return s, nil
}

func (s *scheduleStore) persist(ctx context.Context) error {
	data, err := json.Marshal(s.schedules)
	if err != nil {
		return fmt.Errorf("failed to encode scheduled notifications: %w", err)
	}
	if err := s.docs.Put(ctx, docKeySchedules, data); err != nil {
		return fmt.Errorf("failed to persist scheduled notifications: %w", err)
	}
	return nil
}

func (s *scheduleStore) ListSchedules(_ context.Context) ([]entities.ScheduledNotification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.ScheduledNotification, len(s.schedules))
	copy(out, s.schedules)
	return out, nil
}

func (s *scheduleStore) GetSchedule(_ context.Context, id string) (*entities.ScheduledNotification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.schedules {
		if s.schedules[i].ID == id {
			sched := s.schedules[i]
			return &sched, nil
		}
	}
	return nil, ErrScheduleNotFound
}

func (s *scheduleStore) CreateSchedule(ctx context.Context, sched *entities.ScheduledNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sched.ID == "" {
		sched.ID = uuid.NewString()
	}
	if sched.CreatedAt.IsZero() {
		sched.CreatedAt = time.Now()
	}
	s.schedules = append(s.schedules, *sched)
	return s.persist(ctx)
}

func (s *scheduleStore) UpdateSchedule(ctx context.Context, sched *entities.ScheduledNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.schedules {
		if s.schedules[i].ID == sched.ID {
			sched.CreatedAt = s.schedules[i].CreatedAt
			s.schedules[i] = *sched
			return s.persist(ctx)
		}
	}
	return ErrScheduleNotFound
}

func (s *scheduleStore) DeleteSchedule(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.schedules {
		if s.schedules[i].ID == id {
			s.schedules = append(s.schedules[:i], s.schedules[i+1:]...)
			return s.persist(ctx)
		}
	}
	return ErrScheduleNotFound
}
