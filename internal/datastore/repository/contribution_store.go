package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fundwatch/fundwatch/internal/datastore"
	"github.com/fundwatch/fundwatch/internal/datastore/entities"
	"github.com/fundwatch/fundwatch/internal/errors"
	"github.com/google/uuid"
)

// contributionStore implements ContributionStore over a DocumentStore.
type contributionStore struct {
	docs datastore.DocumentStore

	mu            sync.RWMutex
	contributions []entities.Contribution
}

// NewContributionStore loads the contribution collection.
func NewContributionStore(ctx context.Context, docs datastore.DocumentStore) (ContributionStore, error) {
	s := &contributionStore{docs: docs}
	data, err := docs.Get(ctx, docKeyContributions)
	if err != nil {
		if errors.Is(err, datastore.ErrDocumentNotFound) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to load contributions: %w", err)
	}
	if err := json.Unmarshal(data, &s.contributions); err != nil {
		return nil, fmt.Errorf("failed to decode contributions: %w", err)
	}
	return s, nil
}

func (s *contributionStore) persist(ctx context.Context) error {
	data, err := json.Marshal(s.contributions)
	if err != nil {
		return fmt.Errorf("failed to encode contributions: %w", err)
	}
	if err := s.docs.Put(ctx, docKeyContributions, data); err != nil {
		return fmt.Errorf("failed to persist contributions: %w", err)
	}
	return nil
}

func (s *contributionStore) AddContribution(ctx context.Context, c *entities.Contribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.contributions = append(s.contributions, *c)
	return s.persist(ctx)
}

func (s *contributionStore) Since(_ context.Context, since time.Time) ([]entities.Contribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.Contribution
	for i := range s.contributions {
		if s.contributions[i].CreatedAt.After(since) {
			out = append(out, s.contributions[i])
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
