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

// ruleStore implements RuleStore over a DocumentStore.
type ruleStore struct {
	docs datastore.DocumentStore

	mu    sync.RWMutex
	rules []entities.AlertRule
}

// NewRuleStore loads the rule collection and returns a RuleStore.
func NewRuleStore(ctx context.Context, docs datastore.DocumentStore) (RuleStore, error) {
	s := &ruleStore{docs: docs}
	data, err := docs.Get(ctx, docKeyRules)
	if err != nil {
		if errors.Is(err, datastore.ErrDocumentNotFound) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to load alert rules: %w", err)
	}
	if err := json.Unmarshal(data, &s.rules); err != nil {
		return nil, fmt.Errorf("failed to decode alert rules: %w", err)
	}
	return s, nil
}

// persist rewrites the full collection. Callers hold the write lock.
func (s *ruleStore) persist(ctx context.Context) error {
	data, err := json.Marshal(s.rules)
	if err != nil {
		return fmt.Errorf("failed to encode alert rules: %w", err)
	}
	if err := s.docs.Put(ctx, docKeyRules, data); err != nil {
		return fmt.Errorf("failed to persist alert rules: %w", err)
	}
	return nil
}

func (s *ruleStore) ListRules(_ context.Context, filter RuleFilter) ([]entities.AlertRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.AlertRule, 0, len(s.rules))
	for i := range s.rules {
		r := &s.rules[i]
		if filter.Kind != "" && r.Kind != filter.Kind {
			continue
		}
		if filter.Enabled != nil && r.Enabled != *filter.Enabled {
			continue
		}
		if filter.BuiltIn != nil && r.BuiltIn != *filter.BuiltIn {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *ruleStore) GetRule(_ context.Context, id string) (*entities.AlertRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.rules {
		if s.rules[i].ID == id {
			rule := s.rules[i]
			return &rule, nil
		}
	}
	return nil, ErrRuleNotFound
}

func (s *ruleStore) CreateRule(ctx context.Context, rule *entities.AlertRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now()
	}
	if rule.Priority == "" {
		rule.Priority = entities.PriorityMedium
	}
	s.rules = append(s.rules, *rule)
	return s.persist(ctx)
}

func (s *ruleStore) UpdateRule(ctx context.Context, rule *entities.AlertRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rules {
		if s.rules[i].ID == rule.ID {
			// Preserve creation and trigger stamps across edits.
			rule.CreatedAt = s.rules[i].CreatedAt
			if rule.LastTriggered == nil {
				rule.LastTriggered = s.rules[i].LastTriggered
			}
			s.rules[i] = *rule
			return s.persist(ctx)
		}
	}
	return ErrRuleNotFound
}

func (s *ruleStore) DeleteRule(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rules {
		if s.rules[i].ID == id {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return s.persist(ctx)
		}
	}
	return ErrRuleNotFound
}

func (s *ruleStore) ToggleRule(ctx context.Context, id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rules {
		if s.rules[i].ID == id {
			s.rules[i].Enabled = enabled
			return s.persist(ctx)
		}
	}
	return ErrRuleNotFound
}

func (s *ruleStore) GetEnabledRules(ctx context.Context) ([]entities.AlertRule, error) {
	enabled := true
	return s.ListRules(ctx, RuleFilter{Enabled: &enabled})
}

func (s *ruleStore) MarkTriggered(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rules {
		if s.rules[i].ID == id {
			stamp := at
			s.rules[i].LastTriggered = &stamp
			return s.persist(ctx)
		}
	}
	return ErrRuleNotFound
}

func (s *ruleStore) CountRulesByName(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int
	for i := range s.rules {
		if s.rules[i].Name == name {
			count++
		}
	}
	return count, nil
}
