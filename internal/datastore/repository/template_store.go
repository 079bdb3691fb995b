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

// templateStore implements TemplateStore over a DocumentStore.
type templateStore struct {
	docs datastore.DocumentStore

	mu        sync.RWMutex
	templates []entities.NotificationTemplate
}

// NewTemplateStore loads the template collection and returns a TemplateStore.
func NewTemplateStore(ctx context.Context, docs datastore.DocumentStore) (TemplateStore, error) {
	s := &templateStore{docs: docs}
	data, err := docs.Get(ctx, docKeyTemplates)
	if err != nil {
		if errors.Is(err, datastore.ErrDocumentNotFound) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	if err := json.Unmarshal(data, &s.templates); err != nil {
		return nil, fmt.Errorf("failed to decode templates: %w", err)
	}
	return s, nil
}

func (s *templateStore) persist(ctx context.Context) error {
	data, err := json.Marshal(s.templates)
	if err != nil {
		return fmt.Errorf("failed to encode templates: %w", err)
	}
	if err := s.docs.Put(ctx, docKeyTemplates, data); err != nil {
		return fmt.Errorf("failed to persist templates: %w", err)
	}
	return nil
}

func (s *templateStore) ListTemplates(_ context.Context) ([]entities.NotificationTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.NotificationTemplate, len(s.templates))
	copy(out, s.templates)
	return out, nil
}

func (s *templateStore) GetTemplate(_ context.Context, id string) (*entities.NotificationTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.templates {
		if s.templates[i].ID == id {
			tmpl := s.templates[i]
			return &tmpl, nil
		}
	}
	return nil, ErrTemplateNotFound
}

func (s *templateStore) CreateTemplate(ctx context.Context, tmpl *entities.NotificationTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tmpl.ID == "" {
		tmpl.ID = uuid.NewString()
	}
	if tmpl.CreatedAt.IsZero() {
		tmpl.CreatedAt = time.Now()
	}
	s.templates = append(s.templates, *tmpl)
	return s.persist(ctx)
}

func (s *templateStore) UpdateTemplate(ctx context.Context, tmpl *entities.NotificationTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.templates {
		if s.templates[i].ID == tmpl.ID {
			tmpl.CreatedAt = s.templates[i].CreatedAt
			s.templates[i] = *tmpl
			return s.persist(ctx)
		}
	}
	return ErrTemplateNotFound
}

func (s *templateStore) DeleteTemplate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.templates {
		if s.templates[i].ID == id {
			// Rules referencing this template keep their dangling reference;
			// the renderer falls back to a generic message.
			s.templates = append(s.templates[:i], s.templates[i+1:]...)
			return s.persist(ctx)
		}
	}
	return ErrTemplateNotFound
}
