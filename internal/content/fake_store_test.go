// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content_test

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/techhub/internal/audit"
	"github.com/taibuivan/techhub/internal/content"
	"github.com/taibuivan/techhub/internal/platform/apperr"
	"github.com/taibuivan/techhub/internal/platform/events"
	"github.com/taibuivan/techhub/internal/platform/metrics"
	"github.com/taibuivan/techhub/internal/platform/sec"
)

// memoryStore is a [content.Store] whose decisions are atomic under one mutex.
type memoryStore struct {
	mu       sync.Mutex
	nextID   int64
	entities map[content.Ref]*content.Entity
	log      []*audit.ModerationLogEntry

	// decisionErr simulates a failed transaction: nothing is written.
	decisionErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entities: map[content.Ref]*content.Entity{}}
}

func clone(entity *content.Entity) *content.Entity {
	copied := *entity
	copied.Attributes = maps.Clone(entity.Attributes)
	return &copied
}

func (store *memoryStore) Create(_ context.Context, entity *content.Entity) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.nextID++
	entity.ID = store.nextID
	entity.CreatedAt = time.Now().Add(time.Duration(store.nextID) * time.Millisecond)
	entity.UpdatedAt = entity.CreatedAt
	store.entities[entity.Ref()] = clone(entity)
	return nil
}

func (store *memoryStore) Get(_ context.Context, ref content.Ref) (*content.Entity, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	entity, ok := store.entities[ref]
	if !ok {
		return nil, apperr.NotFound("Content")
	}
	return clone(entity), nil
}

func (store *memoryStore) List(_ context.Context, kind content.Kind, filter content.Filter, limit, offset int) ([]*content.Entity, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	status := content.StatusApproved
	if filter.Status != nil {
		status = *filter.Status
	}

	var matches []*content.Entity
	for _, entity := range store.entities {
		switch {
		case entity.Kind != kind, entity.Status != status:
			continue
		case filter.Featured != nil && entity.Featured != *filter.Featured:
			continue
		case filter.SubmitterID != nil && !entity.IsOwnedBy(*filter.SubmitterID):
			continue
		case filter.Query != "" && !strings.Contains(strings.ToLower(entity.Title), strings.ToLower(filter.Query)):
			continue
		}
		matches = append(matches, clone(entity))
	}

	slices.SortFunc(matches, func(a, b *content.Entity) int { return b.CreatedAt.Compare(a.CreatedAt) })

	total := len(matches)
	if offset >= total {
		return nil, total, nil
	}
	return matches[offset:min(offset+limit, total)], total, nil
}

func (store *memoryStore) UpdateContent(_ context.Context, entity *content.Entity) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	existing, ok := store.entities[entity.Ref()]
	if !ok {
		return apperr.NotFound("Content")
	}

	existing.Title = entity.Title
	existing.Slug = entity.Slug
	existing.Description = entity.Description
	existing.Attributes = maps.Clone(entity.Attributes)
	existing.UpdatedAt = time.Now()
	entity.UpdatedAt = existing.UpdatedAt
	return nil
}

func (store *memoryStore) SetFeatured(_ context.Context, ref content.Ref, featured bool) (*content.Entity, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	existing, ok := store.entities[ref]
	if !ok {
		return nil, apperr.NotFound("Content")
	}
	existing.Featured = featured
	return clone(existing), nil
}

func (store *memoryStore) ApplyDecision(_ context.Context, ref content.Ref, status content.Status, entry *audit.ModerationLogEntry) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if store.decisionErr != nil {
		return store.decisionErr
	}

	existing, ok := store.entities[ref]
	if !ok {
		return apperr.NotFound("Content")
	}

	existing.Status = status
	store.log = append(store.log, entry)
	return nil
}

func (store *memoryStore) status(ref content.Ref) content.Status {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.entities[ref].Status
}

func (store *memoryStore) logEntries() []*audit.ModerationLogEntry {
	store.mu.Lock()
	defer store.mu.Unlock()
	return slices.Clone(store.log)
}

// # Fixture

type fixture struct {
	store       *memoryStore
	publisher   *events.Recorder
	metrics     *metrics.Metrics
	submissions *content.SubmissionService
	moderation  *content.ModerationEngine
}

func newFixture(policy *content.Policy) *fixture {
	store := newMemoryStore()
	publisher := &events.Recorder{}
	registry := metrics.New()
	gate := sec.NewGate(sec.DefaultHierarchy())
	logger := slog.New(slog.DiscardHandler)

	return &fixture{
		store:       store,
		publisher:   publisher,
		metrics:     registry,
		submissions: content.NewSubmissionService(store, gate, policy, publisher, registry, logger),
		moderation:  content.NewModerationEngine(store, gate, publisher, registry, logger),
	}
}

var (
	anonymous   = sec.Anonymous()
	contributor = sec.Actor{UserID: 11, Role: sec.RoleContributor}
	otherUser   = sec.Actor{UserID: 12, Role: sec.RoleContributor}
	moderator   = sec.Actor{UserID: 21, Role: sec.RoleModerator}
	editor      = sec.Actor{UserID: 31, Role: sec.RoleEditor}
)

func jobPayload() content.Payload {
	return content.Payload{
		"title":     "Backend Engineer",
		"company":   "Andela",
		"apply_url": "https://andela.com/careers/42",
		"remote":    true,
	}
}
