// Package testutils provides shared testing utilities across the
// application.
package testutils

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jonesrussell/planwatch/internal/domain"
	"github.com/jonesrussell/planwatch/internal/store"
)

// MemStore is an in-memory document store for tests. It starts from the
// factory defaults, hands out copies like the real backends do, and counts
// saves. Fail* fields, when set, make the matching operation return that
// error.
type MemStore struct {
	mu     sync.Mutex
	config *domain.WatchConfig
	secret *domain.Secret
	plan   *domain.PlanSnapshot
	cancel *domain.CancelSnapshot

	// First is returned by FirstRun.
	First bool

	SavePlanCalls   int
	SaveCancelCalls int
	ResetCalls      int

	FailPlan       error
	FailSavePlan   error
	FailCancel     error
	FailSaveCancel error
	FailSecret     error
}

var _ store.Interface = (*MemStore)(nil)

// NewMemStore creates a store holding the factory documents.
func NewMemStore() *MemStore {
	return &MemStore{
		config: domain.DefaultWatchConfig(),
		secret: domain.DefaultSecret(),
		plan:   domain.DefaultPlan(),
		cancel: domain.DefaultCancel(),
	}
}

// Config returns a copy of the stored watch configuration.
func (m *MemStore) Config(context.Context) (*domain.WatchConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneDoc(m.config), nil
}

// SaveConfig replaces the stored watch configuration.
func (m *MemStore) SaveConfig(_ context.Context, cfg *domain.WatchConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = cloneDoc(cfg)
	return nil
}

// Secret returns a copy of the stored credentials document.
func (m *MemStore) Secret(context.Context) (*domain.Secret, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSecret != nil {
		return nil, m.FailSecret
	}
	return cloneDoc(m.secret), nil
}

// SaveSecret replaces the stored credentials document.
func (m *MemStore) SaveSecret(_ context.Context, secret *domain.Secret) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secret = cloneDoc(secret)
	return nil
}

// Plan returns a copy of the stored plan snapshot.
func (m *MemStore) Plan(context.Context) (*domain.PlanSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPlan != nil {
		return nil, m.FailPlan
	}
	return cloneDoc(m.plan), nil
}

// SavePlan replaces the stored plan snapshot.
func (m *MemStore) SavePlan(_ context.Context, plan *domain.PlanSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSavePlan != nil {
		return m.FailSavePlan
	}
	m.SavePlanCalls++
	m.plan = cloneDoc(plan)
	return nil
}

// Cancel returns a copy of the stored cancellations snapshot.
func (m *MemStore) Cancel(context.Context) (*domain.CancelSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCancel != nil {
		return nil, m.FailCancel
	}
	return cloneDoc(m.cancel), nil
}

// SaveCancel replaces the stored cancellations snapshot.
func (m *MemStore) SaveCancel(_ context.Context, cancel *domain.CancelSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaveCancel != nil {
		return m.FailSaveCancel
	}
	m.SaveCancelCalls++
	m.cancel = cloneDoc(cancel)
	return nil
}

// Reset restores the factory documents.
func (m *MemStore) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResetCalls++
	m.config = domain.DefaultWatchConfig()
	m.secret = domain.DefaultSecret()
	m.plan = domain.DefaultPlan()
	m.cancel = domain.DefaultCancel()
	m.First = true
	return nil
}

// FirstRun reports the value of First.
func (m *MemStore) FirstRun() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.First
}

// Close is a no-op.
func (m *MemStore) Close() error {
	return nil
}

// StoredPlan returns a copy of the currently stored plan snapshot.
func (m *MemStore) StoredPlan() *domain.PlanSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneDoc(m.plan)
}

// StoredCancel returns a copy of the currently stored cancellations
// snapshot.
func (m *MemStore) StoredCancel() *domain.CancelSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneDoc(m.cancel)
}

// SetSecret replaces the stored credentials without counting a save.
func (m *MemStore) SetSecret(secret *domain.Secret) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secret = cloneDoc(secret)
}

// SetConfig replaces the stored watch configuration without counting a
// save.
func (m *MemStore) SetConfig(cfg *domain.WatchConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = cloneDoc(cfg)
}

// SetPlan replaces the stored plan snapshot without counting a save.
func (m *MemStore) SetPlan(plan *domain.PlanSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plan = cloneDoc(plan)
}

// SetCancel replaces the stored cancellations snapshot without counting a
// save.
func (m *MemStore) SetCancel(cancel *domain.CancelSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancel = cloneDoc(cancel)
}

// cloneDoc round-trips a document through JSON so callers never share
// memory with the store, matching how the real backends behave.
func cloneDoc[T any](in *T) *T {
	body, err := json.Marshal(in)
	if err != nil {
		panic(err)
	}
	out := new(T)
	if err := json.Unmarshal(body, out); err != nil {
		panic(err)
	}
	return out
}
