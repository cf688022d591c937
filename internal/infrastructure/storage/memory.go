package storage

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/invoicing/backend/internal/application/document"
)

var _ document.ObjectStorage = (*MemoryStorage)(nil)

// MemoryStorage keeps object keys in memory. It backs development setups
// without an object store; download URLs point at BaseURL.
type MemoryStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]struct{}
}

// NewMemoryStorage creates an empty MemoryStorage
func NewMemoryStorage(baseURL string) *MemoryStorage {
	if baseURL == "" {
		baseURL = "http://localhost:9000/documents"
	}
	return &MemoryStorage{BaseURL: baseURL, objects: make(map[string]struct{})}
}

// Put records key as present
func (m *MemoryStorage) Put(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = struct{}{}
}

// GenerateDownloadURL returns BaseURL/key with its expiry as a query parameter
func (m *MemoryStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	expiresAt := time.Now().Add(expiresIn)
	u := m.BaseURL + "/" + strings.TrimPrefix(key, "/") + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339))
	return u, expiresAt, nil
}

// ObjectExists reports whether key was Put and not deleted
func (m *MemoryStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}

// DeleteObject forgets key
func (m *MemoryStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}
