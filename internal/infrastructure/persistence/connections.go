package persistence

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"
)

// DefaultConnection is the name of the primary database partition
const DefaultConnection = "default"

// ErrUnknownConnection is returned when a connection name has not been registered
var ErrUnknownConnection = errors.New("unknown database connection")

// ConnectionResolver maps a data partition name to its database handle.
// Background jobs capture the name at enqueue time and resolve it when they run.
type ConnectionResolver interface {
	Resolve(name string) (*gorm.DB, error)
}

// Connections is a registry of named database handles
type Connections struct {
	mu  sync.RWMutex
	dbs map[string]*gorm.DB
}

// NewConnections creates a registry whose default partition is db
func NewConnections(db *gorm.DB) *Connections {
	return &Connections{dbs: map[string]*gorm.DB{DefaultConnection: db}}
}

// Register adds or replaces a named connection
func (c *Connections) Register(name string, db *gorm.DB) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dbs[name] = db
}

// Resolve returns the handle for name. An empty name selects the default partition.
func (c *Connections) Resolve(name string) (*gorm.DB, error) {
	if name == "" {
		name = DefaultConnection
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	db, ok := c.dbs[name]
	if !ok || db == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConnection, name)
	}
	return db, nil
}

// Names lists registered connections in sorted order
func (c *Connections) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.dbs))
	for name := range c.dbs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every registered connection and returns the first error
func (c *Connections) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var firstErr error
	for name, db := range c.dbs {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close connection %s: %w", name, err)
		}
	}
	return firstErr
}

var _ ConnectionResolver = (*Connections)(nil)
