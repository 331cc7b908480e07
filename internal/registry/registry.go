// Package registry holds the named database connections the service can
// execute against, loaded once at boot from a JSON file.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"sqlscope/backend/internal/gateway"
	"sqlscope/backend/internal/model"
)

// Database is one connection entry.
type Database struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"` // postgresql, mysql or sqlite
	DSN      string `json:"dsn"`
	IsActive bool   `json:"is_active"`
}

// Registry maps database ids to entries and lazily opened sessions. One
// pool is kept per database; each chain invocation gets handed the same
// pool wrapped as a fresh session capability.
type Registry struct {
	mu       sync.Mutex
	entries  map[int]Database
	sessions map[int]*gateway.SQLSession
	timeout  time.Duration
}

// Load reads a JSON array of Database entries from path.
func Load(path string, timeout time.Duration) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read databases file: %w", err)
	}
	var list []Database
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse databases file: %w", err)
	}

	entries := make(map[int]Database, len(list))
	for _, db := range list {
		if db.ID == 0 || db.Name == "" || db.DSN == "" {
			return nil, fmt.Errorf("database entry %q is missing id, name or dsn", db.Name)
		}
		if _, dup := entries[db.ID]; dup {
			return nil, fmt.Errorf("duplicate database id %d", db.ID)
		}
		if _, err := gateway.Dialect(db.Type).DriverName(); err != nil {
			return nil, fmt.Errorf("database %q: %w", db.Name, err)
		}
		entries[db.ID] = db
	}

	return &Registry{
		entries:  entries,
		sessions: make(map[int]*gateway.SQLSession),
		timeout:  timeout,
	}, nil
}

// List returns the active entries, ordered by id.
func (r *Registry) List() []model.DatabaseRef {
	r.mu.Lock()
	defer r.mu.Unlock()

	refs := []model.DatabaseRef{}
	for _, db := range r.entries {
		if db.IsActive {
			refs = append(refs, model.DatabaseRef{ID: db.ID, Name: db.Name, Type: db.Type})
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs
}

// Get looks up an active entry by id.
func (r *Registry) Get(id int) (Database, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *Registry) get(id int) (Database, error) {
	db, ok := r.entries[id]
	if !ok {
		return Database{}, fmt.Errorf("database connection not found: %d", id)
	}
	if !db.IsActive {
		return Database{}, fmt.Errorf("database connection is inactive: %s", db.Name)
	}
	return db, nil
}

// Session returns a usable session for the database, opening and caching
// the underlying pool on first use.
func (r *Registry) Session(id int) (gateway.Session, Database, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	db, err := r.get(id)
	if err != nil {
		return nil, Database{}, err
	}
	if s, ok := r.sessions[id]; ok {
		return s, db, nil
	}

	s, err := gateway.Open(gateway.Dialect(db.Type), db.DSN, r.timeout)
	if err != nil {
		return nil, Database{}, fmt.Errorf("connect to %s: %w", db.Name, err)
	}
	r.sessions[id] = s
	return s, db, nil
}

// Close shuts down every opened pool.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		s.Close()
		delete(r.sessions, id)
	}
}
