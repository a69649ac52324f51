// Package session keeps one AppShell per browser session.
package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"parm-catalog/internal/shell"
)

// Factory builds the shell of a new session.
type Factory func() *shell.AppShell

// Registry holds live sessions in memory. A session expires after it has been
// idle for the configured TTL; its selection is dropped with it.
type Registry struct {
	sessions *cache.Cache
	ttl      time.Duration
	factory  Factory
	logger   *slog.Logger
}

// NewRegistry creates a registry. Expired sessions are purged every ttl.
func NewRegistry(ttl time.Duration, factory Factory, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		sessions: cache.New(ttl, ttl),
		ttl:      ttl,
		factory:  factory,
		logger:   logger,
	}
	r.sessions.OnEvicted(func(id string, _ any) {
		r.logger.Debug("session expired", "session_id", id)
	})
	return r
}

// Get returns the shell of session id and extends its lifetime.
func (r *Registry) Get(id string) (*shell.AppShell, bool) {
	if id == "" {
		return nil, false
	}
	v, found := r.sessions.Get(id)
	if !found {
		return nil, false
	}
	s := v.(*shell.AppShell)
	r.sessions.Set(id, s, r.ttl)
	return s, true
}

// Create starts a new session with a fresh shell.
func (r *Registry) Create() (string, *shell.AppShell) {
	id := uuid.NewString()
	s := r.factory()
	r.sessions.Set(id, s, r.ttl)
	r.logger.Debug("session created", "session_id", id)
	return id, s
}

// Resolve returns the shell of session id, creating a new session when id is
// unknown or expired. created reports whether a new id was issued.
func (r *Registry) Resolve(id string) (string, *shell.AppShell, bool) {
	if s, ok := r.Get(id); ok {
		return id, s, false
	}
	newID, s := r.Create()
	return newID, s, true
}

// Delete ends a session.
func (r *Registry) Delete(id string) {
	r.sessions.Delete(id)
}

// Len is the number of sessions, including expired ones not yet purged.
func (r *Registry) Len() int {
	return r.sessions.ItemCount()
}
