package ai

import (
	"strings"
	"sync"
	"time"

	"github.com/elum-utils/safetymonitor/interfaces"
	"github.com/elum-utils/safetymonitor/models"
	"golang.org/x/sync/singleflight"
)

// Factory creates a generator for an API key.
type Factory func(apiKey string) (interfaces.Generator, error)

// RegistryOptions configures clients created by the registry.
type RegistryOptions struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Registry memoizes one client per distinct API key. Concurrent first use of a
// key creates the client at most once.
type Registry struct {
	factory Factory
	group   singleflight.Group

	mu      sync.RWMutex
	clients map[string]interfaces.Generator
	last    interfaces.Generator
}

// NewRegistry creates a registry of Gemini clients.
func NewRegistry(opt RegistryOptions) *Registry {
	return NewRegistryWithFactory(func(apiKey string) (interfaces.Generator, error) {
		return NewGeminiAdapter(GeminiOptions{
			APIKey:  apiKey,
			BaseURL: opt.BaseURL,
			Model:   opt.Model,
			Timeout: opt.Timeout,
		})
	})
}

// NewRegistryWithFactory creates a registry with a custom client factory.
func NewRegistryWithFactory(factory Factory) *Registry {
	return &Registry{
		factory: factory,
		clients: make(map[string]interfaces.Generator),
	}
}

// ClientFor returns the client for apiKey. An empty key reuses the most
// recently created client and fails with models.ErrClientNotInitialized when
// there is none.
func (r *Registry) ClientFor(apiKey string) (interfaces.Generator, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		r.mu.RLock()
		last := r.last
		r.mu.RUnlock()
		if last == nil {
			return nil, models.ErrClientNotInitialized
		}
		return last, nil
	}

	r.mu.RLock()
	client, ok := r.clients[key]
	r.mu.RUnlock()
	if ok {
		return client, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		r.mu.RLock()
		existing, ok := r.clients[key]
		r.mu.RUnlock()
		if ok {
			return existing, nil
		}
		created, err := r.factory(key)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.clients[key] = created
		r.last = created
		r.mu.Unlock()
		return created, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(interfaces.Generator), nil
}

// Len returns the number of memoized clients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
