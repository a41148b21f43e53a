package host

import (
	"fmt"
	"sort"
	"sync"
)

// ParserService converts records to payloads and back
type ParserService interface {
	EncodeRecord(rec Record, container Container) ([]byte, error)
	EncodeOne(rec LoggingRecord) ([]byte, error)
	EncodeMany(recs []LoggingRecord) ([]byte, error)
	Decode(payload []byte, container Container) (Record, error)
}

// Registry holds the parser services known to the host, keyed by parser id
type Registry struct {
	mu       sync.RWMutex
	services map[string]*Registration
}

// Registration is the handle returned by Register
type Registration struct {
	registry *Registry
	id       string
	service  ParserService
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{services: make(map[string]*Registration)}
}

// Register adds a service under id. An id can only be registered once.
func (r *Registry) Register(id string, service ParserService) (*Registration, error) {
	if id == "" {
		return nil, fmt.Errorf("parser id must not be empty")
	}
	if service == nil {
		return nil, fmt.Errorf("parser %q: service must not be nil", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[id]; exists {
		return nil, fmt.Errorf("parser %q is already registered", id)
	}
	reg := &Registration{registry: r, id: id, service: service}
	r.services[id] = reg
	return reg, nil
}

// Get returns the service registered under id
func (r *Registry) Get(id string) (ParserService, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.services[id]
	if !ok {
		return nil, false
	}
	return reg.service, true
}

// IDs returns the registered parser ids in sorted order
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.services))
	for id := range r.services {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ID returns the id the service was registered under
func (reg *Registration) ID() string {
	return reg.id
}

// Unregister removes the service. Calling it more than once is a no-op.
func (reg *Registration) Unregister() {
	r := reg.registry
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.services[reg.id]; ok && current == reg {
		delete(r.services, reg.id)
	}
}
