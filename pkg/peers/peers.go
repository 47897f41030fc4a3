package peers

import (
	"sort"
	"strings"
	"sync"
)

// Registry is the set of known peer addresses.
type Registry struct {
	mu    sync.RWMutex
	peers map[string]struct{}
}

func NewRegistry(addrs ...string) *Registry {
	r := &Registry{peers: make(map[string]struct{})}
	for _, a := range addrs {
		r.Add(a)
	}
	return r
}

// Normalize trims whitespace and trailing slashes so the same peer is not
// stored twice.
func Normalize(addr string) string {
	return strings.TrimRight(strings.TrimSpace(addr), "/")
}

// Add reports whether addr was newly added.
func (r *Registry) Add(addr string) bool {
	addr = Normalize(addr)
	if addr == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.peers[addr]; ok {
		return false
	}

	r.peers[addr] = struct{}{}
	return true
}

// Remove reports whether addr was known.
func (r *Registry) Remove(addr string) bool {
	addr = Normalize(addr)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.peers[addr]; !ok {
		return false
	}

	delete(r.peers, addr)
	return true
}

func (r *Registry) Has(addr string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.peers[Normalize(addr)]
	return ok
}

// List returns the peers sorted so callers iterate deterministically.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l := make([]string, 0, len(r.peers))
	for p := range r.peers {
		l = append(l, p)
	}

	sort.Strings(l)

	return l
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.peers)
}

// Load replaces the registry contents.
func (r *Registry) Load(addrs []string) {
	r.mu.Lock()
	r.peers = make(map[string]struct{}, len(addrs))
	r.mu.Unlock()

	for _, a := range addrs {
		r.Add(a)
	}
}
