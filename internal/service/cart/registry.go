package cart

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Registry hands out one synchronization engine per owner key (the device
// cookie identifying a browser). Engines are created lazily and kept for
// the lifetime of the process; an engine torn down with the process simply
// discards whatever responses were still in flight.
type Registry struct {
	gw  gateway
	ids identityStore
	log *logrus.Logger

	mu      sync.Mutex
	engines map[string]*Engine
}

func NewRegistry(gw gateway, ids identityStore, logger *logrus.Logger) *Registry {
	return &Registry{
		gw:      gw,
		ids:     ids,
		log:     logger,
		engines: make(map[string]*Engine),
	}
}

// For returns the engine bound to the given owner key, creating it on
// first use.
func (r *Registry) For(owner string) *Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	if eng, ok := r.engines[owner]; ok {
		return eng
	}
	eng := NewEngine(r.gw, r.ids, owner, r.log)
	r.engines[owner] = eng
	return eng
}
