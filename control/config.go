// control/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread-safe configuration store with dynamic update and hot-reload
// propagation. The dispatcher sources its fairness quota and worker
// count from here; a SetConfig at runtime re-tunes live workers through
// the reload listeners.

package control

import (
	"sync"
)

// Config keys understood by the dispatch package.
const (
	KeyQuota   = "dispatch.quota"
	KeyWorkers = "dispatch.workers"
	KeyPinCPUs = "dispatch.pin_cpus"
)

// ConfigStore is a dynamic key/value map with atomic snapshot and
// listener support.
type ConfigStore struct {
	mu        sync.RWMutex
	config    map[string]any
	listeners []func()
}

// NewConfigStore initializes a new config store with empty data.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		config:    make(map[string]any),
		listeners: make([]func(), 0),
	}
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make(map[string]any, len(cs.config))
	for k, v := range cs.config {
		out[k] = v
	}
	return out
}

// GetInt returns an integer config value, or def when the key is absent
// or not integer-typed.
func (cs *ConfigStore) GetInt(key string, def int) int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	switch v := cs.config[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return def
	}
}

// GetBool returns a boolean config value, or def when absent.
func (cs *ConfigStore) GetBool(key string, def bool) bool {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	if v, ok := cs.config[key].(bool); ok {
		return v
	}
	return def
}

// SetConfig merges new values and dispatches reload listeners.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) {
	cs.mu.Lock()
	for k, v := range newCfg {
		cs.config[k] = v
	}
	listeners := make([]func(), len(cs.listeners))
	copy(listeners, cs.listeners)
	cs.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func()) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}
