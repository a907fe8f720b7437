// Package keyed provides a mutex keyed by string id. Every auction mutation
// (request-driven or sweeper-driven) for the same collectible must serialize
// through the same lock, so the lock lives in-process next to both callers.
package keyed

import (
	"hash/fnv"
	"sync"
)

const defaultShards = 128

// Mutex serializes critical sections per key. Keys are hashed onto a fixed
// set of shards; two distinct keys may share a shard, which only costs
// unnecessary waiting, never lost mutual exclusion.
type Mutex struct {
	shards []sync.Mutex
}

func NewMutex() *Mutex {
	return &Mutex{shards: make([]sync.Mutex, defaultShards)}
}

func (m *Mutex) shard(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &m.shards[h.Sum32()%uint32(len(m.shards))]
}

// Lock acquires the lock for key.
func (m *Mutex) Lock(key string) {
	m.shard(key).Lock()
}

// Unlock releases the lock for key.
func (m *Mutex) Unlock(key string) {
	m.shard(key).Unlock()
}
