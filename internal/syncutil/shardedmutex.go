// Package syncutil provides keyed locking primitives used to serialize
// per-player mutations.
package syncutil

import (
	"hash/fnv"
	"sync"
)

// ShardedMutex provides a fixed-size pool of mutexes keyed by string.
// Unlike sync.Map-based per-key locks, this uses bounded memory regardless
// of how many keys are seen, at the cost of occasional false sharing between
// keys that hash to the same shard.
type ShardedMutex struct {
	shards [256]sync.Mutex
}

// Lock acquires the mutex for the given key and returns an unlock function.
func (s *ShardedMutex) Lock(key string) func() {
	mu := s.shard(key)
	mu.Lock()
	return mu.Unlock
}

// LockPair acquires the mutexes for two keys in a fixed global order
// (ascending shard index) so that concurrent two-party operations cannot
// deadlock. Returns a single unlock function releasing both. If both keys
// hash to the same shard only one lock is taken.
func (s *ShardedMutex) LockPair(a, b string) func() {
	ia, ib := s.index(a), s.index(b)
	if ia == ib {
		return s.Lock(a)
	}
	if ia > ib {
		ia, ib = ib, ia
	}
	s.shards[ia].Lock()
	s.shards[ib].Lock()
	return func() {
		s.shards[ib].Unlock()
		s.shards[ia].Unlock()
	}
}

func (s *ShardedMutex) shard(key string) *sync.Mutex {
	return &s.shards[s.index(key)]
}

func (s *ShardedMutex) index(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % 256
}
