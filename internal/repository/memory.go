package repository

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/userhub/userhub/internal/model"
)

// DefaultShardCount is the number of shards used by NewMemoryStore.
const DefaultShardCount = 32

// entry is the canonical stored copy of a record plus its insertion sequence.
type entry struct {
	user model.User
	seq  uint64
}

type shard struct {
	mu    sync.RWMutex
	users map[uuid.UUID]entry
}

// MemoryStore is an in-memory Store split into independently locked shards.
// Operations on one id lock a single shard; range scans lock shards one at a
// time and therefore see a weakly consistent view across keys.
type MemoryStore struct {
	shards []*shard
	seq    atomic.Uint64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore with DefaultShardCount shards.
func NewMemoryStore() *MemoryStore {
	return NewShardedMemoryStore(DefaultShardCount)
}

// NewShardedMemoryStore creates an empty MemoryStore with n shards (at least one).
func NewShardedMemoryStore(n int) *MemoryStore {
	if n < 1 {
		n = 1
	}
	s := &MemoryStore{shards: make([]*shard, n)}
	for i := range s.shards {
		s.shards[i] = &shard{users: make(map[uuid.UUID]entry)}
	}
	return s
}

func (s *MemoryStore) shardFor(id uuid.UUID) *shard {
	// v4 ids are random, the last byte spreads evenly
	return s.shards[int(id[15])%len(s.shards)]
}

// Save implements Store.
func (s *MemoryStore) Save(u *model.User) {
	if !u.HasID() {
		u.ID = uuid.New()
	}

	sh := s.shardFor(u.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	var seq uint64
	if existing, ok := sh.users[u.ID]; ok {
		seq = existing.seq
	} else {
		seq = s.seq.Add(1)
	}
	sh.users[u.ID] = entry{user: u.Clone(), seq: seq}
}

// FindByID implements Store.
func (s *MemoryStore) FindByID(id uuid.UUID) (model.User, bool) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	e, ok := sh.users[id]
	sh.mu.RUnlock()

	if !ok {
		return model.User{}, false
	}
	return e.user.Clone(), true
}

// Delete implements Store.
func (s *MemoryStore) Delete(id uuid.UUID) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	delete(sh.users, id)
	sh.mu.Unlock()
}

// FindByBirthDateRange implements Store.
func (s *MemoryStore) FindByBirthDateRange(from, to model.Date) []model.User {
	matches := make([]entry, 0)

	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, e := range sh.users {
			b := e.user.Birthday
			if b == nil || b.Before(from) || b.After(to) {
				continue
			}
			matches = append(matches, entry{user: e.user.Clone(), seq: e.seq})
		}
		sh.mu.RUnlock()
	}

	sort.Slice(matches, func(i, j int) bool {
		if c := matches[i].user.Birthday.Compare(*matches[j].user.Birthday); c != 0 {
			return c < 0
		}
		return matches[i].seq < matches[j].seq
	})

	users := make([]model.User, len(matches))
	for i, e := range matches {
		users[i] = e.user
	}
	return users
}

// Clear implements Store.
func (s *MemoryStore) Clear() {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.users = make(map[uuid.UUID]entry)
		sh.mu.Unlock()
	}
}

// Count implements Store.
func (s *MemoryStore) Count() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.users)
		sh.mu.RUnlock()
	}
	return total
}
